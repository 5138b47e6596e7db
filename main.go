// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"greencart/controllers"
	"greencart/routes"
	"greencart/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key and Stripe API key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Initialize controllers
	userController := controllers.NewUserController(client)
	sellerController := controllers.NewSellerController(client)
	deliveryController := controllers.NewDeliveryController(client)
	productController := controllers.NewProductController(client)
	orderController := controllers.NewOrderController(client, emailService)
	analyticsController := controllers.NewAnalyticsController(client)
	webhookController := controllers.NewWebhookController(client, os.Getenv("STRIPE_WEBHOOK_SECRET"))

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router,
		userController,
		sellerController,
		deliveryController,
		productController,
		orderController,
		analyticsController,
		webhookController,
	)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
