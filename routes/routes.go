// routes/routes.go
package routes

import (
	"greencart/controllers"
	"greencart/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	sellerController *controllers.SellerController,
	deliveryController *controllers.DeliveryController,
	productController *controllers.ProductController,
	orderController *controllers.OrderController,
	analyticsController *controllers.AnalyticsController,
	webhookController *controllers.WebhookController,
) {
	// Stripe webhook: signature-authenticated, must stay outside cookie auth.
	router.HandleFunc("/api/order/stripe-webhook", webhookController.HandleStripeWebhook).Methods("POST")

	// Customer routes
	user := router.PathPrefix("/api/user").Subrouter()
	user.HandleFunc("/register", userController.Register).Methods("POST")
	user.HandleFunc("/login", userController.Login).Methods("POST")
	user.HandleFunc("/logout", userController.Logout).Methods("GET")

	userAuth := router.PathPrefix("/api/user").Subrouter()
	userAuth.Use(middleware.AuthUser)
	userAuth.HandleFunc("/is-auth", userController.IsAuth).Methods("GET")
	userAuth.HandleFunc("/wallet", userController.GetWallet).Methods("GET")
	userAuth.HandleFunc("/wallet/add", userController.AddWalletFunds).Methods("POST")

	cart := router.PathPrefix("/api/cart").Subrouter()
	cart.Use(middleware.AuthUser)
	cart.HandleFunc("/update", userController.UpdateCart).Methods("POST")

	// Seller routes
	seller := router.PathPrefix("/api/seller").Subrouter()
	seller.HandleFunc("/register", sellerController.Register).Methods("POST")
	seller.HandleFunc("/login", sellerController.Login).Methods("POST")
	seller.HandleFunc("/logout", sellerController.Logout).Methods("GET")

	sellerAuth := router.PathPrefix("/api/seller").Subrouter()
	sellerAuth.Use(middleware.AuthSeller)
	sellerAuth.HandleFunc("/is-auth", sellerController.IsAuth).Methods("GET")
	sellerAuth.HandleFunc("/analytics", analyticsController.GetSellerAnalytics).Methods("GET")

	// Product routes
	router.HandleFunc("/api/product/all", productController.GetAllProducts).Methods("GET")

	productAuth := router.PathPrefix("/api/product").Subrouter()
	productAuth.Use(middleware.AuthSeller)
	productAuth.HandleFunc("/add", productController.AddProduct).Methods("POST")
	productAuth.HandleFunc("/seller-list", productController.GetSellerProducts).Methods("GET")
	productAuth.HandleFunc("/stock", productController.ChangeStock).Methods("POST")

	// Registered after the fixed product paths so it doesn't shadow them.
	router.HandleFunc("/api/product/{id}", productController.GetProductByID).Methods("GET")

	// Order routes
	orderUser := router.PathPrefix("/api/order").Subrouter()
	orderUser.Use(middleware.AuthUser)
	orderUser.HandleFunc("/cod", orderController.PlaceOrderCOD).Methods("POST")
	orderUser.HandleFunc("/stripe", orderController.PlaceOrderStripe).Methods("POST")
	orderUser.HandleFunc("/user", orderController.GetUserOrders).Methods("GET")

	orderSeller := router.PathPrefix("/api/order").Subrouter()
	orderSeller.Use(middleware.AuthSeller)
	orderSeller.HandleFunc("/seller", orderController.GetSellerOrders).Methods("GET")
	orderSeller.HandleFunc("/assign-delivery", orderController.AssignDeliveryBoy).Methods("POST")
	orderSeller.HandleFunc("/update-status", deliveryController.UpdateOrderStatus).Methods("POST")

	// Delivery routes
	delivery := router.PathPrefix("/api/delivery").Subrouter()
	delivery.HandleFunc("/register", deliveryController.Register).Methods("POST")
	delivery.HandleFunc("/login", deliveryController.Login).Methods("POST")

	deliveryAuth := router.PathPrefix("/api/delivery").Subrouter()
	deliveryAuth.Use(middleware.AuthDelivery)
	deliveryAuth.HandleFunc("/logout", deliveryController.Logout).Methods("GET")
	deliveryAuth.HandleFunc("/is-auth", deliveryController.IsAuth).Methods("GET")
	deliveryAuth.HandleFunc("/orders", deliveryController.GetAssignedOrders).Methods("GET")
	deliveryAuth.HandleFunc("/update-status", deliveryController.UpdateOrderStatus).Methods("POST")

	// Roster for the seller's assignment dropdown.
	deliveryRoster := router.PathPrefix("/api/delivery").Subrouter()
	deliveryRoster.Use(middleware.AuthSeller)
	deliveryRoster.HandleFunc("/all", deliveryController.GetAllDeliveryBoys).Methods("GET")
}
