package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"greencart/middleware"
	"greencart/models"
	"greencart/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SellerController handles seller accounts.
type SellerController struct {
	Collection *mongo.Collection
}

// NewSellerController creates a new SellerController
func NewSellerController(client *mongo.Client) *SellerController {
	collection := client.Database(utils.DatabaseName).Collection("sellers")
	return &SellerController{
		Collection: collection,
	}
}

// Register handles seller registration.
func (sc *SellerController) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.Fail(w, http.StatusBadRequest, "Missing name, email or password")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := sc.Collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.Fail(w, http.StatusBadRequest, "Seller with this email already exists")
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	seller := models.Seller{Name: req.Name, Email: req.Email, Password: hashed}
	if _, err := sc.Collection.InsertOne(ctx, seller); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error creating seller")
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Seller registered successfully",
	})
}

// Login handles seller authentication and sets the seller session cookie.
func (sc *SellerController) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var seller models.Seller
	err := sc.Collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&seller)
	if err != nil || !checkPassword(seller.Password, req.Password) {
		utils.Fail(w, http.StatusUnauthorized, "Invalid Credentials")
		return
	}

	token, err := utils.GenerateJWT(seller.ID.Hex(), seller.Email, seller.Name, "seller")
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.SetAuthCookie(w, utils.SellerCookie, token)

	utils.OK(w, map[string]interface{}{"message": "Logged In"})
}

// Logout clears the seller session cookie.
func (sc *SellerController) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ClearAuthCookie(w, utils.SellerCookie)
	utils.OK(w, map[string]interface{}{"message": "Logged Out"})
}

// IsAuth returns the authenticated seller's identity.
func (sc *SellerController) IsAuth(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SellerClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	sellerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var seller models.Seller
	err = sc.Collection.FindOne(ctx, bson.M{"_id": sellerID}).Decode(&seller)
	if err != nil {
		utils.Fail(w, http.StatusNotFound, "Seller not found")
		return
	}

	utils.OK(w, map[string]interface{}{"seller": seller})
}
