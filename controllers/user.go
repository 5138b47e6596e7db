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

// UserController handles customer accounts, the server-side cart, and the
// wallet balance.
type UserController struct {
	Collection *mongo.Collection
}

// NewUserController creates a new UserController
func NewUserController(client *mongo.Client) *UserController {
	collection := client.Database(utils.DatabaseName).Collection("users")
	return &UserController{
		Collection: collection,
	}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles customer registration and logs the customer in.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
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

	count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.Fail(w, http.StatusBadRequest, "User already exists")
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	user := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashed,
		CartItems: map[string]int{},
	}
	result, err := uc.Collection.InsertOne(ctx, user)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Name, "user")
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.SetAuthCookie(w, utils.UserCookie, token)

	utils.OK(w, map[string]interface{}{
		"user": map[string]string{"name": user.Name, "email": user.Email},
	})
}

// Login handles customer authentication.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !checkPassword(user.Password, req.Password) {
		utils.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Name, "user")
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.SetAuthCookie(w, utils.UserCookie, token)

	utils.OK(w, map[string]interface{}{
		"user": map[string]string{"name": user.Name, "email": user.Email},
	})
}

// Logout clears the customer session cookie.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ClearAuthCookie(w, utils.UserCookie)
	utils.OK(w, map[string]interface{}{"message": "Logged Out"})
}

// IsAuth returns the authenticated customer, cart included.
func (uc *UserController) IsAuth(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = uc.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	utils.OK(w, map[string]interface{}{"user": user})
}

// UpdateCart replaces the customer's server-side cart. The client debounces
// edits, so each call carries the full cart map.
func (uc *UserController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		CartItems map[string]int `json:"cart_items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.CartItems == nil {
		req.CartItems = map[string]int{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := uc.Collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"cart_items": req.CartItems},
	})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error updating cart")
		return
	}
	if result.MatchedCount == 0 {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	utils.OK(w, map[string]interface{}{"message": "Cart Updated"})
}

// GetWallet returns the customer's wallet balance.
func (uc *UserController) GetWallet(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = uc.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	utils.OK(w, map[string]interface{}{"balance": user.WalletBalance})
}

// AddWalletFunds credits the customer's wallet.
func (uc *UserController) AddWalletFunds(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Amount <= 0 {
		utils.Fail(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := uc.Collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$inc": bson.M{"wallet_balance": req.Amount},
	})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error updating wallet")
		return
	}
	if result.MatchedCount == 0 {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	utils.OK(w, map[string]interface{}{"message": "Wallet funded"})
}
