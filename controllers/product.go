package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"greencart/middleware"
	"greencart/models"
	"greencart/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductController handles product-related requests
type ProductController struct {
	Collection *mongo.Collection
}

// NewProductController creates a new ProductController
func NewProductController(client *mongo.Client) *ProductController {
	collection := client.Database(utils.DatabaseName).Collection("products")
	return &ProductController{
		Collection: collection,
	}
}

// AddProduct creates a product owned by the authenticated seller. Image
// upload to a media host is out of scope; the body carries image URLs.
func (pc *ProductController) AddProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SellerClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Seller not authenticated")
		return
	}
	sellerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Seller not authenticated")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if product.Name == "" || product.Category == "" || len(product.Image) == 0 {
		utils.Fail(w, http.StatusBadRequest, "Missing name, category or image")
		return
	}
	if product.OfferPrice < 0 || product.Price < 0 {
		utils.Fail(w, http.StatusBadRequest, "Price must not be negative")
		return
	}

	product.ID = primitive.NilObjectID
	product.SellerID = sellerID
	product.InStock = true
	product.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := pc.Collection.InsertOne(ctx, product); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Product Added",
	})
}

// GetAllProducts retrieves the full catalog for the storefront.
func (pc *ProductController) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := pc.Collection.Find(ctx, bson.M{})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	utils.OK(w, map[string]interface{}{"products": products})
}

// GetSellerProducts retrieves the authenticated seller's products.
func (pc *ProductController) GetSellerProducts(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SellerClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Seller not authenticated")
		return
	}
	sellerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Seller not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := pc.Collection.Find(ctx, bson.M{"seller_id": sellerID})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	utils.OK(w, map[string]interface{}{"products": products})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		utils.Fail(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.OK(w, map[string]interface{}{"product": product})
}

// ChangeStock flips the in-stock flag on one of the seller's own products.
// Products belonging to other sellers come back not-found.
func (pc *ProductController) ChangeStock(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SellerClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Seller not authenticated")
		return
	}
	sellerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Seller not authenticated")
		return
	}

	var req struct {
		ID      string `json:"id"`
		InStock bool   `json:"in_stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var updated models.Product
	err = pc.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": productID, "seller_id": sellerID},
		bson.M{"$set": bson.M{"in_stock": req.InStock}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.Fail(w, http.StatusNotFound, "Product not found or not owned by this seller")
		return
	}
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error updating stock")
		return
	}

	utils.OK(w, map[string]interface{}{"message": "Stock Updated"})
}
