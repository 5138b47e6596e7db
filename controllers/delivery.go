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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryController handles delivery-agent accounts and the order status
// progression they drive.
type DeliveryController struct {
	Collection      *mongo.Collection
	OrderCollection *mongo.Collection
}

// NewDeliveryController creates a new DeliveryController
func NewDeliveryController(client *mongo.Client) *DeliveryController {
	db := client.Database(utils.DatabaseName)
	return &DeliveryController{
		Collection:      db.Collection("deliveryboys"),
		OrderCollection: db.Collection("orders"),
	}
}

// statusUpdateFields builds the update for a status change. A COD order
// going to Delivered captures cash at the door, so it also flips is_paid.
func statusUpdateFields(paymentType, status string) bson.M {
	fields := bson.M{"status": status}
	if paymentType == models.PaymentCOD && status == models.StatusDelivered {
		fields["is_paid"] = true
	}
	return fields
}

// Register handles delivery-agent registration and logs the agent in.
func (dc *DeliveryController) Register(w http.ResponseWriter, r *http.Request) {
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

	count, err := dc.Collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.Fail(w, http.StatusBadRequest, "Already registered")
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	boy := models.DeliveryBoy{Name: req.Name, Email: req.Email, Password: hashed}
	result, err := dc.Collection.InsertOne(ctx, boy)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error creating delivery boy")
		return
	}
	boy.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(boy.ID.Hex(), boy.Email, boy.Name, "delivery")
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.SetAuthCookie(w, utils.DeliveryCookie, token)

	utils.OK(w, map[string]interface{}{
		"delivery_boy": map[string]string{"name": boy.Name, "email": boy.Email},
	})
}

// Login handles delivery-agent authentication.
func (dc *DeliveryController) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var boy models.DeliveryBoy
	err := dc.Collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&boy)
	if err != nil || !checkPassword(boy.Password, req.Password) {
		utils.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(boy.ID.Hex(), boy.Email, boy.Name, "delivery")
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.SetAuthCookie(w, utils.DeliveryCookie, token)

	utils.OK(w, map[string]interface{}{
		"delivery_boy": map[string]string{"name": boy.Name, "email": boy.Email},
	})
}

// Logout clears the delivery session cookie.
func (dc *DeliveryController) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ClearAuthCookie(w, utils.DeliveryCookie)
	utils.OK(w, map[string]interface{}{"message": "Logged Out"})
}

// IsAuth returns the authenticated delivery agent's identity.
func (dc *DeliveryController) IsAuth(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.DeliveryClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	boyID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var boy models.DeliveryBoy
	err = dc.Collection.FindOne(ctx, bson.M{"_id": boyID}).Decode(&boy)
	if err != nil {
		utils.Fail(w, http.StatusNotFound, "Delivery boy not found")
		return
	}

	utils.OK(w, map[string]interface{}{"delivery_boy": boy})
}

// GetAssignedOrders lists the agent's assigned orders, newest first.
func (dc *DeliveryController) GetAssignedOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.DeliveryClaims(r)
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	boyID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := dc.OrderCollection.Find(ctx, bson.M{"delivery_boy_id": boyID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error decoding orders")
		return
	}

	utils.OK(w, map[string]interface{}{"orders": orders})
}

// UpdateOrderStatus moves an order to any status in the fixed set.
func (dc *DeliveryController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidStatus(req.Status) {
		utils.Fail(w, http.StatusBadRequest, "Invalid order status")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = dc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		utils.Fail(w, http.StatusNotFound, "Order not found")
		return
	}

	var updated models.Order
	err = dc.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": statusUpdateFields(order.PaymentType, req.Status)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.Fail(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	utils.OK(w, map[string]interface{}{
		"message": "Order status updated",
		"order":   updated,
	})
}

// GetAllDeliveryBoys lists the roster for the seller's assignment dropdown,
// credentials excluded.
func (dc *DeliveryController) GetAllDeliveryBoys(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := dc.Collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to fetch delivery boys")
		return
	}
	defer cursor.Close(ctx)

	boys := []models.DeliveryBoy{}
	if err := cursor.All(ctx, &boys); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error decoding delivery boys")
		return
	}

	utils.OK(w, map[string]interface{}{"delivery_boys": boys})
}
