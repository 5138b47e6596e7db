// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"greencart/middleware"
	"greencart/models"
	"greencart/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taxRate is applied on top of the subtotal for every order.
const taxRate = 0.02

var errInsufficientFunds = errors.New("insufficient wallet balance")

// productStore resolves authoritative product records during placement.
type productStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

// orderWriter persists new orders.
type orderWriter interface {
	Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error)
}

// walletStore moves money on the customer's server-side balance. Debit
// returns errInsufficientFunds when the balance doesn't cover the amount.
type walletStore interface {
	Debit(ctx context.Context, userID primitive.ObjectID, amount float64) error
	Credit(ctx context.Context, userID primitive.ObjectID, amount float64) error
}

type mongoProductStore struct {
	col *mongo.Collection
}

func (s mongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	return product, err
}

type mongoOrderWriter struct {
	col *mongo.Collection
}

func (s mongoOrderWriter) Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	result, err := s.col.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

type mongoWalletStore struct {
	col *mongo.Collection
}

func (s mongoWalletStore) Debit(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	// Conditional debit: the balance filter makes overdraft impossible
	// without a separate read-check-write window.
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": userID, "wallet_balance": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"wallet_balance": -amount}},
	).Err()
	if err == mongo.ErrNoDocuments {
		return errInsufficientFunds
	}
	return err
}

func (s mongoWalletStore) Credit(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$inc": bson.M{"wallet_balance": amount},
	})
	return err
}

// OrderController handles order placement, listing and delivery assignment.
// Placement runs through the narrow stores so its all-or-nothing semantics
// stay exercisable without a live database; listings read the collections
// directly.
type OrderController struct {
	OrderCollection   *mongo.Collection
	ProductCollection *mongo.Collection
	Products          productStore
	Orders            orderWriter
	Wallet            walletStore
	Carts             cartStore
	EmailService      *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService) *OrderController {
	db := client.Database(utils.DatabaseName)
	orders := db.Collection("orders")
	products := db.Collection("products")
	users := db.Collection("users")
	return &OrderController{
		OrderCollection:   orders,
		ProductCollection: products,
		Products:          mongoProductStore{col: products},
		Orders:            mongoOrderWriter{col: orders},
		Wallet:            mongoWalletStore{col: users},
		Carts:             mongoCartStore{col: users},
		EmailService:      emailService,
	}
}

type orderItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type placeOrderRequest struct {
	Items       []orderItemRequest `json:"items"`
	Address     models.Address     `json:"address"`
	PaymentType string             `json:"payment_type"`
}

// resolvedItem pairs a requested quantity with the authoritative product
// record it was priced against.
type resolvedItem struct {
	Product  models.Product
	Quantity int
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// orderAmount computes the order total: subtotal plus 2% tax, rounded to
// two decimals after the sum.
func orderAmount(subtotal float64) float64 {
	return round2(subtotal * (1 + taxRate))
}

// stripeUnitAmount converts a per-unit offer price to taxed cents using the
// same rounding rule as orderAmount.
func stripeUnitAmount(offerPrice float64) int64 {
	return int64(math.Round(offerPrice * (1 + taxRate) * 100))
}

// filterSellerItems returns only the lines whose denormalized seller id
// matches. Sellers never see other sellers' lines within a shared order.
func filterSellerItems(items []models.OrderItem, sellerID primitive.ObjectID) []models.OrderItem {
	filtered := []models.OrderItem{}
	for _, item := range items {
		if item.SellerID == sellerID {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// buildLineItems maps resolved items onto Stripe checkout line items, tax
// included in each unit amount.
func buildLineItems(items []resolvedItem) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Product.Name),
				},
				UnitAmount: stripe.Int64(stripeUnitAmount(item.Product.OfferPrice)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return lineItems
}

// collectProductIDs gathers the distinct product ids across all line items.
func collectProductIDs(orders []models.Order) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, order := range orders {
		for _, item := range order.Items {
			if !seen[item.Product] {
				seen[item.Product] = true
				ids = append(ids, item.Product)
			}
		}
	}
	return ids
}

// attachProductDetails fills each line item's product summary from the
// catalog snapshot. Items whose product has vanished are left bare.
func attachProductDetails(orders []models.Order, byID map[primitive.ObjectID]models.Product) {
	for i := range orders {
		for j := range orders[i].Items {
			if product, ok := byID[orders[i].Items[j].Product]; ok {
				orders[i].Items[j].ProductDetails = &models.ProductSummary{
					Name:       product.Name,
					Image:      product.Image,
					OfferPrice: product.OfferPrice,
				}
			}
		}
	}
}

// populateOrderItems enriches listings with the current product name, image
// and offer price, one batched catalog read per request.
func (oc *OrderController) populateOrderItems(ctx context.Context, orders []models.Order) error {
	ids := collectProductIDs(orders)
	if len(ids) == 0 {
		return nil
	}

	cursor, err := oc.ProductCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	attachProductDetails(orders, byID)
	return nil
}

// resolveItems looks up every requested product. Any unresolvable id or bad
// quantity aborts the whole order; no partial orders.
func (oc *OrderController) resolveItems(ctx context.Context, items []orderItemRequest) ([]resolvedItem, []models.OrderItem, float64, error) {
	resolved := make([]resolvedItem, 0, len(items))
	orderItems := make([]models.OrderItem, 0, len(items))
	subtotal := 0.0

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, nil, 0, fmt.Errorf("quantity must be at least 1")
		}
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("Product with ID %s not found", item.Product)
		}
		product, err := oc.Products.FindByID(ctx, productID)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("Product with ID %s not found", item.Product)
		}

		resolved = append(resolved, resolvedItem{Product: product, Quantity: item.Quantity})
		orderItems = append(orderItems, models.OrderItem{
			Product:  product.ID,
			Quantity: item.Quantity,
			SellerID: product.SellerID,
		})
		subtotal += product.OfferPrice * float64(item.Quantity)
	}
	return resolved, orderItems, subtotal, nil
}

func (oc *OrderController) clearCart(ctx context.Context, userID primitive.ObjectID) {
	if err := oc.Carts.Clear(ctx, userID); err != nil {
		log.Printf("Failed to clear cart for user %s: %v", userID.Hex(), err)
	}
}

// PlaceOrderCOD places a COD or Wallet order. Both are recorded as paid at
// creation: COD settles at the door, Wallet settles against the server-side
// balance right here.
func (oc *OrderController) PlaceOrderCOD(w http.ResponseWriter, r *http.Request) {
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

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		utils.Fail(w, http.StatusBadRequest, "Invalid order data: missing items")
		return
	}
	if !req.Address.Complete() {
		utils.Fail(w, http.StatusBadRequest, "Invalid order data: incomplete address")
		return
	}
	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentCOD
	}
	if paymentType != models.PaymentCOD && paymentType != models.PaymentWallet {
		utils.Fail(w, http.StatusBadRequest, "Invalid payment method")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, orderItems, subtotal, err := oc.resolveItems(ctx, req.Items)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	amount := orderAmount(subtotal)

	if paymentType == models.PaymentWallet {
		err := oc.Wallet.Debit(ctx, userID, amount)
		if err == errInsufficientFunds {
			utils.Fail(w, http.StatusBadRequest, "Insufficient wallet balance")
			return
		}
		if err != nil {
			utils.Fail(w, http.StatusInternalServerError, "Failed to debit wallet")
			return
		}
	}

	order := models.Order{
		UserID:      userID,
		Items:       orderItems,
		Amount:      amount,
		Address:     req.Address,
		PaymentType: paymentType,
		IsPaid:      true,
		Status:      models.StatusOrderPlaced,
		CreatedAt:   time.Now(),
	}
	orderID, err := oc.Orders.Insert(ctx, order)
	if err != nil {
		// The debit already went through; put the money back.
		if paymentType == models.PaymentWallet {
			if refundErr := oc.Wallet.Credit(ctx, userID, amount); refundErr != nil {
				log.Printf("Failed to refund wallet for user %s after order insert failure: %v", userID.Hex(), refundErr)
			}
		}
		utils.Fail(w, http.StatusInternalServerError, "Failed to place order")
		return
	}
	order.ID = orderID

	// Not transactional with the insert; a crash in between leaves a stale
	// cart behind. Accepted.
	oc.clearCart(ctx, userID)

	if oc.EmailService != nil {
		go func(email, name string, order models.Order) {
			if err := oc.EmailService.SendOrderConfirmationEmail(email, name, order); err != nil {
				log.Printf("Failed to send order confirmation to %s: %v", email, err)
			}
		}(claims.Email, claims.Name, order)
	}

	utils.OK(w, map[string]interface{}{"message": "Order Placed Successfully"})
}

// PlaceOrderStripe places an online order and returns the hosted checkout
// URL. The order is persisted as paid before Stripe confirms; the webhook
// deletes it again if the payment fails.
func (oc *OrderController) PlaceOrderStripe(w http.ResponseWriter, r *http.Request) {
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

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		utils.Fail(w, http.StatusBadRequest, "Invalid order data: missing items")
		return
	}
	if !req.Address.Complete() {
		utils.Fail(w, http.StatusBadRequest, "Invalid order data: incomplete address")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resolved, orderItems, subtotal, err := oc.resolveItems(ctx, req.Items)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	order := models.Order{
		UserID:      userID,
		Items:       orderItems,
		Amount:      orderAmount(subtotal),
		Address:     req.Address,
		PaymentType: models.PaymentOnline,
		IsPaid:      true,
		Status:      models.StatusOrderPlaced,
		CreatedAt:   time.Now(),
	}
	orderID, err := oc.Orders.Insert(ctx, order)
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to place order")
		return
	}
	order.ID = orderID

	// Cleared immediately, not on payment confirmation.
	oc.clearCart(ctx, userID)

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  buildLineItems(resolved),
		SuccessURL: stripe.String(origin + "/loader?next=my-orders"),
		CancelURL:  stripe.String(origin + "/cart"),
	}
	params.AddMetadata("orderId", order.ID.Hex())
	params.AddMetadata("userId", userID.Hex())

	sess, err := session.New(params)
	if err != nil {
		// The order stays persisted but unreachable by the customer;
		// recoverable only via support.
		log.Printf("Failed to create checkout session for order %s: %v", order.ID.Hex(), err)
		utils.Fail(w, http.StatusBadGateway, "Failed to create checkout session")
		return
	}

	utils.OK(w, map[string]interface{}{"url": sess.URL})
}

// GetUserOrders lists the customer's orders, newest first. Online orders
// whose payment never completed are excluded.
func (oc *OrderController) GetUserOrders(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"$or": []bson.M{
			{"payment_type": models.PaymentCOD},
			{"payment_type": models.PaymentWallet},
			{"is_paid": true},
		},
	}
	cursor, err := oc.OrderCollection.Find(ctx, filter,
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
	if err := oc.populateOrderItems(ctx, orders); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	utils.OK(w, map[string]interface{}{"orders": orders})
}

// GetSellerOrders lists orders containing the seller's items, each order's
// item list filtered down to that seller, newest first.
func (oc *OrderController) GetSellerOrders(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := oc.OrderCollection.Find(ctx, bson.M{"items.seller_id": sellerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to fetch seller-specific orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Error decoding orders")
		return
	}
	for i := range orders {
		orders[i].Items = filterSellerItems(orders[i].Items, sellerID)
	}
	if err := oc.populateOrderItems(ctx, orders); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to fetch seller-specific orders")
		return
	}

	utils.OK(w, map[string]interface{}{"orders": orders})
}

// AssignDeliveryBoy sets or clears an order's delivery agent. The agent id
// is accepted as-is, without a roster lookup.
func (oc *OrderController) AssignDeliveryBoy(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.SellerClaims(r); !ok {
		utils.Fail(w, http.StatusUnauthorized, "Seller not authenticated")
		return
	}

	var req struct {
		OrderID       string `json:"order_id"`
		DeliveryBoyID string `json:"delivery_boy_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var deliveryBoyID *primitive.ObjectID
	if req.DeliveryBoyID != "" {
		id, err := primitive.ObjectIDFromHex(req.DeliveryBoyID)
		if err != nil {
			utils.Fail(w, http.StatusBadRequest, "Invalid delivery boy ID")
			return
		}
		deliveryBoyID = &id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var updated models.Order
	err = oc.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"delivery_boy_id": deliveryBoyID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.Fail(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to assign delivery boy")
		return
	}

	utils.OK(w, map[string]interface{}{
		"message": "Delivery boy assigned successfully",
		"order":   updated,
	})
}
