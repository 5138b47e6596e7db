package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods accepted at order placement.
const (
	PaymentCOD    = "COD"
	PaymentOnline = "Online"
	PaymentWallet = "Wallet"
)

// Order statuses. This is a flat set of allowed values, not an ordered
// chain: sellers and delivery agents may move an order between any of them.
const (
	StatusOrderPlaced    = "Order Placed"
	StatusProcessing     = "Processing"
	StatusConfirmed      = "Confirmed"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

var orderStatuses = map[string]bool{
	StatusOrderPlaced:    true,
	StatusProcessing:     true,
	StatusConfirmed:      true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusCancelled:      true,
}

// ValidStatus reports whether s is one of the allowed order statuses.
func ValidStatus(s string) bool {
	return orderStatuses[s]
}

// ValidPaymentType reports whether p is an accepted payment method.
func ValidPaymentType(p string) bool {
	return p == PaymentCOD || p == PaymentOnline || p == PaymentWallet
}

// Address is embedded on the order; every field is required.
type Address struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zipcode   string `bson:"zipcode" json:"zipcode"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

// Complete reports whether every address field is filled in.
func (a Address) Complete() bool {
	return a.FirstName != "" && a.LastName != "" && a.Street != "" &&
		a.City != "" && a.State != "" && a.Zipcode != "" &&
		a.Country != "" && a.Phone != ""
}

// ProductSummary is the slice of product data attached to order line items
// in listings. Never persisted; filled in at read time from the catalog.
type ProductSummary struct {
	Name       string   `json:"name"`
	Image      []string `json:"image"`
	OfferPrice float64  `json:"offer_price"`
}

// OrderItem is one line of an order. SellerID is copied from the product at
// order-creation time and never changes afterward, so per-seller order views
// and analytics never need a join-time seller lookup.
type OrderItem struct {
	Product        primitive.ObjectID `bson:"product" json:"product"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	SellerID       primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	ProductDetails *ProductSummary    `bson:"-" json:"product_details,omitempty"`
}

// Order is created in one step from a cart snapshot and afterwards mutated
// only through status transitions, payment reconciliation, or delivery
// (re)assignment. Amount is computed server-side from authoritative product
// prices, never trusted from the client.
type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Items         []OrderItem         `bson:"items" json:"items"`
	Amount        float64             `bson:"amount" json:"amount"`
	Address       Address             `bson:"address" json:"address"`
	PaymentType   string              `bson:"payment_type" json:"payment_type"`
	IsPaid        bool                `bson:"is_paid" json:"is_paid"`
	Status        string              `bson:"status" json:"status"`
	DeliveryBoyID *primitive.ObjectID `bson:"delivery_boy_id" json:"delivery_boy_id"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
}
