package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a customer. CartItems is the authoritative server-side
// copy of the cart, keyed by product id hex; the client syncs against it.
// The wallet balance lives here too, never on the client.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password,omitempty" json:"-"`
	CartItems     map[string]int     `bson:"cart_items" json:"cart_items"`
	WalletBalance float64            `bson:"wallet_balance" json:"wallet_balance"`
}

// Seller owns products and sees only its own slice of shared orders.
type Seller struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
}

// DeliveryBoy is a delivery agent assignable to orders.
type DeliveryBoy struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
}
