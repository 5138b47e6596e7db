package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry owned by one seller. Only the seller may flip
// the stock flag or edit it; customers read it through the public listing.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description []string           `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	OfferPrice  float64            `bson:"offer_price" json:"offer_price"`
	Image       []string           `bson:"image" json:"image"`
	InStock     bool               `bson:"in_stock" json:"in_stock"`
	SellerID    primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
