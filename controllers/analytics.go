package controllers

import (
	"context"
	"net/http"
	"time"

	"greencart/middleware"
	"greencart/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// SellerAnalytics is one consistent snapshot of a seller's numbers. It is
// computed fresh on every request; there is no materialized state.
type SellerAnalytics struct {
	TotalProducts      int64   `json:"total_products"`
	ProductsInStock    int64   `json:"products_in_stock"`
	ProductsOutOfStock int64   `json:"products_out_of_stock"`
	TotalOrders        int64   `json:"total_orders"`
	TotalRevenue       float64 `json:"total_revenue"`
	PendingOrders      int64   `json:"pending_orders"`
}

// AnalyticsController serves read-only rollups scoped to one seller.
type AnalyticsController struct {
	ProductCollection *mongo.Collection
	OrderCollection   *mongo.Collection
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(client *mongo.Client) *AnalyticsController {
	db := client.Database(utils.DatabaseName)
	return &AnalyticsController{
		ProductCollection: db.Collection("products"),
		OrderCollection:   db.Collection("orders"),
	}
}

// sellerRevenue sums the seller's line items within paid orders, each line
// valued at the product's current offer price. Repricing a product shifts
// past revenue figures; that live valuation is deliberate.
func (ac *AnalyticsController) sellerRevenue(ctx context.Context, sellerID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_paid": true, "items.seller_id": sellerID}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$match", Value: bson.M{"items.seller_id": sellerID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "items.product",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"total": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$items.quantity", "$product.offer_price"},
			}},
		}}},
	}

	cursor, err := ac.OrderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// GetSellerAnalytics returns the six-figure snapshot for the authenticated
// seller. The sub-queries fan out together; if any one fails the whole
// request fails, never a partial snapshot.
func (ac *AnalyticsController) GetSellerAnalytics(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var data SellerAnalytics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := ac.ProductCollection.CountDocuments(gctx, bson.M{"seller_id": sellerID})
		data.TotalProducts = n
		return err
	})
	g.Go(func() error {
		n, err := ac.ProductCollection.CountDocuments(gctx, bson.M{"seller_id": sellerID, "in_stock": true})
		data.ProductsInStock = n
		return err
	})
	g.Go(func() error {
		n, err := ac.ProductCollection.CountDocuments(gctx, bson.M{"seller_id": sellerID, "in_stock": false})
		data.ProductsOutOfStock = n
		return err
	})
	g.Go(func() error {
		n, err := ac.OrderCollection.CountDocuments(gctx, bson.M{"items.seller_id": sellerID})
		data.TotalOrders = n
		return err
	})
	g.Go(func() error {
		total, err := ac.sellerRevenue(gctx, sellerID)
		data.TotalRevenue = total
		return err
	})
	g.Go(func() error {
		n, err := ac.OrderCollection.CountDocuments(gctx, bson.M{"items.seller_id": sellerID, "is_paid": false})
		data.PendingOrders = n
		return err
	})

	if err := g.Wait(); err != nil {
		utils.Fail(w, http.StatusInternalServerError, "Failed to fetch analytics data")
		return
	}

	utils.OK(w, map[string]interface{}{
		"message": "Analytics data fetched successfully",
		"data":    data,
	})
}
