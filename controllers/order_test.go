package controllers

import (
	"testing"

	"greencart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderAmount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		expected float64
	}{
		{name: "cart of 2x10 plus 1x5", subtotal: 25, expected: 25.50},
		{name: "empty", subtotal: 0, expected: 0},
		{name: "rounding up", subtotal: 29.97, expected: 30.57},
		{name: "whole dollars", subtotal: 100, expected: 102},
		{name: "cents subtotal", subtotal: 0.99, expected: 1.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, orderAmount(tt.subtotal), 1e-9)
		})
	}
}

func TestStripeUnitAmount(t *testing.T) {
	tests := []struct {
		name       string
		offerPrice float64
		expected   int64
	}{
		{name: "ten dollars", offerPrice: 10, expected: 1020},
		{name: "five dollars", offerPrice: 5, expected: 510},
		{name: "odd cents", offerPrice: 9.99, expected: 1019},
		{name: "fifty cents", offerPrice: 0.5, expected: 51},
		{name: "free sample", offerPrice: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripeUnitAmount(tt.offerPrice))
		})
	}
}

func TestFilterSellerItems(t *testing.T) {
	sellerA := primitive.NewObjectID()
	sellerB := primitive.NewObjectID()
	sellerC := primitive.NewObjectID()

	items := []models.OrderItem{
		{Product: primitive.NewObjectID(), Quantity: 2, SellerID: sellerA},
		{Product: primitive.NewObjectID(), Quantity: 1, SellerID: sellerB},
		{Product: primitive.NewObjectID(), Quantity: 3, SellerID: sellerA},
	}

	filtered := filterSellerItems(items, sellerA)
	require.Len(t, filtered, 2)
	for _, item := range filtered {
		assert.Equal(t, sellerA, item.SellerID)
	}

	assert.Len(t, filterSellerItems(items, sellerB), 1)
	assert.Empty(t, filterSellerItems(items, sellerC))
	assert.Empty(t, filterSellerItems(nil, sellerA))
}

func TestCollectProductIDs(t *testing.T) {
	potato := primitive.NewObjectID()
	carrot := primitive.NewObjectID()

	orders := []models.Order{
		{Items: []models.OrderItem{{Product: potato}, {Product: carrot}}},
		{Items: []models.OrderItem{{Product: potato}}},
	}

	ids := collectProductIDs(orders)
	require.Len(t, ids, 2)
	assert.Contains(t, ids, potato)
	assert.Contains(t, ids, carrot)

	assert.Empty(t, collectProductIDs(nil))
	assert.Empty(t, collectProductIDs([]models.Order{{}}))
}

func TestAttachProductDetails(t *testing.T) {
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", Image: []string{"potato.png"}, OfferPrice: 10}
	vanished := primitive.NewObjectID()

	orders := []models.Order{
		{Items: []models.OrderItem{
			{Product: potato.ID, Quantity: 2},
			{Product: vanished, Quantity: 1},
		}},
	}

	attachProductDetails(orders, map[primitive.ObjectID]models.Product{potato.ID: potato})

	details := orders[0].Items[0].ProductDetails
	require.NotNil(t, details)
	assert.Equal(t, "Potato", details.Name)
	assert.Equal(t, []string{"potato.png"}, details.Image)
	assert.InDelta(t, 10, details.OfferPrice, 1e-9)

	// A deleted product leaves its line item bare rather than failing the
	// whole listing.
	assert.Nil(t, orders[0].Items[1].ProductDetails)
}

func TestBuildLineItems(t *testing.T) {
	items := []resolvedItem{
		{Product: models.Product{Name: "Potato", OfferPrice: 10}, Quantity: 2},
		{Product: models.Product{Name: "Carrot", OfferPrice: 5}, Quantity: 1},
	}

	lineItems := buildLineItems(items)
	require.Len(t, lineItems, 2)

	assert.Equal(t, "Potato", *lineItems[0].PriceData.ProductData.Name)
	assert.Equal(t, int64(1020), *lineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(2), *lineItems[0].Quantity)
	assert.Equal(t, "usd", *lineItems[0].PriceData.Currency)

	assert.Equal(t, "Carrot", *lineItems[1].PriceData.ProductData.Name)
	assert.Equal(t, int64(510), *lineItems[1].PriceData.UnitAmount)
	assert.Equal(t, int64(1), *lineItems[1].Quantity)
}
