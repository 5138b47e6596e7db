package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"greencart/middleware"
	"greencart/models"
	"greencart/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeProductStore struct {
	products map[primitive.ObjectID]models.Product
}

func newFakeProductStore(products ...models.Product) *fakeProductStore {
	byID := map[primitive.ObjectID]models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	return &fakeProductStore{products: byID}
}

func (f *fakeProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return models.Product{}, mongo.ErrNoDocuments
	}
	return product, nil
}

type fakeOrderWriter struct {
	insertErr error
	inserted  []models.Order
}

func (f *fakeOrderWriter) Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	if f.insertErr != nil {
		return primitive.NilObjectID, f.insertErr
	}
	order.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, order)
	return order.ID, nil
}

type fakeWalletStore struct {
	balance float64
	debits  []float64
	credits []float64
}

func (f *fakeWalletStore) Debit(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	if f.balance < amount {
		return errInsufficientFunds
	}
	f.balance -= amount
	f.debits = append(f.debits, amount)
	return nil
}

func (f *fakeWalletStore) Credit(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	f.balance += amount
	f.credits = append(f.credits, amount)
	return nil
}

func placementController(products *fakeProductStore, orders *fakeOrderWriter, wallet *fakeWalletStore, carts *fakeCartStore) *OrderController {
	return &OrderController{
		Products: products,
		Orders:   orders,
		Wallet:   wallet,
		Carts:    carts,
	}
}

func placementRequest(t *testing.T, userID primitive.ObjectID, body placeOrderRequest) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/order/cod", bytes.NewReader(payload))
	claims := &utils.Claims{ID: userID.Hex(), Email: "customer@example.com", Name: "Test Customer"}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func testAddress() models.Address {
	return models.Address{
		FirstName: "Ada", LastName: "Lovelace", Street: "1 Main St",
		City: "Springfield", State: "IL", Zipcode: "62701",
		Country: "US", Phone: "5551234567",
	}
}

func TestPlaceOrderCODComputesAmountAndClearsCart(t *testing.T) {
	userID := primitive.NewObjectID()
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", OfferPrice: 10, SellerID: primitive.NewObjectID()}
	carrot := models.Product{ID: primitive.NewObjectID(), Name: "Carrot", OfferPrice: 5, SellerID: primitive.NewObjectID()}

	orders := &fakeOrderWriter{}
	carts := &fakeCartStore{}
	oc := placementController(newFakeProductStore(potato, carrot), orders, &fakeWalletStore{}, carts)

	req := placementRequest(t, userID, placeOrderRequest{
		Items: []orderItemRequest{
			{Product: potato.ID.Hex(), Quantity: 2},
			{Product: carrot.ID.Hex(), Quantity: 1},
		},
		Address:     testAddress(),
		PaymentType: models.PaymentCOD,
	})
	rec := httptest.NewRecorder()
	oc.PlaceOrderCOD(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, orders.inserted, 1)

	order := orders.inserted[0]
	assert.Equal(t, userID, order.UserID)
	assert.InDelta(t, 25.50, order.Amount, 1e-9)
	assert.Equal(t, models.PaymentCOD, order.PaymentType)
	assert.True(t, order.IsPaid)
	assert.Equal(t, models.StatusOrderPlaced, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, potato.SellerID, order.Items[0].SellerID)

	assert.Equal(t, []primitive.ObjectID{userID}, carts.cleared)
}

func TestPlaceOrderCODUnresolvableProductAbortsEverything(t *testing.T) {
	userID := primitive.NewObjectID()
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", OfferPrice: 10}

	orders := &fakeOrderWriter{}
	wallet := &fakeWalletStore{balance: 100}
	carts := &fakeCartStore{}
	oc := placementController(newFakeProductStore(potato), orders, wallet, carts)

	req := placementRequest(t, userID, placeOrderRequest{
		Items: []orderItemRequest{
			{Product: potato.ID.Hex(), Quantity: 1},
			{Product: primitive.NewObjectID().Hex(), Quantity: 1},
		},
		Address:     testAddress(),
		PaymentType: models.PaymentWallet,
	})
	rec := httptest.NewRecorder()
	oc.PlaceOrderCOD(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, orders.inserted)
	assert.Empty(t, carts.cleared)
	assert.Empty(t, wallet.debits)
	assert.InDelta(t, 100, wallet.balance, 1e-9)
}

func TestPlaceOrderCODRejectsBadQuantity(t *testing.T) {
	userID := primitive.NewObjectID()
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", OfferPrice: 10}

	orders := &fakeOrderWriter{}
	carts := &fakeCartStore{}
	oc := placementController(newFakeProductStore(potato), orders, &fakeWalletStore{}, carts)

	req := placementRequest(t, userID, placeOrderRequest{
		Items:       []orderItemRequest{{Product: potato.ID.Hex(), Quantity: 0}},
		Address:     testAddress(),
		PaymentType: models.PaymentCOD,
	})
	rec := httptest.NewRecorder()
	oc.PlaceOrderCOD(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, orders.inserted)
	assert.Empty(t, carts.cleared)
}

func TestPlaceOrderWalletInsufficientBalance(t *testing.T) {
	userID := primitive.NewObjectID()
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", OfferPrice: 10}

	orders := &fakeOrderWriter{}
	wallet := &fakeWalletStore{balance: 5}
	carts := &fakeCartStore{}
	oc := placementController(newFakeProductStore(potato), orders, wallet, carts)

	req := placementRequest(t, userID, placeOrderRequest{
		Items:       []orderItemRequest{{Product: potato.ID.Hex(), Quantity: 1}},
		Address:     testAddress(),
		PaymentType: models.PaymentWallet,
	})
	rec := httptest.NewRecorder()
	oc.PlaceOrderCOD(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, orders.inserted)
	assert.Empty(t, carts.cleared)
	assert.InDelta(t, 5, wallet.balance, 1e-9)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Insufficient wallet balance", body["message"])
}

func TestPlaceOrderWalletRefundsDebitWhenInsertFails(t *testing.T) {
	userID := primitive.NewObjectID()
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", OfferPrice: 10}

	orders := &fakeOrderWriter{insertErr: errors.New("write concern timeout")}
	wallet := &fakeWalletStore{balance: 50}
	carts := &fakeCartStore{}
	oc := placementController(newFakeProductStore(potato), orders, wallet, carts)

	req := placementRequest(t, userID, placeOrderRequest{
		Items:       []orderItemRequest{{Product: potato.ID.Hex(), Quantity: 2}},
		Address:     testAddress(),
		PaymentType: models.PaymentWallet,
	})
	rec := httptest.NewRecorder()
	oc.PlaceOrderCOD(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, orders.inserted)
	assert.Empty(t, carts.cleared)

	// The failed insert must not eat the customer's money.
	require.Len(t, wallet.debits, 1)
	require.Len(t, wallet.credits, 1)
	assert.InDelta(t, wallet.debits[0], wallet.credits[0], 1e-9)
	assert.InDelta(t, 50, wallet.balance, 1e-9)
}

func TestPlaceOrderWalletDebitsTaxedAmount(t *testing.T) {
	userID := primitive.NewObjectID()
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", OfferPrice: 10}

	orders := &fakeOrderWriter{}
	wallet := &fakeWalletStore{balance: 50}
	oc := placementController(newFakeProductStore(potato), orders, wallet, &fakeCartStore{})

	req := placementRequest(t, userID, placeOrderRequest{
		Items:       []orderItemRequest{{Product: potato.ID.Hex(), Quantity: 2}},
		Address:     testAddress(),
		PaymentType: models.PaymentWallet,
	})
	rec := httptest.NewRecorder()
	oc.PlaceOrderCOD(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, wallet.debits, 1)
	assert.InDelta(t, 20.40, wallet.debits[0], 1e-9)
	assert.InDelta(t, 29.60, wallet.balance, 1e-9)
	require.Len(t, orders.inserted, 1)
	assert.Equal(t, models.PaymentWallet, orders.inserted[0].PaymentType)
}

func TestPlaceOrderCODRejectsIncompleteAddress(t *testing.T) {
	userID := primitive.NewObjectID()
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", OfferPrice: 10}

	orders := &fakeOrderWriter{}
	oc := placementController(newFakeProductStore(potato), orders, &fakeWalletStore{}, &fakeCartStore{})

	address := testAddress()
	address.Zipcode = ""
	req := placementRequest(t, userID, placeOrderRequest{
		Items:       []orderItemRequest{{Product: potato.ID.Hex(), Quantity: 1}},
		Address:     address,
		PaymentType: models.PaymentCOD,
	})
	rec := httptest.NewRecorder()
	oc.PlaceOrderCOD(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, orders.inserted)
}

func TestResolveItems(t *testing.T) {
	potato := models.Product{ID: primitive.NewObjectID(), Name: "Potato", OfferPrice: 10, SellerID: primitive.NewObjectID()}
	carrot := models.Product{ID: primitive.NewObjectID(), Name: "Carrot", OfferPrice: 5.25, SellerID: primitive.NewObjectID()}
	oc := &OrderController{Products: newFakeProductStore(potato, carrot)}
	ctx := context.Background()

	t.Run("resolves products and sums subtotal", func(t *testing.T) {
		resolved, items, subtotal, err := oc.resolveItems(ctx, []orderItemRequest{
			{Product: potato.ID.Hex(), Quantity: 2},
			{Product: carrot.ID.Hex(), Quantity: 3},
		})
		require.NoError(t, err)
		require.Len(t, resolved, 2)
		require.Len(t, items, 2)
		assert.InDelta(t, 35.75, subtotal, 1e-9)
		assert.Equal(t, potato.ID, items[0].Product)
		assert.Equal(t, potato.SellerID, items[0].SellerID)
		assert.Equal(t, 3, items[1].Quantity)
	})

	t.Run("unknown product id fails", func(t *testing.T) {
		_, _, _, err := oc.resolveItems(ctx, []orderItemRequest{
			{Product: primitive.NewObjectID().Hex(), Quantity: 1},
		})
		assert.Error(t, err)
	})

	t.Run("malformed product id fails", func(t *testing.T) {
		_, _, _, err := oc.resolveItems(ctx, []orderItemRequest{
			{Product: "not-a-hex-id", Quantity: 1},
		})
		assert.Error(t, err)
	})

	t.Run("zero quantity fails", func(t *testing.T) {
		_, _, _, err := oc.resolveItems(ctx, []orderItemRequest{
			{Product: potato.ID.Hex(), Quantity: 0},
		})
		assert.Error(t, err)
	})

	t.Run("negative quantity fails", func(t *testing.T) {
		_, _, _, err := oc.resolveItems(ctx, []orderItemRequest{
			{Product: potato.ID.Hex(), Quantity: -2},
		})
		assert.Error(t, err)
	})
}
