// controllers/webhook.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"greencart/models"
	"greencart/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// orderStore is the slice of order persistence the webhook needs.
type orderStore interface {
	// MarkPaid sets is_paid and resets status to "Order Placed". Repeating
	// it for the same order is harmless, which is what makes at-least-once
	// webhook delivery safe without a dedup store.
	MarkPaid(ctx context.Context, orderID primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, orderID primitive.ObjectID) error
}

// cartStore clears a customer's server-side cart.
type cartStore interface {
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// sessionResolver maps a payment intent back to the checkout session
// metadata it was created with.
type sessionResolver interface {
	Resolve(ctx context.Context, paymentIntentID string) (orderID, userID string, err error)
}

type mongoOrderStore struct {
	col *mongo.Collection
}

func (s mongoOrderStore) MarkPaid(ctx context.Context, orderID primitive.ObjectID) (bool, error) {
	result, err := s.col.UpdateByID(ctx, orderID, bson.M{
		"$set": bson.M{"is_paid": true, "status": models.StatusOrderPlaced},
	})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (s mongoOrderStore) Delete(ctx context.Context, orderID primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": orderID})
	return err
}

type mongoCartStore struct {
	col *mongo.Collection
}

func (s mongoCartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"cart_items": map[string]int{}},
	})
	return err
}

type stripeSessionResolver struct{}

func (stripeSessionResolver) Resolve(ctx context.Context, paymentIntentID string) (string, string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Limit = stripe.Int64(1)
	params.Context = ctx

	iter := session.List(params)
	for iter.Next() {
		sess := iter.CheckoutSession()
		return sess.Metadata["orderId"], sess.Metadata["userId"], nil
	}
	if err := iter.Err(); err != nil {
		return "", "", err
	}
	return "", "", fmt.Errorf("no checkout session for payment intent %s", paymentIntentID)
}

// WebhookController receives Stripe payment events and reconciles them with
// order state.
type WebhookController struct {
	Secret   string
	Sessions sessionResolver
	Orders   orderStore
	Carts    cartStore
}

// NewWebhookController creates a WebhookController backed by Mongo and the
// live Stripe API.
func NewWebhookController(client *mongo.Client, secret string) *WebhookController {
	db := client.Database(utils.DatabaseName)
	return &WebhookController{
		Secret:   secret,
		Sessions: stripeSessionResolver{},
		Orders:   mongoOrderStore{col: db.Collection("orders")},
		Carts:    mongoCartStore{col: db.Collection("users")},
	}
}

// HandleStripeWebhook verifies the event signature, then reconciles payment
// outcomes. Unsigned or garbled payloads get a 4xx and touch nothing. Once
// the signature checks out the response is always 200: Stripe delivers
// at-least-once and retries anything else forever, so internal failures are
// logged, not surfaced.
func (wc *WebhookController) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), wc.Secret)
	if err != nil {
		log.Printf("Stripe webhook signature verification failed: %v", err)
		utils.Fail(w, http.StatusBadRequest, "Webhook signature verification failed")
		return
	}

	ctx := r.Context()

	switch string(event.Type) {
	case "payment_intent.succeeded":
		wc.handlePaymentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		wc.handlePaymentFailed(ctx, event)
	default:
		log.Printf("Unhandled Stripe event type %s", event.Type)
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"received": true})
}

func (wc *WebhookController) handlePaymentSucceeded(ctx context.Context, event stripe.Event) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Printf("Failed to decode payment intent from event %s: %v", event.ID, err)
		return
	}

	orderIDHex, userIDHex, err := wc.Sessions.Resolve(ctx, intent.ID)
	if err != nil {
		log.Printf("Failed to resolve checkout session for %s: %v", intent.ID, err)
		return
	}
	orderID, err := primitive.ObjectIDFromHex(orderIDHex)
	if err != nil {
		log.Printf("Invalid order id %q in session metadata for %s", orderIDHex, intent.ID)
		return
	}

	found, err := wc.Orders.MarkPaid(ctx, orderID)
	if err != nil {
		log.Printf("Failed to mark order %s paid: %v", orderIDHex, err)
		return
	}
	if !found {
		log.Printf("Order %s not found during success webhook", orderIDHex)
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		log.Printf("Invalid user id %q in session metadata for %s", userIDHex, intent.ID)
		return
	}
	if err := wc.Carts.Clear(ctx, userID); err != nil {
		log.Printf("Failed to clear cart for user %s: %v", userIDHex, err)
	}
}

func (wc *WebhookController) handlePaymentFailed(ctx context.Context, event stripe.Event) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Printf("Failed to decode payment intent from event %s: %v", event.ID, err)
		return
	}

	orderIDHex, _, err := wc.Sessions.Resolve(ctx, intent.ID)
	if err != nil {
		log.Printf("Failed to resolve checkout session for failed %s: %v", intent.ID, err)
		return
	}
	orderID, err := primitive.ObjectIDFromHex(orderIDHex)
	if err != nil {
		log.Printf("Invalid order id %q in session metadata for %s", orderIDHex, intent.ID)
		return
	}

	// Compensates the optimistic creation on the Stripe placement path.
	if err := wc.Orders.Delete(ctx, orderID); err != nil {
		log.Printf("Failed to delete order %s after failed payment: %v", orderIDHex, err)
	}
}
