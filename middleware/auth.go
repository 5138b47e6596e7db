package middleware

import (
	"context"
	"net/http"

	"greencart/utils"
)

// Key type for context
type contextKey string

const (
	UserContextKey     = contextKey("user")
	SellerContextKey   = contextKey("seller")
	DeliveryContextKey = contextKey("delivery")
)

func authCookie(cookieName string, ctxKey contextKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				utils.Fail(w, http.StatusUnauthorized, "Not Authorized: No token provided")
				return
			}

			claims, err := utils.ParseToken(cookie.Value)
			if err != nil {
				utils.Fail(w, http.StatusUnauthorized, "Not Authorized: Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthUser verifies the customer session cookie and attaches its claims to
// the request context.
var AuthUser = authCookie(utils.UserCookie, UserContextKey)

// AuthSeller verifies the seller session cookie.
var AuthSeller = authCookie(utils.SellerCookie, SellerContextKey)

// AuthDelivery verifies the delivery-agent session cookie.
var AuthDelivery = authCookie(utils.DeliveryCookie, DeliveryContextKey)

// UserClaims pulls customer claims out of the request context.
func UserClaims(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
	return claims, ok
}

// SellerClaims pulls seller claims out of the request context.
func SellerClaims(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(SellerContextKey).(*utils.Claims)
	return claims, ok
}

// DeliveryClaims pulls delivery-agent claims out of the request context.
func DeliveryClaims(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(DeliveryContextKey).(*utils.Claims)
	return claims, ok
}
