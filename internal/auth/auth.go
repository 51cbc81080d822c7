// Package auth issues and validates the opaque bearer tokens presented in
// the Authorization header, and threads the authenticated user id through
// request contexts.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"tracktime/internal/models"
)

type ctxKey string

const userIDCtxKey = ctxKey("userID")

// AuthScheme is the Authorization header scheme: "Token <key>".
const AuthScheme = "Token"

// NewKey generates a 40-character opaque hex token key.
func NewKey() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		panic("auth: cannot read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// GetOrCreateToken returns the user's token, creating it if absent.
// The unique index on user_id keeps concurrent logins from producing two
// live tokens: the losing insert fails and re-reads the winner's row.
func GetOrCreateToken(db *gorm.DB, userID uint) (*models.Token, error) {
	var tok models.Token
	err := db.Where("user_id = ?", userID).First(&tok).Error
	if err == nil {
		return &tok, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	tok = models.Token{Key: NewKey(), UserID: userID}
	if createErr := db.Create(&tok).Error; createErr != nil {
		// Lost the race: another login inserted first.
		if readErr := db.Where("user_id = ?", userID).First(&tok).Error; readErr != nil {
			return nil, createErr
		}
	}
	return &tok, nil
}

// ParseToken extracts the token key from the Authorization header.
func ParseToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthScheme) {
		return "", false
	}
	return parts[1], true
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	v := ctx.Value(userIDCtxKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Middleware resolves the bearer token against the database and attaches
// the owning user id to the request context. Requests without a usable
// Authorization header pass through unauthenticated; RequireAuth decides
// whether that is fatal.
func Middleware(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key, ok := ParseToken(r); ok {
				var tok models.Token
				if err := db.Where("key = ?", key).First(&tok).Error; err == nil {
					r = r.WithContext(WithUserID(r.Context(), tok.UserID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects unauthenticated requests with a 401 detail body.
// A header that was present but did not resolve to a token reads as an
// invalid credential rather than a missing one.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			w.Header().Set("WWW-Authenticate", AuthScheme)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			if _, hasHeader := ParseToken(r); hasHeader {
				_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
			} else {
				_, _ = w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}
