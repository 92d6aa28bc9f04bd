package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/devconnector/devconnector-go/internal/crypto"
	"github.com/devconnector/devconnector-go/internal/model"
)

// DefaultTokenHeader is the request header the guard reads the token from.
const DefaultTokenHeader = "x-auth-token"

// Guard rejection messages.
const (
	MsgMissingToken = "No token, authorization denied."
	MsgInvalidToken = "Token is not valid."
)

type contextKey string

const identityKey contextKey = "identity"

// Guard returns middleware that requires a valid token in the given header.
// The header value is the raw token, with no scheme prefix. On success the
// caller's identity is attached to the request context.
func Guard(tokens crypto.TokenSigner, header string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultTokenHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(header)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, MsgMissingToken)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}

			ctx := WithIdentity(r.Context(), model.Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the authenticated caller from the request context.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
