package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/charvault/internal/api/apierr"
	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/services/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// errBadScheme marks an Authorization header that is not a bearer credential
var errBadScheme = errors.New("authorization scheme must be Bearer")

// TokenVerifier resolves a bearer token to a verified identity.
// Implementations must not touch storage.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// Auth rejects requests without a valid bearer token
func Auth(verifier TokenVerifier, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present, err := extractToken(r)
			if !present {
				metrics.authRejected(rejectMissing)
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := verify(verifier, token, err)
			if err != nil {
				metrics.authRejected(rejectReason(err))
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth lets anonymous requests through, but a token that is
// present and fails verification is still rejected.
func OptionalAuth(verifier TokenVerifier, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present, err := extractToken(r)
			if !present {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verify(verifier, token, err)
			if err != nil {
				metrics.authRejected(rejectReason(err))
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func verify(verifier TokenVerifier, token string, extractErr error) (*model.Identity, error) {
	if extractErr != nil {
		return nil, auth.ErrTokenMalformed
	}
	return verifier.Verify(token)
}

// extractToken reads the bearer token from the Authorization header.
// present is false only when the header is absent or blank.
func extractToken(r *http.Request) (token string, present bool, err error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false, nil
	}

	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", true, errBadScheme
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", true, errBadScheme
	}
	return value, true, nil
}

// WithIdentity returns a context carrying the verified caller
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// GetIdentity returns the verified caller, or nil for anonymous requests
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// MustGetIdentity returns the verified caller or panics
func MustGetIdentity(ctx context.Context) *model.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}
