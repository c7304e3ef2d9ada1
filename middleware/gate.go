package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MrEthical07/toxin"
)

// Resolver is the part of *toxin.Engine the gate depends on.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*toxin.Identity, error)
	AcceptsBearerPrefix() bool
}

// Gate rejects requests without a live session and passes the rest to next
// with the session identity in the request context.
func Gate(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil {
				writeJSONError(w, r, http.StatusInternalServerError, codeInternalError)
				return
			}

			token, ok := sessionToken(r.Header.Get("Authorization"), resolver.AcceptsBearerPrefix())
			if !ok {
				writeJSONError(w, r, http.StatusUnauthorized, codeUnauthenticated)
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, toxin.ErrStoreUnavailable) {
					writeJSONError(w, r, http.StatusServiceUnavailable, codeStoreUnavailable)
					return
				}
				if errors.Is(err, toxin.ErrUnauthenticated) {
					writeJSONError(w, r, http.StatusUnauthorized, codeUnauthenticated)
					return
				}
				writeJSONError(w, r, http.StatusInternalServerError, codeInternalError)
				return
			}

			ctx := toxin.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken returns the token carried by an Authorization header value.
// The value is used verbatim unless acceptBearer is set and it starts with
// a case-insensitive "Bearer " scheme.
func sessionToken(value string, acceptBearer bool) (string, bool) {
	const bearer = "Bearer "
	if acceptBearer && len(value) > len(bearer) && strings.EqualFold(value[:len(bearer)], bearer) {
		value = value[len(bearer):]
	}
	if value == "" {
		return "", false
	}
	return value, true
}
