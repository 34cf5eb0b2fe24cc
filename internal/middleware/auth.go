package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bookmarkapi/bookmark-api/internal/model"
)

var (
	ErrMissingToken   = errors.New("missing authorization header")
	ErrMalformedToken = errors.New("malformed authorization header")
)

// Authenticator resolves a bearer token to a live principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

// Decision is the outcome of checking one request: either Allowed with a
// Principal, or rejected with a Reason.
type Decision struct {
	Allowed   bool
	Principal model.Principal
	Reason    error
}

// Allow admits a request as p.
func Allow(p model.Principal) Decision {
	return Decision{Allowed: true, Principal: p}
}

// Reject refuses a request for reason.
func Reject(reason error) Decision {
	return Decision{Reason: reason}
}

// Guard authenticates requests carrying a bearer token.
type Guard struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewGuard creates a Guard.
func NewGuard(auth Authenticator, logger *zap.Logger) *Guard {
	return &Guard{auth: auth, logger: logger}
}

// Check extracts and verifies the bearer token of r.
func (g *Guard) Check(r *http.Request) Decision {
	token, err := bearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return Reject(err)
	}

	p, err := g.auth.Authenticate(r.Context(), token)
	if err != nil {
		return Reject(err)
	}

	return Allow(p)
}

// Require is middleware that runs next only for requests the guard allows.
// Every rejection produces the same 401 body.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Check(r)
		if !d.Allowed {
			g.logger.Warn("request rejected",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(d.Reason))
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), d.Principal)))
	})
}

// bearerToken parses "Bearer <token>"; the scheme is case-insensitive.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedToken
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedToken
	}

	return token, nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
