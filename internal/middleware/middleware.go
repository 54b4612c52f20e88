package middleware

import (
	"net/http"
	"strings"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/httputil"
	"github.com/learnhub/elearning-api/internal/utils"
)

// TokenVerifier turns a bearer token into the identity it asserts.
type TokenVerifier interface {
	Verify(token string) (access.Identity, error)
}

var ErrMissingToken = apperr.New(apperr.ErrMissingToken, "Access Denied")

// TokenMiddleware requires an "Authorization: Bearer <token>" header. The
// verified identity is trusted for the token's lifetime without a store
// lookup.
func TokenMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httputil.WriteError(w, r, nil, ErrMissingToken)
				return
			}

			id, err := verifier.Verify(token)
			if err != nil {
				httputil.WriteError(w, r, nil, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireRole must sit behind TokenMiddleware.
func RequireRole(role access.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				httputil.WriteError(w, r, nil, ErrMissingToken)
				return
			}
			if err := access.RequireRole(id, role); err != nil {
				httputil.WriteError(w, r, nil, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Echo the origin back only if it's on the allow-list
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			w.Header().Set("Access-Control-Expose-Headers", "Retry-After")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
