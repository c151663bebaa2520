package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/andreinadaban/wishlist-service/pkg/logger"

	"github.com/andreinadaban/wishlist-service/internal/identity"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// sessionKey is the context key for the resolved wishlist session.
const sessionKey contextKey = "session"

// ResolveSession is middleware that resolves the wishlist owner for every
// request and stores the session in the request context. When a guest token
// is minted, the cookie is set on the response before the handler runs so the
// token and the first command travel in the same round trip.
func ResolveSession(resolver *identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, cookie := resolver.Resolve(r)
			if cookie != nil {
				http.SetCookie(w, cookie)
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			ctx = logger.WithOwnerKey(ctx, session.Owner.Key())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromContext extracts the resolved session from the request context.
func sessionFromContext(ctx context.Context) (identity.Session, bool) {
	session, ok := ctx.Value(sessionKey).(identity.Session)
	return session, ok && !session.Owner.IsZero()
}

// RequireAdmin rejects sessions without the admin role. It must run after
// ResolveSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(r.Context())
		if !ok || !session.IsAdmin() {
			writeJSON(w, http.StatusForbidden, response{
				Error: &errorResponse{Code: "FORBIDDEN", Message: "admin role required"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"ok":false,"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
