// Package identity resolves the wishlist owner for an incoming request.
//
// Resolution is total: every request yields exactly one owner. A valid access
// token wins and yields the customer owner; otherwise the guest cookie yields
// the guest owner; otherwise a fresh guest token is minted. An invalid or
// expired token demotes the request to guest rather than failing it, so a
// stale session can still browse its anonymous wishlist.
package identity

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andreinadaban/wishlist-service/internal/domain"
)

// RoleAdmin marks sessions allowed to read other owners' wishlists.
const RoleAdmin = "admin"

// Session is the resolved identity of a request.
type Session struct {
	Owner domain.Owner
	Role  string
}

// IsAdmin reports whether the session may use the admin surface.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Resolver turns an incoming request into a Session.
type Resolver struct {
	jwt           *JWTManager
	cookieName    string
	cookieTTL     time.Duration
	secureCookies bool
	logger        *slog.Logger
}

// NewResolver creates a resolver. cookieName is the guest token cookie;
// cookieTTL bounds how long an untouched anonymous wishlist stays reachable.
func NewResolver(jwt *JWTManager, cookieName string, cookieTTL time.Duration, secureCookies bool, logger *slog.Logger) *Resolver {
	return &Resolver{
		jwt:           jwt,
		cookieName:    cookieName,
		cookieTTL:     cookieTTL,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Resolve determines the owner for the request. It never fails. When a new
// guest token is minted, the returned cookie must be set on the response so
// the token survives to the next request; otherwise the cookie is nil.
func (r *Resolver) Resolve(req *http.Request) (Session, *http.Cookie) {
	if token := bearerToken(req); token != "" {
		claims, err := r.jwt.ValidateAccessToken(token)
		switch {
		case err != nil:
			r.logger.WarnContext(req.Context(), "access token rejected, continuing as guest",
				slog.String("error", err.Error()),
			)
		case claims.UserID == "":
			r.logger.WarnContext(req.Context(), "access token has no user id, continuing as guest")
		default:
			return Session{Owner: domain.CustomerOwner(claims.UserID), Role: claims.Role}, nil
		}
	}

	if cookie, err := req.Cookie(r.cookieName); err == nil && cookie.Value != "" {
		return Session{Owner: domain.GuestOwner(cookie.Value)}, nil
	}

	token := uuid.New().String()
	return Session{Owner: domain.GuestOwner(token)}, r.newGuestCookie(token)
}

func (r *Resolver) newGuestCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     r.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(r.cookieTTL / time.Second),
		HttpOnly: true,
		Secure:   r.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
