package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nikolayk812/nexus-cart/internal/domain"
)

const (
	userIDHeader  = "X-User-ID"
	sessionMaxAge = 30 * 24 * time.Hour
)

type ownerKey struct{}

type sessionKey struct{}

// SessionUsers reports the user signed in on a session, if any.
type SessionUsers interface {
	UserOf(sessionID string) (string, bool)
}

// OwnerMiddleware resolves the cart owner of a request. An explicit
// X-User-ID header wins, then a user signed in on the session cookie, and
// otherwise the session itself owns an anonymous cart. A session cookie is
// issued when the request has none.
//
// X-User-ID is set by the authenticating gateway in front of the service,
// which must drop any client-supplied value.
func OwnerMiddleware(cookieName string, users SessionUsers) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				sessionID = c.Value
			} else {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			owner := domain.AnonymousOwner(sessionID)
			if userID := r.Header.Get(userIDHeader); userID != "" {
				owner = domain.UserOwner(userID)
			} else if userID, ok := users.UserOf(sessionID); ok {
				owner = domain.UserOwner(userID)
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, sessionID)
			ctx = context.WithValue(ctx, ownerKey{}, owner)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ownerFrom(ctx context.Context) domain.Owner {
	owner, _ := ctx.Value(ownerKey{}).(domain.Owner)
	return owner
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
