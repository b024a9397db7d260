package chi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	ratelimituc "github.com/kailas-cloud/catalogd/internal/usecase/ratelimit"
)

// SessionCookieName names the anonymous session cookie used for quotas.
const SessionCookieName = "catalogd_session"

type sessionKey struct{}

// SessionMiddleware attaches an anonymous session id to every request,
// issuing a new cookie when the client has none.
func SessionMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookieName); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
		})
	}
}

func sessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

func callerFromRequest(r *http.Request) ratelimituc.Caller {
	return ratelimituc.Caller{
		Session: sessionFromContext(r.Context()),
		IP:      clientIP(r),
	}
}

// clientIP prefers proxy headers: the first X-Forwarded-For entry, then
// X-Real-IP, then the connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" && !strings.EqualFold(ip, "unknown") {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" && !strings.EqualFold(ip, "unknown") {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
