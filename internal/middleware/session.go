package middleware

import (
	"net/http"
	"strings"

	"sih-portal/internal/service/auth"
	"sih-portal/pkg/logger"
)

// Session attaches the participant identity carried by the session cookie or
// a Bearer token. Requests without a valid token continue anonymously.
func Session(sessions *auth.SessionService, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sessions == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := sessions.Verify(token)
			if err != nil {
				log.WithField("request_id", GetRequestID(r.Context())).Debug("Ignoring invalid session token")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// sessionToken prefers the Authorization header over the cookie
func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
