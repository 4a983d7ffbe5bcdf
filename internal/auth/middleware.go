// Package auth provides cookie-based session authentication for the
// API.
//
// Sessions live in the database: the middleware resolves the session
// cookie against the sessions table on every request and injects the
// matching user into the request context. Requests without a valid
// session get a JSON 401.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sriramramnath/EducationOS/internal/logging"
	"github.com/sriramramnath/EducationOS/internal/store"
)

// CookieName is the session cookie the API expects.
const CookieName = "eduos_session"

// Middleware authenticates requests against the session store. Handlers
// behind it can rely on UserFromContext succeeding.
func Middleware(sessions store.SessionRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			user, err := sessions.GetUser(r.Context(), cookie.Value, time.Now())
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					logger.ErrorContext(r.Context(), "session lookup failed", logging.Err(err))
				}
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
