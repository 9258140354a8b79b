package middleware

import (
	"net/http"

	"backoffice-gateway/internal/session"
)

// LoadSession reads the client's stored session once and attaches the
// snapshot to the request context.
func LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		svc, ok := session.ServiceFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error")
			return
		}

		snap := svc.Load(r.Context())
		next.ServeHTTP(w, r.WithContext(session.WithSnapshot(r.Context(), snap)))
	})
}

// RequireLogin rejects requests whose snapshot is not logged in. It expects
// LoadSession to run first.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, ok := session.FromContext(r.Context())
		if !ok || !snap.IsLoggedIn() {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAbility checks one fixed action and subject against the session's
// ability rules.
func RequireAbility(action string, subject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, ok := session.FromContext(r.Context())
			if !ok || !snap.IsLoggedIn() {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			if !snap.Ability().Can(action, subject) {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
