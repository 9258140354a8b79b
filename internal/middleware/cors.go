package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORS allows credentialed requests from the listed origins so the browser
// sends the client cookie. A wildcard origin disables credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	allowCredentials := !slices.Contains(origins, "*")
	if !allowCredentials {
		slog.Warn("CORS wildcard origin configured; credentialed requests are disabled")
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		MaxAge:           3600,
		AllowCredentials: allowCredentials,
	})

	return handler.Handler
}
