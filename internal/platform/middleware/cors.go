package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows read-only cross-origin access from any origin. The service
// exposes no state-changing routes.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Accept-Language",
			"X-Request-Id",
			"traceparent",
		},
		ExposedHeaders: []string{"Content-Language", "Link", "X-Request-Id"},
		MaxAge:         300,
	})
}
