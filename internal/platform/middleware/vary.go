package middleware

import "net/http"

// Vary returns middleware that declares the request headers responses depend on:
// Accept (JSON or CBOR on the API) and Accept-Language (locale negotiation).
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")
			w.Header().Add("Vary", "Accept-Language")
			next.ServeHTTP(w, r)
		})
	}
}
