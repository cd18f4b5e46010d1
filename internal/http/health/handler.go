// Package health serves the liveness endpoint.
package health

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/locale-playground/internal/platform/logging"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status          string   `json:"status"`
	Version         string   `json:"version"`
	Locales         []string `json:"locales"`
	DefaultTimezone string   `json:"defaultTimezone"`
}

// Handler returns a plain HTTP handler reporting the static service
// settings. CBOR is written when the client accepts application/cbor.
func Handler(version string, locales []string, defaultTimezone string) http.HandlerFunc {
	payload := Response{
		Status:          "healthy",
		Version:         version,
		Locales:         append([]string(nil), locales...),
		DefaultTimezone: defaultTimezone,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			body []byte
			err  error
		)
		if strings.Contains(r.Header.Get("Accept"), "application/cbor") {
			w.Header().Set("Content-Type", "application/cbor")
			body, err = cbor.Marshal(payload)
		} else {
			w.Header().Set("Content-Type", "application/json")
			body, err = json.Marshal(payload)
		}
		if err != nil {
			applog.LogError(r.Context(), "encode health", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if _, err := w.Write(body); err != nil {
			applog.LogWarn(r.Context(), "write health", zap.Error(err))
		}
	}
}
