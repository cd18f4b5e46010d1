// Package home serves the localized greeting page.
package home

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/locale-playground/internal/greeting"
	"github.com/janisto/locale-playground/internal/i18n"
	applog "github.com/janisto/locale-playground/internal/platform/logging"
	"github.com/janisto/locale-playground/internal/platform/respond"
	"github.com/janisto/locale-playground/internal/reqctx"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Handler renders the greeting page from the context stored by reqctx.Middleware.
type Handler struct {
	bundle   *i18n.Bundle
	resolver *reqctx.Resolver
	now      func() time.Time
}

// Option customizes a Handler.
type Option func(*Handler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler returns a page handler. resolver is used when the request did
// not pass through reqctx.Middleware.
func NewHandler(bundle *i18n.Bundle, resolver *reqctx.Resolver, opts ...Option) *Handler {
	h := &Handler{bundle: bundle, resolver: resolver, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP renders into a buffer first so that a template failure can
// still produce a clean 500 response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, ok := reqctx.FromContext(r.Context())
	if !ok {
		c = h.resolver.Resolve(r)
	}
	g := greeting.Build(h.bundle, c, h.now())

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, g); err != nil {
		applog.LogError(r.Context(), "render greeting page", err)
		respond.WriteProblem(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", g.Locale)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		applog.LogWarn(r.Context(), "write greeting page", zap.Error(err))
	}
}

// Register mounts the page on GET and HEAD /.
func (h *Handler) Register(router chi.Router) {
	router.Get("/", h.ServeHTTP)
	router.Head("/", h.ServeHTTP)
}
