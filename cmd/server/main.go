package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/locale-playground/internal/config"
	"github.com/janisto/locale-playground/internal/http/health"
	"github.com/janisto/locale-playground/internal/http/home"
	"github.com/janisto/locale-playground/internal/http/v1/routes"
	"github.com/janisto/locale-playground/internal/i18n"
	applog "github.com/janisto/locale-playground/internal/platform/logging"
	appmiddleware "github.com/janisto/locale-playground/internal/platform/middleware"
	"github.com/janisto/locale-playground/internal/platform/respond"
	"github.com/janisto/locale-playground/internal/reqctx"
	"github.com/janisto/locale-playground/internal/user"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const apiPrefix = "/v1"

// app holds the components shared by all requests. Everything in it is
// read-only once built.
type app struct {
	cfg      config.Config
	users    *user.Table
	bundle   *i18n.Bundle
	resolver *reqctx.Resolver
	now      func() time.Time
}

func newApp(cfg config.Config) (*app, error) {
	users := user.Seed()
	if cfg.UsersFile != "" {
		loaded, err := user.LoadFile(cfg.UsersFile)
		if err != nil {
			return nil, fmt.Errorf("load users: %w", err)
		}
		users = loaded
	}

	bundle, err := i18n.LoadEmbedded(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	for _, l := range cfg.Languages {
		if !bundle.Has(l) {
			applog.LogWarn(context.Background(), "no catalog for locale, default translations will be used",
				zap.String("locale", l),
				zap.String("defaultLocale", cfg.DefaultLocale),
			)
		}
	}

	return &app{
		cfg:    cfg,
		users:  users,
		bundle: bundle,
		resolver: reqctx.New(reqctx.Options{
			Users:           users,
			Locales:         cfg.Languages,
			DefaultLocale:   cfg.DefaultLocale,
			DefaultTimezone: cfg.DefaultTimezone,
		}),
		now: time.Now,
	}, nil
}

func newRouter(a *app) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(apiPrefix+"/docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		// Without a trusted proxy, clients can spoof their IP address.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		// Recoverer wraps the loggers and the resolver so their panics also become 500 problems.
		respond.Recoverer(),
		applog.RequestLogger(),
		// Resolve before the access logger so its entry carries locale and timezone.
		reqctx.Middleware(a.resolver),
		applog.AccessLogger(),
	)

	home.NewHandler(a.bundle, a.resolver, home.WithClock(a.now)).Register(router)
	router.Get("/health", health.Handler(Version, a.resolver.Locales(), a.cfg.DefaultTimezone))

	router.Route(apiPrefix, func(r chi.Router) {
		cfg := huma.DefaultConfig("Locale Playground API", Version)
		cfg.Servers = []*huma.Server{{URL: apiPrefix}}
		api := humachi.New(r, cfg)

		api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)

		routes.Register(api, routes.Deps{
			Bundle:   a.bundle,
			Resolver: a.resolver,
			Users:    a.users,
			Now:      a.now,
		})
	})

	return router
}

// addCBORContent documents application/cbor next to every JSON request
// and response body.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}
	if err := run(); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	applog.LogInfo(context.Background(), "configuration loaded",
		zap.Strings("locales", a.resolver.Locales()),
		zap.String("defaultLocale", cfg.DefaultLocale),
		zap.String("defaultTimezone", cfg.DefaultTimezone),
		zap.Int("users", a.users.Len()),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(a),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		applog.LogError(ctx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}
