package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/locale-playground/internal/i18n"
	applog "github.com/janisto/locale-playground/internal/platform/logging"
	appmiddleware "github.com/janisto/locale-playground/internal/platform/middleware"
	"github.com/janisto/locale-playground/internal/platform/respond"
	"github.com/janisto/locale-playground/internal/reqctx"
	"github.com/janisto/locale-playground/internal/user"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	bundle, err := i18n.LoadEmbedded("en")
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	seed := user.Seed()
	res := reqctx.New(reqctx.Options{
		Users:           seed,
		Locales:         bundle.Locales(),
		DefaultLocale:   "en",
		DefaultTimezone: "UTC",
	})

	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("RoutesTest", "test"))
	Register(api, Deps{Bundle: bundle, Resolver: res, Users: seed})
	return router
}

func TestRegisterRoutesGreeting(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/greeting", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "routes-greeting")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRegisterRoutesUsers(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users?limit=1", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "routes-users")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if link := resp.Header().Get("Link"); !strings.HasPrefix(link, "</users?") {
		t.Fatalf("expected unprefixed Link header, got %q", link)
	}
}

func TestAPIPrefixFromServers(t *testing.T) {
	cfg := huma.DefaultConfig("PrefixTest", "test")
	cfg.Servers = []*huma.Server{{URL: "https://example.com/v1"}}
	api := humachi.New(chi.NewRouter(), cfg)
	if got := apiPrefix(api); got != "/v1" {
		t.Fatalf("expected /v1, got %q", got)
	}
}

func TestRegisterRoutesOpenAPIListsGreeting(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"get-greeting"`) {
		t.Fatalf("openapi document missing get-greeting operation")
	}
}

func TestRegisterRoutesUnknownPath(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
