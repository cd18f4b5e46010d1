package greeting

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/locale-playground/internal/i18n"
	applog "github.com/janisto/locale-playground/internal/platform/logging"
	appmiddleware "github.com/janisto/locale-playground/internal/platform/middleware"
	"github.com/janisto/locale-playground/internal/platform/respond"
	"github.com/janisto/locale-playground/internal/reqctx"
	"github.com/janisto/locale-playground/internal/user"
)

var fixedNow = time.Date(2024, 7, 14, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	bundle, err := i18n.LoadEmbedded("en")
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	res := reqctx.New(reqctx.Options{
		Users:           user.Seed(),
		Locales:         []string{"en", "fr"},
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
	api := humachi.New(router, huma.DefaultConfig("GreetingTest", "test"))
	Register(api, bundle, res, func() time.Time { return fixedNow })
	return router
}

func TestGetJSONLoggedIn(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/greeting?login_as=1", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "greeting-get-json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if cl := resp.Header().Get("Content-Language"); cl != "fr" {
		t.Errorf("expected Content-Language fr, got %s", cl)
	}

	var data Data
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if data.Locale != "fr" || data.LocaleSource != "user" {
		t.Errorf("expected fr from user, got %s (%s)", data.Locale, data.LocaleSource)
	}
	if data.Timezone != "Europe/Paris" || data.TimezoneSource != "user" {
		t.Errorf("expected Europe/Paris from user, got %s (%s)", data.Timezone, data.TimezoneSource)
	}
	if data.User == nil || data.User.ID != 1 || data.User.Name != "Balou" {
		t.Fatalf("expected Balou, got %+v", data.User)
	}
	if data.LoginMessage != "Vous êtes connecté en tant que Balou." {
		t.Errorf("unexpected login message %q", data.LoginMessage)
	}
	if data.CurrentTime != "Nous sommes le 14/07/2024 14:00:00." {
		t.Errorf("unexpected current time %q", data.CurrentTime)
	}
	if !data.Now.Equal(fixedNow) {
		t.Errorf("expected %v, got %v", fixedNow, data.Now.Time)
	}
	if _, offset := data.Now.Zone(); offset != 2*60*60 {
		t.Errorf("expected +02:00 offset, got %d", offset)
	}
}

func TestGetCBORAnonymous(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/greeting?login_as=42&timezone=Vulcan", nil)
	req.Header.Set("Accept", "application/cbor")
	req.Header.Set("Accept-Language", "de, fr;q=0.8, en;q=0.5")
	req.Header.Set(chimiddleware.RequestIDHeader, "greeting-get-cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Errorf("expected application/cbor, got %s", ct)
	}

	var data Data
	if err := cbor.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if data.User != nil {
		t.Errorf("unknown login_as must yield no user, got %+v", data.User)
	}
	if data.Locale != "fr" || data.LocaleSource != "accept-language" {
		t.Errorf("expected fr from Accept-Language, got %s (%s)", data.Locale, data.LocaleSource)
	}
	if data.Timezone != "UTC" || data.TimezoneSource != "default" {
		t.Errorf("expected default UTC, got %s (%s)", data.Timezone, data.TimezoneSource)
	}
	if data.LoginMessage != "Vous n'êtes pas connecté." {
		t.Errorf("unexpected login message %q", data.LoginMessage)
	}
}

func TestGetParamsOverrideUser(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/greeting?login_as=1&locale=en&timezone=America/Chicago", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var data Data
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if data.Locale != "en" || data.LocaleSource != "param" {
		t.Errorf("expected en from param, got %s (%s)", data.Locale, data.LocaleSource)
	}
	if data.Timezone != "America/Chicago" || data.TimezoneSource != "param" {
		t.Errorf("expected America/Chicago from param, got %s (%s)", data.Timezone, data.TimezoneSource)
	}
	if data.CurrentTime != "The current time is Jul 14, 2024, 7:00:00 AM." {
		t.Errorf("unexpected current time %q", data.CurrentTime)
	}
}

func TestGetUsesContextFromMiddleware(t *testing.T) {
	bundle, err := i18n.LoadEmbedded("en")
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	res := reqctx.New(reqctx.Options{
		Users:           user.Seed(),
		Locales:         []string{"en", "fr"},
		DefaultLocale:   "en",
		DefaultTimezone: "UTC",
	})
	stored := reqctx.Context{
		Locale:         "fr",
		LocaleSource:   reqctx.SourceParam,
		Timezone:       "Asia/Tokyo",
		TimezoneSource: reqctx.SourceParam,
	}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(reqctx.WithContext(r.Context(), stored)))
		})
	})
	api := humachi.New(router, huma.DefaultConfig("GreetingContextTest", "test"))
	Register(api, bundle, res, func() time.Time { return fixedNow })

	// The query alone would resolve to en/UTC.
	req := httptest.NewRequest(http.MethodGet, "/greeting?locale=en&timezone=UTC", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var data Data
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if data.Locale != "fr" || data.Timezone != "Asia/Tokyo" {
		t.Fatalf("expected stored context fr/Asia/Tokyo, got %s/%s", data.Locale, data.Timezone)
	}
	if data.CurrentTime != "Nous sommes le 14/07/2024 21:00:00." {
		t.Errorf("unexpected current time %q", data.CurrentTime)
	}
}

func TestGetResolvesWithMiddleware(t *testing.T) {
	bundle, err := i18n.LoadEmbedded("en")
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	res := reqctx.New(reqctx.Options{
		Users:           user.Seed(),
		Locales:         []string{"en", "fr"},
		DefaultLocale:   "en",
		DefaultTimezone: "UTC",
	})
	router := chi.NewRouter()
	router.Use(reqctx.Middleware(res))
	api := humachi.New(router, huma.DefaultConfig("GreetingMiddlewareTest", "test"))
	Register(api, bundle, res, func() time.Time { return fixedNow })

	req := httptest.NewRequest(http.MethodGet, "/greeting?login_as=4&timezone=europe/paris", nil)
	req.Header.Set("Accept-Language", "br, fr;q=0.3")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var data Data
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if data.Locale != "fr" || data.LocaleSource != "accept-language" {
		t.Errorf("expected fr from Accept-Language, got %s (%s)", data.Locale, data.LocaleSource)
	}
	if data.Timezone != "Europe/Paris" || data.TimezoneSource != "param" {
		t.Errorf("expected canonical Europe/Paris from param, got %s (%s)", data.Timezone, data.TimezoneSource)
	}
}

func TestGetDefaults(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/greeting", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var data Data
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if data.Locale != "en" || data.LocaleSource != "default" {
		t.Errorf("expected default en, got %s (%s)", data.Locale, data.LocaleSource)
	}
	if data.Title != "Welcome to Holberton" || data.Header != "Hello world!" {
		t.Errorf("unexpected strings %q %q", data.Title, data.Header)
	}
}
