package logging

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fieldMap(entry observer.LoggedEntry) map[string]zap.Field {
	fields := map[string]zap.Field{}
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	return fields
}

func TestAccessLoggerIncludesEnrichedFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	enrich := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithFields(r.Context(), zap.String("locale", "fr"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	h := enrich(AccessLogger()(inner))

	req := httptest.NewRequest(http.MethodGet, "/?locale=fr", nil)
	req = req.WithContext(contextWithLogger(req.Context(), logger))
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "request completed" {
		t.Fatalf("unexpected log message: %s", entries[0].Message)
	}
	fields := fieldMap(entries[0])
	if f, ok := fields["status"]; !ok || f.Integer != http.StatusTeapot {
		t.Fatalf("expected status 418, got %+v", f)
	}
	if f, ok := fields["path"]; !ok || f.String != "/" {
		t.Fatalf("expected path '/', got %+v", f)
	}
	if f, ok := fields["locale"]; !ok || f.String != "fr" {
		t.Fatalf("expected locale field, got %+v", fields)
	}
}

func TestRequestLoggerFallsBackToRequestID(t *testing.T) {
	var traceID string
	h := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		if LoggerFromContext(r.Context()) == nil {
			t.Fatal("expected non-nil logger in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chimiddleware.RequestIDKey, "req-123"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if traceID != "req-123" {
		t.Fatalf("expected trace id req-123, got %q", traceID)
	}
}

func TestRequestLoggerUsesTraceparent(t *testing.T) {
	origProjectID := cachedProjectID
	cachedProjectID = "test-project"
	projectIDOnce = sync.Once{}
	projectIDOnce.Do(func() {})
	defer func() {
		cachedProjectID = origProjectID
		projectIDOnce = sync.Once{}
	}()

	var traceID string
	h := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(traceparentHeader, "00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01")
	h.ServeHTTP(httptest.NewRecorder(), req)

	want := "projects/test-project/traces/ab42124a3c573678d4d8b21ba52df3bf"
	if traceID != want {
		t.Fatalf("expected %q, got %q", want, traceID)
	}
}

func TestTraceFields(t *testing.T) {
	header := "00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01"
	fields := traceFields(header, "proj")
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[1].String != "d21f7bc17caa5aba" {
		t.Fatalf("unexpected span id %q", fields[1].String)
	}
	if traceFields(header, "") != nil {
		t.Fatal("expected no fields without a project id")
	}
	if traceFields("garbage", "proj") != nil {
		t.Fatal("expected no fields for malformed header")
	}
}

func TestLogErrorAppendsErrorField(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := contextWithLogger(context.Background(), zap.New(core))

	LogError(ctx, "failed", errors.New("boom"), zap.String("foo", "bar"))
	LogDebug(ctx, "step")

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	fields := fieldMap(entries[0])
	if f, ok := fields["error"]; !ok || f.Type != zapcore.ErrorType {
		t.Fatalf("expected error field, got %+v", fields)
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Fatalf("expected debug entry, got %s", entries[1].Level)
	}
}

func TestWithFieldsNoopWithoutFields(t *testing.T) {
	ctx := context.Background()
	if WithFields(ctx) != ctx {
		t.Fatal("expected same context when no fields are given")
	}
}
