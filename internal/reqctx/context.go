package reqctx

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	applog "github.com/janisto/locale-playground/internal/platform/logging"
)

type ctxKey struct{}

// WithContext stores c in ctx.
func WithContext(ctx context.Context, c Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the Context stored by Middleware.
func FromContext(ctx context.Context) (Context, bool) {
	if ctx == nil {
		return Context{}, false
	}
	c, ok := ctx.Value(ctxKey{}).(Context)
	return c, ok
}

// Middleware resolves the display context once per request, before the
// handler writes anything, and exposes it through FromContext. The
// request-scoped logger is enriched with the resolved locale and timezone.
func Middleware(res *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := res.Resolve(r)

			fields := []zap.Field{
				zap.String("locale", c.Locale),
				zap.String("timezone", c.Timezone),
			}
			if c.User != nil {
				fields = append(fields, zap.Int("userId", c.User.ID))
			}
			ctx := applog.WithFields(r.Context(), fields...)
			applog.LogDebug(ctx, "request context resolved",
				zap.String("localeSource", string(c.LocaleSource)),
				zap.String("timezoneSource", string(c.TimezoneSource)),
			)

			next.ServeHTTP(w, r.WithContext(WithContext(ctx, c)))
		})
	}
}
