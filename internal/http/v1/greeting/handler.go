// Package greeting exposes the greeting page data as JSON or CBOR.
package greeting

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	greetingsvc "github.com/janisto/locale-playground/internal/greeting"
	"github.com/janisto/locale-playground/internal/i18n"
	applog "github.com/janisto/locale-playground/internal/platform/logging"
	"github.com/janisto/locale-playground/internal/platform/timeutil"
	"github.com/janisto/locale-playground/internal/reqctx"
)

// Register registers the greeting endpoint. The display context stored by
// reqctx.Middleware is used when present so the response and the request
// logs agree; otherwise the operation's own inputs are resolved. now may be
// nil, in which case time.Now is used.
func Register(api huma.API, bundle *i18n.Bundle, resolver *reqctx.Resolver, now func() time.Time) {
	if now == nil {
		now = time.Now
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-greeting",
		Method:      http.MethodGet,
		Path:        "/greeting",
		Summary:     "Get the localized greeting",
		Description: "Resolves the locale and timezone the same way as the HTML page and returns the translated strings.",
		Tags:        []string{"Greeting"},
	}, func(ctx context.Context, input *GetInput) (*GetOutput, error) {
		c, ok := reqctx.FromContext(ctx)
		if !ok {
			c = resolver.ResolveInputs(reqctx.Inputs{
				LoginAs:        input.LoginAs,
				Locale:         input.Locale,
				Timezone:       input.Timezone,
				AcceptLanguage: input.AcceptLanguage,
			})
		}
		g := greetingsvc.Build(bundle, c, now())
		applog.LogInfo(ctx, "greeting get",
			zap.String("locale", c.Locale),
			zap.String("timezone", c.Timezone),
			zap.Bool("resolvedByMiddleware", ok),
		)
		return &GetOutput{
			ContentLanguage: c.Locale,
			Body:            toData(c, g),
		}, nil
	})
}

func toData(c reqctx.Context, g greetingsvc.Greeting) Data {
	d := Data{
		Locale:         c.Locale,
		LocaleSource:   string(c.LocaleSource),
		Timezone:       c.Timezone,
		TimezoneSource: string(c.TimezoneSource),
		Title:          g.Title,
		Header:         g.Header,
		LoginMessage:   g.LoginMessage,
		CurrentTime:    g.CurrentTime,
		Now:            timeutil.NewTime(g.Now),
	}
	if c.User != nil {
		d.User = &User{ID: c.User.ID, Name: c.User.Name}
	}
	return d
}
