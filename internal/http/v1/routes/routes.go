package routes

import (
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/locale-playground/internal/http/v1/greeting"
	"github.com/janisto/locale-playground/internal/http/v1/users"
	"github.com/janisto/locale-playground/internal/i18n"
	"github.com/janisto/locale-playground/internal/reqctx"
)

// Deps are the shared components the v1 handlers read from.
type Deps struct {
	Bundle   *i18n.Bundle
	Resolver *reqctx.Resolver
	Users    users.Lister
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Register wires all v1 routes into the provided API router.
func Register(api huma.API, deps Deps) {
	prefix := apiPrefix(api)

	greeting.Register(api, deps.Bundle, deps.Resolver, deps.Now)
	users.Register(api, deps.Users, deps.Resolver, prefix)
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
