// Package users lists the simulated users requests can log in as.
package users

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/locale-playground/internal/platform/pagination"
	"github.com/janisto/locale-playground/internal/platform/timeutil"
	"github.com/janisto/locale-playground/internal/reqctx"
	"github.com/janisto/locale-playground/internal/user"
)

const cursorKind = "user"

// Lister returns profiles in a stable order.
type Lister interface {
	All() []user.Profile
}

// Register wires user routes into the provided API router. prefix is the
// path the API is mounted under, used for Link headers.
func Register(api huma.API, users Lister, resolver *reqctx.Resolver, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List simulated users",
		Description: "Returns the users that login_as accepts. Use the cursor from the Link header to navigate between pages.",
		Tags:        []string{"Users"},
	}, func(_ context.Context, input *ListInput) (*ListOutput, error) {
		cursor, err := pagination.DecodeCursor(input.Cursor)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid cursor format")
		}

		profiles := users.All()
		if input.Locale != "" {
			profiles = slices.DeleteFunc(profiles, func(p user.Profile) bool {
				return p.Locale != input.Locale
			})
		}

		limit := input.PageSize()
		page, err := pagination.Slice(profiles, cursor, cursorKind, limit, func(p user.Profile) string {
			return strconv.Itoa(p.ID)
		})
		switch {
		case errors.Is(err, pagination.ErrCursorKind):
			return nil, huma.Error400BadRequest("cursor type mismatch")
		case errors.Is(err, pagination.ErrUnknownCursor):
			return nil, huma.Error400BadRequest("cursor references unknown user")
		case err != nil:
			return nil, huma.Error500InternalServerError("list users", err)
		}

		query := url.Values{}
		if input.Locale != "" {
			query.Set("locale", input.Locale)
		}

		out := make([]User, len(page.Items))
		for i, p := range page.Items {
			out[i] = User{
				ID:              p.ID,
				Name:            p.Name,
				Locale:          p.Locale,
				Timezone:        p.Timezone,
				LocaleSupported: resolver.Supported(p.Locale),
				TimezoneValid:   timeutil.ValidZone(p.Timezone),
			}
		}
		return &ListOutput{
			Link: pagination.LinkHeader(prefix+"/users", query, limit, page.Next, page.Prev),
			Body: ListData{Users: out, Total: page.Total},
		}, nil
	})
}
