package users

import "github.com/janisto/locale-playground/internal/platform/pagination"

// ListInput defines query parameters for listing users.
type ListInput struct {
	pagination.Params
	Locale string `query:"locale" doc:"Only users whose profile locale equals this value" example:"fr"`
}
