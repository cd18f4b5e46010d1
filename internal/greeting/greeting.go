// Package greeting builds the localized greeting shown by the page and the API.
package greeting

import (
	"time"

	"github.com/janisto/locale-playground/internal/i18n"
	"github.com/janisto/locale-playground/internal/platform/timeutil"
	"github.com/janisto/locale-playground/internal/reqctx"
)

// Greeting holds the localized strings of the greeting page.
type Greeting struct {
	Locale       string
	Timezone     string
	UserName     string
	LoggedIn     bool
	Title        string
	Header       string
	LoginMessage string
	CurrentTime  string
	Now          time.Time
}

// Build translates the page strings for c. now is converted to
// c.Timezone before formatting.
func Build(bundle *i18n.Bundle, c reqctx.Context, now time.Time) Greeting {
	tr := bundle.Translator(c.Locale)
	if loc, ok := timeutil.LoadZone(c.Timezone); ok {
		now = now.In(loc)
	} else {
		now = now.UTC()
	}

	g := Greeting{
		Locale:      c.Locale,
		Timezone:    c.Timezone,
		Title:       tr.T(i18n.KeyHomeTitle),
		Header:      tr.T(i18n.KeyHomeHeader),
		CurrentTime: tr.T(i18n.KeyCurrentTimeIs, tr.FormatTime(now)),
		Now:         now,
	}
	if c.User != nil {
		g.LoggedIn = true
		g.UserName = c.User.Name
		g.LoginMessage = tr.T(i18n.KeyLoggedInAs, c.User.Name)
	} else {
		g.LoginMessage = tr.T(i18n.KeyNotLoggedIn)
	}
	return g
}
