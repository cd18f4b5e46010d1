// Package reqctx derives the per-request display context: the logged-in
// user, the locale and the timezone.
package reqctx

import (
	"net/http"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/janisto/locale-playground/internal/platform/timeutil"
	"github.com/janisto/locale-playground/internal/user"
)

// Query parameters read by the resolver.
const (
	ParamLoginAs  = "login_as"
	ParamLocale   = "locale"
	ParamTimezone = "timezone"
)

// Source names the precedence step that produced a resolved value.
type Source string

const (
	SourceParam   Source = "param"
	SourceUser    Source = "user"
	SourceHeader  Source = "accept-language"
	SourceDefault Source = "default"
)

// Context is the resolved display context for one request.
type Context struct {
	User           *user.Profile
	Locale         string
	LocaleSource   Source
	Timezone       string
	TimezoneSource Source
}

// Options configures a Resolver.
type Options struct {
	// Users is the table login_as ids are looked up in.
	Users user.Directory
	// Locales is the supported locale set, in preference order for negotiation ties.
	Locales []string
	// DefaultLocale is used when no precedence step yields a supported locale.
	DefaultLocale string
	// DefaultTimezone is used when no precedence step yields a valid zone.
	DefaultTimezone string
}

// Resolver applies the precedence rules. It holds no per-request state and
// is safe for concurrent use.
type Resolver struct {
	users           user.Directory
	locales         []string
	tags            []language.Tag
	matcher         language.Matcher
	defaultLocale   string
	defaultTimezone string
}

// New builds a Resolver. Locales that do not parse as BCP 47 tags are
// dropped. Callers validate the defaults (see config.Config.Validate).
func New(opts Options) *Resolver {
	r := &Resolver{
		users:           opts.Users,
		defaultLocale:   opts.DefaultLocale,
		defaultTimezone: opts.DefaultTimezone,
	}
	for _, l := range opts.Locales {
		l = strings.TrimSpace(l)
		tag, err := language.Parse(l)
		if err != nil || slices.Contains(r.locales, l) {
			continue
		}
		r.locales = append(r.locales, l)
		r.tags = append(r.tags, tag)
	}
	if len(r.tags) > 0 {
		r.matcher = language.NewMatcher(r.tags)
	}
	return r
}

// Supported reports whether locale is in the supported set. Matching is exact.
func (r *Resolver) Supported(locale string) bool {
	return locale != "" && slices.Contains(r.locales, locale)
}

// Locales returns a copy of the supported locale set.
func (r *Resolver) Locales() []string {
	return slices.Clone(r.locales)
}

// User returns the profile selected by a login_as value.
func (r *Resolver) User(loginAs string) (*user.Profile, bool) {
	p, ok := user.Find(r.users, loginAs)
	if !ok {
		return nil, false
	}
	return &p, true
}

// Locale applies the locale precedence: explicit parameter, user profile,
// then Accept-Language negotiation. It reports false when none of them
// yields a supported locale; the caller then uses the default.
func (r *Resolver) Locale(param string, u *user.Profile, acceptLanguage string) (string, Source, bool) {
	if param = strings.TrimSpace(param); r.Supported(param) {
		return param, SourceParam, true
	}
	if u != nil && r.Supported(u.Locale) {
		return u.Locale, SourceUser, true
	}
	if l, ok := r.BestMatch(acceptLanguage); ok {
		return l, SourceHeader, true
	}
	return "", "", false
}

// BestMatch negotiates an Accept-Language header value against the
// supported set. Client preferences are tried by descending quality, ties
// in header order; the first one the supported set can serve wins. Only
// same-language matches count (fr-CA serves fr); x/text's low-confidence
// cross-language fallbacks (br or oc to fr) do not. A "*" entry matches the
// first supported locale. Malformed entries are skipped.
func (r *Resolver) BestMatch(acceptLanguage string) (string, bool) {
	if r.matcher == nil {
		return "", false
	}
	for _, pref := range parseAcceptLanguage(acceptLanguage) {
		if pref.wildcard {
			return r.locales[0], true
		}
		if _, idx, conf := r.matcher.Match(pref.tag); conf >= language.High {
			return r.locales[idx], true
		}
	}
	return "", false
}

type preference struct {
	tag      language.Tag
	weight   float32
	wildcard bool
}

// parseAcceptLanguage splits the header into weighted preferences, dropping
// q=0 entries and entries that do not parse.
func parseAcceptLanguage(header string) []preference {
	var prefs []preference
	for _, entry := range strings.Split(header, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, params, hasParams := strings.Cut(entry, ";")
		wildcard := strings.TrimSpace(name) == "*"
		if wildcard {
			entry = "und"
			if hasParams {
				entry += ";" + params
			}
		}
		tags, weights, err := language.ParseAcceptLanguage(entry)
		if err != nil || len(tags) != 1 {
			continue
		}
		prefs = append(prefs, preference{tag: tags[0], weight: weights[0], wildcard: wildcard})
	}
	slices.SortStableFunc(prefs, func(a, b preference) int {
		switch {
		case a.weight > b.weight:
			return -1
		case a.weight < b.weight:
			return 1
		default:
			return 0
		}
	})
	return prefs
}

// Timezone applies the timezone precedence: explicit parameter, user
// profile, then the default. Unknown zone names are skipped, never errors.
// Accepted names are returned in their canonical spelling.
func (r *Resolver) Timezone(param string, u *user.Profile) (string, Source) {
	if tz, ok := timeutil.CanonicalZone(param); ok {
		return tz, SourceParam
	}
	if u != nil {
		if tz, ok := timeutil.CanonicalZone(u.Timezone); ok {
			return tz, SourceUser
		}
	}
	return r.defaultTimezone, SourceDefault
}

// Inputs are the raw request values the resolver reads.
type Inputs struct {
	LoginAs        string
	Locale         string
	Timezone       string
	AcceptLanguage string
}

// InputsFromRequest reads the query parameters and Accept-Language header of req.
func InputsFromRequest(req *http.Request) Inputs {
	q := req.URL.Query()
	return Inputs{
		LoginAs:        q.Get(ParamLoginAs),
		Locale:         q.Get(ParamLocale),
		Timezone:       q.Get(ParamTimezone),
		AcceptLanguage: req.Header.Get("Accept-Language"),
	}
}

// ResolveInputs derives the full Context from in.
func (r *Resolver) ResolveInputs(in Inputs) Context {
	u, _ := r.User(in.LoginAs)

	c := Context{User: u}
	var ok bool
	c.Locale, c.LocaleSource, ok = r.Locale(in.Locale, u, in.AcceptLanguage)
	if !ok {
		c.Locale, c.LocaleSource = r.defaultLocale, SourceDefault
	}
	c.Timezone, c.TimezoneSource = r.Timezone(in.Timezone, u)
	return c
}

// Resolve derives the full Context for req.
func (r *Resolver) Resolve(req *http.Request) Context {
	return r.ResolveInputs(InputsFromRequest(req))
}
