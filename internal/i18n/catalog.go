// Package i18n loads translation catalogs and formats localized messages.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Message keys used by the greeting page.
const (
	KeyHomeTitle      = "home_title"
	KeyHomeHeader     = "home_header"
	KeyLoggedInAs     = "logged_in_as"
	KeyNotLoggedIn    = "not_logged_in"
	KeyCurrentTimeIs  = "current_time_is"
	KeyDateTimeLayout = "datetime_layout"
)

const fallbackDateTimeLayout = "2006-01-02 15:04:05 MST"

var (
	ErrNoCatalogs      = errors.New("no catalog files found")
	ErrMissingDefault  = errors.New("default locale has no catalog")
	ErrDuplicateLocale = errors.New("locale defined twice")
)

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale. It is immutable after
// loading and safe for concurrent use.
type Bundle struct {
	defaultTag language.Tag
	tags       []language.Tag
	messages   map[string]map[string]string
	cat        *catalog.Builder
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded(defaultLocale string) (*Bundle, error) {
	return LoadFS(embeddedFS, defaultLocale)
}

// LoadFS loads every locales/*.yaml file from fsys. The file name must match
// the locale declared inside it.
func LoadFS(fsys fs.FS, defaultLocale string) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoCatalogs
	}
	slices.Sort(paths)

	defaultTag, err := language.Parse(strings.TrimSpace(defaultLocale))
	if err != nil {
		return nil, fmt.Errorf("default locale %q: %w", defaultLocale, err)
	}

	b := &Bundle{
		defaultTag: defaultTag,
		messages:   make(map[string]map[string]string, len(paths)),
		cat:        catalog.NewBuilder(catalog.Fallback(defaultTag)),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if err := b.add(p, data); err != nil {
			return nil, err
		}
	}
	if _, ok := b.messages[defaultTag.String()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingDefault, defaultTag)
	}
	return b, nil
}

func (b *Bundle) add(p string, data []byte) error {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", p, err)
	}
	locale := strings.TrimSpace(f.Locale)
	if want := strings.TrimSuffix(path.Base(p), path.Ext(p)); locale != want {
		return fmt.Errorf("%s: locale %q must match file name %q", p, locale, want)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("%s: locale %q: %w", p, locale, err)
	}
	key := tag.String()
	if _, dup := b.messages[key]; dup {
		return fmt.Errorf("%s: %w: %s", p, ErrDuplicateLocale, key)
	}

	msgs := make(map[string]string, len(f.Messages))
	for k, v := range f.Messages {
		k = strings.TrimSpace(k)
		if k == "" {
			return fmt.Errorf("%s: blank message key", p)
		}
		if err := b.cat.SetString(tag, k, v); err != nil {
			return fmt.Errorf("%s: set %q: %w", p, k, err)
		}
		msgs[k] = v
	}
	b.messages[key] = msgs
	b.tags = append(b.tags, tag)
	return nil
}

// DefaultLocale returns the locale used when a message is missing.
func (b *Bundle) DefaultLocale() string {
	return b.defaultTag.String()
}

// Locales returns the loaded locales in file order.
func (b *Bundle) Locales() []string {
	out := make([]string, len(b.tags))
	for i, t := range b.tags {
		out[i] = t.String()
	}
	return out
}

// Has reports whether a catalog exists for locale.
func (b *Bundle) Has(locale string) bool {
	_, ok := b.messages[canonical(locale)]
	return ok
}

// Translator returns a Translator for locale. Locales without a catalog
// translate with the default locale's messages.
func (b *Bundle) Translator(locale string) Translator {
	locale = canonical(locale)
	tag := b.defaultTag
	if _, ok := b.messages[locale]; ok {
		tag = language.Make(locale)
	}
	return Translator{
		bundle:   b,
		locale:   tag.String(),
		printer:  message.NewPrinter(tag, message.Catalog(b.cat)),
		fallback: message.NewPrinter(b.defaultTag, message.Catalog(b.cat)),
	}
}

func (b *Bundle) lookup(locale, key string) (string, bool) {
	v, ok := b.messages[locale][key]
	return v, ok
}

func canonical(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return ""
	}
	return tag.String()
}

// Translator formats messages for one locale.
type Translator struct {
	bundle   *Bundle
	locale   string
	printer  *message.Printer
	fallback *message.Printer
}

// Locale returns the catalog locale this Translator reads from.
func (t Translator) Locale() string {
	return t.locale
}

// T returns the message for key formatted with args. Missing keys fall back
// to the default locale and then to the key itself.
func (t Translator) T(key string, args ...any) string {
	if _, ok := t.bundle.lookup(t.locale, key); ok {
		return t.printer.Sprintf(key, args...)
	}
	if _, ok := t.bundle.lookup(t.bundle.DefaultLocale(), key); ok {
		return t.fallback.Sprintf(key, args...)
	}
	return key
}

// FormatTime formats ts with the locale's datetime layout.
func (t Translator) FormatTime(ts time.Time) string {
	layout, ok := t.bundle.lookup(t.locale, KeyDateTimeLayout)
	if !ok {
		layout, ok = t.bundle.lookup(t.bundle.DefaultLocale(), KeyDateTimeLayout)
	}
	if !ok || strings.TrimSpace(layout) == "" {
		layout = fallbackDateTimeLayout
	}
	return ts.Format(layout)
}
