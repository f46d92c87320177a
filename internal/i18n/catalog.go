// Package i18n holds the embedded message catalogs for the seven supported
// languages and resolves which one a request should see.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
)

// BaseLocale is the catalog every other locale falls back to.
const BaseLocale = "en"

type catalogFile struct {
	Locale    string            `json:"locale"`
	Direction string            `json:"direction"`
	Messages  map[string]string `json:"messages"`
}

// Catalog is the message set of one locale.
type Catalog struct {
	Locale    string
	Direction string
	Messages  map[string]string
}

// Bundle contains every loaded catalog and a matcher over their tags.
type Bundle struct {
	catalogs map[string]*Catalog
	locales  []string
	matcher  language.Matcher
}

//go:embed locales/*.json
var embeddedFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadFromFS(embeddedFS)
	if err != nil {
		panic(fmt.Sprintf("load i18n catalogs: %v", err))
	}
	return b
}

// LoadFromFS loads every locales/*.json file of fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.json")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{catalogs: map[string]*Catalog{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		want := strings.TrimSuffix(path.Base(p), ".json")
		if file.Locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match filename %q", p, file.Locale, want)
		}
		if file.Messages == nil {
			return nil, fmt.Errorf("catalog %s: messages map is required", p)
		}
		dir := file.Direction
		if dir == "" {
			dir = "ltr"
		}
		b.catalogs[file.Locale] = &Catalog{Locale: file.Locale, Direction: dir, Messages: file.Messages}
	}

	base, ok := b.catalogs[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The base locale goes first so the matcher falls back to it.
	tags := []language.Tag{language.Make(base.Locale)}
	b.locales = []string{base.Locale}
	for _, p := range paths {
		loc := strings.TrimSuffix(path.Base(p), ".json")
		if loc == BaseLocale {
			continue
		}
		tags = append(tags, language.Make(loc))
		b.locales = append(b.locales, loc)
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Locales lists the loaded locale codes, base locale first.
func (b *Bundle) Locales() []string {
	out := make([]string, len(b.locales))
	copy(out, b.locales)
	return out
}

// Has reports whether a catalog exists for locale.
func (b *Bundle) Has(locale string) bool {
	_, ok := b.catalogs[locale]
	return ok
}

// Message returns the text of key in locale, falling back to the base
// locale and finally to the key itself.
func (b *Bundle) Message(locale, key string) string {
	if c, ok := b.catalogs[locale]; ok {
		if msg, ok := c.Messages[key]; ok {
			return msg
		}
	}
	if msg, ok := b.catalogs[BaseLocale].Messages[key]; ok {
		return msg
	}
	return key
}

// Messages returns every key of the base locale resolved in locale.
func (b *Bundle) Messages(locale string) map[string]string {
	base := b.catalogs[BaseLocale].Messages
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	if c, ok := b.catalogs[locale]; ok && locale != BaseLocale {
		for k, v := range c.Messages {
			out[k] = v
		}
	}
	return out
}

// Direction returns "rtl" or "ltr" for locale.
func (b *Bundle) Direction(locale string) string {
	if c, ok := b.catalogs[locale]; ok {
		return c.Direction
	}
	return "ltr"
}

// IsRTL reports whether locale is written right to left.
func (b *Bundle) IsRTL(locale string) bool {
	return b.Direction(locale) == "rtl"
}

// Match picks the best loaded locale for the preferred tags.
func (b *Bundle) Match(tags ...language.Tag) string {
	if len(tags) == 0 {
		return BaseLocale
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return BaseLocale
	}
	return b.locales[idx]
}

// Parse normalizes a user supplied locale such as "zh-CN" or "KO" to a
// loaded locale code.
func (b *Bundle) Parse(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if b.Has(strings.ToLower(value)) {
		return strings.ToLower(value), true
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	if b.Has(base.String()) {
		return base.String(), true
	}
	return "", false
}
