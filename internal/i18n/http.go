package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "lb_lang"
)

// Resolve determines the locale for the request from the lang query
// parameter, then the language cookie, then Accept-Language. The bool
// reports whether the query parameter selected it and should be persisted.
func (b *Bundle) Resolve(r *http.Request, fallback string) (string, bool) {
	if !b.Has(fallback) {
		fallback = BaseLocale
	}
	if r == nil {
		return fallback, false
	}

	if v := r.URL.Query().Get(LangParam); v != "" {
		if loc, ok := b.Parse(v); ok {
			return loc, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if loc, ok := b.Parse(cookie.Value); ok {
			return loc, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return b.Match(tags...), false
		}
	}

	return fallback, false
}

// SetLanguageCookie persists the selected locale on the response.
func SetLanguageCookie(w http.ResponseWriter, locale string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
