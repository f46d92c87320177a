package handler

import (
	"net/http"

	"github.com/msomdec/lovebridge/internal/i18n"
	"github.com/msomdec/lovebridge/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// HomeHandler renders the localized landing page and serves the string
// tables to clients.
type HomeHandler struct {
	bundle        *i18n.Bundle
	defaultLocale string
	cookieSecure  bool
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(bundle *i18n.Bundle, defaultLocale string, cookieSecure bool) *HomeHandler {
	return &HomeHandler{bundle: bundle, defaultLocale: defaultLocale, cookieSecure: cookieSecure}
}

func (h *HomeHandler) landing(locale string) view.Landing {
	return view.Landing{
		Locale:    locale,
		Direction: h.bundle.Direction(locale),
		Locales:   h.bundle.Locales(),
		T:         func(key string) string { return h.bundle.Message(locale, key) },
	}
}

// HandleHome renders the landing page in the resolved locale. An explicit
// ?lang= choice is remembered in a cookie. Signed-in members fall back to
// their profile language instead of the server default.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	fallback := h.defaultLocale
	if u := UserFromContext(r.Context()); u != nil && h.bundle.Has(u.Language) {
		fallback = u.Language
	}
	locale, persist := h.bundle.Resolve(r, fallback)
	if persist {
		i18n.SetLanguageCookie(w, locale, h.cookieSecure)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", locale)
	if err := view.LandingPage(h.landing(locale)).Render(r.Context(), w); err != nil {
		writeServiceError(w, r, "render landing page", err)
	}
}

// HandleSwitchLanguage swaps the landing content for another locale.
// GET /lang/{locale} (datastar SSE)
func (h *HomeHandler) HandleSwitchLanguage(w http.ResponseWriter, r *http.Request) {
	locale, ok := h.bundle.Parse(r.PathValue("locale"))
	if !ok {
		writeError(w, http.StatusNotFound, "Unsupported language.")
		return
	}
	i18n.SetLanguageCookie(w, locale, h.cookieSecure)

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.LandingContent(h.landing(locale)),
		datastar.WithSelectorID(view.LandingContentID),
	)
}

// HandleMessages returns the string table of a locale.
// GET /api/i18n/{locale}
func (h *HomeHandler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	locale, ok := h.bundle.Parse(r.PathValue("locale"))
	if !ok {
		writeError(w, http.StatusNotFound, "Unsupported language.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locale":    locale,
		"direction": h.bundle.Direction(locale),
		"messages":  h.bundle.Messages(locale),
	})
}
