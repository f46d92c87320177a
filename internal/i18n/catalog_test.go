package i18n_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/msomdec/lovebridge/internal/i18n"
)

func TestDefaultBundleLoadsAllLocales(t *testing.T) {
	b := i18n.Default()
	for _, loc := range []string{"ko", "en", "zh", "ja", "vi", "es", "ar"} {
		if !b.Has(loc) {
			t.Fatalf("expected catalog for %s", loc)
		}
	}
	if got := b.Locales()[0]; got != i18n.BaseLocale {
		t.Fatalf("expected base locale first, got %q", got)
	}
}

func TestEveryLocaleCoversBaseKeys(t *testing.T) {
	b := i18n.Default()
	base := b.Messages(i18n.BaseLocale)
	for _, loc := range b.Locales() {
		for key := range base {
			if b.Message(loc, key) == key {
				t.Fatalf("locale %s: key %s resolves to itself", loc, key)
			}
		}
	}
}

func TestMessageFallback(t *testing.T) {
	b := i18n.Default()

	if got := b.Message("ko", "navLogin"); got != "로그인" {
		t.Fatalf("expected Korean login label, got %q", got)
	}
	if got := b.Message("xx", "navLogin"); got != "Login" {
		t.Fatalf("expected English fallback for unknown locale, got %q", got)
	}
	if got := b.Message("en", "no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key echo for missing key, got %q", got)
	}
}

func TestDirection(t *testing.T) {
	b := i18n.Default()
	if !b.IsRTL("ar") {
		t.Fatal("expected Arabic to be right-to-left")
	}
	if b.IsRTL("en") {
		t.Fatal("expected English to be left-to-right")
	}
}

func TestParse(t *testing.T) {
	b := i18n.Default()
	cases := map[string]string{"ko": "ko", "KO": "ko", "zh-CN": "zh", "es-MX": "es"}
	for in, want := range cases {
		got, ok := b.Parse(in)
		if !ok || got != want {
			t.Fatalf("Parse(%q): expected %q, got %q (ok=%v)", in, want, got, ok)
		}
	}
	if _, ok := b.Parse("fr"); ok {
		t.Fatal("expected unsupported locale to be rejected")
	}
}

func TestResolve(t *testing.T) {
	b := i18n.Default()

	r := httptest.NewRequest(http.MethodGet, "/?lang=ja", nil)
	r.AddCookie(&http.Cookie{Name: i18n.LangCookieName, Value: "ko"})
	loc, persist := b.Resolve(r, "en")
	if loc != "ja" || !persist {
		t.Fatalf("expected query param to win and persist, got %q %v", loc, persist)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: i18n.LangCookieName, Value: "ko"})
	r.Header.Set("Accept-Language", "es")
	if loc, persist := b.Resolve(r, "en"); loc != "ko" || persist {
		t.Fatalf("expected cookie locale, got %q %v", loc, persist)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "fr-FR,vi;q=0.8")
	if loc, _ := b.Resolve(r, "en"); loc != "vi" {
		t.Fatalf("expected Accept-Language match vi, got %q", loc)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if loc, _ := b.Resolve(r, "zh"); loc != "zh" {
		t.Fatalf("expected configured fallback zh, got %q", loc)
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/ko.json": {Data: []byte(`{"locale":"ko","messages":{"a":"b"}}`)},
	}
	if _, err := i18n.LoadFromFS(fsys); err == nil {
		t.Fatal("expected error when base locale is missing")
	}
}

func TestLoadFromFSRejectsMismatchedLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"locale":"ko","messages":{}}`)},
	}
	if _, err := i18n.LoadFromFS(fsys); err == nil {
		t.Fatal("expected error when locale does not match filename")
	}
}
