// Package view renders the server-side HTML of the public pages.
package view

import (
	"strings"

	"github.com/a-h/templ"
)

//go:generate templ generate

// LandingContentID is the element the language switcher replaces.
const LandingContentID = "landing"

// Landing carries what the landing page needs for one locale.
type Landing struct {
	Locale    string
	Direction string
	Locales   []string
	// T looks up a message of the page's locale.
	T func(key string) string
}

var (
	featureNumbers = []string{"1", "2", "3", "4", "5", "6"}
	stepNumbers    = []string{"1", "2", "3", "4"}
)

// langHref is the switcher link used when scripts are off.
func langHref(loc string) templ.SafeURL {
	return templ.SafeURL("/?lang=" + loc)
}

func langAction(loc string) string {
	return "@get('/lang/" + loc + "')"
}

func langLabel(loc string) string {
	return strings.ToUpper(loc)
}
