package pref

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ThemeCookie is the cookie the theme is persisted in.
const ThemeCookie = "theme"

// themeCookieMaxAge is one year.
const themeCookieMaxAge = 365 * 24 * 60 * 60

// ParseTheme parses a theme name, case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("pref: unknown theme %q", s)
	}
}

// Toggle returns the opposite explicit theme. System toggles to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// String implements fmt.Stringer.
func (t Theme) String() string { return string(t) }

// ThemeFromRequest reads the theme cookie, falling back to def when the
// cookie is absent or invalid.
func ThemeFromRequest(r *http.Request, def Theme) Theme {
	c, err := r.Cookie(ThemeCookie)
	if err != nil {
		return def
	}
	t, err := ParseTheme(c.Value)
	if err != nil {
		return def
	}
	return t
}

// SetThemeCookie persists t for a year.
func SetThemeCookie(w http.ResponseWriter, t Theme) {
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    string(t),
		Path:     "/",
		MaxAge:   themeCookieMaxAge,
		Expires:  time.Now().Add(themeCookieMaxAge * time.Second),
		SameSite: http.SameSiteLaxMode,
	})
}
