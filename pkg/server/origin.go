package server

import (
	"net/http"
	"net/url"
	"path"
	"strings"
)

// checkOrigin returns a WebSocket origin check that accepts same-host
// upgrades and origins matching one of the allowed patterns. Patterns use
// path.Match syntax, so "http://localhost:*" matches any local port.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		for _, pattern := range allowed {
			if pattern == "*" {
				return true
			}
			if ok, _ := path.Match(pattern, origin); ok {
				return true
			}
		}
		return false
	}
}
