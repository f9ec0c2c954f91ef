package server

import (
	"context"
	"net/http"

	"github.com/vango-dev/frontpage/internal/config"
	"github.com/vango-dev/frontpage/pkg/assets"
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/pref"
	"github.com/vango-dev/frontpage/pkg/vdom"
)

// Page builds the view tree for a request. Returning an error matching
// content.ErrNotFound renders the not-found page with status 404.
type Page func(pc *PageContext) (*vdom.VNode, error)

// Route binds a chi pattern to a page.
type Route struct {
	Pattern string
	Name    string
	Page    Page
}

// PageContext is what a page sees while it is built, either for an HTTP
// response or for a live session rebuilding the tree after a handshake.
type PageContext struct {
	Path    string
	Params  map[string]string
	Theme   pref.Theme
	Site    config.SiteConfig
	Content *content.Store

	ctx    context.Context
	status int
	assets assets.Resolver
}

// Param returns the named URL parameter, or "".
func (pc *PageContext) Param(name string) string {
	return pc.Params[name]
}

// Context returns the request or session context.
func (pc *PageContext) Context() context.Context {
	if pc.ctx == nil {
		return context.Background()
	}
	return pc.ctx
}

// SetStatus overrides the HTTP status of the response. Live rebuilds
// ignore it.
func (pc *PageContext) SetStatus(code int) {
	pc.status = code
}

// Status returns the response status, 200 unless a page changed it.
func (pc *PageContext) Status() int {
	if pc.status == 0 {
		return http.StatusOK
	}
	return pc.status
}

// Asset returns the URL of an embedded client file such as ScriptAsset,
// fingerprinted when the server could hash it.
func (pc *PageContext) Asset(name string) string {
	if pc.assets == nil {
		return StaticPrefix + name
	}
	return pc.assets.Asset(name)
}

// IsActive reports whether href is the current page or one of its parents,
// for navigation highlighting.
func (pc *PageContext) IsActive(href string) bool {
	if href == "/" {
		return pc.Path == "/"
	}
	return pc.Path == href || len(pc.Path) > len(href) && pc.Path[:len(href)] == href && pc.Path[len(href)] == '/'
}
