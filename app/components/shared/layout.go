// Package shared holds the chrome every page is wrapped in.
package shared

import (
	"github.com/vango-dev/frontpage/pkg/server"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

// Layout wraps a page body in the document shell: head, site header,
// footer and the toast region the client script fills.
func Layout(pc *server.PageContext, title string, children ...any) *VNode {
	docTitle := pc.Site.Name
	if title != "" {
		docTitle = title + " | " + pc.Site.Name
	}
	return Html(Lang("en"), Data("theme", pc.Theme.String()),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			Meta(Name("color-scheme"), Content("light dark")),
			Title(docTitle),
			LinkEl(Rel("stylesheet"), Href(pc.Asset(server.StyleAsset))),
			Script(Src(pc.Asset(server.ScriptAsset)), Defer()),
		),
		Body(
			SiteHeader(pc),
			Main(children...),
			SiteFooter(pc),
			Div(ID("toasts"), Role("status"), AriaLive("polite")),
		),
	)
}
