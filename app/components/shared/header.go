package shared

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/vango-dev/frontpage/pkg/hooks"
	"github.com/vango-dev/frontpage/pkg/pref"
	"github.com/vango-dev/frontpage/pkg/protocol"
	"github.com/vango-dev/frontpage/pkg/server"
	"github.com/vango-dev/frontpage/pkg/session"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

// Element IDs the live session addresses.
const (
	HeaderID      = "site-header"
	ThemeToggleID = "theme-toggle"
)

type navItem struct {
	href  string
	label string
}

var mainNav = []navItem{
	{"/about", "About"},
	{"/blog", "Blog"},
	{"/podcast", "Podcast"},
	{"/careers", "Careers"},
	{"/reports", "Reports"},
	{"/contact", "Contact"},
}

// SiteHeader is the sticky header. It carries the ScrollDirection hook, so
// once the client mounts it the session hides it while scrolling down and
// shows it again on the way up.
func SiteHeader(pc *server.PageContext) *VNode {
	return Header(ID(HeaderID), Class("site-header"), Data("scroll", "down"),
		hooks.ScrollDirection(hooks.ScrollConfig{}),
		A(Href("/"), Class("brand"), Strong(pc.Site.Name)),
		Nav(AriaLabel("Main"),
			Range(mainNav, func(item navItem, _ int) *VNode {
				return NavLink(pc, item.href, item.label)
			}),
		),
		Div(Class("header-actions"),
			NavLink(pc, "/login", "Log in"),
			ThemeToggle(pc),
		),
	)
}

// NavLink renders a link marked as the current page when pc is at or
// below href.
func NavLink(pc *server.PageContext, href, label string) *VNode {
	return A(Href(href),
		currentAttr(pc.IsActive(href)),
		label,
	)
}

func currentAttr(active bool) Attr {
	if active {
		return AriaCurrent("page")
	}
	return Attr{}
}

// ThemeToggle flips between light and dark. Without a live connection the
// surrounding form posts to /theme instead.
func ThemeToggle(pc *server.PageContext) *VNode {
	return Form(Method("post"), Action("/theme"), Class("theme-form"),
		Input(Type("hidden"), Name("return"), Value(pc.Path)),
		Button(ID(ThemeToggleID), Type("submit"), Class("theme-toggle"),
			AriaLabel("Toggle theme"),
			AriaPressed(pc.Theme == pref.ThemeDark),
			OnClick(toggleTheme),
			"Theme",
		),
	)
}

func toggleTheme(c session.Ctx) {
	next := c.Theme().Toggle()
	c.SetTheme(next)
	c.Patch(protocol.SetAttr(ThemeToggleID, "aria-pressed", strconv.FormatBool(next == pref.ThemeDark)))
	c.Logger().Debug("theme toggled", zap.Stringer("theme", next))
}
