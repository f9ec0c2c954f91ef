package shared

import (
	"time"

	"github.com/vango-dev/frontpage/pkg/server"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

func SiteFooter(pc *server.PageContext) *VNode {
	return Footer(Class("site-footer"),
		Nav(AriaLabel("Footer"),
			NavLink(pc, "/profile", "Profile"),
			Text(" · "),
			NavLink(pc, "/signup", "Sign up"),
			Text(" · "),
			NavLink(pc, "/contact", "Contact"),
		),
		Small(Textf("© %d %s", time.Now().Year(), pc.Site.Name)),
	)
}
