package routes

import (
	"github.com/vango-dev/frontpage/app/components/shared"
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/server"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

func HomePage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "",
		Section(Class("hero"),
			H1("Build with the community"),
			P("Stories, episodes and openings from the people behind ", pc.Site.Name, "."),
			P(A(Href("/signup"), "Join us"), Text(" or "), A(Href("/contact"), "get in touch"), "."),
		),
		Section(
			H2("Latest from the blog"),
			shared.EntryList(latest(pc, content.KindPost, 3), "No posts yet."),
			P(A(Href("/blog"), "All posts")),
		),
		Section(
			H2("New episodes"),
			shared.EntryList(latest(pc, content.KindEpisode, 2), "No episodes yet."),
			P(A(Href("/podcast"), "All episodes")),
		),
		Aside(Class("callout"),
			P(Strong("We are hiring."), " See the ", A(Href("/careers"), "open roles"), "."),
		),
	), nil
}

func AboutPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "About",
		H1("About"),
		P(pc.Site.Name, " is a community of builders sharing what they learn."),
		P("We publish writing, a podcast and open research, and we are hiring."),
		Blockquote(
			P("Ship small, share early, and write down what you learned."),
		),
	), nil
}
