// Package routes declares the site's pages.
package routes

import (
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/server"
)

// Routes returns the page table in registration order.
func Routes() []server.Route {
	return []server.Route{
		{Pattern: "/", Name: "home", Page: HomePage},
		{Pattern: "/about", Name: "about", Page: AboutPage},
		{Pattern: "/careers", Name: "careers", Page: CareersPage},
		{Pattern: "/careers/{slug}", Name: "job", Page: JobPage},
		{Pattern: "/contact", Name: "contact", Page: ContactPage},
		{Pattern: "/blog", Name: "blog", Page: BlogPage},
		{Pattern: "/blog/{slug}", Name: "post", Page: PostPage},
		{Pattern: "/podcast", Name: "podcast", Page: PodcastPage},
		{Pattern: "/podcast/{slug}", Name: "episode", Page: EpisodePage},
		{Pattern: "/profile", Name: "profile", Page: ProfilePage},
		{Pattern: "/login", Name: "login", Page: LoginPage},
		{Pattern: "/signup", Name: "signup", Page: SignupPage},
		{Pattern: "/reports", Name: "reports", Page: ReportsPage},
		{Pattern: "/reports/{slug}", Name: "report", Page: ReportPage},
	}
}

// Options returns server options for the page table, such as the
// not-found page.
func Options() []server.Option {
	return []server.Option{server.WithNotFound(NotFoundPage)}
}

func list(pc *server.PageContext, kind content.Kind) []*content.Entry {
	if pc.Content == nil {
		return nil
	}
	return pc.Content.List(kind)
}

func latest(pc *server.PageContext, kind content.Kind, n int) []*content.Entry {
	if pc.Content == nil {
		return nil
	}
	return pc.Content.Latest(kind, n)
}

// entry loads the entry named by the slug parameter. A missing store is
// reported as not found.
func entry(pc *server.PageContext, kind content.Kind) (*content.Entry, error) {
	if pc.Content == nil {
		return nil, content.ErrNotFound
	}
	return pc.Content.Get(kind, pc.Param("slug"))
}
