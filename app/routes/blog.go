package routes

import (
	"github.com/vango-dev/frontpage/app/components/shared"
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/server"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

func BlogPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Blog",
		H1("Blog"),
		shared.EntryList(list(pc, content.KindPost), "No posts yet."),
	), nil
}

func PostPage(pc *server.PageContext) (*VNode, error) {
	e, err := entry(pc, content.KindPost)
	if err != nil {
		return nil, err
	}
	return shared.Layout(pc, e.Title, article(e, A(Href("/blog"), "Back to the blog"))), nil
}

// article renders the body of a single entry.
func article(e *content.Entry, back *VNode) *VNode {
	return Article(
		H1(e.Title),
		shared.EntryMeta(e),
		Raw(e.HTML),
		P(back),
	)
}
