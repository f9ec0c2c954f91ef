package routes

import (
	"github.com/vango-dev/frontpage/app/components/shared"
	"github.com/vango-dev/frontpage/pkg/server"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

func NotFoundPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Not found",
		H1("Page not found"),
		P("Nothing lives at ", Strong(pc.Path), "."),
		P(A(Href("/"), "Back to the home page")),
	), nil
}
