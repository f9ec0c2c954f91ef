package routes

import (
	"github.com/vango-dev/frontpage/app/components/shared"
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/server"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

func CareersPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Careers",
		H1("Careers"),
		P("We are a small, remote-friendly team. Open roles are listed below."),
		shared.EntryList(list(pc, content.KindJob), "No open roles right now. Check back soon."),
	), nil
}

func JobPage(pc *server.PageContext) (*VNode, error) {
	e, err := entry(pc, content.KindJob)
	if err != nil {
		return nil, err
	}
	return shared.Layout(pc, e.Title,
		article(e, A(Href("/contact"), "Apply through the contact form")),
	), nil
}
