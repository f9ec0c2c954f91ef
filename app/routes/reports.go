package routes

import (
	"github.com/vango-dev/frontpage/app/components/shared"
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/server"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

func ReportsPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Reports",
		H1("Reports"),
		P("Research and annual reports published by the team."),
		shared.EntryList(list(pc, content.KindReport), "No reports published yet."),
	), nil
}

func ReportPage(pc *server.PageContext) (*VNode, error) {
	e, err := entry(pc, content.KindReport)
	if err != nil {
		return nil, err
	}
	return shared.Layout(pc, e.Title, article(e, A(Href("/reports"), "All reports"))), nil
}
