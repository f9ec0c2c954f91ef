package routes

import (
	"github.com/vango-dev/frontpage/app/components/shared"
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/server"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

func PodcastPage(pc *server.PageContext) (*VNode, error) {
	return shared.Layout(pc, "Podcast",
		H1("Podcast"),
		P("Conversations with the people building in the open."),
		shared.EntryList(list(pc, content.KindEpisode), "No episodes yet."),
	), nil
}

func EpisodePage(pc *server.PageContext) (*VNode, error) {
	e, err := entry(pc, content.KindEpisode)
	if err != nil {
		return nil, err
	}
	var player *VNode
	if e.AudioURL != "" {
		player = Audio(Controls(), Src(e.AudioURL), AriaLabel("Play "+e.Title))
	}
	return shared.Layout(pc, e.Title,
		player,
		article(e, A(Href("/podcast"), "All episodes")),
	), nil
}
