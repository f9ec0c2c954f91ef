package shared

import (
	"github.com/vango-dev/frontpage/pkg/content"
	. "github.com/vango-dev/frontpage/pkg/vdom"
)

// EntryList renders entry summaries, or empty when there are none.
func EntryList(entries []*content.Entry, empty string) *VNode {
	if len(entries) == 0 {
		return P(Class("entry-meta"), empty)
	}
	return Ul(Class("entry-list"),
		Range(entries, func(e *content.Entry, _ int) *VNode {
			return Li(
				H3(A(Href(e.URL()), e.Title)),
				EntryMeta(e),
				If(e.Summary != "", P(e.Summary)),
			)
		}),
	)
}

// EntryMeta renders the date, author and kind-specific details of e.
func EntryMeta(e *content.Entry) *VNode {
	meta := []*VNode{}
	if !e.Date.IsZero() {
		meta = append(meta, Time(Datetime(e.Date.Format(content.DateLayout)), e.Date.Format("January 2, 2006")))
	}
	if e.Author != "" {
		meta = append(meta, Text(" · "+e.Author))
	}
	if e.Location != "" {
		meta = append(meta, Text(" · "+e.Location))
	}
	if e.Duration > 0 {
		meta = append(meta, Text(" · "+e.Duration.String()))
	}
	return P(Class("entry-meta"), meta, Tags(e.Tags))
}

// Tags renders tag chips.
func Tags(tags []string) *VNode {
	if len(tags) == 0 {
		return nil
	}
	return Span(Range(tags, func(tag string, _ int) *VNode {
		return Span(Class("tag"), tag)
	}))
}
