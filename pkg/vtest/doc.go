// Package vtest provides testing helpers for pages and live sessions.
//
// Render assertions check the HTML a node produces:
//
//	vtest.ExpectContains(t, shared.SiteHeader(pc), `id="site-header"`)
//	vtest.ExpectAttribute(t, page, "data-theme", "dark")
//
// Client speaks the live protocol over a real WebSocket so session
// behavior can be driven end to end against an httptest server:
//
//	c := vtest.Dial(t, srv.URL+"/live")
//	c.Handshake("/", "light")
//	c.Mount("site-header")
//	c.Scroll("site-header", 400)
//	pf := c.Patches()
package vtest
