// Package server is the HTTP surface of the site.
//
// Pages are registered as Routes on a chi router and rendered to HTML on
// GET. The same route table resolves the path a live client reports in its
// handshake, so the session sees exactly the handlers and hooks the HTML
// was rendered with.
//
// Besides pages the router serves:
//
//	/live       WebSocket endpoint (pkg/session)
//	/theme      form fallback for the theme toggle
//	/static/*   embedded client script and stylesheet
//	/healthz    liveness and content status
//	/metrics    Prometheus metrics, when enabled
//
// Unknown paths and missing content entries render the not-found page with
// status 404.
package server
