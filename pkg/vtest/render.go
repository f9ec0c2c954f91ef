package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/frontpage/pkg/render"
	"github.com/vango-dev/frontpage/pkg/vdom"
)

// RenderToString renders node, failing the test on a render error.
func RenderToString(t testing.TB, node *vdom.VNode) string {
	t.Helper()
	html, err := render.NewRenderer().RenderToString(node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

// ExpectContains asserts that the rendered output contains expected.
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(t, node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered output does not contain
// unexpected.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(t, node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that the rendered output carries attr="value".
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(t, node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
