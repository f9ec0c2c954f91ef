package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/frontpage/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	html, err := NewRenderer().RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	html, err := NewRenderer().RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderElement(t *testing.T) {
	node := vdom.Div(vdom.Class("container"),
		vdom.H1(vdom.Text("Title")),
		vdom.P("Content"),
	)
	html, err := NewRenderer().RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderSortedAttributes(t *testing.T) {
	node := vdom.A(vdom.Rel("noopener"), vdom.Href("/blog"), vdom.Class("link"), vdom.Text("Blog"))
	html, err := NewRenderer().RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<a class="link" href="/blog" rel="noopener">Blog</a>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderVoidElements(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"input", vdom.Input(vdom.Type("text"), vdom.Name("email")), `<input name="email" type="text">`},
		{"img", vdom.Img(vdom.Src("/a.png"), vdom.Alt("a")), `<img alt="a" src="/a.png">`},
		{"meta", vdom.Meta(vdom.Charset("utf-8")), `<meta charset="utf-8">`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := NewRenderer().RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
		})
	}
}

func TestRenderBooleanAttributes(t *testing.T) {
	html, err := NewRenderer().RenderToString(vdom.Input(vdom.Required(), vdom.Disabled()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != `<input disabled required>` {
		t.Errorf("boolean attrs should not have values, got %q", html)
	}

	html, err = NewRenderer().RenderToString(vdom.Input(vdom.Attr{Key: "disabled", Value: false}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != `<input>` {
		t.Errorf("should not render false boolean attributes, got %q", html)
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	html, err := NewRenderer().RenderToString(vdom.Div(vdom.Data("note", "a\"b\nc")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div data-note="a&quot;b&#10;c"></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderFragmentAndRaw(t *testing.T) {
	node := vdom.Fragment(vdom.Text("a<"), vdom.Raw("<em>b</em>"), nil)
	html, err := NewRenderer().RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "a&lt;<em>b</em>" {
		t.Errorf("got %q", html)
	}
}

func TestRenderHIDFromID(t *testing.T) {
	called := false
	node := vdom.Button(vdom.ID("theme-toggle"), vdom.OnClick(func() { called = true }), vdom.Text("Theme"))

	r := NewRenderer()
	html, err := r.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<button id="theme-toggle" data-on-click="true" data-hid="theme-toggle">Theme</button>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
	if node.HID != "theme-toggle" {
		t.Errorf("HID = %q, want theme-toggle", node.HID)
	}

	h, ok := r.Result().Handlers[HandlerKey("theme-toggle", "onclick")]
	if !ok {
		t.Fatal("handler not registered")
	}
	h.(func())()
	if !called {
		t.Error("registered handler is not the one passed in")
	}
}

func TestRenderHIDCounterIsDeterministic(t *testing.T) {
	build := func() *vdom.VNode {
		return vdom.Div(
			vdom.Button(vdom.OnClick(func() {}), "one"),
			vdom.P("static"),
			vdom.Form(vdom.OnSubmit(func(map[string]string) {})),
		)
	}

	first, err := Collect(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Collect(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"h1_onclick", "h2_onsubmit"} {
		if _, ok := first.Handlers[key]; !ok {
			t.Errorf("first render missing %s", key)
		}
		if _, ok := second.Handlers[key]; !ok {
			t.Errorf("second render missing %s", key)
		}
	}
	if len(first.Handlers) != 2 {
		t.Errorf("got %d handlers, want 2", len(first.Handlers))
	}
}

func TestRenderHookRegistration(t *testing.T) {
	node := vdom.Header(vdom.ID("site-header"), vdom.Attr{Key: vdom.HookAttr, Value: `Scroll:{}`})
	res, err := Collect(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hooks["site-header"] != "Scroll:{}" {
		t.Errorf("hooks = %v", res.Hooks)
	}
	if len(res.Handlers) != 0 {
		t.Errorf("hook-only element should not register handlers, got %v", res.Handlers)
	}
}

func TestRenderPageDoctype(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer().RenderPage(&buf, vdom.Html(vdom.Lang("en"), vdom.Body()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<!DOCTYPE html>\n<html lang=\"en\">") {
		t.Errorf("got %q", buf.String())
	}
}

func TestRenderRejectsInvalidNames(t *testing.T) {
	if _, err := NewRenderer().RenderToString(&vdom.VNode{Kind: vdom.KindElement, Tag: "div onload"}); err == nil {
		t.Error("expected error for invalid tag")
	}
	bad := vdom.Div(vdom.Attr{Key: `x"><script`, Value: "1"})
	if _, err := NewRenderer().RenderToString(bad); err == nil {
		t.Error("expected error for invalid attribute name")
	}
}

func TestRenderNil(t *testing.T) {
	html, err := NewRenderer().RenderToString(nil)
	if err != nil || html != "" {
		t.Errorf("got %q, %v", html, err)
	}
}
