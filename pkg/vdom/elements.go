package vdom

import "strings"

// createElement creates an element node from mixed arguments.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}
	for _, arg := range args {
		appendArg(node, arg)
	}
	return node
}

func appendArg(node *VNode, arg any) {
	switch v := arg.(type) {
	case nil:
	case Attr:
		setAttr(node, v)
	case []Attr:
		for _, a := range v {
			setAttr(node, a)
		}
	case EventHandler:
		if v.Event != "" && v.Handler != nil {
			node.Props[v.Event] = v.Handler
		}
	case *VNode:
		if v != nil {
			node.Children = append(node.Children, v)
		}
	case []*VNode:
		for _, c := range v {
			if c != nil {
				node.Children = append(node.Children, c)
			}
		}
	case string:
		node.Children = append(node.Children, Text(v))
	}
}

// setAttr stores a. Repeated class attributes accumulate.
func setAttr(node *VNode, a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "class" {
		if prev, ok := node.Props["class"].(string); ok && prev != "" {
			if s, ok := a.Value.(string); ok && s != "" {
				node.Props["class"] = prev + " " + s
				return
			}
		}
	}
	node.Props[a.Key] = a.Value
}

// Document structure

func Html(args ...any) *VNode   { return createElement("html", args) }
func Head(args ...any) *VNode   { return createElement("head", args) }
func Body(args ...any) *VNode   { return createElement("body", args) }
func Title(args ...any) *VNode  { return createElement("title", args) }
func Meta(args ...any) *VNode   { return createElement("meta", args) }
func LinkEl(args ...any) *VNode { return createElement("link", args) }
func Script(args ...any) *VNode { return createElement("script", args) }

// Sectioning

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func Aside(args ...any) *VNode   { return createElement("aside", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content

func Div(args ...any) *VNode        { return createElement("div", args) }
func P(args ...any) *VNode          { return createElement("p", args) }
func Span(args ...any) *VNode       { return createElement("span", args) }
func Ul(args ...any) *VNode         { return createElement("ul", args) }
func Li(args ...any) *VNode         { return createElement("li", args) }
func Blockquote(args ...any) *VNode { return createElement("blockquote", args) }
func A(args ...any) *VNode          { return createElement("a", args) }
func Strong(args ...any) *VNode     { return createElement("strong", args) }
func Small(args ...any) *VNode      { return createElement("small", args) }
func Time(args ...any) *VNode       { return createElement("time", args) }
func Img(args ...any) *VNode        { return createElement("img", args) }
func Audio(args ...any) *VNode      { return createElement("audio", args) }

// Forms

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Fieldset(args ...any) *VNode { return createElement("fieldset", args) }

// voidElements cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}
