package vdom

import "fmt"

// Text creates an escaped text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node. Only pass trusted HTML.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, c := range children {
		appendArg(node, c)
	}
	return node
}

// If returns node when cond holds, nil otherwise.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}

// Range maps items to nodes, dropping nils.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// OnClick handles click events.
func OnClick(handler any) EventHandler { return EventHandler{Event: "onclick", Handler: handler} }

// OnSubmit handles form submission. The client prevents the default
// navigation and sends the form fields.
func OnSubmit(handler any) EventHandler { return EventHandler{Event: "onsubmit", Handler: handler} }

// OnScroll handles scroll events. The handler receives the vertical offset.
func OnScroll(handler any) EventHandler { return EventHandler{Event: "onscroll", Handler: handler} }
