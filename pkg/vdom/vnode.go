// Package vdom defines the view tree that pages are built from.
//
// Pages dot-import this package and compose elements directly:
//
//	Div(Class("hero"),
//	    H1(Text("About")),
//	    Button(ID("theme-toggle"), OnClick(toggle), Text("Theme")),
//	)
//
// Element constructors accept Attr, []Attr, EventHandler, *VNode, []*VNode
// and string arguments; nil arguments are ignored so conditionals compose.
package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Escaped text
	KindFragment              // Children without a wrapper
	KindRaw                   // Unescaped HTML
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node of the view tree.
type VNode struct {
	Kind     VKind
	Tag      string
	Props    Props
	Children []*VNode
	Text     string // For KindText and KindRaw
	HID      string // Assigned during render for interactive elements
}

// Props holds attributes and event handlers, keyed by name.
// Handlers are stored under "on"+event, e.g. "onclick".
type Props map[string]any

// Attr is a single attribute. The zero Attr is ignored.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty reports whether the attribute should be skipped.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler binds a handler to an event prop such as "onclick".
type EventHandler struct {
	Event   string
	Handler any
}

// HookAttr is the attribute carrying client hook configuration.
const HookAttr = "v-hook"

// IsInteractive reports whether the element needs a hydration ID: it has
// an event handler or a client hook.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key, val := range v.Props {
		if key == HookAttr {
			return true
		}
		if strings.HasPrefix(key, "on") {
			if _, ok := val.(string); !ok {
				return true
			}
		}
	}
	return false
}

// Handlers returns the node's event handlers keyed by prop name.
func (v *VNode) Handlers() map[string]any {
	var out map[string]any
	for key, val := range v.Props {
		if !strings.HasPrefix(key, "on") {
			continue
		}
		if _, ok := val.(string); ok {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[key] = val
	}
	return out
}

// Walk visits n and its descendants depth-first in document order.
func Walk(n *VNode, fn func(*VNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// FindByID returns the first element whose id attribute equals id.
func FindByID(root *VNode, id string) *VNode {
	var found *VNode
	Walk(root, func(n *VNode) {
		if found == nil && n.Kind == KindElement && n.Props["id"] == id {
			found = n
		}
	})
	return found
}
