// Package render writes vdom trees as HTML.
//
// Interactive elements (those with event handlers or a client hook) get a
// data-hid attribute. An element's id doubles as its HID; the rest are
// numbered h1, h2, ... in document order, so rendering the same tree twice
// yields the same HIDs. The live session relies on that to re-derive the
// handler table for a page it did not render itself.
package render

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/frontpage/pkg/vdom"
)

// HandlerKey joins a HID and an event prop, e.g. "contact-form_onsubmit".
func HandlerKey(hid, event string) string {
	return hid + "_" + event
}

// Result is the side output of a render.
type Result struct {
	// Handlers maps HandlerKey(hid, event) to the handler value.
	Handlers map[string]any
	// Hooks maps HID to the raw v-hook attribute value.
	Hooks map[string]string
}

// Renderer renders a single tree. It is not safe for concurrent use.
type Renderer struct {
	hidCounter int
	result     Result
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		result: Result{
			Handlers: make(map[string]any),
			Hooks:    make(map[string]string),
		},
	}
}

// Result returns the handler and hook tables collected so far.
func (r *Renderer) Result() Result {
	return r.result
}

// RenderToString renders node to a string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, node); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderPage writes a doctype followed by node.
func (r *Renderer) RenderPage(w io.Writer, node *vdom.VNode) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if err := r.renderNode(bw, node); err != nil {
		return err
	}
	return bw.Flush()
}

// Render writes node to w.
func (r *Renderer) Render(w io.Writer, node *vdom.VNode) error {
	bw := bufio.NewWriter(w)
	if err := r.renderNode(bw, node); err != nil {
		return err
	}
	return bw.Flush()
}

// Collect assigns HIDs and gathers handlers without producing output.
func Collect(node *vdom.VNode) (Result, error) {
	r := NewRenderer()
	if err := r.Render(io.Discard, node); err != nil {
		return Result{}, err
	}
	return r.result, nil
}

func (r *Renderer) renderNode(w *bufio.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node)
	case vdom.KindText:
		_, err := w.WriteString(escapeHTML(node.Text))
		return err
	case vdom.KindRaw:
		_, err := w.WriteString(node.Text)
		return err
	case vdom.KindFragment:
		for _, c := range node.Children {
			if err := r.renderNode(w, c); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("render: unknown node kind %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w *bufio.Writer, node *vdom.VNode) error {
	tag := node.Tag
	if !validTag(tag) {
		return fmt.Errorf("render: invalid tag %q", tag)
	}

	w.WriteByte('<')
	w.WriteString(tag)
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}

	if node.IsInteractive() {
		node.HID = r.assignHID(node)
		fmt.Fprintf(w, ` data-hid="%s"`, escapeAttr(node.HID))
		r.register(node)
	}
	w.WriteByte('>')

	if vdom.IsVoidElement(tag) {
		return nil
	}

	for _, c := range node.Children {
		if err := r.renderNode(w, c); err != nil {
			return err
		}
	}

	w.WriteString("</")
	w.WriteString(tag)
	_, err := w.WriteString(">")
	return err
}

func (r *Renderer) assignHID(node *vdom.VNode) string {
	if id, ok := node.Props["id"].(string); ok && id != "" {
		return id
	}
	r.hidCounter++
	return "h" + strconv.Itoa(r.hidCounter)
}

func (r *Renderer) register(node *vdom.VNode) {
	for event, h := range node.Handlers() {
		r.result.Handlers[HandlerKey(node.HID, event)] = h
	}
	if hook, ok := node.Props[vdom.HookAttr].(string); ok {
		r.result.Hooks[node.HID] = hook
	}
}

// renderAttributes writes attributes in sorted order. Handlers are not
// written; the element instead gets a data-on-<event> marker so the client
// knows which events to forward.
func (r *Renderer) renderAttributes(w *bufio.Writer, node *vdom.VNode) error {
	keys := make([]string, 0, len(node.Props))
	for k := range node.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var events []string
	for _, key := range keys {
		value := node.Props[key]
		if strings.HasPrefix(key, "on") {
			if _, ok := value.(string); !ok {
				events = append(events, key[2:])
				continue
			}
		}
		if !validAttrName(key) {
			return fmt.Errorf("render: invalid attribute name %q", key)
		}
		if isBooleanAttr(key) {
			if b, ok := value.(bool); ok {
				if b {
					w.WriteByte(' ')
					w.WriteString(key)
				}
				continue
			}
		}
		fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(attrToString(value)))
	}
	for _, ev := range events {
		fmt.Fprintf(w, ` data-on-%s="true"`, ev)
	}
	return nil
}

func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
