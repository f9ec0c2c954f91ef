package vdom

import "strings"

func attr(key string, value any) Attr { return Attr{Key: key, Value: value} }

// ID sets the id attribute. Elements with an id keep it as their HID.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute. Repeated Class arguments accumulate.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassIf adds class only when cond holds.
func ClassIf(cond bool, class string) Attr {
	if cond {
		return attr("class", class)
	}
	return Attr{}
}

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

func Lang(lang string) Attr         { return attr("lang", lang) }
func Href(url string) Attr          { return attr("href", url) }
func Rel(rel string) Attr           { return attr("rel", rel) }
func Src(url string) Attr           { return attr("src", url) }
func Alt(text string) Attr          { return attr("alt", text) }
func Charset(charset string) Attr   { return attr("charset", charset) }
func Name(name string) Attr         { return attr("name", name) }
func Content(content string) Attr   { return attr("content", content) }
func Type(t string) Attr            { return attr("type", t) }
func Value(value string) Attr       { return attr("value", value) }
func Placeholder(text string) Attr  { return attr("placeholder", text) }
func For(id string) Attr            { return attr("for", id) }
func Rows(n int) Attr               { return attr("rows", n) }
func Datetime(value string) Attr    { return attr("datetime", value) }
func Role(role string) Attr         { return attr("role", role) }
func AriaLabel(label string) Attr   { return attr("aria-label", label) }
func AriaLive(mode string) Attr     { return attr("aria-live", mode) }
func AriaCurrent(value string) Attr { return attr("aria-current", value) }
func AriaPressed(value bool) Attr   { return attr("aria-pressed", value) }
func Method(method string) Attr     { return attr("method", method) }
func Action(url string) Attr        { return attr("action", url) }

// Autocomplete sets the autocomplete hint on inputs.
func Autocomplete(value string) Attr { return attr("autocomplete", value) }

// Boolean attributes

func Required() Attr { return attr("required", true) }
func Disabled() Attr { return attr("disabled", true) }
func Controls() Attr { return attr("controls", true) }
func Defer() Attr    { return attr("defer", true) }
