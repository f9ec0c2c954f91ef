// Package hooks attaches client-side behaviour to elements.
//
// A hook is a v-hook attribute of the form "Name:{json config}". The client
// instantiates the named behaviour for the element and, for hooks that need
// server state, announces the element with a Mount control message.
package hooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/frontpage/pkg/vdom"
)

// ErrMalformedHook is returned by Parse for values without a name.
var ErrMalformedHook = errors.New("hooks: malformed hook attribute")

// Hook creates a hook attribute. config is serialized to JSON; a value that
// cannot be marshalled yields an empty object.
func Hook(name string, config any) vdom.Attr {
	b, err := json.Marshal(config)
	if err != nil || string(b) == "null" {
		b = []byte("{}")
	}
	return vdom.Attr{
		Key:   vdom.HookAttr,
		Value: fmt.Sprintf("%s:%s", name, b),
	}
}

// Parse splits a hook attribute value into its name and raw config.
func Parse(value string) (name string, config json.RawMessage, err error) {
	name, raw, ok := strings.Cut(value, ":")
	if !ok || name == "" {
		return "", nil, ErrMalformedHook
	}
	if raw == "" {
		raw = "{}"
	}
	if !json.Valid([]byte(raw)) {
		return "", nil, fmt.Errorf("%w: invalid config for %s", ErrMalformedHook, name)
	}
	return name, json.RawMessage(raw), nil
}
