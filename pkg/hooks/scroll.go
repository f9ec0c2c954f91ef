package hooks

import (
	"encoding/json"

	"github.com/vango-dev/frontpage/pkg/protocol"
	"github.com/vango-dev/frontpage/pkg/scroll"
	"github.com/vango-dev/frontpage/pkg/vdom"
)

// ScrollDirectionName is the hook name the client looks for.
const ScrollDirectionName = "ScrollDirection"

// Defaults for ScrollConfig.
const (
	DefaultHideClass = "header--hidden"
	DefaultThreshold = 64
	DefaultThrottle  = 100
)

// ScrollConfig configures the ScrollDirection hook.
type ScrollConfig struct {
	// HideClass is added while the user scrolls down past Threshold.
	HideClass string `json:"hideClass,omitempty"`
	// Threshold is the offset in pixels below which the element never hides.
	Threshold int `json:"threshold,omitempty"`
	// Throttle is the client-side minimum interval between scroll events, in ms.
	Throttle int `json:"throttle,omitempty"`
}

func (c ScrollConfig) withDefaults() ScrollConfig {
	if c.HideClass == "" {
		c.HideClass = DefaultHideClass
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Throttle <= 0 {
		c.Throttle = DefaultThrottle
	}
	return c
}

// ScrollDirection creates the hook attribute for an element that follows
// the page scroll direction.
func ScrollDirection(cfg ScrollConfig) vdom.Attr {
	return Hook(ScrollDirectionName, cfg.withDefaults())
}

// ParseScrollConfig decodes a ScrollDirection hook config.
func ParseScrollConfig(raw json.RawMessage) (ScrollConfig, error) {
	var cfg ScrollConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return ScrollConfig{}, err
		}
	}
	return cfg.withDefaults(), nil
}

// ScrollView is the server side of a mounted ScrollDirection hook. It owns
// one tracker and turns offsets into patches for its element.
type ScrollView struct {
	hid     string
	cfg     ScrollConfig
	tracker *scroll.Tracker
	hidden  bool
}

// NewScrollView creates a view for the element hid.
func NewScrollView(hid string, cfg ScrollConfig) *ScrollView {
	return &ScrollView{
		hid:     hid,
		cfg:     cfg.withDefaults(),
		tracker: scroll.New(),
	}
}

// HID returns the element the view patches.
func (v *ScrollView) HID() string { return v.hid }

// Direction returns the tracked direction.
func (v *ScrollView) Direction() scroll.Direction { return v.tracker.Direction() }

// Hidden reports whether the hide class is currently applied.
func (v *ScrollView) Hidden() bool { return v.hidden }

// Sync returns the patches that set the element to the view's current
// state. A freshly mounted element may still carry attributes from an
// earlier view.
func (v *ScrollView) Sync() []protocol.Patch {
	patches := []protocol.Patch{protocol.SetData(v.hid, "scroll", v.tracker.Direction().String())}
	if v.hidden {
		return append(patches, protocol.AddClass(v.hid, v.cfg.HideClass))
	}
	return append(patches, protocol.RemoveClass(v.hid, v.cfg.HideClass))
}

// Apply feeds offset to the tracker and returns the patches needed to bring
// the element up to date. It returns nil when nothing changed.
func (v *ScrollView) Apply(offset float64) []protocol.Patch {
	dir := v.tracker.Update(offset)

	var patches []protocol.Patch
	if v.tracker.Changed() {
		patches = append(patches, protocol.SetData(v.hid, "scroll", dir.String()))
	}

	hide := dir == scroll.Down && offset > float64(v.cfg.Threshold)
	if hide != v.hidden {
		v.hidden = hide
		if hide {
			patches = append(patches, protocol.AddClass(v.hid, v.cfg.HideClass))
		} else {
			patches = append(patches, protocol.RemoveClass(v.hid, v.cfg.HideClass))
		}
	}
	return patches
}
