package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vango-dev/frontpage/pkg/pref"
	"github.com/vango-dev/frontpage/pkg/protocol"
)

// Ctx is what event handlers receive. It is only valid for the duration of
// the handler call, on the session's event loop.
type Ctx interface {
	// Emit dispatches a CustomEvent named name on the client's window.
	Emit(name string, detail any)
	// Patch queues DOM patches. They are sent when the handler returns.
	Patch(patches ...protocol.Patch)
	// Theme returns the session's theme preference.
	Theme() pref.Theme
	// SetTheme changes the theme; the client is told to apply and persist it.
	SetTheme(t pref.Theme)
	// Path is the page the client is showing.
	Path() string
	SessionID() string
	Logger() *zap.Logger
	StdContext() context.Context
}

type eventCtx struct {
	s   *Session
	ctx context.Context
}

var _ Ctx = (*eventCtx)(nil)

func (c *eventCtx) Emit(name string, detail any) {
	p, err := protocol.Dispatch(name, detail)
	if err != nil {
		c.s.logger.Error("emit: cannot encode detail", zap.String("event", name), zap.Error(err))
		return
	}
	c.s.pending = append(c.s.pending, p)
}

func (c *eventCtx) Patch(patches ...protocol.Patch) {
	c.s.pending = append(c.s.pending, patches...)
}

func (c *eventCtx) Theme() pref.Theme           { return c.s.theme.Get() }
func (c *eventCtx) SetTheme(t pref.Theme)       { c.s.theme.Set(t) }
func (c *eventCtx) Path() string                { return c.s.path }
func (c *eventCtx) SessionID() string           { return c.s.id }
func (c *eventCtx) Logger() *zap.Logger         { return c.s.logger }
func (c *eventCtx) StdContext() context.Context { return c.ctx }

// ThemeEvent is dispatched when the theme changes. Its detail is
// {"theme": "light|dark|system"}.
const ThemeEvent = "site:theme"

// invoke calls a handler registered during render. Supported signatures:
//
//	func()
//	func(Ctx)
//	func(Ctx, map[string]string) // submit fields
//	func(Ctx, float64)           // scroll offset
func invoke(handler any, c Ctx, ev *protocol.Event) error {
	switch fn := handler.(type) {
	case func():
		fn()
	case func(Ctx):
		fn(c)
	case func(Ctx, map[string]string):
		var fields map[string]string
		if data, ok := ev.Payload.(*protocol.SubmitEventData); ok {
			fields = data.Fields
		}
		if fields == nil {
			fields = map[string]string{}
		}
		fn(c, fields)
	case func(Ctx, float64):
		var offset float64
		if data, ok := ev.Payload.(*protocol.ScrollEventData); ok {
			offset = float64(data.ScrollTop)
		}
		fn(c, offset)
	default:
		return fmt.Errorf("session: unsupported handler type %T", handler)
	}
	return nil
}
