package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/frontpage/internal/config"
	siteerrors "github.com/vango-dev/frontpage/internal/errors"
	"github.com/vango-dev/frontpage/pkg/hooks"
	"github.com/vango-dev/frontpage/pkg/pref"
	"github.com/vango-dev/frontpage/pkg/protocol"
	"github.com/vango-dev/frontpage/pkg/render"
	"github.com/vango-dev/frontpage/pkg/vdom"
)

// Resolver rebuilds the view tree for a page path so the session can
// recover the handler and hook tables the HTML was rendered with.
type Resolver func(ctx context.Context, path string, theme pref.Theme) (*vdom.VNode, error)

// handshakeTimeout bounds the wait for the client's first frame.
const handshakeTimeout = 10 * time.Second

// inbound is a unit of work for the event loop: an event or a
// mount/unmount of a view.
type inbound struct {
	event   *protocol.Event
	control protocol.ControlType
	hid     string
}

// Session is one live connection. The read loop decodes frames and queues
// them; a single event loop goroutine processes the queue in order and is
// the only goroutine that touches views, handlers and the theme.
type Session struct {
	id      string
	conn    *websocket.Conn
	cfg     config.SessionConfig
	resolve Resolver
	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer

	queue     chan inbound
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex

	patchSeq   atomic.Uint64
	lastActive atomic.Int64
	eventCount atomic.Int64

	// Owned by the event loop after the handshake.
	path     string
	theme    *pref.Pref[pref.Theme]
	handlers map[string]any
	hooks    map[string]string
	views    map[string]*hooks.ScrollView
	pending  []protocol.Patch
}

func newSession(id string, conn *websocket.Conn, cfg config.SessionConfig, resolve Resolver, logger *zap.Logger, metrics *Metrics) *Session {
	s := &Session{
		id:       id,
		conn:     conn,
		cfg:      cfg,
		resolve:  resolve,
		logger:   logger.With(zap.String("session", id)),
		metrics:  metrics,
		tracer:   otel.Tracer("github.com/vango-dev/frontpage/pkg/session"),
		queue:    make(chan inbound, cfg.EventQueueSize),
		done:     make(chan struct{}),
		handlers: map[string]any{},
		hooks:    map[string]string{},
		views:    map[string]*hooks.ScrollView{},
	}
	s.touch()
	return s
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// LastActive returns the time the last frame was received.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() { s.lastActive.Store(time.Now().UnixNano()) }

// Serve performs the handshake and runs the session until the connection
// drops, the client goes idle, or ctx is cancelled.
func (s *Session) Serve(ctx context.Context) error {
	if err := s.handshake(ctx); err != nil {
		s.Close(protocol.CloseError, "handshake failed")
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.readLoop)
	g.Go(func() error { return s.eventLoop(gctx) })
	g.Go(s.pingLoop)
	g.Go(func() error {
		select {
		case <-gctx.Done():
			s.Close(protocol.CloseServerShutdown, "")
		case <-s.done:
		}
		return nil
	})
	err := g.Wait()

	s.logger.Info("session ended",
		zap.Int64("events", s.eventCount.Load()),
		zap.Uint64("patch_frames", s.patchSeq.Load()))
	return err
}

func (s *Session) handshake(ctx context.Context) error {
	_ = s.conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return siteerrors.New("E302").Wrap(err)
	}
	s.touch()

	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		return siteerrors.New("E302").Wrap(err)
	}
	if frame.Type != protocol.FrameHandshake {
		s.sendError(protocol.ErrCodeInvalidFrame, "expected handshake")
		return siteerrors.New("E302").WithDetail("first frame was " + frame.Type.String())
	}
	hs, err := protocol.DecodeHandshake(frame.Payload)
	if err != nil {
		s.sendError(protocol.ErrCodeInvalidFrame, err.Error())
		return siteerrors.New("E302").Wrap(err)
	}

	theme, err := pref.ParseTheme(hs.Theme)
	if err != nil {
		theme = pref.ThemeSystem
	}
	s.path = hs.Path
	if s.path == "" {
		s.path = "/"
	}
	s.theme = pref.New("theme", theme)
	s.theme.OnChange(func(t pref.Theme) {
		p, err := protocol.Dispatch(ThemeEvent, map[string]string{"theme": string(t)})
		if err == nil {
			s.pending = append(s.pending, p)
		}
	})

	if s.resolve != nil {
		root, err := s.resolve(ctx, s.path, theme)
		if err != nil {
			s.sendError(protocol.ErrCodeUnknown, "page unavailable")
			return siteerrors.New("E302").WithDetail(s.path).Wrap(err)
		}
		res, err := render.Collect(root)
		if err != nil {
			return siteerrors.New("E302").WithDetail(s.path).Wrap(err)
		}
		s.handlers = res.Handlers
		s.hooks = res.Hooks
	}

	ack := protocol.EncodeHandshake(&protocol.Handshake{
		Version: protocol.Version,
		Path:    s.path,
		Theme:   string(theme),
	})
	if err := s.writeFrame(protocol.FrameHandshake, ack); err != nil {
		return siteerrors.New("E302").Wrap(err)
	}

	s.logger.Debug("handshake complete",
		zap.String("path", s.path),
		zap.String("theme", string(theme)),
		zap.Int("handlers", len(s.handlers)),
		zap.Int("hooks", len(s.hooks)))
	return nil
}

// readLoop decodes frames until the connection fails. It never touches
// event loop state.
func (s *Session) readLoop() error {
	defer s.Close(protocol.CloseGoingAway, "")

	for {
		var deadline time.Time
		if s.cfg.IdleTimeout > 0 {
			deadline = time.Now().Add(s.cfg.IdleTimeout)
		}
		_ = s.conn.SetReadDeadline(deadline)
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			var ne net.Error
			switch {
			case errors.As(err, &ne) && ne.Timeout():
				s.logger.Info("session idle, closing")
				s.Close(protocol.CloseSessionExpired, "idle timeout")
			case websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived):
				if !s.closed() {
					s.logger.Warn("read error", zap.Error(err))
				}
			}
			return nil
		}
		s.touch()

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("frame decode error", zap.Error(siteerrors.New("E300").Wrap(err)))
			s.sendError(protocol.ErrCodeInvalidFrame, "malformed frame")
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(frame.Payload)
		case protocol.FrameControl:
			s.handleControlFrame(frame.Payload)
		default:
			s.logger.Warn("unexpected frame type", zap.Stringer("type", frame.Type))
		}
	}
}

func (s *Session) handleEventFrame(payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.metrics.eventsDropped.WithLabelValues(dropDecode).Inc()
		s.logger.Warn("event decode error", zap.Error(siteerrors.New("E301").Wrap(err)))
		s.sendError(protocol.ErrCodeInvalidEvent, "malformed event")
		return
	}
	s.enqueue(inbound{event: ev})
}

func (s *Session) handleControlFrame(payload []byte) {
	ct, data, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Warn("control decode error", zap.Error(siteerrors.New("E300").Wrap(err)))
		return
	}

	switch ct {
	case protocol.ControlPing:
		if pp, ok := data.(*protocol.PingPong); ok {
			s.writeControl(protocol.ControlPong, &protocol.PingPong{Timestamp: pp.Timestamp})
		}
	case protocol.ControlPong:
		// Activity was already recorded by touch.
	case protocol.ControlMount, protocol.ControlUnmount:
		if ref, ok := data.(*protocol.ViewRef); ok {
			s.enqueue(inbound{control: ct, hid: ref.HID})
		}
	case protocol.ControlClose:
		if cm, ok := data.(*protocol.CloseMessage); ok {
			s.logger.Debug("client closing", zap.Stringer("reason", cm.Reason))
		}
		s.Close(protocol.CloseNormal, "")
	}
}

func (s *Session) enqueue(in inbound) {
	select {
	case s.queue <- in:
	case <-s.done:
	default:
		s.metrics.eventsDropped.WithLabelValues(dropQueueFull).Inc()
		s.logger.Warn("event queue full, dropping event")
		s.sendError(protocol.ErrCodeRateLimited, siteerrors.New("E401").Message)
	}
}

func (s *Session) eventLoop(ctx context.Context) error {
	defer s.disposeViews()
	for {
		select {
		case in := <-s.queue:
			s.process(ctx, in)
		case <-s.done:
			return nil
		}
	}
}

func (s *Session) process(ctx context.Context, in inbound) {
	start := time.Now()
	defer func() {
		s.metrics.eventDuration.Observe(time.Since(start).Seconds())
	}()

	switch in.control {
	case protocol.ControlMount:
		s.mount(in.hid)
	case protocol.ControlUnmount:
		s.unmount(in.hid)
	default:
		s.handleEvent(ctx, in.event)
	}
	s.flush()
}

// mount starts a scroll view for an element rendered with the
// ScrollDirection hook.
func (s *Session) mount(hid string) {
	if _, ok := s.views[hid]; ok {
		return
	}
	raw, ok := s.hooks[hid]
	if !ok {
		s.sendError(protocol.ErrCodeNotMounted, "no hook for "+hid)
		return
	}
	name, cfgJSON, err := hooks.Parse(raw)
	if err != nil || name != hooks.ScrollDirectionName {
		s.sendError(protocol.ErrCodeNotMounted, "unsupported hook on "+hid)
		return
	}
	if s.cfg.MaxViews > 0 && len(s.views) >= s.cfg.MaxViews {
		s.sendError(protocol.ErrCodeRateLimited, "too many views")
		return
	}
	cfg, err := hooks.ParseScrollConfig(cfgJSON)
	if err != nil {
		s.sendError(protocol.ErrCodeNotMounted, "bad hook config on "+hid)
		return
	}
	view := hooks.NewScrollView(hid, cfg)
	s.views[hid] = view
	s.pending = append(s.pending, view.Sync()...)
	s.metrics.activeViews.Inc()
	s.logger.Debug("view mounted", zap.String("hid", hid))
}

func (s *Session) unmount(hid string) {
	if _, ok := s.views[hid]; !ok {
		return
	}
	delete(s.views, hid)
	s.metrics.activeViews.Dec()
	s.logger.Debug("view unmounted", zap.String("hid", hid))
}

func (s *Session) disposeViews() {
	s.metrics.activeViews.Sub(float64(len(s.views)))
	clear(s.views)
}

func (s *Session) handleEvent(ctx context.Context, ev *protocol.Event) {
	if ev == nil {
		return
	}
	s.eventCount.Add(1)
	s.metrics.eventsTotal.WithLabelValues(strings.ToLower(ev.Type.String())).Inc()

	ctx, span := s.tracer.Start(ctx, "session.event", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.String("event.type", ev.Type.String()),
		attribute.String("event.hid", ev.HID),
	))
	defer span.End()

	key := render.HandlerKey(ev.HID, "on"+strings.ToLower(ev.Type.String()))
	handler, hasHandler := s.handlers[key]

	if ev.Type == protocol.EventScroll {
		view, ok := s.views[ev.HID]
		if !ok && !hasHandler {
			s.metrics.eventsDropped.WithLabelValues(dropNotMounted).Inc()
			s.sendError(protocol.ErrCodeNotMounted, "view not mounted: "+ev.HID)
			return
		}
		if ok {
			s.applyScroll(view, ev)
		}
	} else if !hasHandler {
		s.metrics.eventsDropped.WithLabelValues(dropNoHandler).Inc()
		s.logger.Debug("no handler", zap.String("key", key))
		return
	}

	if hasHandler {
		if err := s.safeInvoke(ctx, handler, ev); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
}

func (s *Session) applyScroll(view *hooks.ScrollView, ev *protocol.Event) {
	var offset float64
	if data, ok := ev.Payload.(*protocol.ScrollEventData); ok {
		offset = float64(data.ScrollTop)
	}
	before := view.Direction()
	s.pending = append(s.pending, view.Apply(offset)...)
	if after := view.Direction(); after != before {
		s.metrics.directionChanges.WithLabelValues(after.String()).Inc()
	}
}

func (s *Session) safeInvoke(ctx context.Context, handler any, ev *protocol.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.handlerPanics.Inc()
			err = siteerrors.New("E403").WithDetail(fmt.Sprint(r))
			s.logger.Error("handler panic",
				zap.Any("panic", r),
				zap.String("hid", ev.HID),
				zap.Stringer("type", ev.Type),
				zap.ByteString("stack", debug.Stack()))
			s.sendError(protocol.ErrCodeHandlerPanic, "internal error")
		}
	}()

	if err := invoke(handler, &eventCtx{s: s, ctx: ctx}, ev); err != nil {
		s.logger.Error("cannot invoke handler", zap.Error(err))
		return err
	}
	return nil
}

// flush sends the patches queued while processing one unit of work as a
// single frame.
func (s *Session) flush() {
	if len(s.pending) == 0 {
		return
	}
	patches := s.pending
	s.pending = nil

	seq := s.patchSeq.Add(1)
	payload := protocol.EncodePatches(&protocol.PatchesFrame{Seq: seq, Patches: patches})
	if err := s.writeFrame(protocol.FramePatches, payload); err != nil {
		s.logger.Warn("cannot send patches", zap.Error(err))
		return
	}
	s.metrics.patchesSent.Add(float64(len(patches)))
}

func (s *Session) pingLoop() error {
	interval := s.cfg.PingInterval
	if interval <= 0 {
		<-s.done
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ts := uint64(time.Now().UnixMilli())
			if err := s.writeControl(protocol.ControlPing, &protocol.PingPong{Timestamp: ts}); err != nil {
				return nil
			}
		case <-s.done:
			return nil
		}
	}
}

func (s *Session) writeControl(ct protocol.ControlType, data any) error {
	return s.writeFrame(protocol.FrameControl, protocol.EncodeControl(ct, data))
}

func (s *Session) sendError(code protocol.ErrorCode, message string) {
	payload := protocol.EncodeErrorMessage(&protocol.ErrorMessage{Code: code, Message: message})
	if err := s.writeFrame(protocol.FrameError, payload); err != nil {
		s.logger.Debug("cannot send error frame", zap.Error(err))
	}
}

func (s *Session) writeFrame(ft protocol.FrameType, payload []byte) error {
	data, err := protocol.NewFrame(ft, payload).Encode()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed() {
		return siteerrors.New("E402")
	}
	if s.cfg.WriteTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (s *Session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close ends the session, telling the client why. It is safe to call more
// than once and from any goroutine.
func (s *Session) Close(reason protocol.CloseReason, message string) {
	s.closeOnce.Do(func() {
		_ = s.writeControl(protocol.ControlClose, &protocol.CloseMessage{Reason: reason, Message: message})

		s.writeMu.Lock()
		close(s.done)
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.writeMu.Unlock()
		_ = s.conn.Close()

		s.logger.Debug("session closed", zap.Stringer("reason", reason))
	})
}
