package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/vango-dev/frontpage/internal/config"
	"github.com/vango-dev/frontpage/pkg/hooks"
	"github.com/vango-dev/frontpage/pkg/pref"
	"github.com/vango-dev/frontpage/pkg/protocol"
	"github.com/vango-dev/frontpage/pkg/vdom"
	"github.com/vango-dev/frontpage/pkg/vtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		MaxSessions:    4,
		EventQueueSize: 16,
		MaxViews:       2,
		IdleTimeout:    5 * time.Second,
		WriteTimeout:   time.Second,
	}
}

func testPage(_ context.Context, path string, _ pref.Theme) (*vdom.VNode, error) {
	return vdom.Div(
		vdom.Header(vdom.ID("site-header"), hooks.ScrollDirection(hooks.ScrollConfig{Threshold: 10})),
		vdom.Button(vdom.ID("theme-toggle"), vdom.OnClick(func(c Ctx) {
			c.SetTheme(c.Theme().Toggle())
		})),
		vdom.Form(vdom.ID("contact"), vdom.OnSubmit(func(c Ctx, fields map[string]string) {
			c.Emit("site:toast", map[string]string{"message": "hi " + fields["name"] + " on " + c.Path()})
		})),
		vdom.Button(vdom.ID("boom"), vdom.OnClick(func() { panic("boom") })),
		vdom.Div(vdom.ID("plain")),
	), nil
}

type harness struct {
	mgr *Manager
	srv *httptest.Server
	reg *prometheus.Registry
}

func newHarness(t *testing.T, cfg config.SessionConfig) *harness {
	t.Helper()
	reg := prometheus.NewRegistry()
	mgr := NewManager(cfg, testPage, zaptest.NewLogger(t), WithMetrics(NewMetrics(reg)))
	srv := httptest.NewServer(mgr)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, mgr.CloseAll(ctx))
		srv.Close()
	})
	return &harness{mgr: mgr, srv: srv, reg: reg}
}

func (h *harness) metric(t *testing.T, name string) float64 {
	t.Helper()
	families, err := h.reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return total
}

func (h *harness) dial(t *testing.T) *vtest.Client {
	t.Helper()
	return vtest.Dial(t, h.srv.URL)
}

func TestHandshakeEchoesPathAndTheme(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)

	hs := c.Handshake("/blog", "dark")
	assert.Equal(t, "/blog", hs.Path)
	assert.Equal(t, "dark", hs.Theme)

	require.Eventually(t, func() bool { return h.mgr.Count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, float64(1), h.metric(t, "frontpage_session_created_total"))
}

func TestHandshakeDefaults(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)

	hs := c.Handshake("", "neon")
	assert.Equal(t, "/", hs.Path)
	assert.Equal(t, "system", hs.Theme)
}

func TestScrollDirectionPatches(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Mount("site-header")
	pf := c.Patches()
	assert.Equal(t, uint64(1), pf.Seq)
	assert.Equal(t, []protocol.Patch{
		protocol.SetData("site-header", "scroll", "down"),
		protocol.RemoveClass("site-header", hooks.DefaultHideClass),
	}, pf.Patches)

	// [200, 50, 50, 300] -> down, up, up, down. The repeated 50 holds the
	// direction and produces no frame.
	c.Scroll("site-header", 200)
	c.Scroll("site-header", 50)
	c.Scroll("site-header", 50)
	c.Scroll("site-header", 300)

	pf = c.Patches()
	assert.Equal(t, uint64(2), pf.Seq)
	assert.Equal(t, []protocol.Patch{
		protocol.AddClass("site-header", hooks.DefaultHideClass),
	}, pf.Patches)

	pf = c.Patches()
	assert.Equal(t, uint64(3), pf.Seq)
	assert.Equal(t, []protocol.Patch{
		protocol.SetData("site-header", "scroll", "up"),
		protocol.RemoveClass("site-header", hooks.DefaultHideClass),
	}, pf.Patches)

	pf = c.Patches()
	assert.Equal(t, uint64(4), pf.Seq)
	assert.Equal(t, []protocol.Patch{
		protocol.SetData("site-header", "scroll", "down"),
		protocol.AddClass("site-header", hooks.DefaultHideClass),
	}, pf.Patches)

	assert.Equal(t, float64(2), h.metric(t, "frontpage_session_scroll_direction_changes_total"))
	assert.Equal(t, float64(4), h.metric(t, "frontpage_session_events_total"))
}

func TestScrollWithoutMount(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Scroll("site-header", 100)
	em := c.Error()
	assert.Equal(t, protocol.ErrCodeNotMounted, em.Code)

	c.Mount("site-header")
	c.Patches()
	c.Unmount("site-header")
	c.Scroll("site-header", 100)
	em = c.Error()
	assert.Equal(t, protocol.ErrCodeNotMounted, em.Code)

	assert.Equal(t, float64(2), h.metric(t, "frontpage_session_events_dropped_total"))
	assert.Equal(t, float64(0), h.metric(t, "frontpage_session_views_active"))
}

func TestMountRequiresHook(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Mount("plain")
	em := c.Error()
	assert.Equal(t, protocol.ErrCodeNotMounted, em.Code)
	assert.Contains(t, em.Message, "plain")
}

func TestRemountKeepsTracker(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Mount("site-header")
	c.Patches()
	c.Scroll("site-header", 100)
	pf := c.Patches()
	require.Len(t, pf.Patches, 1)

	// A second mount of the same view is ignored; the tracker keeps its
	// last offset so scrolling back flips to up.
	c.Mount("site-header")
	c.Scroll("site-header", 90)
	pf = c.Patches()
	assert.Equal(t, protocol.SetData("site-header", "scroll", "up"), pf.Patches[0])
}

func TestRemountAfterUnmountResetsElement(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Mount("site-header")
	c.Patches()
	c.Scroll("site-header", 500)
	c.Patches()
	c.Scroll("site-header", 400)
	pf := c.Patches()
	require.Equal(t, protocol.SetData("site-header", "scroll", "up"), pf.Patches[0])

	c.Unmount("site-header")
	c.Mount("site-header")
	pf = c.Patches()
	assert.Equal(t, []protocol.Patch{
		protocol.SetData("site-header", "scroll", "down"),
		protocol.RemoveClass("site-header", hooks.DefaultHideClass),
	}, pf.Patches)

	// A fresh tracker starts at down, so this scroll only hides the header.
	c.Scroll("site-header", 300)
	pf = c.Patches()
	assert.Equal(t, []protocol.Patch{
		protocol.AddClass("site-header", hooks.DefaultHideClass),
	}, pf.Patches)
}

func TestThemeToggle(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Click("theme-toggle")
	pf := c.Patches()
	require.Len(t, pf.Patches, 1)
	assert.Equal(t, protocol.PatchDispatch, pf.Patches[0].Op)
	assert.Equal(t, ThemeEvent, pf.Patches[0].Key)
	assert.JSONEq(t, `{"theme":"dark"}`, pf.Patches[0].Value)

	c.Click("theme-toggle")
	pf = c.Patches()
	assert.JSONEq(t, `{"theme":"light"}`, pf.Patches[0].Value)
}

func TestSubmitEmitsEvent(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/contact", "light")

	c.Submit("contact", map[string]string{"name": "Ada"})
	pf := c.Patches()
	require.Len(t, pf.Patches, 1)
	assert.Equal(t, "site:toast", pf.Patches[0].Key)

	var detail map[string]string
	require.NoError(t, json.Unmarshal([]byte(pf.Patches[0].Value), &detail))
	assert.Equal(t, "hi Ada on /contact", detail["message"])
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Click("boom")
	em := c.Error()
	assert.Equal(t, protocol.ErrCodeHandlerPanic, em.Code)

	// The session keeps working.
	c.Click("theme-toggle")
	pf := c.Patches()
	assert.Equal(t, ThemeEvent, pf.Patches[0].Key)
	assert.Equal(t, float64(1), h.metric(t, "frontpage_session_handler_panics_total"))
}

func TestUnknownHandlerIsDropped(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Click("nope")
	c.Click("theme-toggle")

	// The first click produced nothing; the next frame is the toggle.
	pf := c.Patches()
	assert.Equal(t, uint64(1), pf.Seq)
	assert.Equal(t, ThemeEvent, pf.Patches[0].Key)
}

func TestMalformedEvent(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Send(protocol.FrameEvent, []byte{0x01})
	em := c.Error()
	assert.Equal(t, protocol.ErrCodeInvalidEvent, em.Code)
}

func TestPingPong(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")

	c.Control(protocol.ControlPing, &protocol.PingPong{Timestamp: 12345})
	f := c.Read()
	require.Equal(t, protocol.FrameControl, f.Type)
	ct, data, err := protocol.DecodeControl(f.Payload)
	require.NoError(t, err)
	assert.Equal(t, protocol.ControlPong, ct)
	assert.Equal(t, uint64(12345), data.(*protocol.PingPong).Timestamp)
}

func TestServerPings(t *testing.T) {
	cfg := testConfig()
	cfg.PingInterval = 20 * time.Millisecond
	h := newHarness(t, cfg)
	c := h.dial(t)
	c.Handshake("/", "light")

	f := c.Read()
	require.Equal(t, protocol.FrameControl, f.Type)
	ct, _, err := protocol.DecodeControl(f.Payload)
	require.NoError(t, err)
	assert.Equal(t, protocol.ControlPing, ct)
}

func TestHandshakeRequired(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)

	c.Click("theme-toggle")
	em := c.Error()
	assert.Equal(t, protocol.ErrCodeInvalidFrame, em.Code)
	assert.Equal(t, protocol.CloseError, c.CloseMessage().Reason)
}

func TestIdleTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTimeout = 100 * time.Millisecond
	h := newHarness(t, cfg)
	c := h.dial(t)
	c.Handshake("/", "light")

	assert.Equal(t, protocol.CloseSessionExpired, c.CloseMessage().Reason)
	require.Eventually(t, func() bool { return h.mgr.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestClientClose(t *testing.T) {
	h := newHarness(t, testConfig())
	c := h.dial(t)
	c.Handshake("/", "light")
	require.Eventually(t, func() bool { return h.mgr.Count() == 1 }, time.Second, 10*time.Millisecond)

	c.Control(protocol.ControlClose, &protocol.CloseMessage{Reason: protocol.CloseNormal})
	require.Eventually(t, func() bool { return h.mgr.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, float64(0), h.metric(t, "frontpage_session_active"))
}

func TestMaxSessions(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSessions = 1
	h := newHarness(t, cfg)

	c := h.dial(t)
	c.Handshake("/", "light")
	require.Eventually(t, func() bool { return h.mgr.Count() == 1 }, time.Second, 10*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(vtest.WSURL(h.srv.URL), nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, float64(1), h.metric(t, "frontpage_session_rejected_total"))
}

func TestCloseAll(t *testing.T) {
	h := newHarness(t, testConfig())
	c1 := h.dial(t)
	c1.Handshake("/", "light")
	c2 := h.dial(t)
	c2.Handshake("/about", "dark")
	require.Eventually(t, func() bool { return h.mgr.Count() == 2 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.mgr.CloseAll(ctx))

	assert.Equal(t, protocol.CloseServerShutdown, c1.CloseMessage().Reason)
	assert.Equal(t, protocol.CloseServerShutdown, c2.CloseMessage().Reason)
	assert.Equal(t, 0, h.mgr.Count())

	// New connections are refused after shutdown.
	_, resp, err := websocket.DefaultDialer.Dial(vtest.WSURL(h.srv.URL), nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		resp.Body.Close()
	}
}
