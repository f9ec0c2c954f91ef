package vtest

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/frontpage/pkg/protocol"
)

// ReadTimeout bounds every Client read.
const ReadTimeout = 3 * time.Second

// Client is a live protocol client for tests. Failures stop the test.
type Client struct {
	t    testing.TB
	Conn *websocket.Conn
	seq  uint64
}

// WSURL turns an http(s) URL into its ws(s) form.
func WSURL(url string) string {
	if strings.HasPrefix(url, "http") {
		return "ws" + strings.TrimPrefix(url, "http")
	}
	return url
}

// Dial connects to a live endpoint. The connection is closed when the test
// ends.
func Dial(t testing.TB, url string) *Client {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(WSURL(url), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return &Client{t: t, Conn: conn}
}

// Send writes one frame.
func (c *Client) Send(ft protocol.FrameType, payload []byte) {
	c.t.Helper()
	data, err := protocol.NewFrame(ft, payload).Encode()
	if err != nil {
		c.t.Fatalf("encode %s frame: %v", ft, err)
	}
	if err := c.Conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		c.t.Fatalf("write %s frame: %v", ft, err)
	}
}

// Read returns the next frame.
func (c *Client) Read() *protocol.Frame {
	c.t.Helper()
	if err := c.Conn.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
		c.t.Fatalf("set read deadline: %v", err)
	}
	_, msg, err := c.Conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	f, err := protocol.DecodeFrame(msg)
	if err != nil {
		c.t.Fatalf("decode frame: %v", err)
	}
	return f
}

// Handshake sends the client handshake and returns the server's ack.
func (c *Client) Handshake(path, theme string) *protocol.Handshake {
	c.t.Helper()
	c.Send(protocol.FrameHandshake, protocol.EncodeHandshake(&protocol.Handshake{
		Version: protocol.Version, Path: path, Theme: theme,
	}))
	f := c.expect(protocol.FrameHandshake)
	hs, err := protocol.DecodeHandshake(f.Payload)
	if err != nil {
		c.t.Fatalf("decode handshake: %v", err)
	}
	return hs
}

// Control sends a control message.
func (c *Client) Control(ct protocol.ControlType, data any) {
	c.t.Helper()
	c.Send(protocol.FrameControl, protocol.EncodeControl(ct, data))
}

// Mount asks the session to start the view attached to hid.
func (c *Client) Mount(hid string) {
	c.t.Helper()
	c.Control(protocol.ControlMount, &protocol.ViewRef{HID: hid})
}

// Unmount stops the view attached to hid.
func (c *Client) Unmount(hid string) {
	c.t.Helper()
	c.Control(protocol.ControlUnmount, &protocol.ViewRef{HID: hid})
}

// Event sends an event with the next sequence number.
func (c *Client) Event(et protocol.EventType, hid string, payload any) {
	c.t.Helper()
	c.seq++
	c.Send(protocol.FrameEvent, protocol.EncodeEvent(&protocol.Event{
		Seq: c.seq, Type: et, HID: hid, Payload: payload,
	}))
}

func (c *Client) Click(hid string) {
	c.t.Helper()
	c.Event(protocol.EventClick, hid, nil)
}

func (c *Client) Submit(hid string, fields map[string]string) {
	c.t.Helper()
	c.Event(protocol.EventSubmit, hid, &protocol.SubmitEventData{Fields: fields})
}

func (c *Client) Scroll(hid string, top int) {
	c.t.Helper()
	c.Event(protocol.EventScroll, hid, &protocol.ScrollEventData{ScrollTop: top})
}

// Patches reads the next frame, which must be a patches frame.
func (c *Client) Patches() *protocol.PatchesFrame {
	c.t.Helper()
	f := c.expect(protocol.FramePatches)
	pf, err := protocol.DecodePatches(f.Payload)
	if err != nil {
		c.t.Fatalf("decode patches: %v", err)
	}
	return pf
}

// Error reads the next frame, which must be an error frame.
func (c *Client) Error() *protocol.ErrorMessage {
	c.t.Helper()
	f := c.expect(protocol.FrameError)
	em, err := protocol.DecodeErrorMessage(f.Payload)
	if err != nil {
		c.t.Fatalf("decode error frame: %v", err)
	}
	return em
}

// CloseMessage reads the next frame, which must be a Close control.
func (c *Client) CloseMessage() *protocol.CloseMessage {
	c.t.Helper()
	f := c.expect(protocol.FrameControl)
	ct, data, err := protocol.DecodeControl(f.Payload)
	if err != nil {
		c.t.Fatalf("decode control: %v", err)
	}
	if ct != protocol.ControlClose {
		c.t.Fatalf("got %s control, want Close", ct)
	}
	return data.(*protocol.CloseMessage)
}

func (c *Client) expect(ft protocol.FrameType) *protocol.Frame {
	c.t.Helper()
	f := c.Read()
	if f.Type != ft {
		c.t.Fatalf("got %s frame, want %s", f.Type, ft)
	}
	return f
}
