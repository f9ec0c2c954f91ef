package protocol

import (
	"errors"
	"io"
)

const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the largest payload a 16-bit length can describe.
	MaxPayloadSize = 65535
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHandshake FrameType = 0x00 // Client hello
	FrameEvent     FrameType = 0x01 // Client → server event
	FramePatches   FrameType = 0x02 // Server → client patches
	FrameControl   FrameType = 0x03 // Ping, pong, mount, unmount, close
	FrameError     FrameType = 0x05 // Server → client error
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHandshake:
		return "Handshake"
	case FrameEvent:
		return "Event"
	case FramePatches:
		return "Patches"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

func (ft FrameType) valid() bool {
	switch ft {
	case FrameHandshake, FrameEvent, FramePatches, FrameControl, FrameError:
		return true
	}
	return false
}

// FrameFlags are optional per-frame flags.
type FrameFlags uint8

const (
	FlagFinal    FrameFlags = 0x04 // Last frame in a batch
	FlagPriority FrameFlags = 0x08 // Skip the event queue
)

// Has reports whether flag is set.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a frame header plus payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame with no flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame, header included.
func (f *Frame) Encode() ([]byte, error) {
	n := len(f.Payload)
	if n > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	buf := make([]byte, FrameHeaderSize+n)
	buf[0] = byte(f.Type)
	buf[1] = byte(f.Flags)
	buf[2] = byte(n >> 8)
	buf[3] = byte(n)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf, nil
}

// DecodeFrame decodes a complete frame. The payload is copied.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	ft := FrameType(data[0])
	if !ft.valid() {
		return nil, ErrInvalidFrameType
	}
	n := int(data[2])<<8 | int(data[3])
	if len(data) < FrameHeaderSize+n {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, n)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+n])
	return &Frame{
		Type:    ft,
		Flags:   FrameFlags(data[1]),
		Payload: payload,
	}, nil
}
