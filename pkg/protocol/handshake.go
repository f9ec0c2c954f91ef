package protocol

import "errors"

// Version is the protocol version spoken by this server.
const Version uint8 = 1

// ErrVersionMismatch is returned when the client speaks another version.
var ErrVersionMismatch = errors.New("protocol: version mismatch")

// Handshake is the first frame a client sends after connecting.
type Handshake struct {
	Version uint8
	Path    string // Page path the client is showing
	Theme   string // Theme the page was rendered with
}

// EncodeHandshake encodes a handshake payload.
func EncodeHandshake(h *Handshake) []byte {
	e := NewEncoder()
	e.WriteByte(h.Version)
	e.WriteString(h.Path)
	e.WriteString(h.Theme)
	return e.Bytes()
}

// DecodeHandshake decodes and version-checks a handshake payload.
func DecodeHandshake(data []byte) (*Handshake, error) {
	d := NewDecoder(data)
	v, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if v != Version {
		return nil, ErrVersionMismatch
	}
	path, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	theme, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &Handshake{Version: v, Path: path, Theme: theme}, nil
}

// ErrorCode classifies an Error frame.
type ErrorCode uint16

const (
	ErrCodeUnknown      ErrorCode = 0x0000
	ErrCodeInvalidFrame ErrorCode = 0x0001
	ErrCodeInvalidEvent ErrorCode = 0x0002
	ErrCodeRateLimited  ErrorCode = 0x0003
	ErrCodeHandlerPanic ErrorCode = 0x0004
	ErrCodeNotMounted   ErrorCode = 0x0005
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidFrame:
		return "InvalidFrame"
	case ErrCodeInvalidEvent:
		return "InvalidEvent"
	case ErrCodeRateLimited:
		return "RateLimited"
	case ErrCodeHandlerPanic:
		return "HandlerPanic"
	case ErrCodeNotMounted:
		return "NotMounted"
	default:
		return "Unknown"
	}
}

// ErrorMessage is the payload of an Error frame.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
}

// EncodeErrorMessage encodes an error payload.
func EncodeErrorMessage(m *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUvarint(uint64(m.Code))
	e.WriteString(m.Message)
	return e.Bytes()
}

// DecodeErrorMessage decodes an error payload.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	code, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	msg, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &ErrorMessage{Code: ErrorCode(code), Message: msg}, nil
}
