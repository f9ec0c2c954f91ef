package protocol

import "errors"

// ControlType identifies the type of control message.
type ControlType uint8

const (
	ControlPing    ControlType = 0x01 // Either side
	ControlPong    ControlType = 0x02 // Reply to ping
	ControlMount   ControlType = 0x30 // Client started observing a view
	ControlUnmount ControlType = 0x31 // Client stopped observing a view
	ControlClose   ControlType = 0x20 // Session close
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlMount:
		return "Mount"
	case ControlUnmount:
		return "Unmount"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// CloseReason indicates why a session is being closed.
type CloseReason uint8

const (
	CloseNormal         CloseReason = 0x00
	CloseGoingAway      CloseReason = 0x01
	CloseSessionExpired CloseReason = 0x02
	CloseServerShutdown CloseReason = 0x03
	CloseError          CloseReason = 0x04
)

// String returns the string representation of the close reason.
func (cr CloseReason) String() string {
	switch cr {
	case CloseNormal:
		return "Normal"
	case CloseGoingAway:
		return "GoingAway"
	case CloseSessionExpired:
		return "SessionExpired"
	case CloseServerShutdown:
		return "ServerShutdown"
	case CloseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PingPong is the payload of Ping and Pong.
type PingPong struct {
	Timestamp uint64 // Unix milliseconds
}

// ViewRef is the payload of Mount and Unmount: the HID of the observing view.
type ViewRef struct {
	HID string
}

// CloseMessage is the payload of Close.
type CloseMessage struct {
	Reason  CloseReason
	Message string
}

// ErrInvalidControlType is returned for unknown control types.
var ErrInvalidControlType = errors.New("protocol: invalid control type")

// EncodeControl encodes a control message payload.
func EncodeControl(ct ControlType, data any) []byte {
	e := NewEncoder()
	e.WriteByte(byte(ct))
	switch ct {
	case ControlPing, ControlPong:
		pp, _ := data.(*PingPong)
		if pp == nil {
			pp = &PingPong{}
		}
		e.WriteUint64(pp.Timestamp)
	case ControlMount, ControlUnmount:
		ref, _ := data.(*ViewRef)
		if ref == nil {
			ref = &ViewRef{}
		}
		e.WriteString(ref.HID)
	case ControlClose:
		cm, _ := data.(*CloseMessage)
		if cm == nil {
			cm = &CloseMessage{}
		}
		e.WriteByte(byte(cm.Reason))
		e.WriteString(cm.Message)
	}
	return e.Bytes()
}

// DecodeControl decodes a control message payload.
func DecodeControl(data []byte) (ControlType, any, error) {
	d := NewDecoder(data)
	b, err := d.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	ct := ControlType(b)

	switch ct {
	case ControlPing, ControlPong:
		ts, err := d.ReadUint64()
		if err != nil {
			return 0, nil, err
		}
		return ct, &PingPong{Timestamp: ts}, nil

	case ControlMount, ControlUnmount:
		hid, err := d.ReadString()
		if err != nil {
			return 0, nil, err
		}
		return ct, &ViewRef{HID: hid}, nil

	case ControlClose:
		reason, err := d.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		msg, err := d.ReadString()
		if err != nil {
			return 0, nil, err
		}
		return ct, &CloseMessage{Reason: CloseReason(reason), Message: msg}, nil
	}

	return 0, nil, ErrInvalidControlType
}
