package protocol

import "errors"

// EventType identifies the type of client event.
type EventType uint8

// Event type constants. Values match the client script.
const (
	EventClick  EventType = 0x01
	EventSubmit EventType = 0x12
	EventScroll EventType = 0x30
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	switch et {
	case EventClick:
		return "Click"
	case EventSubmit:
		return "Submit"
	case EventScroll:
		return "Scroll"
	default:
		return "Unknown"
	}
}

// ScrollEventData is the payload of a Scroll event.
type ScrollEventData struct {
	ScrollTop  int
	ScrollLeft int
}

// SubmitEventData is the payload of a Submit event.
type SubmitEventData struct {
	Fields map[string]string
}

// Event is a decoded client event.
type Event struct {
	Seq     uint64
	Type    EventType
	HID     string
	Payload any // nil for Click
}

// Event errors.
var (
	ErrInvalidEventType = errors.New("protocol: invalid event type")
	ErrTrailingBytes    = errors.New("protocol: trailing bytes after event")
)

// EncodeEvent encodes an event. Missing or mistyped payloads encode as zero
// values so the output always decodes.
func EncodeEvent(e *Event) []byte {
	enc := NewEncoder()
	EncodeEventTo(enc, e)
	return enc.Bytes()
}

// EncodeEventTo encodes an event into enc.
func EncodeEventTo(enc *Encoder, e *Event) {
	enc.WriteUvarint(e.Seq)
	enc.WriteByte(byte(e.Type))
	enc.WriteString(e.HID)

	switch e.Type {
	case EventClick:

	case EventSubmit:
		data, _ := e.Payload.(*SubmitEventData)
		if data == nil {
			enc.WriteUvarint(0)
			return
		}
		enc.WriteUvarint(uint64(len(data.Fields)))
		for _, k := range sortedKeys(data.Fields) {
			enc.WriteString(k)
			enc.WriteString(data.Fields[k])
		}

	case EventScroll:
		data, _ := e.Payload.(*ScrollEventData)
		if data == nil {
			data = &ScrollEventData{}
		}
		enc.WriteSvarint(int64(data.ScrollTop))
		enc.WriteSvarint(int64(data.ScrollLeft))
	}
}

// DecodeEvent decodes a single event occupying all of data.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	e, err := DecodeEventFrom(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingBytes
	}
	return e, nil
}

// DecodeEventFrom decodes one event from d.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	tb, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	hid, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	e := &Event{Seq: seq, Type: EventType(tb), HID: hid}

	switch e.Type {
	case EventClick:

	case EventSubmit:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		fields := make(map[string]string, count)
		for i := 0; i < count; i++ {
			k, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			v, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			fields[k] = v
		}
		e.Payload = &SubmitEventData{Fields: fields}

	case EventScroll:
		top, err := d.ReadSvarint()
		if err != nil {
			return nil, err
		}
		left, err := d.ReadSvarint()
		if err != nil {
			return nil, err
		}
		e.Payload = &ScrollEventData{ScrollTop: int(top), ScrollLeft: int(left)}

	default:
		return nil, ErrInvalidEventType
	}

	return e, nil
}
