package protocol

import "errors"

// Event is an interaction reported by the client: the node it happened on,
// the event name and an optional payload.
type Event struct {
	ID      string         `json:"id"`
	Name    string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Event decoding errors.
var (
	ErrInvalidEvent   = errors.New("protocol: invalid event")
	ErrInvalidPayload = errors.New("protocol: invalid event payload")
)

// Validate reports whether the event names a node and an event.
func (ev *Event) Validate() error {
	if ev.ID == "" || ev.Name == "" {
		return ErrInvalidEvent
	}
	return nil
}

// EncodeEvent encodes an event to binary payload bytes.
func EncodeEvent(ev *Event) ([]byte, error) {
	e := NewEncoder()
	if err := EncodeEventTo(e, ev); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeEventTo encodes an event using the provided encoder. A nil payload
// is written as null.
func EncodeEventTo(e *Encoder, ev *Event) error {
	e.WriteString(ev.ID)
	e.WriteString(ev.Name)
	if ev.Payload == nil {
		return EncodeValue(e, nil)
	}
	return EncodeValue(e, ev.Payload)
}

// DecodeEvent decodes a binary event payload.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	ev, err := DecodeEventFrom(d)
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ev, nil
}

// DecodeEventFrom decodes an event from a decoder.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	id, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	name, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	v, err := DecodeValue(d)
	if err != nil {
		return nil, err
	}
	ev := &Event{ID: id, Name: name}
	switch p := v.(type) {
	case nil:
	case map[string]any:
		ev.Payload = p
	default:
		return nil, ErrInvalidPayload
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}
