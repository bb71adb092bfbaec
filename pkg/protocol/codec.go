package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/loom/pkg/tree"
)

// Encoding selects the wire format of a session.
type Encoding uint8

const (
	EncodingJSON   Encoding = iota // Text messages holding JSON objects
	EncodingBinary                 // Binary messages holding frames
)

// String returns the string representation of the Encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// ParseEncoding parses an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "json", "":
		return EncodingJSON, nil
	case "binary":
		return EncodingBinary, nil
	}
	return 0, fmt.Errorf("protocol: unknown encoding %q", s)
}

// Hello is the first message of a session.
type Hello struct {
	Session  string `json:"session"`
	Encoding string `json:"encoding"`
}

// Codec encodes outbound messages and decodes inbound ones for one
// Encoding. Both directions are provided so clients and tests can share
// the implementation.
type Codec interface {
	Encoding() Encoding
	Binary() bool

	EncodeHello(h *Hello) ([]byte, error)
	EncodeBatch(b *Batch) ([]byte, error)
	EncodeError(em *ErrorMessage) ([]byte, error)
	EncodeEvent(ev *Event) ([]byte, error)

	// Decode returns one of *Hello, *Batch, *ErrorMessage or *Event. JSON
	// numbers in record values and payloads decode as float64.
	Decode(data []byte) (any, error)
}

// NewCodec returns the codec for enc.
func NewCodec(enc Encoding) Codec {
	if enc == EncodingBinary {
		return binaryCodec{}
	}
	return jsonCodec{}
}

// envelope is the JSON form of every message.
type envelope struct {
	Type     string         `json:"type,omitempty"`
	Session  string         `json:"session,omitempty"`
	Encoding string         `json:"encoding,omitempty"`
	Seq      *uint64        `json:"seq,omitempty"`
	Changes  []tree.Change  `json:"changes,omitempty"`
	Code     *ErrorCode     `json:"code,omitempty"`
	Message  string         `json:"message,omitempty"`
	Fatal    bool           `json:"fatal,omitempty"`
	ID       string         `json:"id,omitempty"`
	Event    string         `json:"event,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

type jsonCodec struct{}

func (jsonCodec) Encoding() Encoding { return EncodingJSON }
func (jsonCodec) Binary() bool       { return false }

func (jsonCodec) EncodeHello(h *Hello) ([]byte, error) {
	return json.Marshal(envelope{Type: "hello", Session: h.Session, Encoding: h.Encoding})
}

func (jsonCodec) EncodeBatch(b *Batch) ([]byte, error) {
	seq := b.Seq
	changes := b.Changes
	if changes == nil {
		changes = []tree.Change{}
	}
	return json.Marshal(envelope{Type: "changes", Seq: &seq, Changes: changes})
}

func (jsonCodec) EncodeError(em *ErrorMessage) ([]byte, error) {
	code := em.Code
	return json.Marshal(envelope{Type: "error", Code: &code, Message: em.Message, Fatal: em.Fatal})
}

func (jsonCodec) EncodeEvent(ev *Event) ([]byte, error) {
	return json.Marshal(envelope{Type: "event", ID: ev.ID, Event: ev.Name, Payload: ev.Payload})
}

func (jsonCodec) Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	switch env.Type {
	case "hello":
		return &Hello{Session: env.Session, Encoding: env.Encoding}, nil
	case "changes":
		b := &Batch{Changes: env.Changes}
		if env.Seq != nil {
			b.Seq = *env.Seq
		}
		return b, nil
	case "error":
		em := &ErrorMessage{Message: env.Message, Fatal: env.Fatal}
		if env.Code != nil {
			em.Code = *env.Code
		}
		return em, nil
	case "event", "":
		ev := &Event{ID: env.ID, Name: env.Event, Payload: env.Payload}
		if err := ev.Validate(); err != nil {
			return nil, err
		}
		return ev, nil
	}
	return nil, fmt.Errorf("%w: message type %q", ErrInvalidEvent, env.Type)
}

type binaryCodec struct{}

func (binaryCodec) Encoding() Encoding { return EncodingBinary }
func (binaryCodec) Binary() bool       { return true }

func (binaryCodec) EncodeHello(h *Hello) ([]byte, error) {
	e := NewEncoder()
	e.WriteString(h.Session)
	e.WriteString(h.Encoding)
	return NewFrame(FrameHello, e.Bytes()).Encode(), nil
}

func (binaryCodec) EncodeBatch(b *Batch) ([]byte, error) {
	payload, err := EncodeBatch(b)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	return NewFrame(FrameChanges, payload).Encode(), nil
}

func (binaryCodec) EncodeError(em *ErrorMessage) ([]byte, error) {
	return NewFrame(FrameError, EncodeErrorMessage(em)).Encode(), nil
}

func (binaryCodec) EncodeEvent(ev *Event) ([]byte, error) {
	payload, err := EncodeEvent(ev)
	if err != nil {
		return nil, err
	}
	return NewFrame(FrameEvent, payload).Encode(), nil
}

func (binaryCodec) Decode(data []byte) (any, error) {
	f, err := DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	switch f.Type {
	case FrameHello:
		d := NewDecoder(f.Payload)
		h := &Hello{}
		if h.Session, err = d.ReadString(); err != nil {
			return nil, err
		}
		if h.Encoding, err = d.ReadString(); err != nil {
			return nil, err
		}
		if err := d.finish(); err != nil {
			return nil, err
		}
		return h, nil
	case FrameChanges:
		return DecodeBatch(f.Payload)
	case FrameError:
		return DecodeErrorMessage(f.Payload)
	case FrameEvent:
		return DecodeEvent(f.Payload)
	}
	return nil, ErrInvalidFrameType
}
