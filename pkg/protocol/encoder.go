package protocol

import (
	"encoding/binary"
	"math"
)

// Encoder appends primitives to a growing buffer. Integers wider than a
// byte are big-endian, varints use the base-128 layout of encoding/binary.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder with room for a typical batch.
func NewEncoder() *Encoder {
	return NewEncoderWithCap(256)
}

// NewEncoderWithCap returns an encoder with the given initial capacity.
func NewEncoderWithCap(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Bytes returns the encoded bytes. The slice aliases the buffer and is
// only valid until the next write.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// WriteByte appends b. The buffer never fails, so there is no error
// unlike io.ByteWriter.
func (e *Encoder) WriteByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *Encoder) WriteBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *Encoder) WriteUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

// WriteSvarint appends v ZigZag encoded, so small negatives stay short.
func (e *Encoder) WriteSvarint(v int64) {
	e.buf = binary.AppendVarint(e.buf, v)
}

// WriteString appends the byte length followed by s.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *Encoder) WriteBool(b bool) {
	var x byte
	if b {
		x = 1
	}
	e.buf = append(e.buf, x)
}

func (e *Encoder) WriteUint16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) WriteUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

// WriteFloat64 appends the IEEE 754 bits of v.
func (e *Encoder) WriteFloat64(v float64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(v))
}
