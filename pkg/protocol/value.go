package protocol

import (
	"fmt"
	"io"
	"maps"
	"slices"
)

// ValueType tags a dynamic value in binary payloads.
type ValueType uint8

const (
	ValueNull   ValueType = 0x00
	ValueBool   ValueType = 0x01
	ValueInt    ValueType = 0x02
	ValueFloat  ValueType = 0x03
	ValueString ValueType = 0x04
	ValueArray  ValueType = 0x05
	ValueObject ValueType = 0x06
)

// EncodeValue appends a dynamic value. Maps are written with sorted keys so
// equal values encode to equal bytes. Decoding yields the JSON shapes:
// []any for slices, map[string]any for maps and int64 or float64 for
// numbers.
func EncodeValue(e *Encoder, v any) error {
	return encodeValue(e, v, 0)
}

func encodeValue(e *Encoder, v any, depth int) error {
	if depth > MaxValueDepth {
		return ErrMaxDepthExceeded
	}
	switch x := v.(type) {
	case nil:
		e.WriteByte(byte(ValueNull))
	case bool:
		e.WriteByte(byte(ValueBool))
		e.WriteBool(x)
	case int:
		e.WriteByte(byte(ValueInt))
		e.WriteSvarint(int64(x))
	case int64:
		e.WriteByte(byte(ValueInt))
		e.WriteSvarint(x)
	case float64:
		e.WriteByte(byte(ValueFloat))
		e.WriteFloat64(x)
	case string:
		e.WriteByte(byte(ValueString))
		e.WriteString(x)
	case []string:
		e.WriteByte(byte(ValueArray))
		e.WriteUvarint(uint64(len(x)))
		for _, s := range x {
			e.WriteByte(byte(ValueString))
			e.WriteString(s)
		}
	case []any:
		e.WriteByte(byte(ValueArray))
		e.WriteUvarint(uint64(len(x)))
		for _, it := range x {
			if err := encodeValue(e, it, depth+1); err != nil {
				return err
			}
		}
	case map[string]string:
		e.WriteByte(byte(ValueObject))
		e.WriteUvarint(uint64(len(x)))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			e.WriteString(k)
			e.WriteByte(byte(ValueString))
			e.WriteString(x[k])
		}
	case map[string]any:
		e.WriteByte(byte(ValueObject))
		e.WriteUvarint(uint64(len(x)))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			e.WriteString(k)
			if err := encodeValue(e, x[k], depth+1); err != nil {
				return err
			}
		}
	case fmt.Stringer:
		e.WriteByte(byte(ValueString))
		e.WriteString(x.String())
	default:
		return fmt.Errorf("protocol: cannot encode value of type %T", v)
	}
	return nil
}

// DecodeValue reads a dynamic value written by EncodeValue.
func DecodeValue(d *Decoder) (any, error) {
	return decodeValue(d, 0)
}

func decodeValue(d *Decoder, depth int) (any, error) {
	if depth > MaxValueDepth {
		return nil, ErrMaxDepthExceeded
	}
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch ValueType(tag) {
	case ValueNull:
		return nil, nil
	case ValueBool:
		return d.ReadBool()
	case ValueInt:
		return d.ReadSvarint()
	case ValueFloat:
		return d.ReadFloat64()
	case ValueString:
		return d.ReadString()
	case ValueArray:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		arr := make([]any, count)
		for i := range arr {
			if arr[i], err = decodeValue(d, depth+1); err != nil {
				return nil, err
			}
		}
		return arr, nil
	case ValueObject:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		obj := make(map[string]any, count)
		for i := 0; i < count; i++ {
			key, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			if obj[key], err = decodeValue(d, depth+1); err != nil {
				return nil, err
			}
		}
		return obj, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}
