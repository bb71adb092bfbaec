package protocol

import (
	"fmt"

	"github.com/vango-dev/loom/pkg/tree"
)

// Batch is the set of change records produced by one owner-loop turn.
// Seq increases by one per batch within a session so clients can detect
// gaps.
type Batch struct {
	Seq     uint64        `json:"seq"`
	Changes []tree.Change `json:"changes"`
}

// EncodeBatch encodes a batch to binary payload bytes.
func EncodeBatch(b *Batch) ([]byte, error) {
	e := NewEncoder()
	if err := EncodeBatchTo(e, b); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeBatchTo encodes a batch using the provided encoder.
func EncodeBatchTo(e *Encoder, b *Batch) error {
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Changes)))
	for i := range b.Changes {
		if err := EncodeChangeTo(e, &b.Changes[i]); err != nil {
			return err
		}
	}
	return nil
}

// EncodeChangeTo encodes a single change record.
func EncodeChangeTo(e *Encoder, c *tree.Change) error {
	e.WriteByte(byte(c.Type))
	e.WriteString(c.ID)
	e.WriteString(c.Name)
	if err := EncodeValue(e, c.Value); err != nil {
		return fmt.Errorf("change %s.%s value: %w", c.ID, c.Name, err)
	}
	if err := EncodeValue(e, c.OldValue); err != nil {
		return fmt.Errorf("change %s.%s old value: %w", c.ID, c.Name, err)
	}
	e.WriteBool(c.Index != nil)
	if c.Index != nil {
		e.WriteSvarint(int64(*c.Index))
	}
	e.WriteString(c.Before)
	return nil
}

// DecodeBatch decodes a binary batch payload.
func DecodeBatch(data []byte) (*Batch, error) {
	d := NewDecoder(data)
	b, err := DecodeBatchFrom(d)
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeBatchFrom decodes a batch from a decoder.
func DecodeBatchFrom(d *Decoder) (*Batch, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	b := &Batch{Seq: seq, Changes: make([]tree.Change, count)}
	for i := range b.Changes {
		if err := DecodeChangeFrom(d, &b.Changes[i]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// DecodeChangeFrom decodes a single change record into c.
func DecodeChangeFrom(d *Decoder, c *tree.Change) error {
	t, err := d.ReadByte()
	if err != nil {
		return err
	}
	if tree.ChangeType(t) > tree.ChangeMoved {
		return fmt.Errorf("protocol: invalid change type %d", t)
	}
	c.Type = tree.ChangeType(t)
	if c.ID, err = d.ReadString(); err != nil {
		return err
	}
	if c.Name, err = d.ReadString(); err != nil {
		return err
	}
	if c.Value, err = DecodeValue(d); err != nil {
		return err
	}
	if c.OldValue, err = DecodeValue(d); err != nil {
		return err
	}
	hasIndex, err := d.ReadBool()
	if err != nil {
		return err
	}
	if hasIndex {
		idx, err := d.ReadSvarint()
		if err != nil {
			return err
		}
		i := int(idx)
		c.Index = &i
	}
	c.Before, err = d.ReadString()
	return err
}
