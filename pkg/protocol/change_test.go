package protocol

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vango-dev/loom/pkg/tree"
)

func intp(i int) *int { return &i }

func sampleBatch() *Batch {
	return &Batch{
		Seq: 7,
		Changes: []tree.Change{
			{ID: "p", Type: tree.ChangeUpdate, Name: "text", Value: "new", OldValue: "old"},
			{ID: "p", Type: tree.ChangeUpdate, Name: "hidden", Value: true},
			{ID: "ul", Type: tree.ChangeAdded, Name: tree.ChildrenName, Value: `<li id="x">x</li>`, Index: intp(0), Before: "y"},
			{ID: "ul", Type: tree.ChangeMoved, Name: tree.ChildrenName, Value: "y", Index: intp(3)},
			{ID: "ul", Type: tree.ChangeRemoved, Name: tree.ChildrenName, Value: "z"},
		},
	}
}

func TestBatchBinaryRoundTrip(t *testing.T) {
	want := sampleBatch()
	data, err := EncodeBatch(want)
	if err != nil {
		t.Fatalf("EncodeBatch() error = %v", err)
	}
	got, err := DecodeBatch(data)
	if err != nil {
		t.Fatalf("DecodeBatch() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeBatch() = %v, want %v", got, want)
	}
}

func TestBatchBinaryErrors(t *testing.T) {
	data, _ := EncodeBatch(sampleBatch())
	if _, err := DecodeBatch(data[:len(data)-2]); err == nil {
		t.Error("DecodeBatch(truncated) should fail")
	}
	if _, err := DecodeBatch(append(data, 0x00)); !errors.Is(err, ErrTrailingData) {
		t.Errorf("DecodeBatch(trailing) error = %v, want ErrTrailingData", err)
	}

	e := NewEncoder()
	e.WriteUvarint(1)
	e.WriteUvarint(1)
	e.WriteByte(0x09)
	if _, err := DecodeBatch(e.Bytes()); err == nil {
		t.Error("DecodeBatch(bad change type) should fail")
	}

	bad := &Batch{Changes: []tree.Change{{Value: make(chan int)}}}
	if _, err := EncodeBatch(bad); err == nil {
		t.Error("EncodeBatch(chan value) should fail")
	}
}

func TestBinaryIsSmallerThanJSON(t *testing.T) {
	b := sampleBatch()
	bin, err := NewCodec(EncodingBinary).EncodeBatch(b)
	if err != nil {
		t.Fatal(err)
	}
	js, err := NewCodec(EncodingJSON).EncodeBatch(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(bin) >= len(js) {
		t.Errorf("binary = %d bytes, json = %d bytes", len(bin), len(js))
	}
}
