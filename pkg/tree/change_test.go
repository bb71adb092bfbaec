package tree

import (
	"encoding/json"
	"testing"
)

func TestChangeJSON(t *testing.T) {
	idx := 2
	tests := []struct {
		change Change
		want   string
	}{
		{
			Change{ID: "p", Type: ChangeUpdate, Name: "text", Value: "new", OldValue: "old"},
			`{"id":"p","type":"update","name":"text","value":"new","oldvalue":"old"}`,
		},
		{
			Change{ID: "ul", Type: ChangeAdded, Name: ChildrenName, Value: `<li id="x"></li>`, Index: &idx, Before: "y"},
			`{"id":"ul","type":"added","name":"children","value":"<li id=\"x\"></li>","index":2,"before":"y"}`,
		},
		{
			Change{ID: "ul", Type: ChangeRemoved, Name: ChildrenName, Value: "x"},
			`{"id":"ul","type":"removed","name":"children","value":"x"}`,
		},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.change)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", tt.change, err)
		}
		if string(b) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.change, b, tt.want)
		}
	}
}

func TestChangeTypeText(t *testing.T) {
	var ct ChangeType
	if err := ct.UnmarshalText([]byte("moved")); err != nil || ct != ChangeMoved {
		t.Errorf("UnmarshalText(moved) = %v, %v", ct, err)
	}
	if err := ct.UnmarshalText([]byte("renamed")); err == nil {
		t.Error("UnmarshalText(renamed) should fail")
	}
	if _, err := ChangeType(9).MarshalText(); err == nil {
		t.Error("MarshalText(9) should fail")
	}
}
