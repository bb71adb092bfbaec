package tree

import "fmt"

// ChangeType is the kind of a change record.
type ChangeType uint8

const (
	ChangeUpdate  ChangeType = iota // Attribute, text, tail or tag changed
	ChangeAdded                     // Child element inserted
	ChangeRemoved                   // Child element removed
	ChangeMoved                     // Child element moved to a new position
)

// String returns the wire name of the ChangeType.
func (t ChangeType) String() string {
	switch t {
	case ChangeUpdate:
		return "update"
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// MarshalText encodes the type by name so records stay JSON compatible.
func (t ChangeType) MarshalText() ([]byte, error) {
	if t > ChangeMoved {
		return nil, fmt.Errorf("tree: unknown change type %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name produced by MarshalText.
func (t *ChangeType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "update":
		*t = ChangeUpdate
	case "added":
		*t = ChangeAdded
	case "removed":
		*t = ChangeRemoved
	case "moved":
		*t = ChangeMoved
	default:
		return fmt.Errorf("tree: unknown change type %q", b)
	}
	return nil
}

// ChildrenName is the record name used by structural changes.
const ChildrenName = "children"

// Change is a single mutation of the backing tree, as seen by a client.
//
// For updates ID is the node that changed and Value/OldValue are the new and
// previous attribute values. For structural records ID is the parent and Name
// is ChildrenName: added carries the rendered child markup in Value, removed
// and moved carry the child id. Index is the position among the parent's
// element children, Before the id of the next element sibling if any.
type Change struct {
	ID       string     `json:"id"`
	Type     ChangeType `json:"type"`
	Name     string     `json:"name"`
	Value    any        `json:"value"`
	OldValue any        `json:"oldvalue,omitempty"`
	Index    *int       `json:"index,omitempty"`
	Before   string     `json:"before,omitempty"`
}

// String returns a short description for logs and test failures.
func (c Change) String() string {
	if c.Index != nil {
		return fmt.Sprintf("%s %s.%s[%d]=%v", c.Type, c.ID, c.Name, *c.Index, c.Value)
	}
	return fmt.Sprintf("%s %s.%s=%v", c.Type, c.ID, c.Name, c.Value)
}
