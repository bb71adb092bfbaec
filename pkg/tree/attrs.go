package tree

import (
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"strings"
)

// Attr is a single attribute passed at construction or render time.
type Attr struct {
	Key   string
	Value any
	state bool
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Prop creates an attribute with an arbitrary name.
func Prop(key string, value any) Attr { return Attr{Key: key, Value: value} }

// State creates an observable property that is never written to markup.
func State(key string, value any) Attr { return Attr{Key: key, Value: value, state: true} }

// ID fixes the node id. It only has an effect before the node is activated.
func ID(id string) Attr { return Prop("id", id) }

// Text sets the text content preceding the first child.
func Text(s string) Attr { return Prop("text", s) }

// Tail sets the text that follows the element inside its parent.
func Tail(s string) Attr { return Prop("tail", s) }

// Class sets the class list; classes are joined with spaces.
func Class(classes ...string) Attr { return Prop("class", classes) }

// Style sets inline style from a property map. Properties render sorted.
func Style(props map[string]string) Attr { return Prop("style", props) }

// StyleAttr sets inline style from a literal string.
func StyleAttr(style string) Attr { return Prop("style", style) }

// Attrs sets extra attributes that have no schema entry, e.g. data-* names.
func Attrs(m map[string]string) Attr { return Prop("attrs", m) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return Prop("data-"+key, value) }

// Href sets the href attribute.
func Href(url string) Attr { return Prop("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return Prop("src", url) }

// Alt sets the alt attribute.
func Alt(s string) Attr { return Prop("alt", s) }

// Type sets the type attribute.
func Type(t string) Attr { return Prop("type", t) }

// Name sets the name attribute.
func Name(s string) Attr { return Prop("name", s) }

// Value sets the value attribute.
func Value(s string) Attr { return Prop("value", s) }

// Role sets the role attribute.
func Role(role string) Attr { return Prop("role", role) }

// Hidden sets the hidden flag.
func Hidden(b bool) Attr { return Prop("hidden", b) }

// Disabled sets the disabled flag.
func Disabled(b bool) Attr { return Prop("disabled", b) }

// Checked sets the checked flag.
func Checked(b bool) Attr { return Prop("checked", b) }

// Draggable sets draggable, written out as "true" or "false".
func Draggable(b bool) Attr { return Prop("draggable", b) }

// reservedExtra names attributes with their own setters that an extra
// attribute map must not overwrite.
var reservedExtra = map[string]bool{"id": true, "class": true, "style": true}

// normalizeValue converts an attribute value into one of the stored shapes:
// nil, string, bool, []string or map[string]string.
func normalizeValue(name string, value any) (any, error) {
	switch name {
	case "tag", "text", "tail", "source":
		switch v := value.(type) {
		case string:
			return v, nil
		case nil:
			return "", nil
		case fmt.Stringer:
			return v.String(), nil
		}
		return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidAttribute, name, value)
	case "attrs":
		var out map[string]string
		switch v := value.(type) {
		case nil:
			return nil, nil
		case map[string]string:
			out = maps.Clone(v)
		case map[string]any:
			out = make(map[string]string, len(v))
			for k, x := range v {
				out[k] = fmt.Sprint(x)
			}
		default:
			return nil, fmt.Errorf("%w: attrs must be a map, got %T", ErrInvalidAttribute, value)
		}
		for k := range out {
			if reservedExtra[k] {
				return nil, fmt.Errorf("%w: %s cannot be set through attrs", ErrInvalidAttribute, k)
			}
		}
		return out, nil
	}

	switch v := value.(type) {
	case nil, string, bool:
		return v, nil
	case []string:
		return append([]string(nil), v...), nil
	case map[string]string:
		return maps.Clone(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return nil, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidAttribute, name, value)
}

// valuesEqual compares two normalized values. All empty values are equal
// since none of them produces markup.
func valuesEqual(a, b any) bool {
	if isEmptyValue(a) && isEmptyValue(b) {
		return true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case []string:
		return len(x) == 0
	case map[string]string:
		return len(x) == 0
	}
	return false
}

func (n *Node) get(name string) any {
	switch name {
	case "tag":
		return n.tag
	case "text":
		return n.text
	case "tail":
		return n.tail
	case "source":
		if n.raw != nil {
			return n.raw.source
		}
		return ""
	}
	return n.attrs[name]
}

func (n *Node) put(name string, value any) {
	switch name {
	case "tag":
		n.tag, _ = value.(string)
	case "text":
		n.text, _ = value.(string)
	case "tail":
		n.tail, _ = value.(string)
	case "source":
		if n.raw != nil {
			n.raw.source, _ = value.(string)
		}
	default:
		if value == nil {
			delete(n.attrs, name)
		} else {
			n.attrs[name] = value
		}
	}
}

// Get returns an attribute value. Text, tail and tag are reachable by name.
func (n *Node) Get(name string) (any, bool) {
	switch name {
	case "tag", "text", "tail", "source":
		return n.get(name), true
	}
	v, ok := n.attrs[name]
	return v, ok
}

// Set changes an attribute.
//
// Values equal to the current one are ignored. Otherwise the value is
// stored, mirrored into the backing element when the node is active, and an
// update change is emitted. Observers run after the change is emitted.
func (n *Node) Set(name string, value any) error {
	if n.destroyed {
		return fmt.Errorf("set %s on %s: %w", name, n.id, ErrDestroyed)
	}
	if name == "id" {
		return fmt.Errorf("%w: id of %s is fixed", ErrInvalidAttribute, n.id)
	}
	if name == "source" && n.kind != KindRaw {
		return fmt.Errorf("%w: %s %s is not raw", ErrInvalidAttribute, n.kind, n.id)
	}
	v, err := normalizeValue(name, value)
	if err != nil {
		return err
	}
	if err := validateAttr(n.tag, name, v); err != nil {
		return err
	}
	if name == "source" {
		return n.setSource(v.(string))
	}
	old := n.get(name)
	if valuesEqual(old, v) {
		return nil
	}
	n.put(name, v)
	if n.el != nil {
		applySetter(n, name, v, old)
	}
	n.changed(name, v, old)
	return nil
}

// changed emits the update for an attribute that was just written and runs
// its observers.
func (n *Node) changed(name string, value, old any) {
	if n.el != nil {
		n.emit(Change{
			ID:       n.id,
			Type:     ChangeUpdate,
			Name:     name,
			Value:    value,
			OldValue: old,
		})
	}
	n.fire(name, value, old)
}

// SetText sets the text content.
func (n *Node) SetText(s string) error { return n.Set("text", s) }

// SetTail sets the tail text.
func (n *Node) SetTail(s string) error { return n.Set("tail", s) }

// SetTag changes the element tag.
func (n *Node) SetTag(tag string) error { return n.Set("tag", tag) }

// SetClass replaces the class list.
func (n *Node) SetClass(classes ...string) error { return n.Set("class", classes) }

// SetStyle replaces the inline style properties.
func (n *Node) SetStyle(props map[string]string) error { return n.Set("style", props) }

// SetState changes an observable property. Properties never reach markup, so
// only observers are notified.
func (n *Node) SetState(name string, value any) {
	old := n.state[name]
	if reflect.DeepEqual(old, value) {
		return
	}
	if n.state == nil {
		n.state = make(map[string]any)
	}
	n.state[name] = value
	n.fire(name, value, old)
}

// GetState returns an observable property.
func (n *Node) GetState(name string) (any, bool) {
	v, ok := n.state[name]
	return v, ok
}

// classString joins a class value into its attribute form.
func classString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		parts := make([]string, 0, len(x))
		for _, c := range x {
			if c != "" {
				parts = append(parts, c)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
