package tree

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement     Kind = iota // <div>, <li>, etc.
	KindRaw                     // Element holding parsed HTML content
	KindLooper                  // Generates children per item
	KindConditional             // Generates children while a condition holds
	KindBlock                   // Redirectable group of children
	KindSlot                    // Home marker left behind by a bound block
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindRaw:
		return "Raw"
	case KindLooper:
		return "Looper"
	case KindConditional:
		return "Conditional"
	case KindBlock:
		return "Block"
	case KindSlot:
		return "Slot"
	default:
		return "Unknown"
	}
}

// IsPattern reports whether nodes of this kind are structural only.
// Pattern nodes contribute children to their parent but never get a backing
// element, never count for child positions and never appear in changes.
func (k Kind) IsPattern() bool {
	return k >= KindLooper
}
