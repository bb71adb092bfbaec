package tree

import (
	"fmt"
	"slices"
)

// attrKind is the value shape an attribute accepts.
type attrKind uint8

const (
	attrText     attrKind = iota // Any string
	attrFlag                     // Boolean presence attribute
	attrEnumBool                 // "true"/"false" valued attribute
	attrEnum                     // One of a fixed set of strings
)

type attrSpec struct {
	kind   attrKind
	values []string
}

func enum(values ...string) attrSpec { return attrSpec{kind: attrEnum, values: values} }

var (
	specText     = attrSpec{kind: attrText}
	specFlag     = attrSpec{kind: attrFlag}
	specEnumBool = attrSpec{kind: attrEnumBool}
)

// globalAttrs apply to every tag.
var globalAttrs = map[string]attrSpec{
	"accesskey":       specText,
	"contenteditable": specEnumBool,
	"dir":             enum("ltr", "rtl", "auto"),
	"draggable":       specEnumBool,
	"hidden":          specFlag,
	"lang":            specText,
	"role":            specText,
	"spellcheck":      specEnumBool,
	"tabindex":        specText,
	"title":           specText,
	"translate":       enum("yes", "no"),
}

var (
	targetAttr  = enum("", "_blank", "_self", "_parent", "_top")
	preloadAttr = enum("", "none", "metadata", "auto")
)

// tagSchema lists the attributes each tag gives a fixed shape. Attributes not
// listed anywhere are accepted as-is and written through the generic path.
var tagSchema = map[string]map[string]attrSpec{
	"a": {
		"href":     specText,
		"target":   targetAttr,
		"download": specText,
		"rel":      specText,
	},
	"audio": {
		"autoplay": specFlag,
		"controls": specFlag,
		"loop":     specFlag,
		"muted":    specFlag,
		"preload":  preloadAttr,
		"src":      specText,
	},
	"button": {
		"autofocus": specFlag,
		"disabled":  specFlag,
		"type":      enum("submit", "reset", "button"),
	},
	"details": {
		"open": specFlag,
	},
	"form": {
		"action":     specText,
		"method":     enum("get", "post", "dialog"),
		"novalidate": specFlag,
		"target":     targetAttr,
	},
	"iframe": {
		"allowfullscreen": specFlag,
		"src":             specText,
		"sandbox":         specText,
	},
	"img": {
		"alt":     specText,
		"src":     specText,
		"loading": enum("eager", "lazy"),
		"ismap":   specFlag,
	},
	"input": {
		"autofocus": specFlag,
		"checked":   specFlag,
		"disabled":  specFlag,
		"multiple":  specFlag,
		"readonly":  specFlag,
		"required":  specFlag,
		"type": enum("button", "checkbox", "color", "date", "datetime-local",
			"email", "file", "hidden", "image", "month", "number", "password",
			"radio", "range", "reset", "search", "submit", "tel", "text", "time",
			"url", "week"),
	},
	"link": {
		"href": specText,
		"rel":  specText,
	},
	"ol": {
		"reversed": specFlag,
		"type":     enum("1", "a", "A", "i", "I"),
	},
	"option": {
		"disabled": specFlag,
		"selected": specFlag,
	},
	"script": {
		"async": specFlag,
		"defer": specFlag,
		"src":   specText,
	},
	"select": {
		"disabled": specFlag,
		"multiple": specFlag,
		"required": specFlag,
	},
	"textarea": {
		"disabled": specFlag,
		"readonly": specFlag,
		"required": specFlag,
		"wrap":     enum("hard", "soft"),
	},
	"video": {
		"autoplay":    specFlag,
		"controls":    specFlag,
		"loop":        specFlag,
		"muted":       specFlag,
		"playsinline": specFlag,
		"poster":      specText,
		"preload":     preloadAttr,
		"src":         specText,
	},
}

func lookupAttr(tag, name string) (attrSpec, bool) {
	if def, ok := tagSchema[tag][name]; ok {
		return def, true
	}
	def, ok := globalAttrs[name]
	return def, ok
}

// validateAttr checks a normalized value against the schema. Nil always
// passes; it removes the attribute.
func validateAttr(tag, name string, value any) error {
	if value == nil {
		return nil
	}
	def, ok := lookupAttr(tag, name)
	if !ok {
		return nil
	}
	switch def.kind {
	case attrFlag:
		if _, ok := value.(bool); ok {
			return nil
		}
	case attrEnumBool:
		switch v := value.(type) {
		case bool:
			return nil
		case string:
			if v == "true" || v == "false" {
				return nil
			}
		}
	case attrEnum:
		if s, ok := value.(string); ok && slices.Contains(def.values, s) {
			return nil
		}
	case attrText:
		if _, ok := value.(string); ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s=%v on <%s>", ErrInvalidAttribute, name, value, tag)
}

// EnumeratedAttrs returns the sorted names of attributes written out as
// "true" or "false" rather than present or absent.
func EnumeratedAttrs() []string {
	var out []string
	for name, def := range globalAttrs {
		if def.kind == attrEnumBool {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// isEnumBool reports whether true/false are written out literally.
func isEnumBool(tag, name string) bool {
	def, ok := lookupAttr(tag, name)
	return ok && def.kind == attrEnumBool
}

// voidElements cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether tag is an HTML void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}
