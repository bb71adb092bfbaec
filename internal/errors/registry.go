package errors

import (
	"maps"
	"slices"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Child not found",
		Detail:   "The node given as child or insertion reference is not a child of the parent.",
	},
	"E002": {
		Category:   CategoryRuntime,
		Message:    "Unsupported block mode transition",
		Detail:     "A bound block in replace mode destroyed the children of its target, so it cannot switch to append or prepend.",
		Suggestion: "Choose the mode before binding the block, or rebuild the target's children.",
	},
	"E003": {
		Category:   CategoryRuntime,
		Message:    "Cyclic block reference",
		Detail:     "A block was routed into itself, directly or through other blocks.",
		Suggestion: "Point the block at a target outside its own output.",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Raw content parse failed",
		Detail:   "The source of a raw content node could not be converted or parsed as HTML.",
	},
	"E005": {
		Category:   CategoryRuntime,
		Message:    "Invalid attribute value",
		Detail:     "The value does not match the attribute's schema, for example a non-boolean for a flag attribute.",
		Suggestion: "Check the attribute type: flags take bool, class takes a list of strings, style takes a map.",
	},
	"E006": {
		Category: CategoryRuntime,
		Message:  "Node destroyed",
		Detail:   "The node has been destroyed and can no longer be edited or rendered.",
	},
	"E007": {
		Category: CategoryRuntime,
		Message:  "Block target detached",
		Detail:   "The target block is not placed in the tree, so the block stays where it was declared.",
	},
	"E008": {
		Category: CategoryRuntime,
		Message:  "Invalid insert",
		Detail:   "The insertion would corrupt the tree: a node inserted into itself or its descendant, a root inserted elsewhere, or children added to raw content.",
	},
	"E009": {
		Category: CategoryRuntime,
		Message:  "Not a block",
		Detail:   "Block operations were applied to a node that is not a block.",
	},
	"E010": {
		Category: CategoryRuntime,
		Message:  "Invalid query",
		Detail:   "The XPath expression does not compile or uses a variable without a binding.",
	},
	"E011": {
		Category:   CategoryRuntime,
		Message:    "Node not active",
		Detail:     "The node has no backing element. Pattern nodes and nodes outside the page cannot be rendered.",
		Suggestion: "Render the page root or one of its placed elements.",
	},
	"E012": {
		Category:   CategoryRuntime,
		Message:    "Duplicate id",
		Detail:     "Another live node of the same page already uses this id.",
		Suggestion: "Drop the explicit ID(...) or pick a unique one.",
	},

	// ============================================
	// Protocol Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "WebSocket upgrade failed",
		Detail:   "The live connection could not be established.",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
		Detail:   "A message from the client could not be decoded.",
	},
	"E062": {
		Category: CategoryProtocol,
		Message:  "Unknown node id",
		Detail:   "An event named a node that is not active in the session's page. The node may have been removed by an earlier change.",
	},
	"E063": {
		Category:   CategoryProtocol,
		Message:    "Event queue full",
		Detail:     "The session's owner loop has too much pending work.",
		Suggestion: "Raise bridge.event_queue or slow down the client.",
	},
	"E064": {
		Category: CategoryProtocol,
		Message:  "Unknown page",
		Detail:   "The page token of the live connection does not match a rendered page.",
	},

	// ============================================
	// Internal (E100)
	// ============================================

	"E100": {
		Category: CategoryRuntime,
		Message:  "Internal error",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Config parse error",
		Detail:   "loom.json or loom.yaml contains invalid syntax.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range or has the wrong type.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category:   CategoryCLI,
		Message:    "File already exists",
		Detail:     "The command would overwrite an existing file.",
		Suggestion: "Pass --force to overwrite it.",
	},
	"E141": {
		Category:   CategoryCLI,
		Message:    "Config not found",
		Detail:     "The configuration file given with --config does not exist.",
		Suggestion: "Create loom.yaml or drop the --config flag to use defaults.",
	},
	"E150": {
		Category: CategoryCLI,
		Message:  "Export failed",
		Detail:   "A page could not be rendered or stored.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	return slices.Sorted(maps.Keys(registry))
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
