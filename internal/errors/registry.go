package errors

import "sort"

// Template defines a registered error code.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

var registry = map[string]Template{
	// Config (E1xx)
	"E100": {
		Category:   CategoryConfig,
		Message:    "Failed to load configuration",
		Suggestion: "Check the YAML syntax of frontpage.yaml and any FRONTPAGE_* variables.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Failed to write configuration",
	},

	// Content (E2xx)
	"E200": {
		Category: CategoryContent,
		Message:  "Content entry not found",
	},
	"E201": {
		Category:   CategoryContent,
		Message:    "Failed to parse content front matter",
		Suggestion: "Front matter must be a YAML block delimited by --- lines.",
	},
	"E202": {
		Category: CategoryContent,
		Message:  "Failed to render markdown",
	},
	"E203": {
		Category:   CategoryContent,
		Message:    "Failed to read content source",
		Suggestion: "Check content.dir or the S3 bucket, prefix and credentials.",
	},

	// Protocol (E3xx)
	"E300": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
	},
	"E301": {
		Category: CategoryProtocol,
		Message:  "Malformed event",
	},
	"E302": {
		Category: CategoryProtocol,
		Message:  "Handshake failed",
	},

	// Session (E4xx)
	"E400": {
		Category:   CategorySession,
		Message:    "Session limit reached",
		Suggestion: "Raise session.max_sessions or add capacity.",
	},
	"E401": {
		Category: CategorySession,
		Message:  "Event queue full",
	},
	"E402": {
		Category: CategorySession,
		Message:  "Session closed",
	},
	"E403": {
		Category: CategorySession,
		Message:  "Event handler panicked",
	},

	// Server (E5xx)
	"E500": {
		Category:   CategoryServer,
		Message:    "Failed to start HTTP listener",
		Suggestion: "Check server.addr and that the port is free.",
	},
	"E501": {
		Category: CategoryServer,
		Message:  "Page render failed",
	},
	"E502": {
		Category: CategoryServer,
		Message:  "Shutdown did not complete in time",
	},
}

// Codes returns every registered code in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
