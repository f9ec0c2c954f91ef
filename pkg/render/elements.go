package render

// booleanAttrs render as a bare name when true and are omitted when false.
var booleanAttrs = map[string]bool{
	"async":       true,
	"autofocus":   true,
	"autoplay":    true,
	"checked":     true,
	"controls":    true,
	"defer":       true,
	"disabled":    true,
	"hidden":      true,
	"loop":        true,
	"multiple":    true,
	"muted":       true,
	"novalidate":  true,
	"open":        true,
	"playsinline": true,
	"readonly":    true,
	"required":    true,
	"selected":    true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

// validTag accepts lowercase ASCII letters, digits and hyphens, starting
// with a letter.
func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '-'):
		default:
			return false
		}
	}
	return true
}

// validAttrName rejects names that could break out of the start tag.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		switch c := name[i]; c {
		case ' ', '\t', '\n', '\r', '\f', '"', '\'', '>', '/', '=', '<', 0:
			return false
		}
	}
	return true
}
