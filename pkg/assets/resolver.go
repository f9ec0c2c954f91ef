package assets

// Resolver turns an asset name into the URL path pages link to.
type Resolver interface {
	// Asset resolves a source name, e.g. "frontpage.js" ->
	// "/static/frontpage.1f2e3d4c.js".
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver that prefixes fingerprinted names.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that only applies the prefix.
// It is used when fingerprinting is unavailable.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}
