// Package assets maps static asset names to content-fingerprinted names so
// they can be cached indefinitely:
//
//	m, _ := assets.Fingerprint(clientdist.FS, "frontpage.js", "site.css")
//	r := assets.NewResolver(m, "/static/")
//
//	Script(Src(r.Asset("frontpage.js")))
//	// <script src="/static/frontpage.1f2e3d4c.js">
//
// A changed file gets a new name, so stale copies are never served.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// HashLen is the number of hex digits of the content hash kept in a
// fingerprinted name.
const HashLen = 8

// Manifest maps source names to fingerprinted names and back. It is built
// once and read-only afterwards.
type Manifest struct {
	entries map[string]string // source -> fingerprinted
	reverse map[string]string // fingerprinted -> source
}

// NewManifest creates a manifest from source -> fingerprinted pairs.
func NewManifest(entries map[string]string) *Manifest {
	m := &Manifest{
		entries: make(map[string]string, len(entries)),
		reverse: make(map[string]string, len(entries)),
	}
	for src, fp := range entries {
		m.entries[src] = fp
		m.reverse[fp] = src
	}
	return m
}

// Fingerprint hashes each named file in fsys and builds a manifest.
func Fingerprint(fsys fs.FS, names ...string) (*Manifest, error) {
	entries := make(map[string]string, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("assets: fingerprint %s: %w", name, err)
		}
		sum := sha256.Sum256(data)
		entries[name] = FingerprintName(name, hex.EncodeToString(sum[:])[:HashLen])
	}
	return NewManifest(entries), nil
}

// FingerprintName inserts hash before the extension:
// "js/frontpage.js" -> "js/frontpage.<hash>.js".
func FingerprintName(name, hash string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hash + ext
}

// Resolve returns the fingerprinted name for source, or source unchanged
// when it is not in the manifest.
func (m *Manifest) Resolve(source string) string {
	if fp, ok := m.entries[source]; ok {
		return fp
	}
	return source
}

// Source maps a fingerprinted name back to the file it was built from.
func (m *Manifest) Source(fingerprinted string) (string, bool) {
	src, ok := m.reverse[fingerprinted]
	return src, ok
}

// Has reports whether source is in the manifest.
func (m *Manifest) Has(source string) bool {
	_, ok := m.entries[source]
	return ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int { return len(m.entries) }

// All returns a copy of the source -> fingerprinted entries.
func (m *Manifest) All() map[string]string {
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}
