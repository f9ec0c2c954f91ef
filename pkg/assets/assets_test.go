package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	fsys := fstest.MapFS{
		"frontpage.js": {Data: []byte("console.log(1)")},
		"site.css":     {Data: []byte("body{}")},
	}
	m, err := Fingerprint(fsys, "frontpage.js", "site.css")
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("console.log(1)"))
	want := "frontpage." + hex.EncodeToString(sum[:])[:HashLen] + ".js"
	assert.Equal(t, want, m.Resolve("frontpage.js"))
	assert.Equal(t, 2, m.Len())

	src, ok := m.Source(want)
	assert.True(t, ok)
	assert.Equal(t, "frontpage.js", src)

	_, ok = m.Source("frontpage.js")
	assert.False(t, ok)

	_, err = Fingerprint(fsys, "missing.js")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a, err := Fingerprint(fstest.MapFS{"site.css": {Data: []byte("a")}}, "site.css")
	require.NoError(t, err)
	b, err := Fingerprint(fstest.MapFS{"site.css": {Data: []byte("b")}}, "site.css")
	require.NoError(t, err)
	assert.NotEqual(t, a.Resolve("site.css"), b.Resolve("site.css"))
}

func TestFingerprintName(t *testing.T) {
	assert.Equal(t, "frontpage.abc.js", FingerprintName("frontpage.js", "abc"))
	assert.Equal(t, "css/site.abc.css", FingerprintName("css/site.css", "abc"))
	assert.Equal(t, "LICENSE.abc", FingerprintName("LICENSE", "abc"))
}

func TestManifest(t *testing.T) {
	m := NewManifest(map[string]string{"frontpage.js": "frontpage.abc.js"})

	assert.True(t, m.Has("frontpage.js"))
	assert.False(t, m.Has("site.css"))
	assert.Equal(t, "unknown.js", m.Resolve("unknown.js"))

	all := m.All()
	all["frontpage.js"] = "changed"
	assert.Equal(t, "frontpage.abc.js", m.Resolve("frontpage.js"))
}

func TestResolvers(t *testing.T) {
	m := NewManifest(map[string]string{"frontpage.js": "frontpage.abc.js"})

	r := NewResolver(m, "/static/")
	assert.Equal(t, "/static/frontpage.abc.js", r.Asset("frontpage.js"))
	assert.Equal(t, "/static/site.css", r.Asset("site.css"))

	p := NewPassthroughResolver("/static/")
	assert.Equal(t, "/static/frontpage.js", p.Asset("frontpage.js"))
}
