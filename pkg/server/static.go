package server

import (
	"net/http"
	"strings"

	clientdist "github.com/vango-dev/frontpage/client/dist"
	"github.com/vango-dev/frontpage/pkg/assets"
)

// StaticPrefix is where the embedded client files are served.
const StaticPrefix = "/static/"

// Asset names layouts pass to PageContext.Asset.
const (
	ScriptAsset = clientdist.ScriptName
	StyleAsset  = clientdist.StyleName
)

// ScriptPath and StylePath are the unfingerprinted URLs of the client
// files. They stay valid but are only cached briefly.
const (
	ScriptPath = StaticPrefix + ScriptAsset
	StylePath  = StaticPrefix + StyleAsset
)

const (
	cacheShort     = "public, max-age=3600, must-revalidate"
	cacheImmutable = "public, max-age=31536000, immutable"
)

// fingerprintAssets builds the manifest for the embedded client files.
func fingerprintAssets() (*assets.Manifest, error) {
	return assets.Fingerprint(clientdist.FS, ScriptAsset, StyleAsset)
}

// staticHandler serves the embedded client files under /static/.
// Fingerprinted names are mapped back to their source file and cached for
// a year. Directory listings are not served.
func staticHandler(m *assets.Manifest) http.Handler {
	files := http.FileServer(http.FS(clientdist.FS))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, StaticPrefix)
		if name == "" || strings.HasSuffix(name, "/") {
			http.NotFound(w, r)
			return
		}

		cache := cacheShort
		if m != nil {
			if src, ok := m.Source(name); ok {
				name = src
				cache = cacheImmutable
			}
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = "/" + name
		r2.URL.RawPath = ""
		w.Header().Set("Cache-Control", cache)
		files.ServeHTTP(w, r2)
	})
}
