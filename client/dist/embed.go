package clientdist

import "embed"

// FS holds the browser assets served under "/static/".
//
//go:embed frontpage.js site.css
var FS embed.FS

// ScriptName and StyleName are the asset file names inside FS.
const (
	ScriptName = "frontpage.js"
	StyleName  = "site.css"
)
