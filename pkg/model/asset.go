package model

import (
	"mime"
	"path"
	"strings"
)

// extraContentTypes fills gaps in the platform MIME table.
var extraContentTypes = map[string]string{
	".ico": "image/x-icon",
	".svg": "image/svg+xml",
	".js":  "text/javascript; charset=utf-8",
}

// AssetContentType derives a Content-Type from the file extension of name.
// Unknown extensions yield "", which the static route serves as
// application/octet-stream.
func AssetContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := extraContentTypes[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

// ValidAssetName reports whether name can be stored and served as a console
// file: a clean, relative, slash separated path.
func ValidAssetName(name string) bool {
	if name == "" || strings.ContainsAny(name, "\\\x00") {
		return false
	}
	return !strings.HasPrefix(name, "/") && path.Clean(name) == name && name != "." &&
		name != ".." && !strings.HasPrefix(name, "../")
}
