package server

import (
	"mime"
	"path"
	"strings"
)

// contentTypeOverrides maps file extensions to the content-type the
// server must emit regardless of what the platform's MIME database says.
//
// The platform default guesser returns no type (or a wrong one) for
// several of these extensions — most importantly .ts and .tsx, which
// some systems map to MPEG transport streams — and browsers then refuse
// to load them as script modules. The table pins the types the
// single-page app actually needs.
var contentTypeOverrides = map[string]string{
	".ts":   "application/javascript",
	".tsx":  "application/javascript",
	".js":   "application/javascript",
	".jsx":  "application/javascript",
	".json": "application/json",
	".css":  "text/css",
	".html": "text/html",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// ContentType returns the content-type for the given request path.
//
// Extensions in the override table get their fixed type; everything
// else is an unmodified pass-through to mime.TypeByExtension, which may
// return "" when the platform has no mapping (the file server then
// falls back to content sniffing).
func ContentType(p string) string {
	ext := lowerExt(p)
	if ct, ok := contentTypeOverrides[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

// lowerExt extracts the lowercased extension (including the dot) from a
// URL or file path.
func lowerExt(p string) string {
	return strings.ToLower(path.Ext(p))
}
