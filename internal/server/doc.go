// Package server implements the static asset server for the devserve CLI.
//
// The server is a thin layer over http.FileServer with three additions:
//
//   - The site root ("/") redirects (302) to the standalone entry
//     document instead of listing the directory.
//   - Requests for /favicon.ico are answered 404 unconditionally to keep
//     missing-icon noise out of the request log.
//   - A fixed extension→content-type override table corrects the types
//     the platform MIME database misclassifies (.ts/.tsx most notably),
//     so browsers accept the app's source modules as scripts.
//
// Files are served from an explicit base directory passed to New; the
// server never changes the process working directory.
package server
