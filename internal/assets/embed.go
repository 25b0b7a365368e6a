// ABOUTME: Embedded console stylesheets and images served under the static prefix
// ABOUTME: Existing hashed files get immutable cache headers, everything else no-cache

// Package assets serves the console's static files embedded via go:embed.
package assets

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
)

//go:embed all:static
var staticFS embed.FS

// hashPattern detects content hashes in filenames (e.g. ".CU4W1PlC.").
var hashPattern = regexp.MustCompile(`\.[a-zA-Z0-9_-]{8,}\.`)

func init() {
	_ = mime.AddExtensionType(".woff2", "font/woff2")
	_ = mime.AddExtensionType(".map", "application/json")
}

func containsHash(p string) bool {
	return hashPattern.MatchString(p)
}

// mimeFromExt returns the MIME type for a file extension, falling back to the
// standard library's database and then application/octet-stream.
func mimeFromExt(ext string) string {
	switch ext {
	case ".js", ".mjs":
		return "application/javascript"
	case ".css":
		return "text/css; charset=utf-8"
	case ".woff2":
		return "font/woff2"
	case ".svg":
		return "image/svg+xml"
	case ".map":
		return "application/json"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}

// Exists reports whether name is an embedded asset.
func Exists(name string) bool {
	_, err := fs.Stat(staticFS, path.Join("static", name))
	return err == nil
}

// FileServer serves the embedded static files. The handler expects paths
// relative to the static root, so strip the mount prefix before calling it.
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("assets: failed to create sub filesystem: " + err.Error())
	}
	return newFileServer(sub)
}

// newFileServer serves fsys with cache headers. Only files that exist get the
// immutable header; misses stay no-cache so a later deploy can fill them.
func newFileServer(fsys fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		_, statErr := fs.Stat(fsys, name)

		ext := strings.ToLower(path.Ext(name))
		if ext != "" && statErr == nil {
			w.Header().Set("Content-Type", mimeFromExt(ext))
		}

		if statErr == nil && containsHash(name) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		fileServer.ServeHTTP(w, r)
	})
}
