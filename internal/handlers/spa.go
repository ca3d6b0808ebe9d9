package handlers

import (
	"net/http"
	"os"
	"path"
	"strings"
)

// SPA serves the frontend build in dir. Unknown paths fall back to
// index.html so client-side routes work; unknown /api paths get a JSON 404.
func SPA(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean("/" + r.URL.Path)
		if reqPath == "/api" || strings.HasPrefix(reqPath, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		if info, err := os.Stat(path.Join(dir, reqPath)); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	})
}
