// Package swaggerkit mounts the Swagger UI and the OpenAPI document of the api
package swaggerkit

import (
	"net/http"

	phttp "piiredact/internal/platform/net/http"
)

// DocPath is where the OpenAPI document is served
const DocPath = "/api/docs/doc.json"

// Mount serves the UI under /api/docs and the document at DocPath
func Mount(r phttp.Router) {
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/index.html", http.StatusPermanentRedirect)
	})
	r.Get(DocPath, serveDocJSON)
	phttp.MountSwagger(r, "/api/docs", DocPath)
}

func serveDocJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(docJSON)
}
