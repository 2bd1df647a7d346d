package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas de documentación (Swagger UI + OpenAPI YAML).
func RegisterRoutes(r chi.Router) {
	// Soporta /docs (sin slash) redirigiendo a /docs/ respetando el prefijo donde se montó.
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, req.URL.Path+"/", http.StatusMovedPermanently)
	})
	r.Get("/docs/", SwaggerUIHandler())
	r.Get("/docs/openapi.yaml", OpenAPIHandler())
}
