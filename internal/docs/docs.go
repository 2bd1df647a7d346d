package docs

import (
	"embed"
	"net/http"

	"github.com/Lelo88/items-api-golang/internal/httpx"
)

//go:embed openapi.yaml swagger.html
var fs embed.FS

func serveFile(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := fs.ReadFile(name)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

// OpenAPIHandler sirve el contrato OpenAPI embebido.
func OpenAPIHandler() http.HandlerFunc {
	return serveFile("openapi.yaml", "application/yaml; charset=utf-8")
}

// SwaggerUIHandler sirve la página de Swagger UI que consume openapi.yaml.
func SwaggerUIHandler() http.HandlerFunc {
	return serveFile("swagger.html", "text/html; charset=utf-8")
}
