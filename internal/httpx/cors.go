package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS habilita los orígenes configurados (lista separada por comas, "*" para todos).
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   parseOrigins(allowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func parseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
