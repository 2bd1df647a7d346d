package items

import (
	"github.com/Lelo88/items-api-golang/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra rutas de items en el router.
// Cada ruta declara su cadena de validadores antes del handler.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/items", func(route chi.Router) {
		route.With(ValidateBody).Post("/", httpx.Handle(handler.Create))
		route.Get("/", httpx.Handle(handler.List))


		// ValidateID va por ruta: un método sin ruta tiene que caer en el catch-all.
		route.With(ValidateID).Get("/{id}", httpx.Handle(handler.Get))
		route.With(ValidateID, ValidateBody).Put("/{id}", httpx.Handle(handler.Update))
		route.With(ValidateID).Delete("/{id}", httpx.Handle(handler.Delete))
	})
}
