package httpx

import (
	"context"
	"net/http"
	"time"
)

// Timeout pone un deadline al contexto del request. No escribe respuesta:
// la llamada a la DB falla con context.DeadlineExceeded y WriteError responde 504.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
