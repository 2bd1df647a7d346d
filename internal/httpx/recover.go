package httpx

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Recoverer convierte un panic en un 500 con el sobre estándar.
// El panic se loguea con stack a través de WriteError.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// http.ErrAbortHandler se usa para cortar la respuesta a propósito.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			WriteError(w, r, errors.Wrap(err, "panic recovered"))
		}()

		next.ServeHTTP(w, r)
	})
}
