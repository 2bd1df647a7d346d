package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Mensajes genéricos que ve el cliente cuando el error no está clasificado.
const (
	MessageInternal      = "Internal server error"
	MessageTimeout       = "Request timed out"
	MessageRouteNotFound = "Route not found"
	MessageClientClosed  = "Client closed request"
)

// StatusClientClosedRequest es el 499 no estándar (convención de nginx) para
// requests cuyo cliente cortó la conexión antes de la respuesta.
const StatusClientClosedRequest = 499

// Error es un error con status HTTP y mensaje pensado para el cliente.
// Err (opcional) guarda la causa para logs; nunca se expone en la respuesta.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError arma un error HTTP con status y mensaje.
func NewError(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// BadRequest es un atajo para errores 400.
func BadRequest(message string) *Error {
	return NewError(http.StatusBadRequest, message, nil)
}

// NotFound es un atajo para errores 404.
func NotFound(message string) *Error {
	return NewError(http.StatusNotFound, message, nil)
}

// HandlerFunc es un handler que devuelve error en lugar de escribirlo.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapta un HandlerFunc a http.HandlerFunc.
// Cualquier error devuelto termina en WriteError.
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteError(w, r, err)
		}
	}
}

// WriteError es el único lugar donde un error se traduce a respuesta HTTP.
//   - *Error: usa su status y mensaje.
//   - deadline del request vencido: 504.
//   - cliente desconectado (context.Canceled): 499, warn sin stack.
//   - cualquier otro: 500 genérico; el detalle queda solo en el log.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		if httpErr.Status >= http.StatusInternalServerError {
			logError(r, err, httpErr.Status)
		}
		Fail(w, httpErr.Status, httpErr.Message)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) || (r != nil && errors.Is(r.Context().Err(), context.DeadlineExceeded)) {
		logError(r, err, http.StatusGatewayTimeout)
		Fail(w, http.StatusGatewayTimeout, MessageTimeout)
		return
	}

	if errors.Is(err, context.Canceled) || (r != nil && errors.Is(r.Context().Err(), context.Canceled)) {
		if r != nil {
			zerolog.Ctx(r.Context()).Warn().
				Err(err).
				Int("status", StatusClientClosedRequest).
				Msg("request canceled by client")
		}
		Fail(w, StatusClientClosedRequest, MessageClientClosed)
		return
	}

	logError(r, err, http.StatusInternalServerError)
	Fail(w, http.StatusInternalServerError, MessageInternal)
}

// RouteNotFound responde 404 para rutas no registradas (y métodos no permitidos).
func RouteNotFound(w http.ResponseWriter, r *http.Request) {
	Fail(w, http.StatusNotFound, MessageRouteNotFound)
}

func logError(r *http.Request, err error, status int) {
	if r == nil {
		return
	}
	zerolog.Ctx(r.Context()).Error().
		Stack().
		Err(err).
		Int("status", status).
		Msg("request failed")
}
