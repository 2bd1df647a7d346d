package httpx

import (
	"encoding/json"
	"net/http"
)

// Response es el sobre estándar que devuelve la API.
// Todas las respuestas (éxito o error) tienen la misma forma: {success, message, data}.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// JSON escribe una respuesta JSON con headers correctos.
// Nota: en caso de error de encodeo, responde un sobre de error genérico.
func JSON(w http.ResponseWriter, status int, resp Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		// Último recurso: no se pudo serializar JSON.
		status = http.StatusInternalServerError
		body = []byte(`{"success":false,"message":"Internal server error","data":null}`)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// OK devuelve una respuesta exitosa con mensaje y data (puede ser nil).
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail devuelve un error con data en null.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{
		Success: false,
		Message: message,
	})
}
