package items

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/Lelo88/items-api-golang/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Mensajes que devuelven los validadores (400).
const (
	MessageEmptyBody          = "Request body cannot be empty"
	MessageInvalidBody        = "Request body must be a valid JSON object"
	MessageNameRequired       = "Name field is required and must be non-empty"
	MessageInvalidDescription = "Description must be a string or null"
	MessageInvalidID          = "ID must be a valid positive integer"
	MessageBodyTooLarge       = "Request body is too large"
)

// maxBodyBytes limita lo que se lee del body (mismo orden que el default de body parsers JSON).
const maxBodyBytes = 1 << 20

type contextKey int

const (
	idContextKey contextKey = iota
	requestContextKey
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank rechaza strings que solo tienen espacios.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidateBody valida el body de create/update antes de llegar al handler.
// Si pasa, deja el ItemRequest decodificado en el contexto (ver RequestFrom).
func ValidateBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		itemRequest, err := decodeItemRequest(writer, request)
		if err != nil {
			httpx.WriteError(writer, request, err)
			return
		}

		ctx := context.WithValue(request.Context(), requestContextKey, itemRequest)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func decodeItemRequest(writer http.ResponseWriter, request *http.Request) (ItemRequest, error) {
	if request.Body == nil {
		return ItemRequest{}, httpx.BadRequest(MessageEmptyBody)
	}

	body, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return ItemRequest{}, httpx.NewError(http.StatusRequestEntityTooLarge, MessageBodyTooLarge, err)
		}
		return ItemRequest{}, httpx.NewError(http.StatusBadRequest, MessageInvalidBody, err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ItemRequest{}, httpx.BadRequest(MessageEmptyBody)
	}

	// Primero decodificamos genérico para poder distinguir "vacío" de "no es un objeto".
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ItemRequest{}, httpx.BadRequest(MessageInvalidBody)
	}

	var fields map[string]any
	switch value := raw.(type) {
	case nil:
		return ItemRequest{}, httpx.BadRequest(MessageEmptyBody)
	case []any:
		if len(value) == 0 {
			return ItemRequest{}, httpx.BadRequest(MessageEmptyBody)
		}
		return ItemRequest{}, httpx.BadRequest(MessageInvalidBody)
	case map[string]any:
		if len(value) == 0 {
			return ItemRequest{}, httpx.BadRequest(MessageEmptyBody)
		}
		fields = value
	default:
		return ItemRequest{}, httpx.BadRequest(MessageInvalidBody)
	}

	if _, ok := fields["name"].(string); !ok {
		return ItemRequest{}, httpx.BadRequest(MessageNameRequired)
	}
	if description, present := fields["description"]; present && description != nil {
		if _, ok := description.(string); !ok {
			return ItemRequest{}, httpx.BadRequest(MessageInvalidDescription)
		}
	}

	var itemRequest ItemRequest
	if err := json.Unmarshal(body, &itemRequest); err != nil {
		return ItemRequest{}, httpx.BadRequest(MessageInvalidBody)
	}
	if err := validate.Struct(itemRequest); err != nil {
		return ItemRequest{}, httpx.BadRequest(MessageNameRequired)
	}

	return itemRequest, nil
}

// ValidateID parsea {id} como entero positivo en base 10 y lo deja en el contexto (ver IDFrom).
func ValidateID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		id, err := parseID(chi.URLParam(request, "id"))
		if err != nil {
			httpx.WriteError(writer, request, err)
			return
		}

		ctx := context.WithValue(request.Context(), idContextKey, id)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// parseID lee el id como parseInt en base 10: ignora espacios iniciales,
// acepta signo y toma la racha de dígitos inicial ("1abc" y "1.5" son 1).
// Sin dígitos o con valor <= 0 es 400. Un id que no entra en int64 se satura:
// no existe fila con ese id y la búsqueda termina en 404.
func parseID(raw string) (int64, error) {
	value := strings.TrimLeftFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	negative := false
	if value != "" && (value[0] == '+' || value[0] == '-') {
		negative = value[0] == '-'
		value = value[1:]
	}

	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0, httpx.BadRequest(MessageInvalidID)
	}

	id, err := strconv.ParseInt(value[:end], 10, 64)
	if err != nil {
		id = math.MaxInt64
	}
	if id <= 0 {
		return 0, httpx.BadRequest(MessageInvalidID)
	}
	return id, nil
}

// IDFrom devuelve el id validado por ValidateID.
func IDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(idContextKey).(int64)
	return id, ok
}

// RequestFrom devuelve el body validado por ValidateBody.
func RequestFrom(ctx context.Context) (ItemRequest, bool) {
	itemRequest, ok := ctx.Value(requestContextKey).(ItemRequest)
	return itemRequest, ok
}
