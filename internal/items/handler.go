package items

import (
	"context"
	"net/http"

	"github.com/Lelo88/items-api-golang/internal/httpx"
	"github.com/pkg/errors"
)

// Mensajes de respuesta de los endpoints de items.
const (
	MessageCreated   = "Item created successfully"
	MessageListed    = "Items retrieved successfully"
	MessageRetrieved = "Item retrieved successfully"
	MessageUpdated   = "Item updated successfully"
	MessageDeleted   = "Item deleted successfully"
	MessageNotFound  = "Item not found"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Create(ctx context.Context, itemRequest ItemRequest) (Item, error)
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Update(ctx context.Context, id int64, itemRequest ItemRequest) (Item, error)
	Delete(ctx context.Context, id int64) error
}

// Handler HTTP para items.
// Solo traduce HTTP <-> dominio (service); los errores los escribe httpx.WriteError.
type Handler struct {
	service ServiceAPI
}

// NewHandler crea un handler de items.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

// errMissingValidation indica una ruta registrada sin su validador.
var errMissingValidation = errors.New("request reached handler without validation")

// Create maneja POST /items. Requiere ValidateBody.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) error {
	itemRequest, ok := RequestFrom(request.Context())
	if !ok {
		return errMissingValidation
	}

	item, err := handler.service.Create(request.Context(), itemRequest)
	if err != nil {
		return err
	}

	httpx.OK(writer, http.StatusCreated, MessageCreated, item)
	return nil
}

// List maneja GET /items.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) error {
	items, err := handler.service.List(request.Context())
	if err != nil {
		return err
	}

	httpx.OK(writer, http.StatusOK, MessageListed, items)
	return nil
}

// Get maneja GET /items/{id}. Requiere ValidateID.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) error {
	id, ok := IDFrom(request.Context())
	if !ok {
		return errMissingValidation
	}

	item, err := handler.service.Get(request.Context(), id)
	if err != nil {
		return translate(err)
	}

	httpx.OK(writer, http.StatusOK, MessageRetrieved, item)
	return nil
}

// Update maneja PUT /items/{id}. Requiere ValidateID y ValidateBody.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) error {
	id, ok := IDFrom(request.Context())
	if !ok {
		return errMissingValidation
	}
	itemRequest, ok := RequestFrom(request.Context())
	if !ok {
		return errMissingValidation
	}

	item, err := handler.service.Update(request.Context(), id, itemRequest)
	if err != nil {
		return translate(err)
	}

	httpx.OK(writer, http.StatusOK, MessageUpdated, item)
	return nil
}

// Delete maneja DELETE /items/{id}. Responde 200 con data null.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) error {
	id, ok := IDFrom(request.Context())
	if !ok {
		return errMissingValidation
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		return translate(err)
	}

	httpx.OK(writer, http.StatusOK, MessageDeleted, nil)
	return nil
}

// translate convierte errores de dominio en errores HTTP; el resto pasa sin tocar.
func translate(err error) error {
	if errors.Is(err, ErrorNotFound) {
		return httpx.NotFound(MessageNotFound)
	}
	return err
}
