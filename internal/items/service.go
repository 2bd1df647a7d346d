package items

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorNotFound = errors.New("item not found")
)

// Service orquesta las operaciones de items sobre un Store.
type Service struct {
	store Store
}

// NewService crea un service de items.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create normaliza el input, inserta y vuelve a leer el registro
// para devolver lo que asignó la DB (id y timestamps).
func (service *Service) Create(ctx context.Context, itemRequest ItemRequest) (Item, error) {
	name, description := normalize(itemRequest)

	id, err := service.store.Create(ctx, name, description)
	if err != nil {
		return Item{}, err
	}

	item, err := service.store.FindByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if item == nil {
		return Item{}, errors.Errorf("item %d not found after insert", id)
	}

	return *item, nil
}

// List devuelve todos los items (lista vacía no es error).
func (service *Service) List(ctx context.Context) ([]Item, error) {
	items, err := service.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Get obtiene un item por ID.
func (service *Service) Get(ctx context.Context, id int64) (Item, error) {
	item, err := service.store.FindByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if item == nil {
		return Item{}, ErrorNotFound
	}
	return *item, nil
}

// Update confirma que el item existe antes de modificarlo y devuelve el estado final.
func (service *Service) Update(ctx context.Context, id int64, itemRequest ItemRequest) (Item, error) {
	existing, err := service.store.FindByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if existing == nil {
		return Item{}, ErrorNotFound
	}

	name, description := normalize(itemRequest)

	// En MySQL affected rows puede ser 0 si no cambió nada; no lo usamos para decidir 404.
	if _, err := service.store.Update(ctx, id, name, description); err != nil {
		return Item{}, err
	}

	updated, err := service.store.FindByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if updated == nil {
		// Lo borraron entre el update y la relectura.
		return Item{}, ErrorNotFound
	}

	return *updated, nil
}

// Delete confirma que el item existe y lo elimina.
func (service *Service) Delete(ctx context.Context, id int64) error {
	existing, err := service.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrorNotFound
	}

	affected, err := service.store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrorNotFound
	}
	return nil
}

// normalize aplica el trim de name y deja description en nil si viene vacía.
func normalize(itemRequest ItemRequest) (string, *string) {
	name := strings.TrimSpace(itemRequest.Name)

	if itemRequest.Description == nil {
		return name, nil
	}
	description := strings.TrimSpace(*itemRequest.Description)
	if description == "" {
		return name, nil
	}
	return name, &description
}
