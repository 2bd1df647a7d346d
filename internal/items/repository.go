package items

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// DB es lo mínimo que el repositorio necesita de pgx.
// *pgxpool.Pool lo cumple; en tests usamos un fake.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository accede a la tabla items en PostgreSQL.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de items.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const selectItemColumns = `SELECT id, name, description, created_at, updated_at FROM items`

// Create inserta un item y devuelve el id generado por la DB.
func (repository *Repository) Create(ctx context.Context, name string, description *string) (int64, error) {
	const query = `
		INSERT INTO items (name, description)
		VALUES ($1, $2)
		RETURNING id;
	`

	var id int64
	if err := repository.database.QueryRow(ctx, query, name, description).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "insert item")
	}
	return id, nil
}

// FindAll lista los items del más nuevo al más viejo.
// A igual created_at desempata el id más alto (último insert primero).
func (repository *Repository) FindAll(ctx context.Context) ([]Item, error) {
	const query = selectItemColumns + ` ORDER BY created_at DESC, id DESC;`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate items")
	}

	return items, nil
}

// FindByID devuelve nil, nil cuando no hay fila con ese id.
func (repository *Repository) FindByID(ctx context.Context, id int64) (*Item, error) {
	const query = selectItemColumns + ` WHERE id = $1;`

	var item Item
	err := repository.database.QueryRow(ctx, query, id).
		Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get item %d", id)
	}

	return &item, nil
}

// Update reemplaza name y description; devuelve filas afectadas.
func (repository *Repository) Update(ctx context.Context, id int64, name string, description *string) (int64, error) {
	const query = `
		UPDATE items
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3;
	`

	tag, err := repository.database.Exec(ctx, query, name, description, id)
	if err != nil {
		return 0, errors.Wrapf(err, "update item %d", id)
	}
	return tag.RowsAffected(), nil
}

// Remove borra el item; devuelve filas afectadas.
func (repository *Repository) Remove(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM items WHERE id = $1;`

	tag, err := repository.database.Exec(ctx, query, id)
	if err != nil {
		return 0, errors.Wrapf(err, "delete item %d", id)
	}
	return tag.RowsAffected(), nil
}
