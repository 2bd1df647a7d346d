package items

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// SQLDB es el subconjunto de *sql.DB que usa MySQLRepository.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQLRepository accede a la tabla items en MySQL (placeholders "?").
// Requiere parseTime=true en el DSN para escanear timestamps a time.Time.
type MySQLRepository struct {
	database SQLDB
}

// NewMySQLRepository crea un repositorio de items sobre database/sql.
func NewMySQLRepository(database SQLDB) *MySQLRepository {
	return &MySQLRepository{database: database}
}

// Create inserta y devuelve LAST_INSERT_ID().
func (repository *MySQLRepository) Create(ctx context.Context, name string, description *string) (int64, error) {
	const query = `INSERT INTO items (name, description) VALUES (?, ?)`

	result, err := repository.database.ExecContext(ctx, query, name, description)
	if err != nil {
		return 0, errors.Wrap(err, "insert item")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "read inserted id")
	}
	return id, nil
}

// FindAll lista los items del más nuevo al más viejo (desempate por id).
func (repository *MySQLRepository) FindAll(ctx context.Context) ([]Item, error) {
	const query = selectItemColumns + ` ORDER BY created_at DESC, id DESC`

	rows, err := repository.database.QueryContext(ctx, query)
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
func (repository *MySQLRepository) FindByID(ctx context.Context, id int64) (*Item, error) {
	const query = selectItemColumns + ` WHERE id = ?`

	var item Item
	err := repository.database.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get item %d", id)
	}

	return &item, nil
}

// Update reemplaza name y description. updated_at lo mantiene la columna (ON UPDATE).
func (repository *MySQLRepository) Update(ctx context.Context, id int64, name string, description *string) (int64, error) {
	const query = `UPDATE items SET name = ?, description = ? WHERE id = ?`

	result, err := repository.database.ExecContext(ctx, query, name, description, id)
	if err != nil {
		return 0, errors.Wrapf(err, "update item %d", id)
	}
	return rowsAffected(result)
}

// Remove borra el item; devuelve filas afectadas.
func (repository *MySQLRepository) Remove(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM items WHERE id = ?`

	result, err := repository.database.ExecContext(ctx, query, id)
	if err != nil {
		return 0, errors.Wrapf(err, "delete item %d", id)
	}
	return rowsAffected(result)
}

func rowsAffected(result sql.Result) (int64, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "read affected rows")
	}
	return affected, nil
}
