package items

import "context"

// Store es el acceso a la tabla items. Cada método es una única sentencia
// parametrizada, sin transacciones ni reintentos.
// Repository (Postgres) y MySQLRepository lo implementan.
type Store interface {
	Create(ctx context.Context, name string, description *string) (int64, error)
	// FindAll devuelve los items más nuevos primero; nunca devuelve un slice nil.
	FindAll(ctx context.Context) ([]Item, error)
	// FindByID devuelve nil (sin error) si el id no existe.
	FindByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, id int64, name string, description *string) (int64, error)
	Remove(ctx context.Context, id int64) (int64, error)
}
