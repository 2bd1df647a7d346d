package items

import "time"

// Item representa un registro persistido en DB.
// Description es puntero para distinguir NULL de string vacío; se serializa como null.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemRequest es el payload de create y update.
// Llega validado por ValidateBody pero sin normalizar: el trim lo hace el service.
type ItemRequest struct {
	Name        string  `json:"name" validate:"required,notblank"`
	Description *string `json:"description"`
}
