package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Lelo88/items-api-golang/internal/httpx"
	"github.com/rs/zerolog"
)

// Mensajes de los endpoints de health.
const (
	MessageAlive       = "Server is running"
	MessageReady       = "Database is reachable"
	MessageUnavailable = "Database is not reachable"
)

// readyTimeout acota cuánto puede tardar el ping de /ready.
const readyTimeout = 2 * time.Second

// Pinger es lo que /ready necesita de la base (pgxpool.Pool o un adaptador de *sql.DB).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints de health.
type Handler struct {
	db Pinger
}

// New crea un handler de health. db puede ser nil (ready responde 503).
func New(db Pinger) *Handler {
	return &Handler{db: db}
}

// Health indica si el proceso está vivo.
// NO chequea base de datos. Eso va en Ready.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, http.StatusOK, MessageAlive, nil)
}

// Ready hace ping a la base con timeout corto.
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.db == nil {
		httpx.Fail(w, http.StatusServiceUnavailable, MessageUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := handler.db.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
		httpx.Fail(w, http.StatusServiceUnavailable, MessageUnavailable)
		return
	}

	httpx.OK(w, http.StatusOK, MessageReady, nil)
}
