// Package logger arma el logger zerolog de la aplicación y el middleware
// que deja un logger por request en el contexto.
package logger

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

func init() {
	// Los errores envueltos con pkg/errors traen stack; así se serializa en el campo "stack".
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// NewWithWriter permite inyectar el destino (útil en tests).
// format "console" usa salida legible para desarrollo; cualquier otro valor escribe JSON.
func NewWithWriter(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Middleware guarda en el contexto un logger hijo con los datos del request
// y al terminar escribe una línea con status y latencia.
// Debe ir después de RequestID para poder incluir el request_id.
func Middleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := base.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(reqLogger.WithContext(r.Context()))

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				var event *zerolog.Event
				switch {
				case status >= http.StatusInternalServerError:
					event = reqLogger.Error()
				case status >= http.StatusBadRequest:
					event = reqLogger.Warn()
				default:
					event = reqLogger.Info()
				}

				event.
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("latency", time.Since(start)).
					Str("ip", r.RemoteAddr).
					Str("user_agent", r.UserAgent()).
					Msg("request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
