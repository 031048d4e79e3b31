package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	apperrors "studiodesk/pkg/errors"
	httputil "studiodesk/pkg/http"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/metrics"
)

// Recovery turns a handler panic into a 500 envelope. http.ErrAbortHandler
// is re-raised so net/http can drop the connection as intended.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				metrics.PanicsRecovered.Inc()
				actor, _ := ActorFromContext(r.Context())
				log.Error("Panic recovered",
					"request_id", RequestID(r.Context()),
					"actor_id", actor.ID,
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				httputil.WriteError(w, apperrors.Internal("Unexpected server error", nil))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
