package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
)

// Recovery перехватывает панику обработчика и отвечает 500
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("%s %s - panic recovered: request_id=%s, panic=%v\n%s",
						r.Method, r.URL.Path, GetRequestID(r.Context()), rec, debug.Stack())
					handlers.RespondInternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
