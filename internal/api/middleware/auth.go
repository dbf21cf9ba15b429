package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/pkg/userctx"
)

// HeaderUserID заголовок с ID аутентифицированного пользователя, проставляется шлюзом
const HeaderUserID = "X-User-ID"

const msgMissingUserID = "falta el identificador de usuario"

// Auth извлекает X-User-ID и кладёт его в контекст. Без валидного ID - 401
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("%s %s - missing or invalid %s: %q", r.Method, r.URL.Path, HeaderUserID, raw)
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			next.ServeHTTP(w, r.WithContext(userctx.WithUserID(r.Context(), userID)))
		})
	}
}

// GetUserID возвращает ID пользователя, установленный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	return userctx.UserID(ctx)
}
