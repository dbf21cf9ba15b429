package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS разрешает запросы UI с указанных источников. Пустой список - middleware не применяется
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderUserID, HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID},
		MaxAge:         600,
	})
	return c.Handler
}
