package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
)

// HeaderWebhookSecret заголовок общего секрета вебхука
const HeaderWebhookSecret = "X-Vapi-Secret"

type Logger interface {
	Warn(format string, v ...interface{})
}

// WebhookSecret проверяет общий секрет. Пустой секрет отключает проверку
func WebhookSecret(secret string, logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderWebhookSecret)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				logger.Warn("%s %s - Invalid webhook secret", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
