package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/service/access"
)

const msgForbidden = "недостаточно прав"

// RequireOperation пропускает запрос, только если роль пользователя допускает op.
// Проверка владения ресурсом остается за сервисами.
func RequireOperation(op access.Operation) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := handlers.PrincipalFromContext(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			if !access.Can(principal, op) {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
