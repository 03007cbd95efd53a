package http

import (
	"log"
	"net/http"
	"strings"
)

// access - результат проверки заголовка Authorization
type access int

const (
	// accessAnonymous - заголовка нет
	accessAnonymous access = iota
	// accessDenied - заголовок есть, но роли ADMIN нет (в том числе невалидный токен)
	accessDenied
	// accessAdmin - валидный токен с ролью ADMIN
	accessAdmin
)

const (
	msgMissingAuth  = "Request missing Authorization header"
	msgUnauthorized = "Unauthorized user action"
)

// bearerToken возвращает второе поле заголовка ("Bearer <token>")
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// resolve определяет уровень доступа и имя администратора.
// Ошибка проверки токена не отличается от отсутствия роли: такой вызов получает 403
func (h *Handler) resolve(r *http.Request) (access, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return accessAnonymous, ""
	}
	claims, err := h.tokens.Verify(bearerToken(header))
	if err != nil {
		log.Printf("[gate] rejected token for %s %s: %v", r.Method, r.URL.Path, err)
		return accessDenied, ""
	}
	if !claims.IsAdmin() {
		return accessDenied, claims.Name
	}
	return accessAdmin, claims.Name
}

// requireAdmin пишет 401/403 в конверте data и возвращает ok=false, если вызов не от администратора
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (actor string, ok bool) {
	return h.requireAdminWith(w, r, func(status int, msg string) {
		writeData(w, status, msg)
	})
}

func (h *Handler) requireAdminWith(w http.ResponseWriter, r *http.Request, reject func(status int, msg string)) (string, bool) {
	acc, actor := h.resolve(r)
	switch acc {
	case accessAdmin:
		return actor, true
	case accessAnonymous:
		reject(http.StatusUnauthorized, msgMissingAuth)
	default:
		reject(http.StatusForbidden, msgUnauthorized)
	}
	return "", false
}
