// Package middlewarectx содержит HTTP middleware для проверки JWT токенов
// и ограничения частоты запросов.
//
// JWTMiddleware принимает токен из заголовка Authorization либо из cookie,
// валидирует его и кладет в контекст живого принципала для дальнейшего
// использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Principal — ключ для принципала в контексте
	Principal Key = "principal"
	// PrincipalUID — ключ для UID принципала в контексте
	PrincipalUID Key = "principal_uid"
	// Role — ключ для роли принципала в контексте
	Role Key = "role"
)

// Имя cookie с JWT для браузерных клиентов.
const jwtCookieName = "jwt"

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ResolvePrincipal(ctx context.Context, token string) (*models.Principal, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT из заголовка
// Authorization или из cookie.
//
// Если токен валиден и принципал жив, добавляет принципала в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized. Оба источника
// токена проходят одну и ту же проверку, привилегированного источника нет.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "auth.Jwtmiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := extractToken(r)
			if !ok {
				log.Error("missing or invalid authorization token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization token"))
				return
			}

			principal, err := authService.ResolvePrincipal(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), Principal, principal)
			ctx = context.WithValue(ctx, PrincipalUID, principal.UID)
			ctx = context.WithValue(ctx, Role, principal.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken достает JWT из заголовка Authorization, а при его отсутствии —
// из cookie.
func extractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		return token, token != ""
	}
	if authHeader != "" {
		// Заголовок есть, но схема не Bearer — это ошибка клиента,
		// cookie в таком случае не рассматривается.
		return "", false
	}
	cookie, err := r.Cookie(jwtCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// PrincipalFromContext возвращает принципала, положенного JWTMiddleware.
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	principal, ok := ctx.Value(Principal).(*models.Principal)
	return principal, ok
}
