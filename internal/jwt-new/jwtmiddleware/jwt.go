package jwtmiddleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linemk/storefront/internal/domain/models"
	security "github.com/linemk/storefront/internal/jwt-new"
	"github.com/linemk/storefront/internal/lib/api/response"
	"github.com/linemk/storefront/internal/storage"
)

type contextKey string

const UserIDKey contextKey = "userID"

// NewJWTMiddleware создаёт middleware для проверки JWT.
func NewJWTMiddleware(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization (формат: "Bearer <token>")
			tokenStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				response.Error(w, http.StatusUnauthorized, "No token provided")
				return
			}

			userID, err := security.ParseToken(tokenStr, secret)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// Устанавливаем userID в контекст запроса
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// FromContext извлекает userID из контекста.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// UserProvider загружает пользователя для проверки прав
type UserProvider interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// RequireAdmin пропускает только пользователей с флагом администратора.
// Должен стоять после NewJWTMiddleware.
func RequireAdmin(log *slog.Logger, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "jwtmiddleware.RequireAdmin"
			logger := log.With(slog.String("op", op))

			userID, ok := FromContext(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
				logger.Error("failed to load user", slog.String("user_id", userID), slog.Any("error", err))
				response.Error(w, http.StatusInternalServerError, "Server error")
				return
			}
			if user == nil || !user.IsAdmin {
				logger.Warn("admin access denied", slog.String("user_id", userID))
				response.Error(w, http.StatusForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
