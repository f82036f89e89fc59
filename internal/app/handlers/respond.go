package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/storefront/internal/lib/api/response"
	"github.com/linemk/storefront/internal/service"
)

var validate = validator.New()

const (
	msgInvalidBody  = "Invalid request body"
	msgServerError  = "Server error"
	msgUnauthorized = "Not authenticated"
)

// statusFor переводит вид ошибки сервиса в HTTP-статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError отдаёт сообщение сервиса как есть; всё неизвестное становится "Server error"
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		logger.Error("request failed", slog.Any("error", err))
		response.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	status := statusFor(svcErr)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	}
	response.Error(w, status, svcErr.Message)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	if err := response.JSON(w, status, v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// HealthHandler отвечает на GET /
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API is running"))
	}
}
