package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/linemk/storefront/internal/lib/api/response"
	"github.com/linemk/storefront/internal/service"
)

// максимальный размер события Stripe, который мы готовы прочитать
const maxWebhookBody = 64 << 10

type CheckoutRequest struct {
	Items json.RawMessage `json:"items"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

// CheckoutSessionHandler обрабатывает POST /api/pay/create-checkout-session.
// Аутентификация не требуется, заказ не создаётся.
func CheckoutSessionHandler(log *slog.Logger, checkout service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutSessionHandler"
		logger := log.With(slog.String("op", op))

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			response.Error(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		url, err := checkout.CreateSession(r.Context(), decodeCart(req.Items))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, CheckoutResponse{URL: url})
	}
}

// WebhookHandler принимает события Stripe; подпись проверяется по сырому телу
func WebhookHandler(log *slog.Logger, payments service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.WebhookHandler"
		logger := log.With(slog.String("op", op))

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			logger.Warn("failed to read webhook body", slog.Any("error", err))
			response.Error(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		if err := payments.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string]bool{"received": true})
	}
}

// PaymentsHandler отдаёт журнал оплат администратору
func PaymentsHandler(log *slog.Logger, payments service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PaymentsHandler"
		logger := log.With(slog.String("op", op))

		list, err := payments.List(r.Context())
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}
