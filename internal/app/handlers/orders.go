package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/storefront/internal/lib/api/response"
	"github.com/linemk/storefront/internal/service"
)

// CreateOrderRequest - корзина и адрес доставки.
// Items остаётся сырым: не-массив должен дать ту же ошибку, что и пустая корзина.
type CreateOrderRequest struct {
	Items json.RawMessage `json:"items"`
	models.ShippingAddress
}

// UpdateStatusRequest - тело PUT /api/admin/orders/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"oneof=pending processing shipped delivered cancelled"`
}

// decodeCart разбирает список позиций; всё, что не является массивом объектов, считается пустой корзиной
func decodeCart(raw json.RawMessage) []service.CartItem {
	if len(raw) == 0 {
		return nil
	}
	var items []service.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// CreateOrderHandler обрабатывает POST /api/orders
func CreateOrderHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			response.Error(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			response.Error(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		order, err := orders.Create(r.Context(), userID, decodeCart(req.Items), req.ShippingAddress)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, order)
	}
}

// MyOrdersHandler обрабатывает GET /api/my-orders
func MyOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MyOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			response.Error(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		list, err := orders.ListMine(r.Context(), userID)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

func AllOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AllOrdersHandler"
		logger := log.With(slog.String("op", op))

		list, err := orders.ListAll(r.Context())
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// UpdateOrderStatusHandler обрабатывает PUT /api/admin/orders/{id}/status
func UpdateOrderStatusHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOrderStatusHandler"
		logger := log.With(slog.String("op", op))

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			response.Error(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		if err := validate.Struct(req); err != nil {
			response.Error(w, http.StatusBadRequest, service.MsgInvalidStatus)
			return
		}

		order, err := orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), models.OrderStatus(req.Status))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}
