package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/lib/metrics"
	"github.com/linemk/storefront/internal/storage"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	Create(ctx context.Context, userID string, items []CartItem, address models.ShippingAddress) (*models.Order, error)
	ListMine(ctx context.Context, userID string) ([]*models.Order, error)
	ListAll(ctx context.Context) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	metrics   *metrics.Metrics
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, m *metrics.Metrics) OrderService {
	return &orderService{
		log:       log,
		orderRepo: orderRepo,
		metrics:   m,
	}
}

// Create сохраняет снимок позиций; каталог не читается, итог считается по присланным ценам
func (s *orderService) Create(ctx context.Context, userID string, items []CartItem, address models.ShippingAddress) (*models.Order, error) {
	const op = "orders.Create"
	logger := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	if len(items) == 0 {
		return nil, newError(ErrValidation, MsgCartItemsRequired)
	}

	lines := make([]models.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		line, err := snapshot(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		total = total.Add(lineTotal(line))
	}

	now := time.Now().UTC()
	order, err := s.orderRepo.CreateOrder(ctx, &models.Order{
		UserID:          userID,
		Items:           lines,
		Total:           total.InexactFloat64(),
		ShippingAddress: address,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.OrderCreated()
	logger.Info("order created", slog.String("order_id", order.ID), slog.Float64("total", order.Total))
	return order, nil
}

func (s *orderService) ListMine(ctx context.Context, userID string) ([]*models.Order, error) {
	const op = "orders.ListMine"

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.String("user_id", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]*models.Order, error) {
	const op = "orders.ListAll"

	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// UpdateStatus меняет только статус; при конкурентных изменениях побеждает последняя запись
func (s *orderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	const op = "orders.UpdateStatus"
	logger := s.log.With(slog.String("op", op), slog.String("order_id", id))

	if !status.Valid() {
		return nil, newError(ErrValidation, MsgInvalidStatus)
	}

	order, err := s.orderRepo.UpdateOrderStatus(ctx, id, status, time.Now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, newError(ErrNotFound, MsgOrderNotFound)
		}
		logger.Error("failed to update order status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order status updated", slog.String("status", string(status)))
	return order, nil
}
