// Package reconcile - клиентская сверка оплаты и заказа.
//
// Сервер не создаёт заказ после оплаты. Клиент перед уходом на hosted checkout
// сохраняет корзину и адрес, а по возврату с ?payment=success сам отправляет
// POST /api/orders. Заказ создаётся только если пользователь вернулся
// залогиненным; иначе оплата остаётся без заказа.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/linemk/storefront/internal/client"
	"github.com/linemk/storefront/internal/domain/models"
)

// ErrNotLoggedIn - оформление без токена запрещено
var ErrNotLoggedIn = errors.New("Please login before placing an order")

// Outcome - результат обработки возврата со страницы оплаты
type Outcome string

const (
	OutcomeIdle           Outcome = "idle"
	OutcomeOrderCreated   Outcome = "order-created"
	OutcomeSkipped        Outcome = "skipped"
	OutcomeNothingStashed Outcome = "nothing-stashed"
	OutcomeCancelled      Outcome = "cancelled"
)

// значения параметра payment в ссылке возврата
const (
	paymentSuccess = "success"
	paymentCancel  = "cancel"
)

// API - часть клиента, нужная для сверки
type API interface {
	CreateCheckoutSession(ctx context.Context, items []client.CartItem) (string, error)
	CreateOrder(ctx context.Context, token string, items []client.CartItem, address models.ShippingAddress) (*models.Order, error)
}

type Result struct {
	Outcome Outcome
	Order   *models.Order
}

type Flow struct {
	log   *slog.Logger
	api   API
	stash Stash
}

func NewFlow(log *slog.Logger, api API, stash Stash) *Flow {
	return &Flow{log: log, api: api, stash: stash}
}

// Begin создаёт сессию оплаты и только после этого сохраняет корзину и адрес.
// Возвращает ссылку, по которой надо перейти для оплаты.
func (f *Flow) Begin(ctx context.Context, token string, cart []client.CartItem, address models.ShippingAddress) (string, error) {
	const op = "reconcile.Begin"
	logger := f.log.With(slog.String("op", op))

	if token == "" {
		return "", ErrNotLoggedIn
	}

	checkoutURL, err := f.api.CreateCheckoutSession(ctx, cart)
	if err != nil {
		return "", err
	}

	if err := f.stash.Save(KeyCart, cart); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := f.stash.Save(KeyAddress, address); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	logger.Debug("checkout stashed", slog.Int("items", len(cart)))
	return checkoutURL, nil
}

// Resume разбирает ссылку возврата один раз; ошибка создания заказа не повторяется
// и оставляет сохранённые данные на месте.
func (f *Flow) Resume(ctx context.Context, returnURL, token string) (*Result, error) {
	const op = "reconcile.Resume"
	logger := f.log.With(slog.String("op", op))

	u, err := url.Parse(returnURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse return url: %w", op, err)
	}

	switch u.Query().Get("payment") {
	case paymentSuccess:
	case paymentCancel:
		return &Result{Outcome: OutcomeCancelled}, nil
	default:
		return &Result{Outcome: OutcomeIdle}, nil
	}

	var cart []client.CartItem
	hasCart, err := f.stash.Load(KeyCart, &cart)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var address models.ShippingAddress
	hasAddress, err := f.stash.Load(KeyAddress, &address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !hasCart || !hasAddress {
		return &Result{Outcome: OutcomeNothingStashed}, nil
	}
	if token == "" {
		logger.Warn("payment succeeded but user is not logged in, order is not created")
		return &Result{Outcome: OutcomeSkipped}, nil
	}

	order, err := f.api.CreateOrder(ctx, token, cart, address)
	if err != nil {
		return nil, err
	}

	if err := f.stash.Delete(KeyCart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := f.stash.Delete(KeyAddress); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order created after payment", slog.String("order_id", order.ID))
	return &Result{Outcome: OutcomeOrderCreated, Order: order}, nil
}
