package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/linemk/storefront/internal/lib/metrics"
	"github.com/linemk/storefront/internal/payment"
)

const defaultLineItemName = "Product"

type CheckoutService interface {
	// CreateSession возвращает URL страницы оплаты. Заказ при этом не создаётся.
	CreateSession(ctx context.Context, items []CartItem) (string, error)
}

type checkoutService struct {
	log        *slog.Logger
	gateway    payment.Gateway
	currency   string
	successURL string
	cancelURL  string
	metrics    *metrics.Metrics
}

func NewCheckoutService(log *slog.Logger, gateway payment.Gateway, clientURL, currency string, m *metrics.Metrics) CheckoutService {
	clientURL = strings.TrimRight(clientURL, "/")
	if currency == "" {
		currency = "usd"
	}
	return &checkoutService{
		log:        log,
		gateway:    gateway,
		currency:   currency,
		successURL: clientURL + "/?payment=success",
		cancelURL:  clientURL + "/?payment=cancel",
		metrics:    m,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, items []CartItem) (string, error) {
	const op = "checkout.CreateSession"
	logger := s.log.With(slog.String("op", op))

	if len(items) == 0 {
		return "", newError(ErrValidation, MsgNoItemsToPay)
	}

	lineItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		line, err := snapshot(item)
		if err != nil {
			return "", err
		}
		name := line.Name
		if name == "" {
			name = defaultLineItemName
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:       name,
			UnitAmount: minorUnits(line.Price),
			Quantity:   int64(line.Quantity),
		})
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, payment.SessionParams{
		Currency:   s.currency,
		LineItems:  lineItems,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		s.metrics.CheckoutSession("failed")
		logger.Error("payment provider failed", slog.Any("error", err))
		// детали провайдера клиенту не отдаём
		return "", newError(ErrUpstream, MsgCheckoutFailed)
	}

	s.metrics.CheckoutSession("created")
	logger.Info("checkout session created", slog.Int("items", len(lineItems)))
	return url, nil
}
