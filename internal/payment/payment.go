// Package payment описывает hosted checkout провайдера без привязки к конкретному SDK.
package payment

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// LineItem - позиция на странице оплаты, сумма в минимальных единицах валюты
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type SessionParams struct {
	Currency   string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

// CompletedSession - данные оплаченной сессии из события checkout.session.completed
type CompletedSession struct {
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
	PaymentStatus   string
	CustomerEmail   string
}

// Gateway создаёт сессию оплаты и возвращает URL для редиректа
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (string, error)
}

// WebhookVerifier проверяет подпись события.
// Для событий, кроме завершения checkout, возвращает nil без ошибки.
type WebhookVerifier interface {
	ParseCompletedSession(payload []byte, signature string) (*CompletedSession, error)
}
