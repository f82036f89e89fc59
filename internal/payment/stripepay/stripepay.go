// Package stripepay - реализация payment.Gateway и payment.WebhookVerifier через Stripe.
package stripepay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/payment"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type Gateway struct {
	api           *client.API
	webhookSecret string
}

var (
	_ payment.Gateway         = (*Gateway)(nil)
	_ payment.WebhookVerifier = (*Gateway)(nil)
)

// New создаёт клиента; backends == nil означает боевые адреса Stripe
func New(secretKey, webhookSecret string, backends *stripe.Backends) *Gateway {
	return &Gateway{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, p payment.SessionParams) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
				UnitAmount: stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
	}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripepay: create checkout session: %w", err)
	}
	if session.URL == "" {
		return "", errors.New("stripepay: checkout session has no url")
	}
	return session.URL, nil
}

// ParseCompletedSession проверяет подпись Stripe-Signature и разбирает checkout.session.completed
func (g *Gateway) ParseCompletedSession(payload []byte, signature string) (*payment.CompletedSession, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrInvalidSignature, err)
	}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("stripepay: decode checkout session: %w", err)
	}

	completed := &payment.CompletedSession{
		SessionID:     session.ID,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		PaymentStatus: string(session.PaymentStatus),
		CustomerEmail: session.CustomerEmail,
	}
	if session.PaymentIntent != nil {
		completed.PaymentIntentID = session.PaymentIntent.ID
	}
	if completed.CustomerEmail == "" && session.CustomerDetails != nil {
		completed.CustomerEmail = session.CustomerDetails.Email
	}
	return completed, nil
}
