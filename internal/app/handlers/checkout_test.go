package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linemk/storefront/internal/app/handlers"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheckout struct {
	items []service.CartItem
	url   string
	err   error
}

func (f *fakeCheckout) CreateSession(ctx context.Context, items []service.CartItem) (string, error) {
	f.items = items
	return f.url, f.err
}

type fakePayments struct {
	payload   []byte
	signature string
	payments  []*models.Payment
	err       error
}

func (f *fakePayments) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	f.payload, f.signature = payload, signature
	return f.err
}

func (f *fakePayments) List(ctx context.Context) ([]*models.Payment, error) {
	return f.payments, f.err
}

func TestCheckoutSessionHandler_Success(t *testing.T) {
	checkout := &fakeCheckout{url: "https://checkout.stripe.com/c/pay/cs_test_1"}
	handler := handlers.CheckoutSessionHandler(testLogger(), checkout)

	req := httptest.NewRequest("POST", "/api/pay/create-checkout-session",
		bytes.NewBufferString(`{"items":[{"name":"Shoe","price":10,"quantity":2}]}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp handlers.CheckoutResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", resp.URL)
	require.Len(t, checkout.items, 1)
}

func TestCheckoutSessionHandler_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"no items", &service.Error{Kind: service.ErrValidation, Message: service.MsgNoItemsToPay}, http.StatusBadRequest, "No items to pay for"},
		{"provider failure", &service.Error{Kind: service.ErrUpstream, Message: service.MsgCheckoutFailed}, http.StatusInternalServerError, "Failed to create checkout session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.CheckoutSessionHandler(testLogger(), &fakeCheckout{err: tt.err})

			req := httptest.NewRequest("POST", "/api/pay/create-checkout-session", bytes.NewBufferString(`{"items":[]}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rr))
		})
	}
}

func TestWebhookHandler(t *testing.T) {
	payments := &fakePayments{}
	handler := handlers.WebhookHandler(testLogger(), payments)

	req := httptest.NewRequest("POST", "/api/pay/webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"id":"evt_1"}`, string(payments.payload), "raw body is passed for signature check")
	assert.Equal(t, "t=1,v1=abc", payments.signature)
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	payments := &fakePayments{err: &service.Error{Kind: service.ErrValidation, Message: service.MsgInvalidSignature}}
	handler := handlers.WebhookHandler(testLogger(), payments)

	req := httptest.NewRequest("POST", "/api/pay/webhook", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPaymentsHandler(t *testing.T) {
	payments := &fakePayments{payments: []*models.Payment{{SessionID: "cs_1", AmountTotal: 2000}}}
	handler := handlers.PaymentsHandler(testLogger(), payments)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/admin/payments", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "cs_1", resp[0]["sessionId"])
}
