package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linemk/storefront/internal/client"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@x.com", body["email"])

		_, _ = w.Write([]byte(`{"token":"tok","user":{"_id":"u1","name":"Ann","email":"ann@x.com","isAdmin":false}}`))
	}))
	defer srv.Close()

	res, err := client.New(srv.URL+"/", srv.Client()).Login(context.Background(), "ann@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "u1", res.User.ID)
}

func TestClient_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, srv.Client()).Login(context.Background(), "ann@x.com", "wrong")

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, srv.Client()).Products(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Springfield", body["city"], "address fields are flattened into the body")
		assert.Len(t, body["items"], 1)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"o1","total":20,"status":"pending"}`))
	}))
	defer srv.Close()

	order, err := client.New(srv.URL, srv.Client()).CreateOrder(context.Background(), "tok",
		[]client.CartItem{{ID: "p1", Name: "Shoe", Price: 10, Quantity: 2}},
		models.ShippingAddress{City: "Springfield"},
	)
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, 20.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestClient_CheckoutWithoutURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, srv.Client()).CreateCheckoutSession(context.Background(), []client.CartItem{{Name: "Shoe"}})
	assert.ErrorIs(t, err, client.ErrNoCheckoutURL)
}
