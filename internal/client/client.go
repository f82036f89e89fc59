// Package client - HTTP-клиент REST API магазина
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/linemk/storefront/internal/domain/models"
)

// сообщение на случай, если сервер не прислал {message}
const msgStartPayment = "Failed to start payment"

// ErrNoCheckoutURL - сервер ответил успешно, но без ссылки на оплату
var ErrNoCheckoutURL = errors.New(msgStartPayment)

// APIError - ответ сервера с кодом ошибки; Message берётся из тела {message}
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// CartItem - позиция корзины в том виде, в котором её шлёт витрина
type CartItem struct {
	ID       string  `json:"_id,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type AuthResult struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New создаёт клиента; при nil используется http.DefaultClient
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Me(ctx context.Context, token string) (*models.UserPublic, error) {
	var user models.UserPublic
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Products(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateCheckoutSession возвращает ссылку на hosted checkout
func (c *Client) CreateCheckoutSession(ctx context.Context, items []CartItem) (string, error) {
	var res struct {
		URL string `json:"url"`
	}
	body := map[string]any{"items": items}
	if err := c.do(ctx, http.MethodPost, "/api/pay/create-checkout-session", "", body, &res); err != nil {
		return "", err
	}
	if res.URL == "" {
		return "", ErrNoCheckoutURL
	}
	return res.URL, nil
}

// CreateOrder шлёт корзину и поля адреса одним плоским объектом
func (c *Client) CreateOrder(ctx context.Context, token string, items []CartItem, address models.ShippingAddress) (*models.Order, error) {
	body := struct {
		Items []CartItem `json:"items"`
		models.ShippingAddress
	}{Items: items, ShippingAddress: address}

	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", token, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) MyOrders(ctx context.Context, token string) ([]*models.Order, error) {
	var orders []*models.Order
	if err := c.do(ctx, http.MethodGet, "/api/my-orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
