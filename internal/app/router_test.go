package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linemk/storefront/internal/app"
	"github.com/linemk/storefront/internal/domain/models"
	security "github.com/linemk/storefront/internal/jwt-new"
	"github.com/linemk/storefront/internal/lib/metrics"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-secret"

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, storage.ErrUserNotFound
}

// stubServices отвечает пустыми успешными результатами на всё
type stubServices struct{}

func (stubServices) Register(ctx context.Context, name, email, password string) (*service.AuthResult, error) {
	return &service.AuthResult{Token: "t", User: models.UserPublic{ID: "u1", Name: name, Email: email}}, nil
}

func (stubServices) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	return &service.AuthResult{Token: "t"}, nil
}

func (stubServices) Me(ctx context.Context, userID string) (*models.UserPublic, error) {
	return &models.UserPublic{ID: userID}, nil
}

func (stubServices) List(ctx context.Context) ([]*models.Product, error) { return []*models.Product{}, nil }

func (stubServices) Get(ctx context.Context, id string) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}

func (stubServices) Create(ctx context.Context, in service.ProductInput) (*models.Product, error) {
	return &models.Product{ID: "p1"}, nil
}

func (stubServices) Update(ctx context.Context, id string, in service.ProductInput) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}

func (stubServices) Delete(ctx context.Context, id string) error { return nil }

type stubOrders struct{}

func (stubOrders) Create(ctx context.Context, userID string, items []service.CartItem, address models.ShippingAddress) (*models.Order, error) {
	return &models.Order{ID: "o1", UserID: userID, Status: models.OrderStatusPending}, nil
}

func (stubOrders) ListMine(ctx context.Context, userID string) ([]*models.Order, error) {
	return []*models.Order{}, nil
}

func (stubOrders) ListAll(ctx context.Context) ([]*models.Order, error) { return []*models.Order{}, nil }

func (stubOrders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	return &models.Order{ID: id, Status: status}, nil
}

type stubPay struct{}

func (stubPay) CreateSession(ctx context.Context, items []service.CartItem) (string, error) {
	return "https://pay.example/cs_1", nil
}

func (stubPay) HandleWebhook(ctx context.Context, payload []byte, signature string) error { return nil }

func (stubPay) List(ctx context.Context) ([]*models.Payment, error) { return []*models.Payment{}, nil }

func newTestRouter(t *testing.T, webhook bool) (http.Handler, map[string]string) {
	t.Helper()

	users := fakeUsers{
		"admin": {ID: "admin", Name: "Root", IsAdmin: true},
		"buyer": {ID: "buyer", Name: "Ann"},
	}
	tokens := make(map[string]string, len(users))
	for id := range users {
		token, err := security.NewToken(id, testSecret)
		require.NoError(t, err)
		tokens[id] = token
	}

	router := app.NewRouter(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		app.RouterConfig{JWTSecret: testSecret, AllowedOrigins: []string{"http://localhost:3000"}, WebhookEnabled: webhook},
		users,
		app.Services{
			Auth:     stubServices{},
			Catalog:  stubServices{},
			Orders:   stubOrders{},
			Checkout: stubPay{},
			Payments: stubPay{},
		},
		metrics.New(prometheus.NewRegistry()),
	)
	return router, tokens
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

var adminRoutes = []struct {
	method, path, body string
}{
	{http.MethodGet, "/api/admin/products", ""},
	{http.MethodPost, "/api/admin/products", `{"name":"Shoe","price":10}`},
	{http.MethodPut, "/api/admin/products/p1", `{"price":12}`},
	{http.MethodDelete, "/api/admin/products/p1", ""},
	{http.MethodGet, "/api/admin/orders", ""},
	{http.MethodPut, "/api/admin/orders/o1/status", `{"status":"shipped"}`},
	{http.MethodGet, "/api/admin/payments", ""},
}

func TestRouter_AdminRoutesGate(t *testing.T) {
	router, tokens := newTestRouter(t, false)

	for _, rt := range adminRoutes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := do(router, rt.method, rt.path, "", rt.body)
			assert.Equal(t, http.StatusUnauthorized, rr.Code, "no token")

			rr = do(router, rt.method, rt.path, tokens["buyer"], rt.body)
			assert.Equal(t, http.StatusForbidden, rr.Code, "non-admin token")
			var msg struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&msg))
			assert.Equal(t, "Admin access required", msg.Message)

			rr = do(router, rt.method, rt.path, tokens["admin"], rt.body)
			assert.Less(t, rr.Code, 300, "admin token")
		})
	}
}

func TestRouter_UserRoutes(t *testing.T) {
	router, tokens := newTestRouter(t, false)

	rr := do(router, http.MethodGet, "/api/my-orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "No token provided")

	rr = do(router, http.MethodGet, "/api/my-orders", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token")

	rr = do(router, http.MethodGet, "/api/my-orders", tokens["buyer"], "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(router, http.MethodPost, "/api/orders", tokens["buyer"], `{"items":[{"name":"Shoe","price":10}]}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(router, http.MethodGet, "/api/auth/me", tokens["buyer"], "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_PublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t, false)

	rr := do(router, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "API is running", rr.Body.String())

	rr = do(router, http.MethodGet, "/api/products", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(router, http.MethodGet, "/api/products/p1", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(router, http.MethodPost, "/api/pay/create-checkout-session", "", `{"items":[{"name":"Shoe","price":10}]}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "https://pay.example/cs_1")

	rr = do(router, http.MethodPost, "/api/auth/register", "", `{"name":"Ann","email":"ann@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router, _ := newTestRouter(t, false)

	do(router, http.MethodGet, "/api/products/p1", "", "")
	rr := do(router, http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `path="/api/products/{id}"`), "requests are labelled by route pattern")
}

func TestRouter_Webhook(t *testing.T) {
	router, _ := newTestRouter(t, false)
	rr := do(router, http.MethodPost, "/api/pay/webhook", "", `{}`)
	assert.GreaterOrEqual(t, rr.Code, 400, "webhook is not routed without a secret")

	router, _ = newTestRouter(t, true)
	rr = do(router, http.MethodPost, "/api/pay/webhook", "", `{}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"received":true}`, rr.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}
