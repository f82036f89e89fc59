package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/linemk/storefront/internal/app/handlers"
	"github.com/linemk/storefront/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/storefront/internal/lib/logger/handlers/urllog"
	"github.com/linemk/storefront/internal/lib/metrics"
	"github.com/linemk/storefront/internal/service"
)

type Services struct {
	Auth     service.AuthServiceInterface
	Catalog  service.CatalogService
	Orders   service.OrderService
	Checkout service.CheckoutService
	Payments service.PaymentService
}

type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	// WebhookEnabled включает POST /api/pay/webhook, когда задан секрет подписи
	WebhookEnabled bool
}

func NewRouter(log *slog.Logger, cfg RouterConfig, users jwtmiddleware.UserProvider, svc Services, m *metrics.Metrics) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(m.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	requireAuth := jwtmiddleware.NewJWTMiddleware(cfg.JWTSecret)
	requireAdmin := jwtmiddleware.RequireAdmin(log, users)

	router.Get("/", handlers.HealthHandler())
	router.Method(http.MethodGet, "/metrics", m.Handler())

	router.Route("/api", func(r chi.Router) {
		// эндпоинты аутентификации
		r.Post("/auth/register", handlers.RegisterHandler(log, svc.Auth))
		r.Post("/auth/login", handlers.LoginHandler(log, svc.Auth))
		r.With(requireAuth).Get("/auth/me", handlers.MeHandler(log, svc.Auth))

		// публичный каталог
		r.Get("/products", handlers.ListProductsHandler(log, svc.Catalog))
		r.Get("/products/{id}", handlers.GetProductHandler(log, svc.Catalog))

		// заказы покупателя
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/my-orders", handlers.MyOrdersHandler(log, svc.Orders))
			r.Post("/orders", handlers.CreateOrderHandler(log, svc.Orders))
		})

		r.Post("/pay/create-checkout-session", handlers.CheckoutSessionHandler(log, svc.Checkout))
		if cfg.WebhookEnabled {
			r.Post("/pay/webhook", handlers.WebhookHandler(log, svc.Payments))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/products", handlers.ListProductsHandler(log, svc.Catalog))
			r.Post("/products", handlers.CreateProductHandler(log, svc.Catalog))
			r.Put("/products/{id}", handlers.UpdateProductHandler(log, svc.Catalog))
			r.Delete("/products/{id}", handlers.DeleteProductHandler(log, svc.Catalog))
			r.Get("/orders", handlers.AllOrdersHandler(log, svc.Orders))
			r.Put("/orders/{id}/status", handlers.UpdateOrderStatusHandler(log, svc.Orders))
			r.Get("/payments", handlers.PaymentsHandler(log, svc.Payments))
		})
	})

	return router
}
