package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/linemk/storefront/internal/config"
	"github.com/linemk/storefront/internal/lib/metrics"
	"github.com/linemk/storefront/internal/payment/stripepay"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
	"github.com/linemk/storefront/internal/storage/mongostore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Storage storage.Storage
	Metrics *metrics.Metrics
}

// NewApp создаёт новый экземпляр App с подключённым хранилищем
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	store, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &App{
		Config:  cfg,
		Logger:  log,
		Storage: store,
		Metrics: metrics.New(reg),
	}, nil
}

// PostgresDSN собирает строку подключения (DSN) из отдельных параметров
func PostgresDSN(dbCfg config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
	)
}

// OpenStorage подключает хранилище, выбранное в storage.driver
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres, "":
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD environment variable is not set")
		}
		db, err := sql.Open("postgres", PostgresDSN(cfg.Database))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return storage.NewPostgres(db), nil
	case config.StorageDriverMongo:
		store, err := mongostore.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongo: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Handler собирает сервисы поверх хранилища и возвращает роутер
func (a *App) Handler() http.Handler {
	cfg := a.Config
	gateway := stripepay.New(cfg.Payment.StripeKey, cfg.Payment.WebhookSecret, nil)
	if cfg.Payment.StripeKey == "" {
		a.Logger.Warn("STRIPE_SECRET_KEY is not set, checkout sessions will fail")
	}

	services := Services{
		Auth:     service.NewAuthService(a.Logger, a.Storage, cfg.JWT.Secret),
		Catalog:  service.NewCatalogService(a.Logger, a.Storage),
		Orders:   service.NewOrderService(a.Logger, a.Storage, a.Metrics),
		Checkout: service.NewCheckoutService(a.Logger, gateway, cfg.Payment.ClientURL, cfg.Payment.Currency, a.Metrics),
		Payments: service.NewPaymentService(a.Logger, gateway, a.Storage, a.Metrics),
	}

	return NewRouter(a.Logger, RouterConfig{
		JWTSecret:      cfg.JWT.Secret,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		WebhookEnabled: cfg.Payment.WebhookSecret != "",
	}, a.Storage, services, a.Metrics)
}

func (a *App) Close() error {
	return a.Storage.Close()
}
