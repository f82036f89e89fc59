package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/linemk/storefront/internal/app"
	"github.com/linemk/storefront/internal/config"
	"github.com/linemk/storefront/internal/storage"
	"github.com/linemk/storefront/internal/storage/mongostore"
	pkgerrors "github.com/pkg/errors"
)

const migrationTableName = "migrations"

// buildMigrateDSN добавляет к DSN имя таблицы версий миграций
func buildMigrateDSN(dbCfg config.DatabaseConfig, migrationTable string) string {
	return app.PostgresDSN(dbCfg) + "&x-migrations-table=" + migrationTable
}

func main() {
	var migrationsPathFlag, promoteEmail string
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")
	flag.StringVar(&promoteEmail, "promote", "", "email of the user to grant admin rights")

	// MustLoad сам вызывает flag.Parse
	cfg := config.MustLoad()

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.StorageDriverMongo:
		if err := ensureMongo(ctx, cfg); err != nil {
			log.Fatalf("%v", err)
		}
	default:
		if err := migratePostgres(cfg, migrationsPath); err != nil {
			log.Fatalf("%v", err)
		}
	}

	if promoteEmail == "" {
		return
	}
	if err := promote(ctx, cfg, promoteEmail); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("User %s is now an admin\n", promoteEmail)
}

func migratePostgres(cfg *config.Config, migrationsPath string) error {
	if cfg.Database.Password == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}

	// Создаем объект мигратора
	m, err := migrate.New("file://"+migrationsPath, buildMigrateDSN(cfg.Database, migrationTableName))
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return pkgerrors.Wrap(err, "migration failed")
		}
		fmt.Println("No migrations to apply")
	} else {
		log.Println("Migrations applied successfully")
	}

	db, err := sql.Open("postgres", app.PostgresDSN(cfg.Database))
	if err != nil {
		return pkgerrors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to query tables")
	}
	defer rows.Close()

	fmt.Println("Current tables in the database:")
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return pkgerrors.Wrap(err, "failed to scan row")
		}
		fmt.Println(" -", tableName)
	}
	return rows.Err()
}

// ensureMongo создаёт индексы; схемы у документной БД нет, миграции не нужны
func ensureMongo(ctx context.Context, cfg *config.Config) error {
	store, err := mongostore.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to connect to mongo")
	}
	defer store.Close()

	if err := store.EnsureIndexes(ctx); err != nil {
		return pkgerrors.Wrap(err, "failed to ensure indexes")
	}
	log.Println("Indexes are in place")
	return nil
}

// promote выдаёт права администратора; через API этого сделать нельзя
func promote(ctx context.Context, cfg *config.Config, email string) error {
	store, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to open storage")
	}
	defer store.Close()

	if err := store.SetAdmin(ctx, email, true); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return pkgerrors.Wrap(err, "failed to promote user")
	}
	return nil
}
