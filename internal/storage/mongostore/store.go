// Package mongostore реализует storage.Storage поверх MongoDB.
//
// Документы сериализуются через bson-теги моделей, идентификаторы строковые,
// как и в PostgreSQL-реализации.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/linemk/storefront/internal/storage"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ColUsers    = "users"
	ColProducts = "products"
	ColOrders   = "orders"
	ColPayments = "payments"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ storage.Storage = (*Store)(nil)

// NewStore подключается к MongoDB и создаёт индексы
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// EnsureIndexes создаёт индексы; уникальность email держится на индексе
func (s *Store) EnsureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColProducts, bson.D{{Key: "created_at", Value: 1}}, false},
		{ColOrders, bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
		{ColOrders, bson.D{{Key: "created_at", Value: -1}}, false},
		{ColPayments, bson.D{{Key: "created_at", Value: -1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("mongostore: create index on %s: %w", i.col, err)
		}
	}
	return nil
}
