package mongostore

import (
	"context"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == "" {
		order.ID = storage.NewID()
	}
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	if _, err := s.col(ColOrders).InsertOne(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	return findMany[models.Order](ctx, s.col(ColOrders), bson.D{{Key: "user_id", Value: userID}}, newestFirst())
}

func (s *Store) ListOrders(ctx context.Context) ([]*models.Order, error) {
	orders, err := findMany[models.Order](ctx, s.col(ColOrders), bson.D{}, newestFirst())
	if err != nil {
		return nil, err
	}
	if err := s.owners(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, updatedAt time.Time) (*models.Order, error) {
	var order models.Order
	err := s.col(ColOrders).FindOneAndUpdate(ctx, byID(id),
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "updated_at", Value: updatedAt},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, wrapError(err, storage.ErrOrderNotFound)
	}
	if err := s.owners(ctx, []*models.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}
