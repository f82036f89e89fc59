package mongostore

import (
	"context"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *Store) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return findMany[models.Product](ctx, s.col(ColProducts), bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return findOne[models.Product](ctx, s.col(ColProducts), byID(id), storage.ErrProductNotFound)
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == "" {
		product.ID = storage.NewID()
	}
	if _, err := s.col(ColProducts).InsertOne(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	res, err := s.col(ColProducts).UpdateOne(ctx, byID(product.ID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: product.Name},
		{Key: "description", Value: product.Description},
		{Key: "price", Value: product.Price},
		{Key: "image_url", Value: product.ImageURL},
		{Key: "updated_at", Value: product.UpdatedAt},
	}}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, storage.ErrProductNotFound
	}
	return product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.col(ColProducts).DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrProductNotFound
	}
	return nil
}
