package mongostore

import (
	"context"

	"github.com/linemk/storefront/internal/domain/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// RecordPayment опирается на _id = session id: повтор даёт duplicate key
func (s *Store) RecordPayment(ctx context.Context, payment *models.Payment) (bool, error) {
	if _, err := s.col(ColPayments).InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	return findMany[models.Payment](ctx, s.col(ColPayments), bson.D{}, newestFirst())
}
