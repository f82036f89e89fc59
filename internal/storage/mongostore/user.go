package mongostore

import (
	"context"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}}, storage.ErrUserNotFound)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.col(ColUsers), byID(id), storage.ErrUserNotFound)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = storage.NewID()
	}
	if _, err := s.col(ColUsers).InsertOne(ctx, user); err != nil {
		return nil, wrapError(err, nil)
	}
	return user, nil
}

func (s *Store) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	res, err := s.col(ColUsers).UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "is_admin", Value: isAdmin}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// owners загружает владельцев заказов одним запросом
func (s *Store) owners(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.UserID]; ok {
			continue
		}
		seen[o.UserID] = struct{}{}
		ids = append(ids, o.UserID)
	}

	users, err := findMany[models.User](ctx, s.col(ColUsers),
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return err
	}
	byUser := make(map[string]*models.User, len(users))
	for _, u := range users {
		byUser[u.ID] = u
	}
	for _, o := range orders {
		if u, ok := byUser[o.UserID]; ok {
			o.User = &models.OrderOwner{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return nil
}
