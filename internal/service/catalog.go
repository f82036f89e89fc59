package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

// ProductInput - поля товара из запроса; nil означает, что поле не передано
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageUrl"`
}

type CatalogService interface {
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, in ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{
		log:         log,
		productRepo: productRepo,
	}
}

func (s *catalogService) List(ctx context.Context) ([]*models.Product, error) {
	const op = "catalog.List"

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	const op = "catalog.Get"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, newError(ErrNotFound, MsgProductNotFound)
		}
		s.log.Error("failed to get product", slog.String("op", op), slog.String("id", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *catalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	const op = "catalog.Create"
	logger := s.log.With(slog.String("op", op))

	if in.Name == nil || *in.Name == "" || in.Price == nil {
		return nil, newError(ErrValidation, MsgNameAndPriceRequired)
	}

	now := time.Now().UTC()
	product := &models.Product{CreatedAt: now, UpdatedAt: now}
	apply(product, in)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("product created", slog.String("id", created.ID))
	return created, nil
}

// Update перезаписывает только переданные поля, проверка повторяется на итоговой записи
func (s *catalogService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	const op = "catalog.Update"
	logger := s.log.With(slog.String("op", op), slog.String("id", id))

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(product, in)
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		// товар удалили между чтением и записью
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, newError(ErrNotFound, MsgProductNotFound)
		}
		logger.Error("failed to update product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("product updated")
	return updated, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	const op = "catalog.Delete"

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return newError(ErrNotFound, MsgProductNotFound)
		}
		s.log.Error("failed to delete product", slog.String("op", op), slog.String("id", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product deleted", slog.String("op", op), slog.String("id", id))
	return nil
}

func apply(p *models.Product, in ProductInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
}

func validateProduct(p *models.Product) error {
	if p.Name == "" {
		return newError(ErrValidation, MsgNameAndPriceRequired)
	}
	if p.Price < 0 {
		return newError(ErrValidation, MsgInvalidPrice)
	}
	return nil
}
