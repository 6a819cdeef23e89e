package productservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

//go:generate mockgen -source=productservice.go -destination=mock_productservice.go -package=productservice

type Repo interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

func validate(p *domain.Product) error {
	switch {
	case p.Name == "":
		return domain.ValidationError("name is required")
	case p.Price.IsNegative():
		return domain.ValidationError("price must not be negative")
	case p.Stock < 0:
		return domain.ValidationError("stock must not be negative")
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	zap.L().Info("product created", zap.Int("productID", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update keeps the current photo when p.Photo is empty.
func (s *Service) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("product deleted", zap.Int("productID", id))
	return nil
}
