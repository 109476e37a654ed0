package business

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/pkg/id"
	"github.com/townhub-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, input domain.BusinessInput) (*domain.Business, error)
	List(ctx context.Context) ([]domain.Business, error)
	Get(ctx context.Context, businessID string) (*domain.Business, error)
	Update(ctx context.Context, businessID string, input domain.BusinessInput) (*domain.Business, error)
	Delete(ctx context.Context, businessID string) error
}

type businessStore interface {
	Put(ctx context.Context, b *domain.Business) error
	Get(ctx context.Context, businessID string) (*domain.Business, error)
	Scan(ctx context.Context) ([]domain.Business, error)
	Update(ctx context.Context, businessID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, businessID string) error
}

type service struct {
	repo   businessStore
	townID string
}

type ServiceDeps struct {
	Repo   businessStore
	TownID string
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, townID: deps.TownID}
}

func (s *service) Create(ctx context.Context, input domain.BusinessInput) (*domain.Business, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	b := &domain.Business{
		BusinessID:  id.New(),
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Address:     input.Address,
		Phone:       input.Phone,
		Website:     input.Website,
		Hours:       input.Hours,
		ImageKey:    input.ImageKey,
		Verified:    true,
		TownID:      s.townID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the directory sorted by name.
func (s *service) List(ctx context.Context) ([]domain.Business, error) {
	all, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all, nil
}

func (s *service) Get(ctx context.Context, businessID string) (*domain.Business, error) {
	return s.repo.Get(ctx, businessID)
}

func (s *service) Update(ctx context.Context, businessID string, input domain.BusinessInput) (*domain.Business, error) {
	if _, err := s.repo.Get(ctx, businessID); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	updates := map[string]interface{}{
		"name":        input.Name,
		"category":    input.Category,
		"description": input.Description,
		"address":     input.Address,
		"phone":       input.Phone,
		"website":     input.Website,
		"hours":       input.Hours,
	}
	if input.ImageKey != "" {
		updates["image_key"] = input.ImageKey
	}
	if err := s.repo.Update(ctx, businessID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, businessID)
}

func (s *service) Delete(ctx context.Context, businessID string) error {
	if _, err := s.repo.Get(ctx, businessID); err != nil {
		return err
	}
	return s.repo.HardDelete(ctx, businessID)
}
