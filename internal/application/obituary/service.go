package obituary

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
	Create(ctx context.Context, input domain.ObituaryInput) (*domain.Obituary, error)
	List(ctx context.Context) ([]domain.Obituary, error)
	Get(ctx context.Context, obituaryID string) (*domain.Obituary, error)
	Delete(ctx context.Context, obituaryID string) error
}

type obituaryStore interface {
	Put(ctx context.Context, o *domain.Obituary) error
	Get(ctx context.Context, obituaryID string) (*domain.Obituary, error)
	Scan(ctx context.Context) ([]domain.Obituary, error)
	Delete(ctx context.Context, obituaryID string) error
}

type service struct {
	repo   obituaryStore
	townID string
}

type ServiceDeps struct {
	Repo   obituaryStore
	TownID string
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, townID: deps.TownID}
}

func (s *service) Create(ctx context.Context, input domain.ObituaryInput) (*domain.Obituary, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	o := &domain.Obituary{
		ObituaryID:  id.New(),
		FullName:    input.FullName,
		PassingDate: input.PassingDate,
		ServiceDate: input.ServiceDate,
		ServiceInfo: input.ServiceInfo,
		Source:      input.Source,
		TownID:      s.townID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns all obituaries, newest first.
func (s *service) List(ctx context.Context) ([]domain.Obituary, error) {
	all, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *service) Get(ctx context.Context, obituaryID string) (*domain.Obituary, error) {
	return s.repo.Get(ctx, obituaryID)
}

func (s *service) Delete(ctx context.Context, obituaryID string) error {
	if _, err := s.repo.Get(ctx, obituaryID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, obituaryID)
}
