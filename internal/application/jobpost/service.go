package jobpost

import (
	"context"
	"fmt"
	"time"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/pkg/id"
	"github.com/townhub-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, ownerID string, input domain.JobPostInput) (*domain.JobPost, error)
	ListActive(ctx context.Context) ([]domain.JobPost, error)
	Get(ctx context.Context, jobID string) (*domain.JobPost, error)
	Close(ctx context.Context, jobID, actorID, actorRole string) error
}

type jobStore interface {
	Put(ctx context.Context, j *domain.JobPost) error
	Get(ctx context.Context, jobID string) (*domain.JobPost, error)
	ListActive(ctx context.Context) ([]domain.JobPost, error)
	SoftDelete(ctx context.Context, jobID string) error
}

type service struct {
	repo   jobStore
	townID string
}

type ServiceDeps struct {
	Repo   jobStore
	TownID string
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, townID: deps.TownID}
}

func (s *service) Create(ctx context.Context, ownerID string, input domain.JobPostInput) (*domain.JobPost, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	j := &domain.JobPost{
		JobID:       id.New(),
		Title:       input.Title,
		Company:     input.Company,
		Description: input.Description,
		Pay:         input.Pay,
		ContactInfo: input.ContactInfo,
		OwnerID:     ownerID,
		TownID:      s.townID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *service) ListActive(ctx context.Context) ([]domain.JobPost, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) Get(ctx context.Context, jobID string) (*domain.JobPost, error) {
	return s.repo.Get(ctx, jobID)
}

// Close deactivates a posting. Only the owner or an admin may close it.
func (s *service) Close(ctx context.Context, jobID, actorID, actorRole string) error {
	j, err := s.repo.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if j.OwnerID != actorID && actorRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.repo.SoftDelete(ctx, jobID)
}
