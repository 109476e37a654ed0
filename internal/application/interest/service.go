package interest

import (
	"context"
	"time"

	"github.com/townhub-api/internal/domain"
)

type Service interface {
	// Add subscribes the user to reminders for the event. Adding twice is
	// a no-op.
	Add(ctx context.Context, userID, eventID string) error
	Remove(ctx context.Context, userID, eventID string) error
}

type interestStore interface {
	Put(ctx context.Context, in *domain.Interest) error
	Delete(ctx context.Context, userID, eventID string) error
}

type eventGetter interface {
	Get(ctx context.Context, eventID string) (*domain.Event, error)
}

type service struct {
	repo   interestStore
	events eventGetter
}

type ServiceDeps struct {
	Repo   interestStore
	Events eventGetter
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, events: deps.Events}
}

func (s *service) Add(ctx context.Context, userID, eventID string) error {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return err
	}
	return s.repo.Put(ctx, &domain.Interest{
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *service) Remove(ctx context.Context, userID, eventID string) error {
	return s.repo.Delete(ctx, userID, eventID)
}
