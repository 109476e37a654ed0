package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/pkg/civil"
	"github.com/townhub-api/internal/pkg/id"
)

// Outcomes of pushing one candidate through the upsert gate.
const (
	outcomeInserted = "inserted"
	outcomeUpdated  = "updated"
)

type Service interface {
	// Sync pushes a batch of candidates through the upsert/dedup gate.
	// One candidate's failure never aborts the rest of the batch.
	Sync(ctx context.Context, candidates []domain.Event) domain.SyncStats
	// Ingest applies webhook defaults to raw inputs and runs the gate.
	Ingest(ctx context.Context, inputs []domain.EventInput) domain.SyncStats

	ListUpcoming(ctx context.Context) ([]domain.Event, error)
	ListByDate(ctx context.Context, date string) ([]domain.Event, error)
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	Create(ctx context.Context, input domain.EventInput) (*domain.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type eventStore interface {
	Put(ctx context.Context, e *domain.Event) error
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Event, error)
	FindByTitleDateTown(ctx context.Context, title, date, townID string) (*domain.Event, error)
	ListByDate(ctx context.Context, date string) ([]domain.Event, error)
	ListUpcoming(ctx context.Context, fromDate string) ([]domain.Event, error)
	Update(ctx context.Context, eventID string, updates map[string]interface{}) error
	Delete(ctx context.Context, eventID string) error
}

type service struct {
	repo   eventStore
	townID string
	loc    *time.Location
	now    func() time.Time
}

type ServiceDeps struct {
	Repo   eventStore
	TownID string
	Loc    *time.Location
	// Now overrides the clock in tests; defaults to time.Now.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.Repo, townID: deps.TownID, loc: deps.Loc, now: now}
}

func (s *service) today() string {
	return s.now().In(s.loc).Format(civil.DateLayout)
}

func (s *service) Sync(ctx context.Context, candidates []domain.Event) domain.SyncStats {
	var stats domain.SyncStats
	for i := range candidates {
		outcome, err := s.upsertOne(ctx, &candidates[i])
		if err != nil {
			stats.Skip(domain.SkipStorage)
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", candidates[i].Title, err))
			continue
		}
		switch outcome {
		case outcomeInserted:
			stats.Inserted++
		case outcomeUpdated:
			stats.Updated++
		default:
			stats.Skip(outcome)
		}
	}
	return stats
}

// upsertOne applies the gate's checks in order: field validation, past-date
// rejection, external-id upsert, composite-key fallback, insert.
func (s *service) upsertOne(ctx context.Context, cand *domain.Event) (string, error) {
	if cand.Title == "" || !civil.IsDate(cand.Date) {
		return domain.SkipValidation, nil
	}
	if cand.Date < s.today() {
		return domain.SkipPastDate, nil
	}

	if cand.ExternalID != "" {
		existing, err := s.repo.GetByExternalID(ctx, cand.ExternalID)
		if err == nil {
			if uerr := s.repo.Update(ctx, existing.EventID, overwriteFields(cand)); uerr != nil {
				return "", uerr
			}
			return outcomeUpdated, nil
		}
		// Not found, or the external-id index is unavailable. Either way
		// the composite lookup below is the compensating check before
		// giving up on the candidate.
	}

	_, err := s.repo.FindByTitleDateTown(ctx, cand.Title, cand.Date, cand.TownID)
	if err == nil {
		return domain.SkipDuplicate, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	now := s.now().UTC()
	cand.EventID = id.New()
	cand.CreatedAt = now
	cand.UpdatedAt = now
	if err := s.repo.Put(ctx, cand); err != nil {
		return "", err
	}
	return outcomeInserted, nil
}

func overwriteFields(cand *domain.Event) map[string]interface{} {
	return map[string]interface{}{
		"title":       cand.Title,
		"category":    cand.Category,
		"date":        cand.Date,
		"time":        cand.Time,
		"location":    cand.Location,
		"price":       cand.Price,
		"source":      cand.Source,
		"source_url":  cand.SourceURL,
		"description": cand.Description,
		"verified":    cand.Verified,
		"updated_at":  time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *service) Ingest(ctx context.Context, inputs []domain.EventInput) domain.SyncStats {
	candidates := make([]domain.Event, 0, len(inputs))
	for _, in := range inputs {
		candidates = append(candidates, s.fromInput(in))
	}
	return s.Sync(ctx, candidates)
}

// fromInput applies the documented webhook defaults: time "TBD", a generic
// calendar glyph, the configured town, verified unless stated otherwise.
func (s *service) fromInput(in domain.EventInput) domain.Event {
	ev := domain.Event{
		ExternalID:  in.ExternalID,
		Title:       in.Title,
		Category:    in.Category,
		Date:        in.Date,
		Time:        in.Time,
		Location:    in.Location,
		Price:       in.Price,
		Source:      in.Source,
		SourceURL:   in.SourceURL,
		Description: in.Description,
		Verified:    true,
		TownID:      in.TownID,
	}
	if ev.Time == "" {
		ev.Time = domain.TimeTBD
	}
	if ev.Category == "" {
		ev.Category = domain.DefaultCategory
	}
	if ev.TownID == "" {
		ev.TownID = s.townID
	}
	if in.Verified != nil {
		ev.Verified = *in.Verified
	}
	return ev
}

func (s *service) ListUpcoming(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListUpcoming(ctx, s.today())
}

func (s *service) ListByDate(ctx context.Context, date string) ([]domain.Event, error) {
	if !civil.IsDate(date) {
		return nil, fmt.Errorf("date must be YYYY-MM-DD: %w", domain.ErrBadRequest)
	}
	return s.repo.ListByDate(ctx, date)
}

func (s *service) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.repo.Get(ctx, eventID)
}

// Create handles a manual submission. It runs the same gate as the sync
// jobs so a hand-entered duplicate of a feed event is rejected too.
func (s *service) Create(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	cand := s.fromInput(input)
	outcome, err := s.upsertOne(ctx, &cand)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case outcomeInserted, outcomeUpdated:
		return &cand, nil
	case domain.SkipDuplicate:
		return nil, fmt.Errorf("event already exists: %w", domain.ErrConflict)
	case domain.SkipPastDate:
		return nil, fmt.Errorf("event date is in the past: %w", domain.ErrBadRequest)
	default:
		return nil, fmt.Errorf("invalid event: %w", domain.ErrBadRequest)
	}
}

func (s *service) Delete(ctx context.Context, eventID string) error {
	if _, err := s.repo.Get(ctx, eventID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, eventID)
}
