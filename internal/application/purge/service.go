package purge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/pkg/civil"
)

// Obituaries with no usable dates age out after this many days.
const obituaryGraceDays = 14

type Service interface {
	// Run executes the three retention policies: past events are deleted
	// with their reminder and interest rows, expired obituaries are deleted,
	// lapsed housing listings are deactivated. Each policy tolerates the
	// others failing.
	Run(ctx context.Context) domain.PurgeReport
}

type eventStore interface {
	ListPast(ctx context.Context, beforeDate string) ([]domain.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type obituaryStore interface {
	Scan(ctx context.Context) ([]domain.Obituary, error)
	Delete(ctx context.Context, obituaryID string) error
}

type housingStore interface {
	ListActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]domain.HousingListing, error)
	Deactivate(ctx context.Context, listingID string) error
}

type cascadeStore interface {
	DeleteByEvent(ctx context.Context, eventID string) error
}

type service struct {
	events    eventStore
	obits     obituaryStore
	housing   housingStore
	reminders cascadeStore
	interests cascadeStore
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

type ServiceDeps struct {
	Events     eventStore
	Obituaries obituaryStore
	Housing    housingStore
	Reminders  cascadeStore
	Interests  cascadeStore
	Loc        *time.Location
	Now        func() time.Time
	Logger     *slog.Logger
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		events:    deps.Events,
		obits:     deps.Obituaries,
		housing:   deps.Housing,
		reminders: deps.Reminders,
		interests: deps.Interests,
		loc:       deps.Loc,
		now:       now,
		logger:    deps.Logger,
	}
}

func (s *service) Run(ctx context.Context) domain.PurgeReport {
	report := domain.PurgeReport{Success: true}
	now := s.now()
	today := now.In(s.loc).Format(civil.DateLayout)

	s.purgeEvents(ctx, today, &report)
	s.purgeObituaries(ctx, now, today, &report)
	s.expireHousing(ctx, now, &report)

	return report
}

// purgeEvents deletes events whose date is strictly before today, cleaning
// up reminder and interest rows first. Cascade failures are logged but do
// not block the parent delete.
func (s *service) purgeEvents(ctx context.Context, today string, report *domain.PurgeReport) {
	past, err := s.events.ListPast(ctx, today)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("events: %v", err))
		return
	}
	for _, ev := range past {
		if err := s.reminders.DeleteByEvent(ctx, ev.EventID); err != nil {
			s.logger.Warn("reminder cascade failed", "event_id", ev.EventID, "error", err)
		}
		if err := s.interests.DeleteByEvent(ctx, ev.EventID); err != nil {
			s.logger.Warn("interest cascade failed", "event_id", ev.EventID, "error", err)
		}
		if err := s.events.Delete(ctx, ev.EventID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("event %s: %v", ev.EventID, err))
			continue
		}
		report.EventsDeleted++
	}
}

func (s *service) purgeObituaries(ctx context.Context, now time.Time, today string, report *domain.PurgeReport) {
	all, err := s.obits.Scan(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("obituaries: %v", err))
		return
	}
	passedCutoff := now.In(s.loc).AddDate(0, 0, -obituaryGraceDays).Format(civil.DateLayout)
	createdCutoff := now.AddDate(0, 0, -obituaryGraceDays)
	for _, o := range all {
		if !obituaryExpired(o, today, passedCutoff, createdCutoff) {
			continue
		}
		if err := s.obits.Delete(ctx, o.ObituaryID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("obituary %s: %v", o.ObituaryID, err))
			continue
		}
		report.ObituariesDeleted++
	}
}

// obituaryExpired decides whether one record has aged out. Dates are
// canonical YYYY-MM-DD strings, so lexical comparison orders them.
func obituaryExpired(o domain.Obituary, today, passedCutoff string, createdCutoff time.Time) bool {
	if o.ServiceDate != nil && *o.ServiceDate < today {
		return true
	}
	if o.PassingDate != nil && *o.PassingDate <= passedCutoff {
		return true
	}
	if o.PassingDate == nil && o.ServiceDate == nil && !o.CreatedAt.After(createdCutoff) {
		return true
	}
	return false
}

func (s *service) expireHousing(ctx context.Context, now time.Time, report *domain.PurgeReport) {
	lapsed, err := s.housing.ListActiveExpiredBefore(ctx, now)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("housing: %v", err))
		return
	}
	for _, l := range lapsed {
		if err := s.housing.Deactivate(ctx, l.ListingID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("listing %s: %v", l.ListingID, err))
			continue
		}
		report.ListingsDeactivated++
	}
}
