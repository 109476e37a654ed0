package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/pkg/civil"
)

type Service interface {
	// DailyDigest broadcasts today's event summary to the town-wide topic.
	DailyDigest(ctx context.Context) domain.DigestReport
	// EventReminders sends a starting-soon push to every user interested in
	// one of today's events, at most once per (user, event) pair.
	EventReminders(ctx context.Context) domain.ReminderReport
}

type eventLister interface {
	ListByDate(ctx context.Context, date string) ([]domain.Event, error)
}

type interestStore interface {
	ListByEvent(ctx context.Context, eventID string) ([]domain.Interest, error)
}

type deviceStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Device, error)
}

type reminderStore interface {
	Create(ctx context.Context, rec *domain.ReminderRecord) error
	Exists(ctx context.Context, userID, eventID string) (bool, error)
}

type pusher interface {
	Broadcast(ctx context.Context, heading, body string) error
	BroadcastSegment(ctx context.Context, tag, heading, body string) error
	SendDirect(ctx context.Context, endpointARN, heading, body string) error
}

type service struct {
	events    eventLister
	interests interestStore
	devices   deviceStore
	reminders reminderStore
	push      pusher
	townName  string
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

type ServiceDeps struct {
	Events    eventLister
	Interests interestStore
	Devices   deviceStore
	Reminders reminderStore
	Push      pusher
	TownName  string
	Loc       *time.Location
	Now       func() time.Time
	Logger    *slog.Logger
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		events:    deps.Events,
		interests: deps.Interests,
		devices:   deps.Devices,
		reminders: deps.Reminders,
		push:      deps.Push,
		townName:  deps.TownName,
		loc:       deps.Loc,
		now:       now,
		logger:    deps.Logger,
	}
}

func (s *service) today() string {
	return s.now().In(s.loc).Format(civil.DateLayout)
}

func (s *service) DailyDigest(ctx context.Context) domain.DigestReport {
	events, err := s.events.ListByDate(ctx, s.today())
	if err != nil {
		return domain.DigestReport{Error: err.Error(), Kind: domain.ErrKindStorage}
	}

	heading, body := ComposeDigest(s.townName, events)
	if err := s.push.Broadcast(ctx, heading, body); err != nil {
		return domain.DigestReport{
			Error:      err.Error(),
			Kind:       domain.ErrKindUpstream,
			EventCount: len(events),
		}
	}

	report := domain.DigestReport{Success: true, EventCount: len(events), Heading: heading}
	s.segmentDigests(ctx, events, &report)
	return report
}

// segmentDigests publishes a narrower digest per event category; subscription
// filter policies on the tag attribute route each one to its segment. Segment
// delivery failures are reported but never fail the task: the town-wide
// broadcast already went out.
func (s *service) segmentDigests(ctx context.Context, events []domain.Event, report *domain.DigestReport) {
	var tags []string
	byCategory := make(map[string][]domain.Event)
	for _, ev := range events {
		if ev.Category == "" {
			continue
		}
		if _, seen := byCategory[ev.Category]; !seen {
			tags = append(tags, ev.Category)
		}
		byCategory[ev.Category] = append(byCategory[ev.Category], ev)
	}

	for _, tag := range tags {
		heading, body := ComposeDigest(s.townName, byCategory[tag])
		if err := s.push.BroadcastSegment(ctx, tag, heading, body); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("segment %s: %v", tag, err))
			s.logger.Warn("segment digest not delivered", "tag", tag, "error", err)
			continue
		}
		report.Segments++
	}
}

func (s *service) EventReminders(ctx context.Context) domain.ReminderReport {
	events, err := s.events.ListByDate(ctx, s.today())
	if err != nil {
		return domain.ReminderReport{Error: err.Error(), Kind: domain.ErrKindStorage}
	}

	report := domain.ReminderReport{Success: true}
	for _, ev := range events {
		interests, err := s.interests.ListByEvent(ctx, ev.EventID)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", ev.EventID, err))
			continue
		}
		for _, in := range interests {
			s.remindUser(ctx, ev, in.UserID, &report)
		}
	}
	return report
}

// remindUser sends the starting-soon push to one user's devices and records
// the (user, event) pair so re-runs within the same day stay silent.
func (s *service) remindUser(ctx context.Context, ev domain.Event, userID string, report *domain.ReminderReport) {
	sent, err := s.reminders.Exists(ctx, userID, ev.EventID)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("%s/%s: %v", userID, ev.EventID, err))
		return
	}
	if sent {
		report.Skipped++
		return
	}

	heading, body := ComposeReminder(ev)
	delivered := 0
	devices, err := s.devices.ListByUser(ctx, userID)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", userID, err))
		return
	}
	for _, d := range devices {
		if !d.Enable || d.EndpointARN == "" {
			continue
		}
		if err := s.push.SendDirect(ctx, d.EndpointARN, heading, body); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", d.DeviceID, err))
			continue
		}
		delivered++
	}
	if delivered == 0 {
		report.Skipped++
		return
	}

	rec := domain.ReminderRecord{UserID: userID, EventID: ev.EventID, SentAt: s.now().UTC()}
	if err := s.reminders.Create(ctx, &rec); err != nil && !errors.Is(err, domain.ErrConflict) {
		// The push went out; a failed marker only risks a duplicate on the
		// next run, so log and move on.
		s.logger.Warn("reminder record not saved", "user_id", userID, "event_id", ev.EventID, "error", err)
	}
	report.Sent++
}
