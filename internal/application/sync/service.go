package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/townhub-api/internal/config"
	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/ical"
	"github.com/townhub-api/internal/infrastructure/feeds"
	"github.com/townhub-api/internal/pkg/civil"
)

type Service interface {
	// Run fetches every configured feed and pushes its events through the
	// upsert gate. A feed that fails to fetch or parse is reported and the
	// remaining feeds still run.
	Run(ctx context.Context) domain.SyncReport
}

type fetcher interface {
	Fetch(ctx context.Context, src config.FeedSource) (*feeds.Result, error)
}

type gate interface {
	Sync(ctx context.Context, candidates []domain.Event) domain.SyncStats
}

type service struct {
	client fetcher
	events gate
	feeds  []config.FeedSource
	townID string
	loc    *time.Location
	logger *slog.Logger
}

type ServiceDeps struct {
	Client fetcher
	Events gate
	Feeds  []config.FeedSource
	TownID string
	Loc    *time.Location
	Logger *slog.Logger
}

func NewService(deps ServiceDeps) Service {
	return &service{
		client: deps.Client,
		events: deps.Events,
		feeds:  deps.Feeds,
		townID: deps.TownID,
		loc:    deps.Loc,
		logger: deps.Logger,
	}
}

func (s *service) Run(ctx context.Context) domain.SyncReport {
	report := domain.SyncReport{Success: true}
	for _, src := range s.feeds {
		fr := s.runFeed(ctx, src)
		report.Feeds = append(report.Feeds, fr)
		if fr.Error != "" {
			s.logger.Warn("calendar feed failed", "feed", src.ID, "error", fr.Error)
			continue
		}
		report.Totals.Add(fr.SyncStats)
	}
	return report
}

func (s *service) runFeed(ctx context.Context, src config.FeedSource) domain.FeedReport {
	fr := domain.FeedReport{FeedID: src.ID}

	res, err := s.client.Fetch(ctx, src)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}

	var candidates []domain.Event
	if res.ICal != "" {
		candidates = s.fromICal(src.ID, res.ICal)
	} else {
		candidates = s.fromItems(src.ID, res.Items)
	}

	fr.Fetched = len(candidates)
	fr.SyncStats = s.events.Sync(ctx, candidates)
	return fr
}

func (s *service) fromItems(feedID string, items []feeds.Item) []domain.Event {
	out := make([]domain.Event, 0, len(items))
	for _, it := range items {
		norm, _ := civil.Normalize(it.Start, s.loc)
		ev := domain.Event{
			ExternalID:  it.ID,
			Title:       it.Title,
			Category:    it.Category,
			Date:        norm.Date,
			Time:        norm.Display,
			Location:    it.Location,
			Price:       it.Price,
			Source:      feedID,
			SourceURL:   it.URL,
			Description: it.Description,
			Verified:    true,
			TownID:      s.townID,
		}
		if ev.Category == "" {
			ev.Category = domain.DefaultCategory
		}
		out = append(out, ev)
	}
	return out
}

func (s *service) fromICal(feedID, raw string) []domain.Event {
	var out []domain.Event
	for ve := range ical.Events(raw) {
		norm, _ := civil.Normalize(ve.DTStart, s.loc)
		out = append(out, domain.Event{
			ExternalID:  ve.UID,
			Title:       ve.Summary,
			Category:    domain.DefaultCategory,
			Date:        norm.Date,
			Time:        norm.Display,
			Location:    ve.Location,
			Source:      feedID,
			Description: ve.Description,
			Verified:    true,
			TownID:      s.townID,
		})
	}
	return out
}
