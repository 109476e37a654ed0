package sync

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/townhub-api/internal/config"
	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/infrastructure/feeds"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, src config.FeedSource) (*feeds.Result, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feeds.Result), args.Error(1)
}

type mockGate struct {
	mock.Mock
}

func (m *mockGate) Sync(ctx context.Context, candidates []domain.Event) domain.SyncStats {
	args := m.Called(ctx, candidates)
	return args.Get(0).(domain.SyncStats)
}

func newTestService(client fetcher, events gate, srcs []config.FeedSource) Service {
	loc, _ := time.LoadLocation("America/Chicago")
	return NewService(ServiceDeps{
		Client: client,
		Events: events,
		Feeds:  srcs,
		TownID: "fairview",
		Loc:    loc,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRunContinuesPastFailingFeed(t *testing.T) {
	client := new(mockFetcher)
	events := new(mockGate)
	srcs := []config.FeedSource{
		{ID: "library", URL: "https://library.example/events"},
		{ID: "parks", URL: "https://parks.example/calendar.ics"},
	}
	svc := newTestService(client, events, srcs)

	client.On("Fetch", mock.Anything, srcs[0]).Return(nil, assert.AnError)
	client.On("Fetch", mock.Anything, srcs[1]).Return(&feeds.Result{
		FeedID: "parks",
		Items: []feeds.Item{
			{ID: "p1", Title: "Park Cleanup", Start: "2026-06-20"},
		},
	}, nil)
	events.On("Sync", mock.Anything, mock.Anything).Return(domain.SyncStats{Inserted: 1})

	report := svc.Run(context.Background())

	assert.True(t, report.Success)
	require.Len(t, report.Feeds, 2)
	assert.NotEmpty(t, report.Feeds[0].Error)
	assert.Empty(t, report.Feeds[1].Error)
	assert.Equal(t, 1, report.Totals.Inserted)
}

func TestRunNormalizesJSONItems(t *testing.T) {
	client := new(mockFetcher)
	events := new(mockGate)
	srcs := []config.FeedSource{{ID: "chamber", URL: "https://chamber.example/events"}}
	svc := newTestService(client, events, srcs)

	client.On("Fetch", mock.Anything, srcs[0]).Return(&feeds.Result{
		FeedID: "chamber",
		Items: []feeds.Item{
			// 18:00 UTC in March is noon in Chicago (CST, UTC-6).
			{ID: "c1", Title: "Ribbon Cutting", Start: "2026-03-01T18:00:00Z", Location: "Main St"},
		},
	}, nil)

	var captured []domain.Event
	events.On("Sync", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]domain.Event)
	}).Return(domain.SyncStats{Inserted: 1})

	svc.Run(context.Background())

	require.Len(t, captured, 1)
	assert.Equal(t, "c1", captured[0].ExternalID)
	assert.Equal(t, "2026-03-01", captured[0].Date)
	assert.Equal(t, "12:00 PM", captured[0].Time)
	assert.Equal(t, "chamber", captured[0].Source)
	assert.Equal(t, "fairview", captured[0].TownID)
	assert.Equal(t, domain.DefaultCategory, captured[0].Category)
	assert.True(t, captured[0].Verified)
}

func TestRunParsesICalFeed(t *testing.T) {
	client := new(mockFetcher)
	events := new(mockGate)
	srcs := []config.FeedSource{{ID: "parks", URL: "https://parks.example/calendar.ics"}}
	svc := newTestService(client, events, srcs)

	raw := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:abc-123\r\n" +
		"SUMMARY:Movie in the Park\r\n" +
		"DTSTART;VALUE=DATE:20260704\r\n" +
		"LOCATION:Riverside Park\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	client.On("Fetch", mock.Anything, srcs[0]).Return(&feeds.Result{FeedID: "parks", ICal: raw}, nil)

	var captured []domain.Event
	events.On("Sync", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]domain.Event)
	}).Return(domain.SyncStats{Inserted: 1})

	svc.Run(context.Background())

	require.Len(t, captured, 1)
	assert.Equal(t, "abc-123", captured[0].ExternalID)
	assert.Equal(t, "Movie in the Park", captured[0].Title)
	assert.Equal(t, "2026-07-04", captured[0].Date)
	assert.Equal(t, domain.TimeAllDay, captured[0].Time)
	assert.Equal(t, "Riverside Park", captured[0].Location)
}

func TestRunUnparsableStartStaysRaw(t *testing.T) {
	client := new(mockFetcher)
	events := new(mockGate)
	srcs := []config.FeedSource{{ID: "misc", URL: "https://misc.example/events"}}
	svc := newTestService(client, events, srcs)

	client.On("Fetch", mock.Anything, srcs[0]).Return(&feeds.Result{
		FeedID: "misc",
		Items:  []feeds.Item{{ID: "m1", Title: "Mystery", Start: "sometime in June"}},
	}, nil)

	var captured []domain.Event
	events.On("Sync", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]domain.Event)
	}).Return(domain.SyncStats{Skipped: 1, Reasons: map[string]int{domain.SkipValidation: 1}})

	report := svc.Run(context.Background())

	require.Len(t, captured, 1)
	assert.Equal(t, "sometime in June", captured[0].Date)
	assert.Equal(t, domain.TimeTBD, captured[0].Time)
	assert.Equal(t, 1, report.Totals.Skipped)
}
