package purge

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/townhub-api/internal/domain"
)

type mockEventStore struct {
	mock.Mock
}

func (m *mockEventStore) ListPast(ctx context.Context, beforeDate string) ([]domain.Event, error) {
	args := m.Called(ctx, beforeDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventStore) Delete(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type mockObituaryStore struct {
	mock.Mock
}

func (m *mockObituaryStore) Scan(ctx context.Context) ([]domain.Obituary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obituary), args.Error(1)
}

func (m *mockObituaryStore) Delete(ctx context.Context, obituaryID string) error {
	args := m.Called(ctx, obituaryID)
	return args.Error(0)
}

type mockHousingStore struct {
	mock.Mock
}

func (m *mockHousingStore) ListActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]domain.HousingListing, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HousingListing), args.Error(1)
}

func (m *mockHousingStore) Deactivate(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type mockCascadeStore struct {
	mock.Mock
}

func (m *mockCascadeStore) DeleteByEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type testDeps struct {
	events    *mockEventStore
	obits     *mockObituaryStore
	housing   *mockHousingStore
	reminders *mockCascadeStore
	interests *mockCascadeStore
	svc       Service
}

// The pinned clock is 2026-06-15 noon Chicago time throughout.
func newTestDeps() testDeps {
	loc, _ := time.LoadLocation("America/Chicago")
	d := testDeps{
		events:    new(mockEventStore),
		obits:     new(mockObituaryStore),
		housing:   new(mockHousingStore),
		reminders: new(mockCascadeStore),
		interests: new(mockCascadeStore),
	}
	d.svc = NewService(ServiceDeps{
		Events:     d.events,
		Obituaries: d.obits,
		Housing:    d.housing,
		Reminders:  d.reminders,
		Interests:  d.interests,
		Loc:        loc,
		Now: func() time.Time {
			return time.Date(2026, 6, 15, 12, 0, 0, 0, loc)
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return d
}

func (d testDeps) noOtherWork() {
	d.obits.On("Scan", mock.Anything).Return([]domain.Obituary{}, nil).Maybe()
	d.housing.On("ListActiveExpiredBefore", mock.Anything, mock.Anything).
		Return([]domain.HousingListing{}, nil).Maybe()
	d.events.On("ListPast", mock.Anything, mock.Anything).Return([]domain.Event{}, nil).Maybe()
}

func strPtr(s string) *string { return &s }

func TestRunDeletesPastEventsWithCascade(t *testing.T) {
	d := newTestDeps()

	d.events.On("ListPast", mock.Anything, "2026-06-15").Return([]domain.Event{
		{EventID: "evt-old", Date: "2026-06-14"},
	}, nil)
	d.reminders.On("DeleteByEvent", mock.Anything, "evt-old").Return(nil)
	d.interests.On("DeleteByEvent", mock.Anything, "evt-old").Return(nil)
	d.events.On("Delete", mock.Anything, "evt-old").Return(nil)
	d.noOtherWork()

	report := d.svc.Run(context.Background())

	assert.True(t, report.Success)
	assert.Equal(t, 1, report.EventsDeleted)
	d.reminders.AssertExpectations(t)
	d.interests.AssertExpectations(t)
}

func TestRunCascadeFailureDoesNotBlockDelete(t *testing.T) {
	d := newTestDeps()

	d.events.On("ListPast", mock.Anything, "2026-06-15").Return([]domain.Event{
		{EventID: "evt-old"},
	}, nil)
	d.reminders.On("DeleteByEvent", mock.Anything, "evt-old").Return(assert.AnError)
	d.interests.On("DeleteByEvent", mock.Anything, "evt-old").Return(nil)
	d.events.On("Delete", mock.Anything, "evt-old").Return(nil)
	d.noOtherWork()

	report := d.svc.Run(context.Background())

	assert.Equal(t, 1, report.EventsDeleted)
	assert.Empty(t, report.Errors)
}

func TestRunObituaryRules(t *testing.T) {
	d := newTestDeps()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	d.obits.On("Scan", mock.Anything).Return([]domain.Obituary{
		// Service was yesterday: delete.
		{ObituaryID: "ob-1", ServiceDate: strPtr("2026-06-14")},
		// Service is tomorrow: keep.
		{ObituaryID: "ob-2", ServiceDate: strPtr("2026-06-16")},
		// Passing 20 days back, no service date: delete.
		{ObituaryID: "ob-3", PassingDate: strPtr("2026-05-26")},
		// Passing only a week back: keep.
		{ObituaryID: "ob-4", PassingDate: strPtr("2026-06-08")},
		// No dates, 15 days old: delete.
		{ObituaryID: "ob-5", CreatedAt: now.AddDate(0, 0, -15)},
		// No dates, 10 days old: keep.
		{ObituaryID: "ob-6", CreatedAt: now.AddDate(0, 0, -10)},
	}, nil)
	d.obits.On("Delete", mock.Anything, "ob-1").Return(nil)
	d.obits.On("Delete", mock.Anything, "ob-3").Return(nil)
	d.obits.On("Delete", mock.Anything, "ob-5").Return(nil)
	d.noOtherWork()

	report := d.svc.Run(context.Background())

	assert.Equal(t, 3, report.ObituariesDeleted)
	d.obits.AssertExpectations(t)
	d.obits.AssertNotCalled(t, "Delete", mock.Anything, "ob-2")
	d.obits.AssertNotCalled(t, "Delete", mock.Anything, "ob-4")
	d.obits.AssertNotCalled(t, "Delete", mock.Anything, "ob-6")
}

func TestRunDeactivatesLapsedListings(t *testing.T) {
	d := newTestDeps()

	d.housing.On("ListActiveExpiredBefore", mock.Anything, mock.Anything).
		Return([]domain.HousingListing{
			{ListingID: "ls-1", IsActive: true},
		}, nil)
	d.housing.On("Deactivate", mock.Anything, "ls-1").Return(nil)
	d.noOtherWork()

	report := d.svc.Run(context.Background())

	assert.Equal(t, 1, report.ListingsDeactivated)
	d.housing.AssertExpectations(t)
}

func TestRunPolicyFailureIsolated(t *testing.T) {
	d := newTestDeps()

	d.events.On("ListPast", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	d.obits.On("Scan", mock.Anything).Return([]domain.Obituary{
		{ObituaryID: "ob-1", ServiceDate: strPtr("2026-06-14")},
	}, nil)
	d.obits.On("Delete", mock.Anything, "ob-1").Return(nil)
	d.housing.On("ListActiveExpiredBefore", mock.Anything, mock.Anything).
		Return([]domain.HousingListing{}, nil)

	report := d.svc.Run(context.Background())

	assert.Equal(t, 1, report.ObituariesDeleted)
	assert.NotEmpty(t, report.Errors)
}

func TestObituaryExpiredBoundaries(t *testing.T) {
	createdCutoff := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	// Service today is not yet expired; the day after it is.
	assert.False(t, obituaryExpired(domain.Obituary{ServiceDate: strPtr("2026-06-15")},
		"2026-06-15", "2026-06-01", createdCutoff))
	assert.True(t, obituaryExpired(domain.Obituary{ServiceDate: strPtr("2026-06-14")},
		"2026-06-15", "2026-06-01", createdCutoff))

	// Passing exactly 14 days back hits the cutoff.
	assert.True(t, obituaryExpired(domain.Obituary{PassingDate: strPtr("2026-06-01")},
		"2026-06-15", "2026-06-01", createdCutoff))
	assert.False(t, obituaryExpired(domain.Obituary{PassingDate: strPtr("2026-06-02")},
		"2026-06-15", "2026-06-01", createdCutoff))

	// A passing date alone never triggers the created-at fallback.
	assert.False(t, obituaryExpired(domain.Obituary{
		PassingDate: strPtr("2026-06-10"),
		CreatedAt:   createdCutoff.AddDate(0, 0, -30),
	}, "2026-06-15", "2026-06-01", createdCutoff))
}
