package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/townhub-api/internal/domain"
)

type mockEventStore struct {
	mock.Mock
}

func (m *mockEventStore) Put(ctx context.Context, e *domain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockEventStore) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventStore) GetByExternalID(ctx context.Context, externalID string) (*domain.Event, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventStore) FindByTitleDateTown(ctx context.Context, title, date, townID string) (*domain.Event, error) {
	args := m.Called(ctx, title, date, townID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventStore) ListByDate(ctx context.Context, date string) ([]domain.Event, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventStore) ListUpcoming(ctx context.Context, fromDate string) ([]domain.Event, error) {
	args := m.Called(ctx, fromDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventStore) Update(ctx context.Context, eventID string, updates map[string]interface{}) error {
	args := m.Called(ctx, eventID, updates)
	return args.Error(0)
}

func (m *mockEventStore) Delete(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// fixedNow pins the clock to 2026-06-15 noon Chicago time.
func fixedNow() time.Time {
	loc, _ := time.LoadLocation("America/Chicago")
	return time.Date(2026, 6, 15, 12, 0, 0, 0, loc)
}

func newTestService(repo eventStore) Service {
	loc, _ := time.LoadLocation("America/Chicago")
	return NewService(ServiceDeps{Repo: repo, TownID: "fairview", Loc: loc, Now: fixedNow})
}

func TestSyncInsertsNewEvent(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	repo.On("GetByExternalID", mock.Anything, "ext-1").Return(nil, domain.ErrNotFound)
	repo.On("FindByTitleDateTown", mock.Anything, "Farmers Market", "2026-06-20", "fairview").
		Return(nil, domain.ErrNotFound)
	repo.On("Put", mock.Anything, mock.MatchedBy(func(e *domain.Event) bool {
		return e.EventID != "" && e.Title == "Farmers Market"
	})).Return(nil)

	stats := svc.Sync(context.Background(), []domain.Event{{
		ExternalID: "ext-1",
		Title:      "Farmers Market",
		Date:       "2026-06-20",
		TownID:     "fairview",
	}})

	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 0, stats.Skipped)
	repo.AssertExpectations(t)
}

func TestSyncOverwritesByExternalID(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	existing := &domain.Event{EventID: "evt-1", ExternalID: "ext-1", Title: "Old Title"}
	repo.On("GetByExternalID", mock.Anything, "ext-1").Return(existing, nil)
	repo.On("Update", mock.Anything, "evt-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["title"] == "New Title"
	})).Return(nil)

	stats := svc.Sync(context.Background(), []domain.Event{{
		ExternalID: "ext-1",
		Title:      "New Title",
		Date:       "2026-06-20",
		TownID:     "fairview",
	}})

	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Inserted)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSyncSkipsCompositeDuplicate(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	dup := &domain.Event{EventID: "evt-9", Title: "Council Meeting", Date: "2026-06-20"}
	repo.On("FindByTitleDateTown", mock.Anything, "Council Meeting", "2026-06-20", "fairview").
		Return(dup, nil)

	stats := svc.Sync(context.Background(), []domain.Event{{
		Title:  "Council Meeting",
		Date:   "2026-06-20",
		TownID: "fairview",
	}})

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Reasons[domain.SkipDuplicate])
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSyncSkipsPastAndInvalidDates(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	stats := svc.Sync(context.Background(), []domain.Event{
		{Title: "Yesterday", Date: "2026-06-14", TownID: "fairview"},
		{Title: "Garbled", Date: "June 20th", TownID: "fairview"},
		{Title: "", Date: "2026-06-20", TownID: "fairview"},
	})

	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 1, stats.Reasons[domain.SkipPastDate])
	assert.Equal(t, 2, stats.Reasons[domain.SkipValidation])
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSyncTodayIsNotPast(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	repo.On("FindByTitleDateTown", mock.Anything, "Today Event", "2026-06-15", "fairview").
		Return(nil, domain.ErrNotFound)
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	stats := svc.Sync(context.Background(), []domain.Event{{
		Title:  "Today Event",
		Date:   "2026-06-15",
		TownID: "fairview",
	}})

	assert.Equal(t, 1, stats.Inserted)
}

func TestSyncStorageFailureDoesNotAbortBatch(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	repo.On("FindByTitleDateTown", mock.Anything, "First", "2026-06-20", "fairview").
		Return(nil, domain.ErrNotFound)
	repo.On("Put", mock.Anything, mock.MatchedBy(func(e *domain.Event) bool {
		return e.Title == "First"
	})).Return(assert.AnError)
	repo.On("FindByTitleDateTown", mock.Anything, "Second", "2026-06-20", "fairview").
		Return(nil, domain.ErrNotFound)
	repo.On("Put", mock.Anything, mock.MatchedBy(func(e *domain.Event) bool {
		return e.Title == "Second"
	})).Return(nil)

	stats := svc.Sync(context.Background(), []domain.Event{
		{Title: "First", Date: "2026-06-20", TownID: "fairview"},
		{Title: "Second", Date: "2026-06-20", TownID: "fairview"},
	})

	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Reasons[domain.SkipStorage])
	require.Len(t, stats.Errors, 1)
}

func TestSyncIsIdempotent(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	cand := domain.Event{ExternalID: "ext-7", Title: "Book Club", Date: "2026-06-21", TownID: "fairview"}

	repo.On("GetByExternalID", mock.Anything, "ext-7").Return(nil, domain.ErrNotFound).Once()
	repo.On("FindByTitleDateTown", mock.Anything, "Book Club", "2026-06-21", "fairview").
		Return(nil, domain.ErrNotFound).Once()
	repo.On("Put", mock.Anything, mock.Anything).Return(nil).Once()

	first := svc.Sync(context.Background(), []domain.Event{cand})
	assert.Equal(t, 1, first.Inserted)

	stored := &domain.Event{EventID: "evt-7", ExternalID: "ext-7", Title: "Book Club", Date: "2026-06-21"}
	repo.On("GetByExternalID", mock.Anything, "ext-7").Return(stored, nil).Once()
	repo.On("Update", mock.Anything, "evt-7", mock.Anything).Return(nil).Once()

	second := svc.Sync(context.Background(), []domain.Event{cand})
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Updated)
	repo.AssertExpectations(t)
}

func TestIngestAppliesDefaults(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	repo.On("FindByTitleDateTown", mock.Anything, "Bake Sale", "2026-07-01", "fairview").
		Return(nil, domain.ErrNotFound)
	var captured *domain.Event
	repo.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*domain.Event)
	}).Return(nil)

	stats := svc.Ingest(context.Background(), []domain.EventInput{
		{Title: "Bake Sale", Date: "2026-07-01"},
	})

	assert.Equal(t, 1, stats.Inserted)
	require.NotNil(t, captured)
	assert.Equal(t, domain.TimeTBD, captured.Time)
	assert.Equal(t, domain.DefaultCategory, captured.Category)
	assert.Equal(t, "fairview", captured.TownID)
	assert.True(t, captured.Verified)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	repo := new(mockEventStore)
	svc := newTestService(repo)

	dup := &domain.Event{EventID: "evt-3"}
	repo.On("FindByTitleDateTown", mock.Anything, "Trivia Night", "2026-06-25", "fairview").
		Return(dup, nil)

	_, err := svc.Create(context.Background(), domain.EventInput{
		Title: "Trivia Night",
		Date:  "2026-06-25",
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
}
