package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/townhub-api/internal/domain"
)

// --- mocks ---

type mockSyncSvc struct{ mock.Mock }

func (m *mockSyncSvc) Run(ctx context.Context) domain.SyncReport {
	return m.Called(ctx).Get(0).(domain.SyncReport)
}

type mockNotifySvc struct{ mock.Mock }

func (m *mockNotifySvc) DailyDigest(ctx context.Context) domain.DigestReport {
	return m.Called(ctx).Get(0).(domain.DigestReport)
}

func (m *mockNotifySvc) EventReminders(ctx context.Context) domain.ReminderReport {
	return m.Called(ctx).Get(0).(domain.ReminderReport)
}

type mockPurgeSvc struct{ mock.Mock }

func (m *mockPurgeSvc) Run(ctx context.Context) domain.PurgeReport {
	return m.Called(ctx).Get(0).(domain.PurgeReport)
}

type mockEventsSvc struct{ mock.Mock }

func (m *mockEventsSvc) Sync(ctx context.Context, candidates []domain.Event) domain.SyncStats {
	return m.Called(ctx, candidates).Get(0).(domain.SyncStats)
}

func (m *mockEventsSvc) Ingest(ctx context.Context, inputs []domain.EventInput) domain.SyncStats {
	return m.Called(ctx, inputs).Get(0).(domain.SyncStats)
}

func (m *mockEventsSvc) ListUpcoming(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventsSvc) ListByDate(ctx context.Context, date string) ([]domain.Event, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventsSvc) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventsSvc) Create(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	args := m.Called(ctx, input)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventsSvc) Delete(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

// --- tests ---

func TestSyncCalendarsReturnsReport(t *testing.T) {
	syncSvc := new(mockSyncSvc)
	h := NewTaskHandler(syncSvc, nil, nil)

	report := domain.SyncReport{Success: true}
	report.Totals.Inserted = 3
	syncSvc.On("Run", mock.Anything).Return(report)

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks/sync-calendars", nil)
	rec := httptest.NewRecorder()
	h.SyncCalendars(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.SyncReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, 3, got.Totals.Inserted)
}

func TestDailyDigestFailureStillStructured(t *testing.T) {
	notifySvc := new(mockNotifySvc)
	h := NewTaskHandler(nil, notifySvc, nil)

	notifySvc.On("DailyDigest", mock.Anything).Return(domain.DigestReport{
		Error: "topic unreachable",
		Kind:  domain.ErrKindUpstream,
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks/daily-digest", nil)
	rec := httptest.NewRecorder()
	h.DailyDigest(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var got domain.DigestReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Success)
	assert.Equal(t, domain.ErrKindUpstream, got.Kind)
}

func TestPurgeReturnsCounts(t *testing.T) {
	purgeSvc := new(mockPurgeSvc)
	h := NewTaskHandler(nil, nil, purgeSvc)

	purgeSvc.On("Run", mock.Anything).Return(domain.PurgeReport{
		Success:             true,
		EventsDeleted:       2,
		ObituariesDeleted:   1,
		ListingsDeactivated: 1,
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks/purge", nil)
	rec := httptest.NewRecorder()
	h.Purge(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.PurgeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.EventsDeleted)
}

func TestWebhookIngestSingleObject(t *testing.T) {
	eventsSvc := new(mockEventsSvc)
	h := NewWebhookHandler(eventsSvc)

	eventsSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(in []domain.EventInput) bool {
		return len(in) == 1 && in[0].Title == "Bake Sale"
	})).Return(domain.SyncStats{Inserted: 1})

	body := bytes.NewBufferString(`{"title":"Bake Sale","date":"2026-07-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/events", body)
	rec := httptest.NewRecorder()
	h.IngestEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	eventsSvc.AssertExpectations(t)
}

func TestWebhookIngestEventsArray(t *testing.T) {
	eventsSvc := new(mockEventsSvc)
	h := NewWebhookHandler(eventsSvc)

	eventsSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(in []domain.EventInput) bool {
		return len(in) == 2
	})).Return(domain.SyncStats{Inserted: 2})

	body := bytes.NewBufferString(`{"events":[{"title":"A","date":"2026-07-01"},{"title":"B","date":"2026-07-02"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/events", body)
	rec := httptest.NewRecorder()
	h.IngestEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	eventsSvc.AssertExpectations(t)
}

func TestWebhookIngestBadBody(t *testing.T) {
	eventsSvc := new(mockEventsSvc)
	h := NewWebhookHandler(eventsSvc)

	body := bytes.NewBufferString(`{not json`)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/events", body)
	rec := httptest.NewRecorder()
	h.IngestEvents(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	eventsSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}
