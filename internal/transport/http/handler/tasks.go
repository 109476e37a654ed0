package handler

import (
	"net/http"

	"github.com/townhub-api/internal/application/notify"
	"github.com/townhub-api/internal/application/purge"
	syncapp "github.com/townhub-api/internal/application/sync"
)

// TaskHandler exposes the scheduled jobs as HTTP triggers. Every trigger
// returns a structured JSON report; a failed job still answers with a body
// rather than an opaque 500.
type TaskHandler struct {
	sync   syncapp.Service
	notify notify.Service
	purge  purge.Service
}

func NewTaskHandler(sync syncapp.Service, notify notify.Service, purge purge.Service) *TaskHandler {
	return &TaskHandler{sync: sync, notify: notify, purge: purge}
}

func (h *TaskHandler) SyncCalendars(w http.ResponseWriter, r *http.Request) {
	report := h.sync.Run(r.Context())
	writeJSON(w, reportStatus(report.Success), report)
}

func (h *TaskHandler) DailyDigest(w http.ResponseWriter, r *http.Request) {
	report := h.notify.DailyDigest(r.Context())
	writeJSON(w, reportStatus(report.Success), report)
}

func (h *TaskHandler) EventReminders(w http.ResponseWriter, r *http.Request) {
	report := h.notify.EventReminders(r.Context())
	writeJSON(w, reportStatus(report.Success), report)
}

func (h *TaskHandler) Purge(w http.ResponseWriter, r *http.Request) {
	report := h.purge.Run(r.Context())
	writeJSON(w, reportStatus(report.Success), report)
}

func reportStatus(success bool) int {
	if success {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
