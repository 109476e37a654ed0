package handler

import (
	"encoding/json"
	"net/http"

	"github.com/townhub-api/internal/application/events"
	"github.com/townhub-api/internal/domain"
)

// WebhookHandler ingests events pushed by external scrapers. The body is
// either a single event object or {"events": [...]}.
type WebhookHandler struct {
	events events.Service
}

func NewWebhookHandler(svc events.Service) *WebhookHandler {
	return &WebhookHandler{events: svc}
}

func (h *WebhookHandler) IngestEvents(w http.ResponseWriter, r *http.Request) {
	var req domain.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stats := h.events.Ingest(r.Context(), req.All())
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		domain.SyncStats
	}{Success: true, SyncStats: stats})
}
