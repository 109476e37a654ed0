package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/townhub-api/internal/application/events"
	"github.com/townhub-api/internal/application/interest"
	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/transport/http/middleware"
)

// EventHandler handles calendar event endpoints.
type EventHandler struct {
	svc       events.Service
	interests interest.Service
}

func NewEventHandler(svc events.Service, interests interest.Service) *EventHandler {
	return &EventHandler{svc: svc, interests: interests}
}

// List returns upcoming events, or a single day when ?date= is given.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		list []domain.Event
		err  error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		list, err = h.svc.ListByDate(r.Context(), date)
	} else {
		list, err = h.svc.ListUpcoming(r.Context())
	}
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "event deleted"})
}

// AddInterest subscribes the caller to reminders for the event.
func (h *EventHandler) AddInterest(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.interests.Add(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "interest registered"})
}

func (h *EventHandler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.interests.Remove(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "interest removed"})
}
