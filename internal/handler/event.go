package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/attendly/api/internal/middleware"
	"github.com/attendly/api/internal/model"
)

// EventService defines the event operations the handler depends on
type EventService interface {
	CreateEvent(ctx context.Context, identity model.Identity, req model.CreateEventRequest) (*model.Event, error)
	GetEvent(ctx context.Context, eventID string) (*model.Event, error)
	ListEvents(ctx context.Context, filter *model.EventFilter) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, identity model.Identity, eventID string, req model.UpdateEventRequest) (*model.Event, error)
	DeleteEvent(ctx context.Context, identity model.Identity, eventID string) error
}

// ReservationService defines the seat operations the handler depends on
type ReservationService interface {
	Reserve(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error)
	Release(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error)
	EvictAttendee(ctx context.Context, eventID, attendeeID string, identity model.Identity) (*model.SeatSummary, error)
}

// EventHandler handles event and reservation endpoints
type EventHandler struct {
	eventService       EventService
	reservationService ReservationService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService EventService, reservationService ReservationService) *EventHandler {
	return &EventHandler{
		eventService:       eventService,
		reservationService: reservationService,
	}
}

// Create handles POST /v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req model.CreateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), identity, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, event.ToView(identity.IsAdmin()), map[string]string{
		"self": "/v1/events/" + event.ID,
	})
}

// List handles GET /v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	filter, problem := parseEventFilter(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	events, err := h.eventService.ListEvents(r.Context(), filter)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	views := make([]*model.EventView, 0, len(events))
	for _, event := range events {
		views = append(views, event.ToView(identity.IsAdmin()))
	}

	WriteData(w, http.StatusOK, views, map[string]string{
		"self": "/v1/events",
	})
}

// Get handles GET /v1/events/{eventId}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	eventID := eventRecordID(r.PathValue("eventId"))

	event, err := h.eventService.GetEvent(r.Context(), eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, event.ToView(identity.IsAdmin()), map[string]string{
		"self":   "/v1/events/" + event.ID,
		"stream": "/v1/events/" + event.ID + "/stream",
	})
}

// Update handles PUT /v1/events/{eventId}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	eventID := eventRecordID(r.PathValue("eventId"))

	var req model.UpdateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), identity, eventID, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, event.ToView(identity.IsAdmin()), map[string]string{
		"self": "/v1/events/" + event.ID,
	})
}

// Delete handles DELETE /v1/events/{eventId}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	eventID := eventRecordID(r.PathValue("eventId"))

	if err := h.eventService.DeleteEvent(r.Context(), identity, eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Reserve handles POST /v1/events/{eventId}/book
func (h *EventHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	eventID := eventRecordID(r.PathValue("eventId"))

	summary, err := h.reservationService.Reserve(r.Context(), eventID, identity)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, summary, map[string]string{
		"event": "/v1/events/" + summary.EventID,
	})
}

// Release handles DELETE /v1/events/{eventId}/book
func (h *EventHandler) Release(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	eventID := eventRecordID(r.PathValue("eventId"))

	summary, err := h.reservationService.Release(r.Context(), eventID, identity)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, summary, map[string]string{
		"event": "/v1/events/" + summary.EventID,
	})
}

// Evict handles DELETE /v1/events/{eventId}/attendees/{userId}
func (h *EventHandler) Evict(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	eventID := eventRecordID(r.PathValue("eventId"))
	attendeeID := userRecordID(r.PathValue("userId"))

	summary, err := h.reservationService.EvictAttendee(r.Context(), eventID, attendeeID, identity)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, summary, map[string]string{
		"event": "/v1/events/" + summary.EventID,
	})
}

// parseEventFilter builds an EventFilter from list query parameters.
// An unparseable from/to timestamp is a validation error rather than a
// silently empty filter.
func parseEventFilter(r *http.Request) (*model.EventFilter, *model.ProblemDetails) {
	query := r.URL.Query()
	filter := &model.EventFilter{}

	if category := query.Get("category"); category != "" {
		filter.Category = &category
	}
	if organizer := query.Get("organizer"); organizer != "" {
		id := userRecordID(organizer)
		filter.Organizer = &id
	}
	if from := query.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "from", Message: "from must be an RFC3339 datetime"},
			})
		}
		filter.From = &t
	}
	if to := query.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "to", Message: "to must be an RFC3339 datetime"},
			})
		}
		filter.To = &t
	}

	return filter, nil
}
