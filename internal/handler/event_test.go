package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attendly/api/internal/model"
	"github.com/attendly/api/internal/service"
)

// ============================================================================
// Test Helpers
// ============================================================================

type mockEventService struct {
	createFunc func(ctx context.Context, identity model.Identity, req model.CreateEventRequest) (*model.Event, error)
	getFunc    func(ctx context.Context, eventID string) (*model.Event, error)
	listFunc   func(ctx context.Context, filter *model.EventFilter) ([]*model.Event, error)
	updateFunc func(ctx context.Context, identity model.Identity, eventID string, req model.UpdateEventRequest) (*model.Event, error)
	deleteFunc func(ctx context.Context, identity model.Identity, eventID string) error
}

func (m *mockEventService) CreateEvent(ctx context.Context, identity model.Identity, req model.CreateEventRequest) (*model.Event, error) {
	return m.createFunc(ctx, identity, req)
}

func (m *mockEventService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return m.getFunc(ctx, eventID)
}

func (m *mockEventService) ListEvents(ctx context.Context, filter *model.EventFilter) ([]*model.Event, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockEventService) UpdateEvent(ctx context.Context, identity model.Identity, eventID string, req model.UpdateEventRequest) (*model.Event, error) {
	return m.updateFunc(ctx, identity, eventID, req)
}

func (m *mockEventService) DeleteEvent(ctx context.Context, identity model.Identity, eventID string) error {
	return m.deleteFunc(ctx, identity, eventID)
}

type mockReservationService struct {
	reserveFunc func(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error)
	releaseFunc func(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error)
	evictFunc   func(ctx context.Context, eventID, attendeeID string, identity model.Identity) (*model.SeatSummary, error)
}

func (m *mockReservationService) Reserve(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
	return m.reserveFunc(ctx, eventID, identity)
}

func (m *mockReservationService) Release(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
	return m.releaseFunc(ctx, eventID, identity)
}

func (m *mockReservationService) EvictAttendee(ctx context.Context, eventID, attendeeID string, identity model.Identity) (*model.SeatSummary, error) {
	return m.evictFunc(ctx, eventID, attendeeID, identity)
}

func testEvent() *model.Event {
	now := time.Now().UTC()
	return &model.Event{
		ID:         "event:gopherconf",
		Title:      "GopherConf",
		StartsAt:   now.Add(24 * time.Hour),
		Organizer:  "user:admin",
		Attendees:  []string{"user:alice", "user:bob"},
		SeatsTotal: 50,
		Version:    3,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
}

func adminTestIdentity() model.Identity {
	return model.Identity{UserID: "user:admin", Role: model.UserRoleAdmin}
}

func userTestIdentity() model.Identity {
	return model.Identity{UserID: "user:alice", Role: model.UserRoleUser}
}

// serveWithPattern routes the request through a mux so r.PathValue works
func serveWithPattern(pattern string, handlerFunc http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handlerFunc)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// ============================================================================
// Create Tests
// ============================================================================

func TestEventHandler_Create_Success(t *testing.T) {
	t.Parallel()

	eventSvc := &mockEventService{
		createFunc: func(ctx context.Context, identity model.Identity, req model.CreateEventRequest) (*model.Event, error) {
			if req.Title != "GopherConf" {
				t.Errorf("unexpected title %q", req.Title)
			}
			return testEvent(), nil
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := makeJSONRequest(t, http.MethodPost, "/v1/events", model.CreateEventRequest{
		Title:    "GopherConf",
		StartsAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	req = withIdentity(req, adminTestIdentity())
	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var view model.EventView
	parseData(t, rr, &view)
	if view.ID != "event:gopherconf" {
		t.Errorf("unexpected event ID %q", view.ID)
	}
	if view.Attendees == nil {
		t.Error("admin caller should see the attendees roster")
	}
}

func TestEventHandler_Create_ValidationFailure(t *testing.T) {
	t.Parallel()

	handler := NewEventHandler(&mockEventService{}, &mockReservationService{})

	// Missing title and starts_at
	req := makeJSONRequest(t, http.MethodPost, "/v1/events", model.CreateEventRequest{})
	req = withIdentity(req, adminTestIdentity())
	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	problem := parseProblem(t, rr)
	if len(problem.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(problem.Errors))
	}
}

func TestEventHandler_Create_GuestRejected(t *testing.T) {
	t.Parallel()

	eventSvc := &mockEventService{
		createFunc: func(ctx context.Context, identity model.Identity, req model.CreateEventRequest) (*model.Event, error) {
			return nil, service.ErrNotAuthenticated
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := makeJSONRequest(t, http.MethodPost, "/v1/events", model.CreateEventRequest{
		Title:    "GopherConf",
		StartsAt: time.Now().Format(time.RFC3339),
	})
	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestEventHandler_Create_NonAdminRejected(t *testing.T) {
	t.Parallel()

	eventSvc := &mockEventService{
		createFunc: func(ctx context.Context, identity model.Identity, req model.CreateEventRequest) (*model.Event, error) {
			return nil, service.ErrAdminRequired
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := makeJSONRequest(t, http.MethodPost, "/v1/events", model.CreateEventRequest{
		Title:    "GopherConf",
		StartsAt: time.Now().Format(time.RFC3339),
	})
	req = withIdentity(req, userTestIdentity())
	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

// ============================================================================
// Get / List Tests
// ============================================================================

func TestEventHandler_Get_HidesRosterFromNonAdmins(t *testing.T) {
	t.Parallel()

	eventSvc := &mockEventService{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			if eventID != "event:gopherconf" {
				t.Errorf("expected normalized record ID, got %q", eventID)
			}
			return testEvent(), nil
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/events/gopherconf", nil)
	req = withIdentity(req, userTestIdentity())
	rr := serveWithPattern("GET /v1/events/{eventId}", handler.Get, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var view model.EventView
	parseData(t, rr, &view)
	if view.Attendees != nil {
		t.Error("non-admin caller must not see the attendees roster")
	}
	if view.AttendeeCount != 2 {
		t.Errorf("expected attendee_count 2, got %d", view.AttendeeCount)
	}
	if view.SeatsAvailable != 48 {
		t.Errorf("expected seats_available 48, got %d", view.SeatsAvailable)
	}
}

func TestEventHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	eventSvc := &mockEventService{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			return nil, service.ErrEventNotFound
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/events/nope", nil)
	rr := serveWithPattern("GET /v1/events/{eventId}", handler.Get, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestEventHandler_List_PassesFilter(t *testing.T) {
	t.Parallel()

	var captured *model.EventFilter
	eventSvc := &mockEventService{
		listFunc: func(ctx context.Context, filter *model.EventFilter) ([]*model.Event, error) {
			captured = filter
			return []*model.Event{testEvent()}, nil
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/events?category=tech&organizer=admin&from=2026-01-01T00:00:00Z", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if captured == nil {
		t.Fatal("expected filter to reach the service")
	}
	if captured.Category == nil || *captured.Category != "tech" {
		t.Error("expected category filter")
	}
	if captured.Organizer == nil || *captured.Organizer != "user:admin" {
		t.Errorf("expected normalized organizer filter, got %v", captured.Organizer)
	}
	if captured.From == nil {
		t.Error("expected from filter")
	}
	if captured.To != nil {
		t.Error("unexpected to filter")
	}
}

func TestEventHandler_List_BadFromTimestamp(t *testing.T) {
	t.Parallel()

	handler := NewEventHandler(&mockEventService{}, &mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/events?from=yesterday", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for bad from value, got %d", rr.Code)
	}
}

func TestEventHandler_List_EmptyResult(t *testing.T) {
	t.Parallel()

	eventSvc := &mockEventService{
		listFunc: func(ctx context.Context, filter *model.EventFilter) ([]*model.Event, error) {
			return nil, nil
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var views []*model.EventView
	parseData(t, rr, &views)
	if views == nil {
		t.Error("expected empty array, not null")
	}
}

// ============================================================================
// Update / Delete Tests
// ============================================================================

func TestEventHandler_Update_Success(t *testing.T) {
	t.Parallel()

	newTitle := "GopherConf 2026"
	eventSvc := &mockEventService{
		updateFunc: func(ctx context.Context, identity model.Identity, eventID string, req model.UpdateEventRequest) (*model.Event, error) {
			event := testEvent()
			event.Title = *req.Title
			return event, nil
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := makeJSONRequest(t, http.MethodPut, "/v1/events/gopherconf", model.UpdateEventRequest{Title: &newTitle})
	req = withIdentity(req, adminTestIdentity())
	rr := serveWithPattern("PUT /v1/events/{eventId}", handler.Update, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var view model.EventView
	parseData(t, rr, &view)
	if view.Title != newTitle {
		t.Errorf("unexpected title %q", view.Title)
	}
}

func TestEventHandler_Update_InvalidCapacityCarriesCounts(t *testing.T) {
	t.Parallel()

	eventSvc := &mockEventService{
		updateFunc: func(ctx context.Context, identity model.Identity, eventID string, req model.UpdateEventRequest) (*model.Event, error) {
			return nil, &service.InvalidCapacityError{SeatsTotal: 1, AttendeeCount: 2}
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	one := 1
	req := makeJSONRequest(t, http.MethodPut, "/v1/events/gopherconf", model.UpdateEventRequest{SeatsTotal: &one})
	req = withIdentity(req, adminTestIdentity())
	rr := serveWithPattern("PUT /v1/events/{eventId}", handler.Update, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	problem := parseProblem(t, rr)
	if problem.SeatsTotal == nil || *problem.SeatsTotal != 1 {
		t.Errorf("expected seats_total extension 1, got %v", problem.SeatsTotal)
	}
	if problem.AttendeeCount == nil || *problem.AttendeeCount != 2 {
		t.Errorf("expected attendee_count extension 2, got %v", problem.AttendeeCount)
	}
}

func TestEventHandler_Update_Contention(t *testing.T) {
	t.Parallel()

	eventSvc := &mockEventService{
		updateFunc: func(ctx context.Context, identity model.Identity, eventID string, req model.UpdateEventRequest) (*model.Event, error) {
			return nil, service.ErrContention
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	newTitle := "GopherConf"
	req := makeJSONRequest(t, http.MethodPut, "/v1/events/gopherconf", model.UpdateEventRequest{Title: &newTitle})
	req = withIdentity(req, adminTestIdentity())
	rr := serveWithPattern("PUT /v1/events/{eventId}", handler.Update, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
}

func TestEventHandler_Delete_Success(t *testing.T) {
	t.Parallel()

	var deleted string
	eventSvc := &mockEventService{
		deleteFunc: func(ctx context.Context, identity model.Identity, eventID string) error {
			deleted = eventID
			return nil
		},
	}
	handler := NewEventHandler(eventSvc, &mockReservationService{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/events/gopherconf", nil)
	req = withIdentity(req, adminTestIdentity())
	rr := serveWithPattern("DELETE /v1/events/{eventId}", handler.Delete, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if deleted != "event:gopherconf" {
		t.Errorf("expected normalized record ID, got %q", deleted)
	}
}

// ============================================================================
// Reserve / Release / Evict Tests
// ============================================================================

func TestEventHandler_Reserve_Success(t *testing.T) {
	t.Parallel()

	resSvc := &mockReservationService{
		reserveFunc: func(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
			return &model.SeatSummary{EventID: eventID, AttendeeCount: 3, SeatsAvailable: 47}, nil
		},
	}
	handler := NewEventHandler(&mockEventService{}, resSvc)

	req := httptest.NewRequest(http.MethodPost, "/v1/events/gopherconf/book", nil)
	req = withIdentity(req, userTestIdentity())
	rr := serveWithPattern("POST /v1/events/{eventId}/book", handler.Reserve, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var summary model.SeatSummary
	parseData(t, rr, &summary)
	if summary.AttendeeCount != 3 || summary.SeatsAvailable != 47 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestEventHandler_Reserve_AlreadyReserved(t *testing.T) {
	t.Parallel()

	resSvc := &mockReservationService{
		reserveFunc: func(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
			return nil, service.ErrAlreadyReserved
		},
	}
	handler := NewEventHandler(&mockEventService{}, resSvc)

	req := httptest.NewRequest(http.MethodPost, "/v1/events/gopherconf/book", nil)
	req = withIdentity(req, userTestIdentity())
	rr := serveWithPattern("POST /v1/events/{eventId}/book", handler.Reserve, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestEventHandler_Reserve_CapacityExceeded(t *testing.T) {
	t.Parallel()

	resSvc := &mockReservationService{
		reserveFunc: func(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
			return nil, service.ErrCapacityExceeded
		},
	}
	handler := NewEventHandler(&mockEventService{}, resSvc)

	req := httptest.NewRequest(http.MethodPost, "/v1/events/gopherconf/book", nil)
	req = withIdentity(req, userTestIdentity())
	rr := serveWithPattern("POST /v1/events/{eventId}/book", handler.Reserve, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestEventHandler_Reserve_Contention(t *testing.T) {
	t.Parallel()

	resSvc := &mockReservationService{
		reserveFunc: func(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
			return nil, service.ErrContention
		},
	}
	handler := NewEventHandler(&mockEventService{}, resSvc)

	req := httptest.NewRequest(http.MethodPost, "/v1/events/gopherconf/book", nil)
	req = withIdentity(req, userTestIdentity())
	rr := serveWithPattern("POST /v1/events/{eventId}/book", handler.Reserve, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
}

func TestEventHandler_Release_Success(t *testing.T) {
	t.Parallel()

	resSvc := &mockReservationService{
		releaseFunc: func(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
			return &model.SeatSummary{EventID: eventID, AttendeeCount: 1, SeatsAvailable: 49}, nil
		},
	}
	handler := NewEventHandler(&mockEventService{}, resSvc)

	req := httptest.NewRequest(http.MethodDelete, "/v1/events/gopherconf/book", nil)
	req = withIdentity(req, userTestIdentity())
	rr := serveWithPattern("DELETE /v1/events/{eventId}/book", handler.Release, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestEventHandler_Evict_Success(t *testing.T) {
	t.Parallel()

	var evicted string
	resSvc := &mockReservationService{
		evictFunc: func(ctx context.Context, eventID, attendeeID string, identity model.Identity) (*model.SeatSummary, error) {
			evicted = attendeeID
			return &model.SeatSummary{EventID: eventID, AttendeeCount: 1, SeatsAvailable: 49}, nil
		},
	}
	handler := NewEventHandler(&mockEventService{}, resSvc)

	req := httptest.NewRequest(http.MethodDelete, "/v1/events/gopherconf/attendees/bob", nil)
	req = withIdentity(req, adminTestIdentity())
	rr := serveWithPattern("DELETE /v1/events/{eventId}/attendees/{userId}", handler.Evict, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if evicted != "user:bob" {
		t.Errorf("expected normalized user record ID, got %q", evicted)
	}
}

func TestEventHandler_Evict_NonAdmin(t *testing.T) {
	t.Parallel()

	resSvc := &mockReservationService{
		evictFunc: func(ctx context.Context, eventID, attendeeID string, identity model.Identity) (*model.SeatSummary, error) {
			return nil, service.ErrAdminRequired
		},
	}
	handler := NewEventHandler(&mockEventService{}, resSvc)

	req := httptest.NewRequest(http.MethodDelete, "/v1/events/gopherconf/attendees/bob", nil)
	req = withIdentity(req, userTestIdentity())
	rr := serveWithPattern("DELETE /v1/events/{eventId}/attendees/{userId}", handler.Evict, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}
