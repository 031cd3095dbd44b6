package model

import (
	"strings"
	"testing"
)

// ============================================================================
// Event Derived Fields Tests
// ============================================================================

func TestEvent_SeatsAvailable_EmptyRoster(t *testing.T) {
	t.Parallel()

	e := &Event{SeatsTotal: 10}

	if got := e.SeatsAvailable(); got != 10 {
		t.Errorf("expected 10 seats available, got %d", got)
	}
}

func TestEvent_SeatsAvailable_PartialRoster(t *testing.T) {
	t.Parallel()

	e := &Event{SeatsTotal: 10, Attendees: []string{"user:1", "user:2", "user:3"}}

	if got := e.SeatsAvailable(); got != 7 {
		t.Errorf("expected 7 seats available, got %d", got)
	}
}

func TestEvent_SeatsAvailable_OverCapacityClampsToZero(t *testing.T) {
	t.Parallel()

	// Roster larger than capacity cannot happen through reservations, but a
	// legacy record should still report zero rather than a negative count.
	e := &Event{SeatsTotal: 1, Attendees: []string{"user:1", "user:2"}}

	if got := e.SeatsAvailable(); got != 0 {
		t.Errorf("expected 0 seats available, got %d", got)
	}
}

func TestEvent_HasAttendee(t *testing.T) {
	t.Parallel()

	e := &Event{Attendees: []string{"user:1", "user:2"}}

	if !e.HasAttendee("user:1") {
		t.Error("expected user:1 to hold a seat")
	}
	if e.HasAttendee("user:3") {
		t.Error("expected user:3 to not hold a seat")
	}
}

func TestEvent_ToView_ExcludesAttendeesByDefault(t *testing.T) {
	t.Parallel()

	e := &Event{
		ID:         "event:1",
		Title:      "Launch Party",
		Organizer:  "user:admin",
		SeatsTotal: 50,
		Attendees:  []string{"user:1", "user:2"},
	}

	view := e.ToView(false)

	if view.Attendees != nil {
		t.Errorf("expected attendees to be omitted, got %v", view.Attendees)
	}
	if view.AttendeeCount != 2 {
		t.Errorf("expected attendee_count 2, got %d", view.AttendeeCount)
	}
	if view.SeatsAvailable != 48 {
		t.Errorf("expected seats_available 48, got %d", view.SeatsAvailable)
	}
}

func TestEvent_ToView_IncludesAttendeesForAdmins(t *testing.T) {
	t.Parallel()

	e := &Event{
		ID:         "event:1",
		Title:      "Launch Party",
		Organizer:  "user:admin",
		SeatsTotal: 50,
		Attendees:  []string{"user:1", "user:2"},
	}

	view := e.ToView(true)

	if len(view.Attendees) != 2 {
		t.Errorf("expected 2 attendees in view, got %v", view.Attendees)
	}
}

// ============================================================================
// CreateEventRequest Tests
// ============================================================================

func TestCreateEventRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	seats := 25
	req := &CreateEventRequest{
		Title:      "Team Offsite",
		StartsAt:   "2026-09-01T18:00:00Z",
		SeatsTotal: &seats,
	}

	errors := req.Validate()
	if len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_MissingTitle(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		StartsAt: "2026-09-01T18:00:00Z",
	}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "title" {
		t.Errorf("expected title error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_TitleTooLong(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:    strings.Repeat("a", MaxEventTitleLength+1),
		StartsAt: "2026-09-01T18:00:00Z",
	}

	errors := req.Validate()
	hasError := false
	for _, e := range errors {
		if e.Field == "title" {
			hasError = true
		}
	}
	if !hasError {
		t.Errorf("expected title length error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_InvalidStartsAt(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:    "Team Offsite",
		StartsAt: "tomorrow at noon",
	}

	errors := req.Validate()
	hasError := false
	for _, e := range errors {
		if e.Field == "starts_at" && strings.Contains(e.Message, "RFC3339") {
			hasError = true
		}
	}
	if !hasError {
		t.Errorf("expected starts_at format error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_ZeroSeats(t *testing.T) {
	t.Parallel()

	seats := 0
	req := &CreateEventRequest{
		Title:      "Team Offsite",
		StartsAt:   "2026-09-01T18:00:00Z",
		SeatsTotal: &seats,
	}

	errors := req.Validate()
	hasError := false
	for _, e := range errors {
		if e.Field == "seats_total" {
			hasError = true
		}
	}
	if !hasError {
		t.Errorf("expected seats_total error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_OmittedSeatsIsValid(t *testing.T) {
	t.Parallel()

	// seats_total defaults downstream when unspecified
	req := &CreateEventRequest{
		Title:    "Team Offsite",
		StartsAt: "2026-09-01T18:00:00Z",
	}

	errors := req.Validate()
	if len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

// ============================================================================
// UpdateEventRequest Tests
// ============================================================================

func TestUpdateEventRequest_Validate_EmptyPatchIsValid(t *testing.T) {
	t.Parallel()

	req := &UpdateEventRequest{}

	errors := req.Validate()
	if len(errors) > 0 {
		t.Errorf("expected no errors for empty patch, got %v", errors)
	}
}

func TestUpdateEventRequest_Validate_EmptyTitle(t *testing.T) {
	t.Parallel()

	title := ""
	req := &UpdateEventRequest{Title: &title}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "title" {
		t.Errorf("expected title error, got %v", errors)
	}
}

func TestUpdateEventRequest_Validate_NegativeSeats(t *testing.T) {
	t.Parallel()

	seats := -5
	req := &UpdateEventRequest{SeatsTotal: &seats}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "seats_total" {
		t.Errorf("expected seats_total error, got %v", errors)
	}
}

// ============================================================================
// Identity Tests
// ============================================================================

func TestGuestIdentity_IsGuest(t *testing.T) {
	t.Parallel()

	id := GuestIdentity()

	if !id.IsGuest() {
		t.Error("expected guest identity to be guest")
	}
	if id.IsAdmin() {
		t.Error("expected guest identity to not be admin")
	}
}

func TestIdentity_EmptyUserIDIsGuest(t *testing.T) {
	t.Parallel()

	// A token without a subject must not grant user access
	id := Identity{Role: UserRoleUser}

	if !id.IsGuest() {
		t.Error("expected identity without user id to be treated as guest")
	}
}

func TestIdentity_AdminRole(t *testing.T) {
	t.Parallel()

	id := Identity{UserID: "user:1", Role: UserRoleAdmin}

	if id.IsGuest() {
		t.Error("expected admin identity to not be guest")
	}
	if !id.IsAdmin() {
		t.Error("expected admin identity to be admin")
	}
}
