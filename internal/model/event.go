package model

import "time"

// Event represents a scheduled gathering with finite seating.
//
// The attendees roster and seats_total are only ever mutated through
// version-conditioned commits; Version increments on every committed write so
// concurrent writers can detect that they lost the race.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Location    *string   `json:"location,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	// Organizer is set at creation and never changes afterwards
	Organizer  string   `json:"organizer"`
	Attendees  []string `json:"attendees,omitempty"`
	SeatsTotal int      `json:"seats_total"`
	Version    uint64   `json:"version"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Validation constants
const (
	DefaultSeatsTotal         = 100
	MaxEventTitleLength       = 200
	MaxEventDescriptionLength = 2000
	MaxEventCategoryLength    = 50
	MaxEventLocationLength    = 200
)

// AttendeeCount returns the number of seats currently held
func (e *Event) AttendeeCount() int {
	return len(e.Attendees)
}

// SeatsAvailable returns the number of free seats.
// A roster over capacity (after an admin shrank seats_total) reports zero.
func (e *Event) SeatsAvailable() int {
	available := e.SeatsTotal - len(e.Attendees)
	if available < 0 {
		return 0
	}
	return available
}

// HasAttendee returns true if the given user holds a seat
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// SeatSummary is the outcome of a committed roster or capacity change
type SeatSummary struct {
	EventID        string `json:"event_id"`
	AttendeeCount  int    `json:"attendee_count"`
	SeatsAvailable int    `json:"seats_available"`
}

// SeatSummaryOf derives the summary from an event's current state
func SeatSummaryOf(e *Event) SeatSummary {
	return SeatSummary{
		EventID:        e.ID,
		AttendeeCount:  e.AttendeeCount(),
		SeatsAvailable: e.SeatsAvailable(),
	}
}

// EventView is the API representation of an event. The attendees roster is
// only included for admin callers.
type EventView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Location       *string   `json:"location,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	StartsAt       time.Time `json:"starts_at"`
	Organizer      string    `json:"organizer"`
	SeatsTotal     int       `json:"seats_total"`
	AttendeeCount  int       `json:"attendee_count"`
	SeatsAvailable int       `json:"seats_available"`
	Attendees      []string  `json:"attendees,omitempty"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}

// ToView converts an event to its API representation.
// The attendees roster is included only when includeAttendees is true.
func (e *Event) ToView(includeAttendees bool) *EventView {
	view := &EventView{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Category:       e.Category,
		Location:       e.Location,
		ImageURL:       e.ImageURL,
		StartsAt:       e.StartsAt,
		Organizer:      e.Organizer,
		SeatsTotal:     e.SeatsTotal,
		AttendeeCount:  e.AttendeeCount(),
		SeatsAvailable: e.SeatsAvailable(),
		CreatedOn:      e.CreatedOn,
		UpdatedOn:      e.UpdatedOn,
	}
	if includeAttendees {
		view.Attendees = e.Attendees
	}
	return view
}

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	StartsAt    string  `json:"starts_at"` // RFC3339 datetime
	SeatsTotal  *int    `json:"seats_total,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateEventRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Title == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	} else if len(r.Title) > MaxEventTitleLength {
		errors = append(errors, FieldError{Field: "title", Message: "title must be 200 characters or less"})
	}
	if r.Description != nil && len(*r.Description) > MaxEventDescriptionLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}
	if r.Category != nil && len(*r.Category) > MaxEventCategoryLength {
		errors = append(errors, FieldError{Field: "category", Message: "category must be 50 characters or less"})
	}
	if r.Location != nil && len(*r.Location) > MaxEventLocationLength {
		errors = append(errors, FieldError{Field: "location", Message: "location must be 200 characters or less"})
	}
	if r.StartsAt == "" {
		errors = append(errors, FieldError{Field: "starts_at", Message: "starts_at is required"})
	} else if _, err := time.Parse(time.RFC3339, r.StartsAt); err != nil {
		errors = append(errors, FieldError{Field: "starts_at", Message: "starts_at must be an RFC3339 datetime"})
	}
	if r.SeatsTotal != nil && *r.SeatsTotal < 1 {
		errors = append(errors, FieldError{Field: "seats_total", Message: "seats_total must be at least 1"})
	}

	return errors
}

// UpdateEventRequest represents a request to update an event.
// Organizer and attendees are not writable through updates.
type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	StartsAt    *string `json:"starts_at,omitempty"`
	SeatsTotal  *int    `json:"seats_total,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateEventRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Title != nil {
		if *r.Title == "" {
			errors = append(errors, FieldError{Field: "title", Message: "title cannot be empty"})
		} else if len(*r.Title) > MaxEventTitleLength {
			errors = append(errors, FieldError{Field: "title", Message: "title must be 200 characters or less"})
		}
	}
	if r.Description != nil && len(*r.Description) > MaxEventDescriptionLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}
	if r.Category != nil && len(*r.Category) > MaxEventCategoryLength {
		errors = append(errors, FieldError{Field: "category", Message: "category must be 50 characters or less"})
	}
	if r.Location != nil && len(*r.Location) > MaxEventLocationLength {
		errors = append(errors, FieldError{Field: "location", Message: "location must be 200 characters or less"})
	}
	if r.StartsAt != nil {
		if _, err := time.Parse(time.RFC3339, *r.StartsAt); err != nil {
			errors = append(errors, FieldError{Field: "starts_at", Message: "starts_at must be an RFC3339 datetime"})
		}
	}
	if r.SeatsTotal != nil && *r.SeatsTotal < 1 {
		errors = append(errors, FieldError{Field: "seats_total", Message: "seats_total must be at least 1"})
	}

	return errors
}

// EventFilter narrows event listings
type EventFilter struct {
	Category  *string
	Organizer *string
	From      *time.Time
	To        *time.Time
}
