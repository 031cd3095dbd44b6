package service

import (
	"context"
	"errors"
	"time"

	"github.com/attendly/api/internal/database"
	"github.com/attendly/api/internal/model"
)

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Get(ctx context.Context, eventID string) (*model.Event, error)
	List(ctx context.Context, filter *model.EventFilter) ([]*model.Event, error)
	CommitRoster(ctx context.Context, eventID string, expectedVersion uint64, attendees []string) (*model.Event, error)
	CommitUpdate(ctx context.Context, eventID string, expectedVersion uint64, updates map[string]interface{}) (*model.Event, error)
	Delete(ctx context.Context, eventID string) error
}

// EventService handles event management operations
type EventService struct {
	eventRepo EventRepository
	hub       *Hub
}

// EventServiceConfig holds configuration for the event service
type EventServiceConfig struct {
	EventRepo EventRepository
	Hub       *Hub
}

// NewEventService creates a new event service
func NewEventService(cfg EventServiceConfig) *EventService {
	return &EventService{
		eventRepo: cfg.EventRepo,
		hub:       cfg.Hub,
	}
}

// CreateEvent creates a new event with an empty roster. The caller becomes
// the organizer. Admin only.
func (s *EventService) CreateEvent(ctx context.Context, identity model.Identity, req model.CreateEventRequest) (*model.Event, error) {
	if identity.IsGuest() {
		return nil, ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return nil, ErrAdminRequired
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, err
	}

	seatsTotal := model.DefaultSeatsTotal
	if req.SeatsTotal != nil {
		seatsTotal = *req.SeatsTotal
	}

	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		StartsAt:    startsAt,
		Organizer:   identity.UserID,
		SeatsTotal:  seatsTotal,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.hub.Publish(&Fact{
		Type:    FactEventCreated,
		Data:    event.ToView(false),
		Channel: ChannelFirehose,
	})

	return event, nil
}

// GetEvent retrieves a single event
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	event, err := s.eventRepo.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents retrieves events matching the filter, soonest first
func (s *EventService) ListEvents(ctx context.Context, filter *model.EventFilter) ([]*model.Event, error) {
	return s.eventRepo.List(ctx, filter)
}

// UpdateEvent applies a partial update to an event. Admin only.
//
// Capacity changes go through the same version-conditioned commit as roster
// writes, so a shrink races cleanly against concurrent reservations: the
// roster the guard was checked against is the roster the commit lands on.
func (s *EventService) UpdateEvent(ctx context.Context, identity model.Identity, eventID string, req model.UpdateEventRequest) (*model.Event, error) {
	if identity.IsGuest() {
		return nil, ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return nil, ErrAdminRequired
	}

	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		event, err := s.eventRepo.Get(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, ErrEventNotFound
		}

		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if req.Location != nil {
			updates["location"] = *req.Location
		}
		if req.ImageURL != nil {
			updates["image_url"] = *req.ImageURL
		}
		if req.StartsAt != nil {
			startsAt, err := time.Parse(time.RFC3339, *req.StartsAt)
			if err != nil {
				return nil, err
			}
			updates["starts_at"] = startsAt.Format(time.RFC3339)
		}

		seatsChanged := false
		if req.SeatsTotal != nil {
			if *req.SeatsTotal < event.AttendeeCount() {
				return nil, &InvalidCapacityError{
					SeatsTotal:    *req.SeatsTotal,
					AttendeeCount: event.AttendeeCount(),
				}
			}
			seatsChanged = *req.SeatsTotal != event.SeatsTotal
			updates["seats_total"] = *req.SeatsTotal
		}

		if len(updates) == 0 {
			return event, nil
		}

		updated, err := s.eventRepo.CommitUpdate(ctx, eventID, event.Version, updates)
		if errors.Is(err, database.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.hub.Publish(&Fact{
			Type:    FactEventUpdated,
			Data:    updated.ToView(false),
			Channel: ChannelFirehose,
		})
		s.hub.Publish(&Fact{
			Type:    FactEventUpdated,
			Data:    updated.ToView(false),
			Channel: EventChannel(updated.ID),
		})
		if seatsChanged {
			publishSeatFact(s.hub, updated)
		}

		return updated, nil
	}

	return nil, ErrContention
}

// DeleteEvent removes an event and its roster. Admin only.
func (s *EventService) DeleteEvent(ctx context.Context, identity model.Identity, eventID string) error {
	if identity.IsGuest() {
		return ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return ErrAdminRequired
	}

	event, err := s.eventRepo.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	data := map[string]string{"event_id": eventID}
	s.hub.Publish(&Fact{Type: FactEventDeleted, Data: data, Channel: ChannelFirehose})
	s.hub.Publish(&Fact{Type: FactEventDeleted, Data: data, Channel: EventChannel(eventID)})

	return nil
}
