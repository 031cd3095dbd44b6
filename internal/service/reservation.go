package service

import (
	"context"
	"errors"

	"github.com/attendly/api/internal/database"
	"github.com/attendly/api/internal/model"
)

// maxCommitAttempts bounds the read-decide-commit retry loop. Exhausting it
// means the event is under heavy write contention; callers receive
// ErrContention and may simply try again.
const maxCommitAttempts = 5

// ReservationService books and releases seats against an event's roster.
//
// Every mutation follows the same shape: read the event, decide against that
// snapshot, commit conditioned on the version that was read. A commit that
// loses the race re-reads and decides again, so business rules are always
// enforced against the roster the write actually lands on.
type ReservationService struct {
	eventRepo EventRepository
	hub       *Hub
}

// ReservationServiceConfig holds configuration for the reservation service
type ReservationServiceConfig struct {
	EventRepo EventRepository
	Hub       *Hub
}

// NewReservationService creates a new reservation service
func NewReservationService(cfg ReservationServiceConfig) *ReservationService {
	return &ReservationService{
		eventRepo: cfg.EventRepo,
		hub:       cfg.Hub,
	}
}

// Reserve books a seat for the caller. Guests cannot reserve. A user holds
// at most one seat per event, and the roster never exceeds seats_total.
func (s *ReservationService) Reserve(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
	if identity.IsGuest() {
		return nil, ErrNotAuthenticated
	}

	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		event, err := s.eventRepo.Get(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, ErrEventNotFound
		}

		if event.HasAttendee(identity.UserID) {
			return nil, ErrAlreadyReserved
		}
		if event.AttendeeCount() >= event.SeatsTotal {
			return nil, ErrCapacityExceeded
		}

		roster := make([]string, 0, len(event.Attendees)+1)
		roster = append(roster, event.Attendees...)
		roster = append(roster, identity.UserID)

		updated, err := s.eventRepo.CommitRoster(ctx, eventID, event.Version, roster)
		if errors.Is(err, database.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		publishSeatFact(s.hub, updated)
		summary := model.SeatSummaryOf(updated)
		return &summary, nil
	}

	return nil, ErrContention
}

// Release gives up the caller's seat. Releasing a seat the caller does not
// hold succeeds without changing anything; no fact is published for it.
func (s *ReservationService) Release(ctx context.Context, eventID string, identity model.Identity) (*model.SeatSummary, error) {
	if identity.IsGuest() {
		return nil, ErrNotAuthenticated
	}
	return s.removeAttendee(ctx, eventID, identity.UserID)
}

// EvictAttendee removes another user's seat. Admin only. Evicting a user
// who holds no seat is a no-op success.
func (s *ReservationService) EvictAttendee(ctx context.Context, eventID, attendeeID string, identity model.Identity) (*model.SeatSummary, error) {
	if identity.IsGuest() {
		return nil, ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return s.removeAttendee(ctx, eventID, attendeeID)
}

// removeAttendee drops userID from the roster through a conditioned commit
func (s *ReservationService) removeAttendee(ctx context.Context, eventID, userID string) (*model.SeatSummary, error) {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		event, err := s.eventRepo.Get(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, ErrEventNotFound
		}

		if !event.HasAttendee(userID) {
			summary := model.SeatSummaryOf(event)
			return &summary, nil
		}

		roster := make([]string, 0, len(event.Attendees)-1)
		for _, id := range event.Attendees {
			if id != userID {
				roster = append(roster, id)
			}
		}

		updated, err := s.eventRepo.CommitRoster(ctx, eventID, event.Version, roster)
		if errors.Is(err, database.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		publishSeatFact(s.hub, updated)
		summary := model.SeatSummaryOf(updated)
		return &summary, nil
	}

	return nil, ErrContention
}

// publishSeatFact announces a committed seat change on the per-event channel
// and mirrors it onto the firehose
func publishSeatFact(hub *Hub, event *model.Event) {
	summary := model.SeatSummaryOf(event)
	hub.Publish(&Fact{Type: FactSeatUpdated, Data: summary, Channel: EventChannel(event.ID)})
	hub.Publish(&Fact{Type: FactSeatUpdated, Data: summary, Channel: ChannelFirehose})
}
