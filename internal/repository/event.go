package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/api/internal/database"
	"github.com/attendly/api/internal/model"
)

// EventRepository handles event data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event with an empty roster and version zero
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	// Build query dynamically to handle optional fields (SurrealDB option<T> requires NONE, not NULL)
	vars := map[string]interface{}{
		"title":       event.Title,
		"starts_at":   event.StartsAt.Format(time.RFC3339),
		"organizer":   event.Organizer,
		"seats_total": event.SeatsTotal,
	}

	setClause := `
		title = $title,
		starts_at = <datetime>$starts_at,
		organizer = $organizer,
		seats_total = $seats_total,
		attendees = [],
		version = 0,
		created_on = time::now(),
		updated_on = time::now()`

	if event.Description != nil {
		setClause += ", description = $description"
		vars["description"] = event.Description
	}
	if event.Category != nil {
		setClause += ", category = $category"
		vars["category"] = event.Category
	}
	if event.Location != nil {
		setClause += ", location = $location"
		vars["location"] = event.Location
	}
	if event.ImageURL != nil {
		setClause += ", image_url = $image_url"
		vars["image_url"] = event.ImageURL
	}

	query := "CREATE event SET " + setClause

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	event.ID = created.ID
	event.Version = 0
	event.Attendees = []string{}
	event.CreatedOn = created.CreatedOn
	event.UpdatedOn = created.UpdatedOn
	return nil
}

// Get retrieves an event by ID. Returns (nil, nil) when the event does not exist.
func (r *EventRepository) Get(ctx context.Context, eventID string) (*model.Event, error) {
	// Direct record access - more efficient than WHERE id =
	query := `SELECT * FROM type::record($event_id)`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	event, err := parseEventResult(result)
	if err != nil {
		if errors.Is(err, errNoRecord) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// List retrieves events matching the filter, soonest first
func (r *EventRepository) List(ctx context.Context, filter *model.EventFilter) ([]*model.Event, error) {
	query := `SELECT * FROM event`
	vars := map[string]interface{}{}
	where := ""

	appendCond := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	if filter != nil {
		if filter.Category != nil {
			appendCond("category = $category")
			vars["category"] = *filter.Category
		}
		if filter.Organizer != nil {
			appendCond("organizer = $organizer")
			vars["organizer"] = *filter.Organizer
		}
		if filter.From != nil {
			appendCond("starts_at >= <datetime>$from")
			vars["from"] = filter.From.Format(time.RFC3339)
		}
		if filter.To != nil {
			appendCond("starts_at <= <datetime>$to")
			vars["to"] = filter.To.Format(time.RFC3339)
		}
	}

	query += where + ` ORDER BY starts_at ASC`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEventsResult(result)
}

// CommitRoster replaces the attendees roster if and only if the record still
// carries expectedVersion. A write that matches no rows lost the race and
// returns database.ErrVersionConflict.
func (r *EventRepository) CommitRoster(ctx context.Context, eventID string, expectedVersion uint64, attendees []string) (*model.Event, error) {
	query := `
		UPDATE event SET
			attendees = $attendees,
			version += 1,
			updated_on = time::now()
		WHERE id = type::record($event_id) AND version = $expected_version
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"event_id":         eventID,
		"expected_version": expectedVersion,
		"attendees":        attendees,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, database.ErrVersionConflict
		}
		return nil, err
	}

	event, err := parseEventResult(result)
	if err != nil {
		if errors.Is(err, errNoRecord) {
			return nil, database.ErrVersionConflict
		}
		return nil, err
	}
	return event, nil
}

// CommitUpdate applies field updates (descriptive fields, seats_total) through
// the same version-conditioned path as roster commits.
func (r *EventRepository) CommitUpdate(ctx context.Context, eventID string, expectedVersion uint64, updates map[string]interface{}) (*model.Event, error) {
	query := `UPDATE event SET version += 1, updated_on = time::now()`
	vars := map[string]interface{}{
		"event_id":         eventID,
		"expected_version": expectedVersion,
	}

	for key, value := range updates {
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` WHERE id = type::record($event_id) AND version = $expected_version RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, database.ErrVersionConflict
		}
		return nil, err
	}

	event, err := parseEventResult(result)
	if err != nil {
		if errors.Is(err, errNoRecord) {
			return nil, database.ErrVersionConflict
		}
		return nil, err
	}
	return event, nil
}

// Delete deletes an event
func (r *EventRepository) Delete(ctx context.Context, eventID string) error {
	query := `DELETE event WHERE id = type::record($event_id)`
	vars := map[string]interface{}{"event_id": eventID}

	return r.db.Execute(ctx, query, vars)
}

// Parsing

func parseEventResult(result interface{}) (*model.Event, error) {
	data, err := unwrapSingleRecord(result)
	if err != nil {
		return nil, err
	}
	return eventFromRecord(data)
}

func parseEventsResult(result []interface{}) ([]*model.Event, error) {
	records, err := unwrapRecordList(result)
	if err != nil {
		return nil, err
	}

	events := make([]*model.Event, 0, len(records))
	for _, data := range records {
		event, err := eventFromRecord(data)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func eventFromRecord(data map[string]interface{}) (*model.Event, error) {
	var event model.Event
	if err := decodeRecord(data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event record: %w", err)
	}
	if event.Attendees == nil {
		event.Attendees = []string{}
	}
	return &event, nil
}
