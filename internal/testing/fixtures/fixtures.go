// Package fixtures provides test data factories for integration testing.
//
// Each factory method creates entities through the repository layer with
// sensible defaults while allowing customization via option functions.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	event := f.CreateEvent(t, user)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/api/internal/database"
	"github.com/attendly/api/internal/model"
	"github.com/attendly/api/internal/repository"
)

// Factory creates test entities in the database
type Factory struct {
	users  *repository.UserRepository
	events *repository.EventRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		users:  repository.NewUserRepository(db),
		events: repository.NewEventRepository(db),
	}
}

// randomID generates a random hex suffix for unique test data
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email    string
	Name     string
	Password string
	Role     model.UserRole
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:    fmt.Sprintf("user_%s@test.local", randomID()),
		Name:     fmt.Sprintf("User %s", randomID()),
		Password: "testpass123",
		Role:     model.UserRoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}
	hash := string(hashed)

	user := &model.User{
		Email: o.Email,
		Name:  o.Name,
		Hash:  &hash,
		Role:  o.Role,
	}

	ctx, cancel := testContext()
	defer cancel()
	if err := f.users.Create(ctx, user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// CreateAdmin creates a user with the admin role
func (f *Factory) CreateAdmin(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()
	all := append([]func(*UserOpts){func(o *UserOpts) { o.Role = model.UserRoleAdmin }}, opts...)
	return f.CreateUser(t, all...)
}

// ============================================================================
// Event Fixtures
// ============================================================================

// EventOpts customizes event creation
type EventOpts struct {
	Title      string
	Category   *string
	StartsAt   time.Time
	SeatsTotal int
	Attendees  []string
}

// CreateEvent creates an event organized by the given user.
// When Attendees are specified they are committed to the roster after
// creation, so the returned event carries version 1.
func (f *Factory) CreateEvent(t *testing.T, organizer *model.User, opts ...func(*EventOpts)) *model.Event {
	t.Helper()

	o := &EventOpts{
		Title:      fmt.Sprintf("Event %s", randomID()),
		StartsAt:   time.Now().Add(24 * time.Hour).UTC(),
		SeatsTotal: 10,
	}
	for _, fn := range opts {
		fn(o)
	}

	event := &model.Event{
		Title:      o.Title,
		Category:   o.Category,
		StartsAt:   o.StartsAt,
		Organizer:  organizer.ID,
		SeatsTotal: o.SeatsTotal,
	}

	ctx, cancel := testContext()
	defer cancel()
	if err := f.events.Create(ctx, event); err != nil {
		t.Fatalf("fixtures: failed to create event: %v", err)
	}

	if len(o.Attendees) > 0 {
		committed, err := f.events.CommitRoster(ctx, event.ID, event.Version, o.Attendees)
		if err != nil {
			t.Fatalf("fixtures: failed to seed roster: %v", err)
		}
		return committed
	}
	return event
}

func testContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
