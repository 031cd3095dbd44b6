// Package service implements the business logic layer for the Attendly API.
//
// Services sit between HTTP handlers and repositories. Each service owns one
// domain concern:
//
//   - AuthService: registration, login, session lifecycle
//   - TokenService: JWT access tokens and single-use refresh tokens
//   - EventService: event CRUD for organizers and public reads
//   - ReservationService: seat booking against a versioned roster
//   - Hub: post-commit fact publication to SSE subscribers
//
// # Repository Interfaces
//
// Services define the repository interfaces they depend on. The repository
// package implements them against SurrealDB; tests substitute in-memory
// fakes. The dependency always points from repository to service, never the
// other way.
//
// # Optimistic Commits
//
// Roster and capacity writes go through version-conditioned commits. The
// service reads an event, decides against that snapshot, and asks the
// repository to commit against the version it read. A lost race surfaces as
// database.ErrVersionConflict; the service re-reads and retries a bounded
// number of times before giving up with ErrContention. Business rejections
// (already reserved, fully booked) are decided per attempt and never retried.
//
// # Facts
//
// After a commit lands, services publish facts through the Hub so connected
// clients observe the change. Facts describe committed state only; a failed
// commit publishes nothing.
package service
