// Package handler provides HTTP request handlers for the Attendly API.
//
// The handler package contains all HTTP endpoint implementations organized by
// domain. Each handler struct encapsulates the service dependencies needed to
// serve requests for a feature area (auth, events, reservations, streaming).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the services it needs
//   - Handlers depend on small service interfaces so tests can substitute mocks
//   - Response helpers from response.go standardize output format
//   - Service errors are mapped to RFC 9457 Problem Details by MapServiceError
//
// # Identity
//
// Handlers never inspect the Authorization header themselves. The identity
// middleware resolves every request to an identity (guest at worst) and
// handlers read it with middleware.GetIdentity. Services make the actual
// authorization decisions.
//
// # Example Usage
//
//	handler := NewEventHandler(eventService, reservationService)
//	mux.HandleFunc("GET /v1/events", handler.List)
//	mux.HandleFunc("POST /v1/events/{eventId}/book", handler.Reserve)
package handler
