// Package model defines domain entities and data structures for the Attendly API.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
//   - User: Application user with authentication credentials and role
//   - Event: A scheduled gathering with a finite seat count, an immutable
//     organizer and a roster of attendee user ids guarded by a version field
//   - Identity: The caller identity resolved from a bearer token (or guest)
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Event struct {
//	    ID    string `json:"id"`
//	    Title string `json:"title"`
//	}
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type   string `json:"type"`
//	    Title  string `json:"title"`
//	    Status int    `json:"status"`
//	    Detail string `json:"detail"`
//	}
package model
