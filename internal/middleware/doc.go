// Package middleware provides HTTP middleware for the Attendly API.
//
// The middleware package contains reusable middleware components for
// identity resolution, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Identity: total bearer token resolution with guest fallback
//   - RateLimit: request rate limiting per user/IP
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//
// # Identity Resolution
//
// The identity middleware never rejects a request. A valid token yields the
// authenticated identity; anything else (missing header, malformed token,
// expired or forged signature) yields the guest identity. Handlers and
// services decide what guests may do:
//
//	identity := middleware.GetIdentity(r.Context())
//	if identity.IsGuest() { ... }
//
// # Rate Limiting
//
// Rate limiting protects against abuse. Authenticated callers are keyed by
// user ID so one busy client cannot exhaust an office NAT's budget; guests
// share a per-address bucket.
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetIdentity(ctx): Returns the caller's resolved identity
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
