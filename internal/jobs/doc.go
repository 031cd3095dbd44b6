// Package jobs contains background jobs that run alongside the API server.
//
// Each job owns a goroutine with a ticker loop and supports graceful
// shutdown through Stop, which blocks until the loop has exited. Jobs are
// started from main after the services they depend on are wired.
package jobs
