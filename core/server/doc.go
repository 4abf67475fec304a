// Package server holds the configuration of the optional status server.
//
// A guardian session normally runs headless inside a CI job. Setting a port
// starts a small Fiber app next to the scheduler that reports the session
// state and serves the current playlist; see feature/status.
package server
