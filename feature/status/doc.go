// Package status exposes a running guardian session over HTTP.
//
// # HTTP Endpoints
//
//   - GET /health : liveness of the process, always public.
//   - GET /status : the latest session state (ticks, publishes, last tick report).
//   - GET /playlist.m3u : the persisted playlist document.
//   - GET /playlist/entries : the persisted playlist as JSON entries.
//
// The scheduler feeds the Tracker through its OnTick hook; handlers only ever
// read snapshots.
package status
