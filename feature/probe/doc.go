// Package probe decides whether a stream URL is currently reachable.
//
// A probe is a single HEAD request carrying a media-player User-Agent. Hosts
// that refuse HEAD with 403 get one ranged GET for the first kilobyte. There
// are no retries; a candidate that fails is simply dead for this tick.
//
// # Classification
//
//   - HEAD 200, 206, 301, 302: alive
//   - HEAD 403, then GET 200 or 206: alive
//   - anything else, including timeouts and malformed URLs: dead
package probe
