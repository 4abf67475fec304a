// Package middleware groups the Fiber middleware of the status server.
//
//   - rayid: tags every request with a ray id (X-Ray-ID) for log correlation.
//   - auth: requires an API key when one is configured.
package middleware
