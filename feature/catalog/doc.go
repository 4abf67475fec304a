// Package catalog feeds the stream database from an Xtream Codes panel.
//
// Ingest fetches the live categories and streams from player_api.php, probes
// every stream with the same prober the guardian uses, and merges the healthy
// ones into the database file. Existing candidates are never removed or
// rewritten; a URL already present under its channel key is skipped.
package catalog
