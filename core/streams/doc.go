// Package streams holds the stream database: every known candidate source
// grouped by logical channel.
//
// The database is a single JSON file mapping a normalized channel key to the
// list of candidates believed to carry that channel:
//
//	{
//	  "bbc_one": [
//	    {"url": "http://a/1.ts", "name": "BBC One", "category": "UK", "added_at": "2024-05-01T10:00:00Z"}
//	  ]
//	}
//
// Key order in the file is preserved, so iterating a loaded Database always
// yields the same group order for the same file.
//
// Load never fails: a missing or corrupt file degrades to an empty database and
// the reason is reported through LoadResult. The ingestion side merges new
// candidates with Add, which refuses a URL the group already holds.
package streams
