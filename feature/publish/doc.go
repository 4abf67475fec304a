// Package publish distributes a freshly written playlist.
//
// Each publisher implements reconcile.Publisher. The guardian calls it only
// after the new document has reached the local file, so a publisher never has
// to care about change detection.
//
//   - Git commits the playlist file and pushes it.
//   - S3 uploads the content to an object storage bucket.
//   - Multi fans out to several publishers and joins their errors.
package publish
