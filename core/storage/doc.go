// Package storage connects to S3-compatible object storage (AWS S3, MinIO)
// through the MinIO Go client.
//
// Client is deliberately small: the playlist publisher only checks the bucket,
// creates it once when missing and uploads one object. A testify mock lives in
// core/storage/mocks.
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
