package publish

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"m3u-guardian/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// PlaylistContentType is the MIME type stored with uploaded playlists.
const PlaylistContentType = "audio/x-mpegurl"

// S3 uploads the playlist to an object storage bucket.
type S3 struct {
	client storage.Client
	bucket string
	object string
	logger *zap.Logger

	mu          sync.Mutex
	bucketReady bool
}

// NewS3 creates an object storage publisher.
func NewS3(client storage.Client, bucket, object string, logger *zap.Logger) *S3 {
	if object == "" {
		object = "master.m3u"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3{client: client, bucket: bucket, object: object, logger: logger}
}

// Publish uploads content, creating the bucket on first use when missing.
func (s *S3) Publish(ctx context.Context, content []byte, summary string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	info, err := s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType:  PlaylistContentType,
		UserMetadata: map[string]string{"summary": summary},
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", s.bucket, s.object, err)
	}

	s.logger.Info("Uploaded playlist",
		zap.String("bucket", s.bucket),
		zap.String("object", s.object),
		zap.Int64("size", info.Size),
	)
	return nil
}

func (s *S3) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketReady {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
		s.logger.Info("Created bucket", zap.String("bucket", s.bucket))
	}
	s.bucketReady = true
	return nil
}
