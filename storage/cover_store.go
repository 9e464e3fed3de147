package storage

import (
	"context"
	"fmt"
	"io"

	"melisma/cache"
	"melisma/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// CoverStore reads pre-rendered cover thumbnails from object storage,
// with a redis byte cache in front.
type CoverStore struct {
	client *minio.Client
	bucket string
}

// NewCoverStore creates a CoverStore over the given bucket.
func NewCoverStore(client *minio.Client, bucket string) *CoverStore {
	return &CoverStore{client: client, bucket: bucket}
}

// CoverObjectKey builds the object key for one thumbnail size of a release.
func CoverObjectKey(releaseExternalID uuid.UUID, width, height int) string {
	return fmt.Sprintf("covers/%s_%dx%d.jpg", releaseExternalID, width, height)
}

// FetchCoverArt returns thumbnail bytes for a release, or (nil, nil) when no
// cover exists. A missing cover is not an error.
func (s *CoverStore) FetchCoverArt(ctx context.Context, releaseExternalID uuid.UUID, width, height int) ([]byte, error) {
	if data, err := cache.GetCoverArt(ctx, releaseExternalID, width, height); err == nil && data != nil {
		return data, nil
	}

	object, err := s.client.GetObject(ctx, s.bucket, CoverObjectKey(releaseExternalID, width, height), minio.GetObjectOptions{})
	if err != nil {
		return nil, nil
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		// NoSuchKey surfaces here on first read.
		return nil, nil
	}

	if err := cache.SetCoverArt(ctx, releaseExternalID, width, height, data); err != nil {
		logger.Warn("Failed to cache cover art", logger.ErrorField(err))
	}
	return data, nil
}
