package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// TrackStore reads original audio files from object storage. Objects are
// keyed by the track's external id.
type TrackStore struct {
	client *minio.Client
	bucket string
}

// NewTrackStore creates a TrackStore over the given bucket.
func NewTrackStore(client *minio.Client, bucket string) *TrackStore {
	return &TrackStore{client: client, bucket: bucket}
}

// TrackObjectKey builds the object key for a track's audio file.
func TrackObjectKey(trackExternalID uuid.UUID) string {
	return fmt.Sprintf("audio/%s.mp3", trackExternalID)
}

// FetchTrackBytes reads the byte range [offset, offset+length) of the
// track's audio object.
func (s *TrackStore) FetchTrackBytes(ctx context.Context, trackExternalID uuid.UUID, offset, length int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	if length > 0 {
		if err := opts.SetRange(offset, offset+length-1); err != nil {
			return nil, fmt.Errorf("invalid byte range for track %s: %w", trackExternalID, err)
		}
	}

	object, err := s.client.GetObject(ctx, s.bucket, TrackObjectKey(trackExternalID), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio object for track %s: %w", trackExternalID, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio object for track %s: %w", trackExternalID, err)
	}
	return data, nil
}
