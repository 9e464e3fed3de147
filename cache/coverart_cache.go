package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Cover thumbnails are small and immutable for a given release, so a short
// redis TTL keeps repeat browses off object storage.
const coverArtTTL = 6 * time.Hour

// coverArtKey builds the redis key for one thumbnail size of one release.
func coverArtKey(releaseExternalID uuid.UUID, width, height int) string {
	return fmt.Sprintf("coverart:%s:%dx%d", releaseExternalID, width, height)
}

// GetCoverArt returns cached thumbnail bytes, or (nil, nil) on a miss.
func GetCoverArt(ctx context.Context, releaseExternalID uuid.UUID, width, height int) ([]byte, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	data, err := RedisClient.Get(ctx, coverArtKey(releaseExternalID, width, height)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cover art from cache: %w", err)
	}
	return data, nil
}

// SetCoverArt stores thumbnail bytes under a TTL.
func SetCoverArt(ctx context.Context, releaseExternalID uuid.UUID, width, height int, data []byte) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	err := RedisClient.Set(ctx, coverArtKey(releaseExternalID, width, height), data, coverArtTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache cover art: %w", err)
	}
	return nil
}
