package repository

import (
	"context"
	"fmt"
	"time"

	"melisma/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayRepository persists playback history.
type PlayRepository interface {
	InsertPlayByExternalID(ctx context.Context, trackExternalID uuid.UUID, playedAt time.Time) error
}

type mysqlPlayRepository struct {
	db *gorm.DB
}

// NewPlayRepository creates a PlayRepository over the given handle.
func NewPlayRepository(db *gorm.DB) PlayRepository {
	return &mysqlPlayRepository{db: db}
}

// InsertPlayByExternalID resolves the track's database id and records one play.
func (r *mysqlPlayRepository) InsertPlayByExternalID(ctx context.Context, trackExternalID uuid.UUID, playedAt time.Time) error {
	var track model.Track
	err := r.db.WithContext(ctx).
		Where("external_id = ?", trackExternalID.String()).
		First(&track).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("no track with external id %s", trackExternalID)
		}
		return fmt.Errorf("failed to resolve track %s: %w", trackExternalID, err)
	}

	play := model.Play{TrackID: track.ID, PlayedAt: playedAt}
	if err := r.db.WithContext(ctx).Create(&play).Error; err != nil {
		return fmt.Errorf("failed to insert play for track %d: %w", track.ID, err)
	}
	return nil
}
