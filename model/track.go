package model

import (
	"time"

	"github.com/google/uuid"
)

// Track represents an audio track in the music library.
type Track struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	ExternalID  uuid.UUID `json:"externalId" gorm:"column:external_id;type:char(36)"`
	ReleaseID   int64     `json:"releaseId" gorm:"column:release_id"`
	Title       string    `json:"title"`
	TrackArtist string    `json:"trackArtist" gorm:"column:track_artist"` // per-track artist override, empty = release artist
	MediaNumber int       `json:"mediaNumber" gorm:"column:media_number"` // disc number within a multi-media release
	TrackNumber int       `json:"trackNumber" gorm:"column:track_number"`
	Duration    float64   `json:"duration" gorm:"column:duration_secs"` // seconds
	Rating      int       `json:"rating"`                               // 0 = unrated
	PartTitles  string    `json:"partTitles" gorm:"column:part_titles"` // free-text movement/part names
	FileSize    int64     `json:"-" gorm:"column:file_size"`            // bytes in object storage
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Track) TableName() string { return "tracks" }
