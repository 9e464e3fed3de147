package model

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is an ordered list of tracks.
type Playlist struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ExternalID uuid.UUID `json:"externalId" gorm:"column:external_id;type:char(36)"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Playlist) TableName() string { return "playlists" }

// PlaylistTrack links a track into a playlist at a list position.
type PlaylistTrack struct {
	PlaylistID int64 `gorm:"column:playlist_id;primaryKey"`
	TrackID    int64 `gorm:"column:track_id;primaryKey"`
	ListNumber int   `gorm:"column:list_number"`
}

func (PlaylistTrack) TableName() string { return "playlist_tracks" }

// Play is one recorded playback of a track.
type Play struct {
	ID       int64     `json:"id" gorm:"primaryKey"`
	TrackID  int64     `json:"trackId" gorm:"column:track_id"`
	PlayedAt time.Time `json:"playedAt" gorm:"column:played_at"`
}

func (Play) TableName() string { return "plays" }
