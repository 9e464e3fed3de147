package model

import (
	"time"

	"github.com/google/uuid"
)

// Release represents an album/release by an artist.
type Release struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	ExternalID  uuid.UUID `json:"externalId" gorm:"column:external_id;type:char(36)"`
	ArtistID    int64     `json:"artistId" gorm:"column:artist_id"`
	Title       string    `json:"title"`
	SortTitle   string    `json:"sortTitle" gorm:"column:sort_title"`
	ReleaseYear int       `json:"releaseYear" gorm:"column:release_year"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Release) TableName() string { return "releases" }

// Genre is a music genre label attached to releases.
type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
}

func (Genre) TableName() string { return "genres" }

// ReleaseGenre links a release to a genre.
type ReleaseGenre struct {
	ReleaseID int64 `gorm:"column:release_id;primaryKey"`
	GenreID   int64 `gorm:"column:genre_id;primaryKey"`
}

func (ReleaseGenre) TableName() string { return "release_genres" }
