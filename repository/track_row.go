package repository

import (
	"time"

	"melisma/model"

	"github.com/google/uuid"
)

// trackRow is the scan target for the denormalized track select list.
type trackRow struct {
	TrackID           int64     `gorm:"column:track_id"`
	ExternalID        uuid.UUID `gorm:"column:external_id"`
	ReleaseID         int64     `gorm:"column:release_id"`
	Title             string    `gorm:"column:title"`
	TrackArtist       string    `gorm:"column:track_artist"`
	MediaNumber       int       `gorm:"column:media_number"`
	TrackNumber       int       `gorm:"column:track_number"`
	Duration          float64   `gorm:"column:duration"`
	Rating            int       `gorm:"column:rating"`
	PartTitles        string    `gorm:"column:part_titles"`
	FileSize          int64     `gorm:"column:file_size"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
	ReleaseExternalID uuid.UUID `gorm:"column:release_external_id"`
	ReleaseTitle      string    `gorm:"column:release_title"`
	ReleaseYear       int       `gorm:"column:release_year"`
	ArtistName        string    `gorm:"column:artist_name"`
	Genres            string    `gorm:"column:genres"`
	ListNumber        int       `gorm:"column:list_number"`
}

func (r *trackRow) toInfo() model.TrackInfo {
	return model.TrackInfo{
		TrackID:           r.TrackID,
		ReleaseID:         r.ReleaseID,
		ExternalID:        r.ExternalID,
		ReleaseExternalID: r.ReleaseExternalID,
		Title:             r.Title,
		ArtistName:        r.ArtistName,
		TrackArtist:       r.TrackArtist,
		ReleaseTitle:      r.ReleaseTitle,
		MediaNumber:       r.MediaNumber,
		TrackNumber:       r.TrackNumber,
		ReleaseYear:       r.ReleaseYear,
		Duration:          r.Duration,
		Genres:            r.Genres,
		Rating:            r.Rating,
		PartTitles:        r.PartTitles,
		FileSize:          r.FileSize,
		UpdatedAt:         r.UpdatedAt,
		ListNumber:        r.ListNumber,
	}
}
