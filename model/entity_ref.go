package model

import (
	"time"
	"unicode"

	"github.com/google/uuid"
)

// EntityRef is a lightweight read model referencing one library row. It
// carries just enough to render a folder entry and to regroup large flat
// lists into letter buckets.
type EntityRef struct {
	DatabaseID  int64     `json:"databaseId"`
	ExternalID  uuid.UUID `json:"externalId"`
	DisplayName string    `json:"displayName"`
	SortKey     string    `json:"sortKey"`
	GroupKey    string    `json:"groupKey"`
}

// TrackInfo is a denormalized track row with every display field joined in,
// so a browse response never needs a second round trip per track.
type TrackInfo struct {
	TrackID           int64
	ReleaseID         int64
	ExternalID        uuid.UUID
	ReleaseExternalID uuid.UUID
	Title             string
	ArtistName        string // release artist
	TrackArtist       string // per-track override, empty = release artist
	ReleaseTitle      string
	MediaNumber       int
	TrackNumber       int
	ReleaseYear       int
	Duration          float64 // seconds
	Genres            string  // joined genre names
	Rating            int
	PartTitles        string
	FileSize          int64
	UpdatedAt         time.Time
	ListNumber        int // position within a playlist/collection context, 0 otherwise
}

// GroupKeyFor buckets a sort name into its browse group: the uppercased
// first letter, or "#" for names that do not start with a letter.
func GroupKeyFor(sortName string) string {
	for _, r := range sortName {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r))
		}
		return "#"
	}
	return "#"
}

// Ref derives the EntityRef for an artist.
func (a *Artist) Ref() EntityRef {
	return EntityRef{
		DatabaseID:  a.ID,
		ExternalID:  a.ExternalID,
		DisplayName: a.Name,
		SortKey:     a.SortName,
		GroupKey:    GroupKeyFor(a.SortName),
	}
}

// Ref derives the EntityRef for a release.
func (r *Release) Ref() EntityRef {
	return EntityRef{
		DatabaseID:  r.ID,
		ExternalID:  r.ExternalID,
		DisplayName: r.Title,
		SortKey:     r.SortTitle,
		GroupKey:    GroupKeyFor(r.SortTitle),
	}
}

// Ref derives the EntityRef for a collection.
func (c *Collection) Ref() EntityRef {
	return EntityRef{
		DatabaseID:  c.ID,
		ExternalID:  c.ExternalID,
		DisplayName: c.Name,
		SortKey:     c.SortName,
		GroupKey:    GroupKeyFor(c.SortName),
	}
}

// Ref derives the EntityRef for a playlist.
func (p *Playlist) Ref() EntityRef {
	return EntityRef{
		DatabaseID:  p.ID,
		ExternalID:  p.ExternalID,
		DisplayName: p.Name,
		SortKey:     p.Name,
		GroupKey:    GroupKeyFor(p.Name),
	}
}
