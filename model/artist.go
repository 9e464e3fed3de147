package model

import (
	"time"

	"github.com/google/uuid"
)

// Artist represents a performing artist in the music library.
type Artist struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ExternalID uuid.UUID `json:"externalId" gorm:"column:external_id;type:char(36)"`
	Name       string    `json:"name"`
	SortName   string    `json:"sortName" gorm:"column:sort_name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Artist) TableName() string { return "artists" }
