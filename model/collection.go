package model

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a curated, ordered set of releases.
type Collection struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ExternalID uuid.UUID `json:"externalId" gorm:"column:external_id;type:char(36)"`
	Name       string    `json:"name"`
	SortName   string    `json:"sortName" gorm:"column:sort_name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Collection) TableName() string { return "collections" }

// CollectionRelease links a release into a collection at a list position.
type CollectionRelease struct {
	CollectionID int64 `gorm:"column:collection_id;primaryKey"`
	ReleaseID    int64 `gorm:"column:release_id;primaryKey"`
	ListNumber   int   `gorm:"column:list_number"`
}

func (CollectionRelease) TableName() string { return "collection_releases" }
