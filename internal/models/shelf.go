package models

import (
	"time"
)

// User is the externally authenticated identity that owns collections.
// Rows are created lazily the first time an owner creates a collection
// and are never updated afterwards.
type User struct {
	UserID      string       `gorm:"primaryKey;size:255" json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	Collections []Collection `gorm:"foreignKey:UserID" json:"-"`
}

// Collection is a named, bounded group of items owned by exactly one user.
// (user_id, name) is unique across all collections.
type Collection struct {
	CollectionID uint64    `gorm:"primaryKey;autoIncrement" json:"collectionId"`
	UserID       string    `gorm:"size:255;not null;index:idx_owner_name,unique" json:"ownerId"`
	Name         string    `gorm:"size:255;not null;index:idx_owner_name,unique" json:"name"`
	Description  string    `gorm:"size:1000" json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Items        []Item    `gorm:"foreignKey:CollectionID" json:"items,omitempty"`
}

// Item is a single curated reference inside a collection.
// (collection_id, ref_id) is unique; an item belongs to exactly one
// collection at any instant and never outlives it.
type Item struct {
	ItemID       uint64    `gorm:"primaryKey;autoIncrement" json:"itemId"`
	CollectionID uint64    `gorm:"not null;index:idx_collection_ref,unique" json:"collectionId"`
	RefID        string    `gorm:"size:255;not null;index:idx_collection_ref,unique" json:"refId"`
	Note         string    `gorm:"size:500" json:"note,omitempty"`
	Metadata     JSON      `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Collection
func (Collection) TableName() string {
	return "collections"
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "items"
}
