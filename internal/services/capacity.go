package services

import (
	"gorm.io/gorm"
)

// MaxCollectionItems is the hard ceiling on items in a single collection.
const MaxCollectionItems = 5

// CanAddItem reports whether a collection has room for another item.
//
// This is a pre-check for fast user feedback: it narrows the race window but
// does not close it. The authoritative check recounts inside the insert
// transaction while the collection row lock is held, so two concurrent adds
// that both pass here cannot jointly exceed the ceiling.
func CanAddItem(db *gorm.DB, collectionID uint64) (bool, error) {
	count, err := countItems(db, collectionID)
	if err != nil {
		return false, err
	}
	return count < MaxCollectionItems, nil
}
