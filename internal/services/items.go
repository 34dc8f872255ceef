package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shelfmark/shelfmark/internal/models"
	"gorm.io/gorm"
)

// AddItem adds a reference to a collection. The cheap capacity pre-check
// short-circuits before any transaction opens; the authoritative check
// recounts under the collection row lock so concurrent adds can never push
// the collection past MaxCollectionItems.
func AddItem(db *gorm.DB, userID string, collectionID uint64, refID, note string, metadata models.JSON) (*models.Item, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateCollectionID(collectionID); err != nil {
		return nil, err
	}
	if err := validateRefID(refID); err != nil {
		return nil, err
	}
	note, err := validateNote(note)
	if err != nil {
		return nil, err
	}

	ok, err := CanAddItem(db, collectionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCapacityExceeded
	}

	var item models.Item
	err = db.Transaction(func(tx *gorm.DB) error {
		coll, err := lockCollection(tx, userID, collectionID)
		if err != nil {
			return err
		}

		count, err := countItems(tx, coll.CollectionID)
		if err != nil {
			return err
		}
		if count >= MaxCollectionItems {
			return ErrCapacityExceeded
		}

		item = models.Item{
			CollectionID: coll.CollectionID,
			RefID:        refID,
			Note:         note,
			Metadata:     metadata,
		}
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("creating item %q: %w", refID, err)
		}

		return touchCollection(tx, coll.CollectionID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes a reference from a collection and bumps the collection's
// last-modified timestamp.
func RemoveItem(db *gorm.DB, userID string, collectionID uint64, refID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := validateCollectionID(collectionID); err != nil {
		return err
	}
	if err := validateRefID(refID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		coll, err := lockCollection(tx, userID, collectionID)
		if err != nil {
			return err
		}

		result := tx.Where("collection_id = ? AND ref_id = ?", coll.CollectionID, refID).
			Delete(&models.Item{})
		if result.Error != nil {
			return fmt.Errorf("deleting item %q: %w", refID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return touchCollection(tx, coll.CollectionID, time.Now().UTC())
	})
}
