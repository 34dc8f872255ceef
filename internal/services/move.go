package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shelfmark/shelfmark/internal/models"
	"gorm.io/gorm"
)

// MovedItem is the result of a completed move: the item as it now exists in
// the target collection, plus the names of both collections involved.
type MovedItem struct {
	Item       models.Item `json:"item"`
	SourceName string      `json:"sourceCollection"`
	TargetName string      `json:"targetCollection"`
}

// MoveItem transfers one item between two collections of the same owner,
// all-or-nothing. On any failure the transaction rolls back: the source item
// stays where it was and the target is untouched.
//
// Both collection rows are locked in ascending-id order before anything is
// read, so two concurrent moves over the same pair in opposite directions
// serialize instead of deadlocking. The target count and the duplicate check
// happen after the locks are held; counts taken earlier are stale.
//
// The operation is not idempotent by reference id: repeating a successful
// move fails with ErrNotFound because the item is no longer in the source.
func MoveItem(db *gorm.DB, userID, refID string, sourceID, targetID uint64) (*MovedItem, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateRefID(refID); err != nil {
		return nil, err
	}
	if err := validateCollectionID(sourceID); err != nil {
		return nil, err
	}
	if err := validateCollectionID(targetID); err != nil {
		return nil, err
	}
	if sourceID == targetID {
		return nil, fmt.Errorf("%w: source and target collections are the same", ErrValidation)
	}

	var moved MovedItem
	err := db.Transaction(func(tx *gorm.DB) error {
		firstID, secondID := sourceID, targetID
		if targetID < sourceID {
			firstID, secondID = targetID, sourceID
		}

		locked := make(map[uint64]*models.Collection, 2)
		for _, id := range [2]uint64{firstID, secondID} {
			coll, err := lockCollection(tx, userID, id)
			if err != nil {
				return err
			}
			locked[id] = coll
		}
		source := locked[sourceID]
		target := locked[targetID]

		var item models.Item
		err := lockForUpdate(tx).
			Where("collection_id = ? AND ref_id = ?", source.CollectionID, refID).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("locking item %q: %w", refID, err)
		}

		count, err := countItems(tx, target.CollectionID)
		if err != nil {
			return err
		}
		if count >= MaxCollectionItems {
			return ErrCapacityExceeded
		}

		// Structurally impossible while the source item lock is held, but
		// the transfer is a delete+insert; the recheck converts an invariant
		// breach into an explicit conflict instead of a silent duplicate.
		var dup int64
		err = tx.Model(&models.Item{}).
			Where("collection_id = ? AND ref_id = ?", target.CollectionID, refID).
			Count(&dup).Error
		if err != nil {
			return fmt.Errorf("checking target for %q: %w", refID, err)
		}
		if dup > 0 {
			return ErrConflict
		}

		result := tx.Where("item_id = ? AND collection_id = ?", item.ItemID, source.CollectionID).
			Delete(&models.Item{})
		if result.Error != nil {
			return fmt.Errorf("removing item %q from source: %w", refID, result.Error)
		}
		if result.RowsAffected == 0 {
			// Another actor raced the deletion.
			return ErrNotFound
		}

		// The moved item is logically new in its destination: fresh row,
		// fresh creation timestamp, same reference id and note.
		fresh := models.Item{
			CollectionID: target.CollectionID,
			RefID:        item.RefID,
			Note:         item.Note,
			Metadata:     item.Metadata,
		}
		if err := tx.Create(&fresh).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("inserting item %q into target: %w", refID, err)
		}

		now := time.Now().UTC()
		if err := touchCollection(tx, source.CollectionID, now); err != nil {
			return err
		}
		if err := touchCollection(tx, target.CollectionID, now); err != nil {
			return err
		}

		moved = MovedItem{
			Item:       fresh,
			SourceName: source.Name,
			TargetName: target.Name,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}
