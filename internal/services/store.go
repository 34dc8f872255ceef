package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shelfmark/shelfmark/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// All service functions take the *gorm.DB they operate on; there is no
// package-level connection. Tests bind the same code paths to an in-memory
// SQLite database.

// lockForUpdate adds a SELECT ... FOR UPDATE clause on dialects that support
// row locks. SQLite has a single-writer model and no FOR UPDATE syntax; its
// database-level write lock covers the same serialization there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockCollection loads a collection row under an exclusive lock, verifying
// ownership in the same query.
func lockCollection(tx *gorm.DB, userID string, collectionID uint64) (*models.Collection, error) {
	var coll models.Collection
	err := lockForUpdate(tx).
		Where("collection_id = ? AND user_id = ?", collectionID, userID).
		First(&coll).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("locking collection %d: %w", collectionID, err)
	}
	return &coll, nil
}

// countItems counts the items currently in a collection.
func countItems(tx *gorm.DB, collectionID uint64) (int64, error) {
	var count int64
	err := tx.Model(&models.Item{}).
		Where("collection_id = ?", collectionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting items in collection %d: %w", collectionID, err)
	}
	return count, nil
}

// touchCollection bumps a collection's last-modified timestamp. Called on
// every item mutation.
func touchCollection(tx *gorm.DB, collectionID uint64, now time.Time) error {
	err := tx.Model(&models.Collection{}).
		Where("collection_id = ?", collectionID).
		UpdateColumn("updated_at", now).Error
	if err != nil {
		return fmt.Errorf("touching collection %d: %w", collectionID, err)
	}
	return nil
}

// ensureUser creates the owner's User row if it does not exist yet. Creating
// an existing user is a no-op, never an error, including when two requests
// race the first creation.
func ensureUser(tx *gorm.DB, userID string) error {
	user := models.User{UserID: userID}
	err := tx.Where("user_id = ?", userID).FirstOrCreate(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("ensuring user %q: %w", userID, err)
	}
	return nil
}
