package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shelfmark/shelfmark/internal/models"
	"gorm.io/gorm"
)

// CollectionSummary is the listing projection: collection attributes plus the
// computed item count and relevance score.
type CollectionSummary struct {
	CollectionID uint64    `json:"collectionId"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ItemCount    int       `json:"itemCount"`
	Relevance    int       `json:"relevance"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateCollection creates a collection for an owner, lazily creating the
// owner's User row and allocating a collision-free name. The requested name
// may come back rewritten ("Favorites" -> "Favorites (1)").
func CreateCollection(db *gorm.DB, userID, name, description string) (*models.Collection, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	name, err := validateCollectionName(name)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	var created models.Collection
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}

		finalName, err := AllocateName(tx, userID, name)
		if err != nil {
			return err
		}

		created = models.Collection{
			UserID:      userID,
			Name:        finalName,
			Description: description,
		}
		if err := tx.Create(&created).Error; err != nil {
			// Lost the naming race to a concurrent creator; the unique
			// index is authoritative, the probe was only advisory.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("creating collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListCollections returns all of an owner's collections ordered by descending
// relevance score, ties broken by most recent activity (descending UpdatedAt).
// An owner with no collections gets an empty list, not an error.
func ListCollections(db *gorm.DB, userID string) ([]CollectionSummary, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	var collections []models.Collection
	err := db.Preload("Items").
		Where("user_id = ?", userID).
		Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("listing collections for %q: %w", userID, err)
	}

	summaries := make([]CollectionSummary, 0, len(collections))
	for _, coll := range collections {
		summaries = append(summaries, CollectionSummary{
			CollectionID: coll.CollectionID,
			Name:         coll.Name,
			Description:  coll.Description,
			ItemCount:    len(coll.Items),
			Relevance:    CollectionScore(coll.Items),
			CreatedAt:    coll.CreatedAt,
			UpdatedAt:    coll.UpdatedAt,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Relevance != summaries[j].Relevance {
			return summaries[i].Relevance > summaries[j].Relevance
		}
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})

	return summaries, nil
}

// GetCollection returns one collection with its items ordered by creation
// time ascending.
func GetCollection(db *gorm.DB, userID string, collectionID uint64) (*models.Collection, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateCollectionID(collectionID); err != nil {
		return nil, err
	}

	var coll models.Collection
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, item_id ASC")
	}).
		Where("collection_id = ? AND user_id = ?", collectionID, userID).
		First(&coll).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting collection %d: %w", collectionID, err)
	}
	return &coll, nil
}

// UpdateCollection renames a collection and/or replaces its description.
// A nil field is left untouched. A new name goes through the same allocation
// as creation, so renaming to a taken name yields "name (1)".
func UpdateCollection(db *gorm.DB, userID string, collectionID uint64, name, description *string) (*models.Collection, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateCollectionID(collectionID); err != nil {
		return nil, err
	}

	var updated models.Collection
	err := db.Transaction(func(tx *gorm.DB) error {
		coll, err := lockCollection(tx, userID, collectionID)
		if err != nil {
			return err
		}

		if name != nil {
			requested, err := validateCollectionName(*name)
			if err != nil {
				return err
			}
			if requested != coll.Name {
				finalName, err := AllocateName(tx, userID, requested)
				if err != nil {
					return err
				}
				coll.Name = finalName
			}
		}
		if description != nil {
			if err := validateDescription(*description); err != nil {
				return err
			}
			coll.Description = *description
		}

		if err := tx.Save(coll).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("updating collection %d: %w", collectionID, err)
		}
		updated = *coll
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCollection removes a collection and cascades deletion of its items
// in a single transaction.
func DeleteCollection(db *gorm.DB, userID string, collectionID uint64) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := validateCollectionID(collectionID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		coll, err := lockCollection(tx, userID, collectionID)
		if err != nil {
			return err
		}

		err = tx.Where("collection_id = ?", coll.CollectionID).
			Delete(&models.Item{}).Error
		if err != nil {
			return fmt.Errorf("deleting items of collection %d: %w", collectionID, err)
		}

		err = tx.Where("collection_id = ?", coll.CollectionID).
			Delete(&models.Collection{}).Error
		if err != nil {
			return fmt.Errorf("deleting collection %d: %w", collectionID, err)
		}
		return nil
	})
}
