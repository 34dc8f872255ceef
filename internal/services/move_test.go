package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/services"
)

func TestMoveItem(t *testing.T) {
	db := setupTestDB(t)

	books, err := services.CreateCollection(db, "alice", "Books", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	movies, err := services.CreateCollection(db, "alice", "Movies", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := services.AddItem(db, "alice", books.CollectionID, "ref-42", "great read", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	moved, err := services.MoveItem(db, "alice", "ref-42", books.CollectionID, movies.CollectionID)
	if err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	if moved.Item.CollectionID != movies.CollectionID {
		t.Errorf("Expected item in collection %d, got %d", movies.CollectionID, moved.Item.CollectionID)
	}
	if moved.Item.Note != "great read" {
		t.Errorf("Expected the note to travel with the item, got %q", moved.Item.Note)
	}
	if moved.SourceName != "Books" || moved.TargetName != "Movies" {
		t.Errorf("Expected names Books/Movies, got %s/%s", moved.SourceName, moved.TargetName)
	}

	var sourceCount, targetCount int64
	db.Model(&models.Item{}).Where("collection_id = ?", books.CollectionID).Count(&sourceCount)
	db.Model(&models.Item{}).Where("collection_id = ?", movies.CollectionID).Count(&targetCount)
	if sourceCount != 0 {
		t.Errorf("Expected empty source, got %d items", sourceCount)
	}
	if targetCount != 1 {
		t.Errorf("Expected one item in target, got %d", targetCount)
	}
}

func TestMoveItemToFullTargetRollsBack(t *testing.T) {
	db := setupTestDB(t)

	source, err := services.CreateCollection(db, "alice", "Source", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	target, err := services.CreateCollection(db, "alice", "Target", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := services.AddItem(db, "alice", source.CollectionID, "wanderer", "", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	for i := 0; i < services.MaxCollectionItems; i++ {
		if _, err := services.AddItem(db, "alice", target.CollectionID, fmt.Sprintf("filler-%d", i), "", models.JSON{}); err != nil {
			t.Fatalf("Filling target failed: %v", err)
		}
	}

	_, err = services.MoveItem(db, "alice", "wanderer", source.CollectionID, target.CollectionID)
	if !errors.Is(err, services.ErrCapacityExceeded) {
		t.Fatalf("Expected ErrCapacityExceeded, got %v", err)
	}

	// Nothing moved: the item is still in the source, the target still full.
	var inSource int64
	db.Model(&models.Item{}).
		Where("collection_id = ? AND ref_id = ?", source.CollectionID, "wanderer").
		Count(&inSource)
	if inSource != 1 {
		t.Errorf("Expected the item back in the source, found %d", inSource)
	}
	var inTarget int64
	db.Model(&models.Item{}).Where("collection_id = ?", target.CollectionID).Count(&inTarget)
	if inTarget != int64(services.MaxCollectionItems) {
		t.Errorf("Expected target unchanged at %d items, got %d", services.MaxCollectionItems, inTarget)
	}
}

func TestMoveItemDuplicateInTarget(t *testing.T) {
	db := setupTestDB(t)

	source, err := services.CreateCollection(db, "alice", "Source", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	target, err := services.CreateCollection(db, "alice", "Target", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := services.AddItem(db, "alice", source.CollectionID, "twin", "", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := services.AddItem(db, "alice", target.CollectionID, "twin", "", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	_, err = services.MoveItem(db, "alice", "twin", source.CollectionID, target.CollectionID)
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}

	// Rolled back: both copies still in place.
	var inSource int64
	db.Model(&models.Item{}).
		Where("collection_id = ? AND ref_id = ?", source.CollectionID, "twin").
		Count(&inSource)
	if inSource != 1 {
		t.Errorf("Expected the source copy untouched, found %d", inSource)
	}
}

func TestMoveItemNotInSource(t *testing.T) {
	db := setupTestDB(t)

	source, err := services.CreateCollection(db, "alice", "Source", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	target, err := services.CreateCollection(db, "alice", "Target", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := services.MoveItem(db, "alice", "ghost", source.CollectionID, target.CollectionID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// A move is not idempotent: once the item has left the source, repeating the
// same request reports the item missing.
func TestMoveItemTwice(t *testing.T) {
	db := setupTestDB(t)

	source, err := services.CreateCollection(db, "alice", "Source", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	target, err := services.CreateCollection(db, "alice", "Target", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := services.AddItem(db, "alice", source.CollectionID, "ref-1", "", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if _, err := services.MoveItem(db, "alice", "ref-1", source.CollectionID, target.CollectionID); err != nil {
		t.Fatalf("First move failed: %v", err)
	}
	if _, err := services.MoveItem(db, "alice", "ref-1", source.CollectionID, target.CollectionID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on repeated move, got %v", err)
	}
}

func TestMoveItemSameCollection(t *testing.T) {
	db := setupTestDB(t)

	coll, err := services.CreateCollection(db, "alice", "Books", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := services.AddItem(db, "alice", coll.CollectionID, "ref-1", "", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if _, err := services.MoveItem(db, "alice", "ref-1", coll.CollectionID, coll.CollectionID); !errors.Is(err, services.ErrValidation) {
		t.Errorf("Expected ErrValidation for same source and target, got %v", err)
	}
}

func TestMoveItemForeignCollection(t *testing.T) {
	db := setupTestDB(t)

	source, err := services.CreateCollection(db, "alice", "Source", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := services.AddItem(db, "alice", source.CollectionID, "ref-1", "", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	theirs, err := services.CreateCollection(db, "bob", "Theirs", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Moving into another owner's collection is a not-found, never a leak.
	if _, err := services.MoveItem(db, "alice", "ref-1", source.CollectionID, theirs.CollectionID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	var inSource int64
	db.Model(&models.Item{}).
		Where("collection_id = ? AND ref_id = ?", source.CollectionID, "ref-1").
		Count(&inSource)
	if inSource != 1 {
		t.Errorf("Expected the item untouched in the source, found %d", inSource)
	}
}

func TestMoveItemValidation(t *testing.T) {
	db := setupTestDB(t)

	if _, err := services.MoveItem(db, "alice", "ref-1", 0, 2); !errors.Is(err, services.ErrValidation) {
		t.Errorf("Expected ErrValidation for zero source id, got %v", err)
	}
	if _, err := services.MoveItem(db, "alice", "ref-1", 1, 0); !errors.Is(err, services.ErrValidation) {
		t.Errorf("Expected ErrValidation for zero target id, got %v", err)
	}
	if _, err := services.MoveItem(db, "alice", "", 1, 2); !errors.Is(err, services.ErrValidation) {
		t.Errorf("Expected ErrValidation for empty ref, got %v", err)
	}
	if _, err := services.MoveItem(db, "", "ref-1", 1, 2); !errors.Is(err, services.ErrValidation) {
		t.Errorf("Expected ErrValidation for empty owner, got %v", err)
	}
}
