package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/internal/models"
	"github.com/shelfmark/shelfmark/internal/services"
)

func TestCreateCollection(t *testing.T) {
	db := setupTestDB(t)

	coll, err := services.CreateCollection(db, "alice", "Favorites", "the good stuff")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	if coll.CollectionID == 0 {
		t.Error("Expected a generated collection id")
	}
	if coll.Name != "Favorites" {
		t.Errorf("Expected name 'Favorites', got %q", coll.Name)
	}
	if coll.UserID != "alice" {
		t.Errorf("Expected owner 'alice', got %q", coll.UserID)
	}

	// The owner row is created lazily alongside the first collection.
	var user models.User
	if err := db.First(&user, "user_id = ?", "alice").Error; err != nil {
		t.Fatalf("Expected a user row for 'alice': %v", err)
	}
}

func TestCreateCollectionRewritesTakenName(t *testing.T) {
	db := setupTestDB(t)

	first, err := services.CreateCollection(db, "alice", "Favorites", "")
	if err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	second, err := services.CreateCollection(db, "alice", "Favorites", "")
	if err != nil {
		t.Fatalf("Second create failed: %v", err)
	}

	if first.Name != "Favorites" {
		t.Errorf("Expected first collection named 'Favorites', got %q", first.Name)
	}
	if second.Name != "Favorites (1)" {
		t.Errorf("Expected second collection named 'Favorites (1)', got %q", second.Name)
	}
	if first.CollectionID == second.CollectionID {
		t.Error("Expected two distinct collections")
	}
}

func TestCreateCollectionSameNameDifferentOwners(t *testing.T) {
	db := setupTestDB(t)

	a, err := services.CreateCollection(db, "alice", "Reading", "")
	if err != nil {
		t.Fatalf("Create for alice failed: %v", err)
	}
	b, err := services.CreateCollection(db, "bob", "Reading", "")
	if err != nil {
		t.Fatalf("Create for bob failed: %v", err)
	}

	// Names are only unique per owner.
	if a.Name != "Reading" || b.Name != "Reading" {
		t.Errorf("Expected both owners to keep 'Reading', got %q and %q", a.Name, b.Name)
	}
}

func TestCreateCollectionValidation(t *testing.T) {
	db := setupTestDB(t)

	cases := []struct {
		name        string
		userID      string
		collName    string
		description string
	}{
		{"empty owner", "", "Favorites", ""},
		{"empty name", "alice", "", ""},
		{"whitespace name", "alice", "   ", ""},
		{"name too long", "alice", strings.Repeat("x", 256), ""},
		{"description too long", "alice", "Favorites", strings.Repeat("x", 1001)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := services.CreateCollection(db, tc.userID, tc.collName, tc.description)
			if !errors.Is(err, services.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateCollectionTrimsName(t *testing.T) {
	db := setupTestDB(t)

	coll, err := services.CreateCollection(db, "alice", "  Favorites  ", "")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	if coll.Name != "Favorites" {
		t.Errorf("Expected trimmed name 'Favorites', got %q", coll.Name)
	}
}

func TestEnsureUserIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if _, err := services.CreateCollection(db, "alice", "One", ""); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	if _, err := services.CreateCollection(db, "alice", "Two", ""); err != nil {
		t.Fatalf("Second create failed: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("user_id = ?", "alice").Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one user row, got %d", count)
	}
}

func TestListCollectionsEmpty(t *testing.T) {
	db := setupTestDB(t)

	summaries, err := services.ListCollections(db, "nobody")
	if err != nil {
		t.Fatalf("ListCollections failed: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected an empty list, got %d entries", len(summaries))
	}
}

func TestListCollectionsRelevanceOrdering(t *testing.T) {
	db := setupTestDB(t)

	// plain: two items, no notes -> score 2
	plain, err := services.CreateCollection(db, "alice", "Plain", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// noted: two items, one with a note -> score 3
	noted, err := services.CreateCollection(db, "alice", "Noted", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// empty: no items -> score 0
	if _, err := services.CreateCollection(db, "alice", "Empty", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, ref := range []string{"p1", "p2"} {
		if _, err := services.AddItem(db, "alice", plain.CollectionID, ref, "", models.JSON{}); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
	}
	if _, err := services.AddItem(db, "alice", noted.CollectionID, "n1", "worth a reread", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := services.AddItem(db, "alice", noted.CollectionID, "n2", "", models.JSON{}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	summaries, err := services.ListCollections(db, "alice")
	if err != nil {
		t.Fatalf("ListCollections failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("Expected 3 collections, got %d", len(summaries))
	}

	want := []struct {
		name  string
		score int
	}{
		{"Noted", 3},
		{"Plain", 2},
		{"Empty", 0},
	}
	for i, w := range want {
		if summaries[i].Name != w.name {
			t.Errorf("Position %d: expected %q, got %q", i, w.name, summaries[i].Name)
		}
		if summaries[i].Relevance != w.score {
			t.Errorf("Collection %q: expected relevance %d, got %d", w.name, w.score, summaries[i].Relevance)
		}
	}
	if summaries[0].ItemCount != 2 {
		t.Errorf("Expected item count 2 for 'Noted', got %d", summaries[0].ItemCount)
	}
}

func TestListCollectionsTieBreakByActivity(t *testing.T) {
	db := setupTestDB(t)

	older, err := services.CreateCollection(db, "alice", "Older", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	newer, err := services.CreateCollection(db, "alice", "Newer", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Equal scores; pin the activity timestamps so the tie-break is
	// deterministic regardless of clock resolution.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db.Model(&models.Collection{}).
		Where("collection_id = ?", older.CollectionID).
		UpdateColumn("updated_at", base)
	db.Model(&models.Collection{}).
		Where("collection_id = ?", newer.CollectionID).
		UpdateColumn("updated_at", base.Add(time.Hour))

	summaries, err := services.ListCollections(db, "alice")
	if err != nil {
		t.Fatalf("ListCollections failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 collections, got %d", len(summaries))
	}
	if summaries[0].Name != "Newer" || summaries[1].Name != "Older" {
		t.Errorf("Expected [Newer, Older], got [%s, %s]", summaries[0].Name, summaries[1].Name)
	}
}

func TestGetCollectionItemsOrdered(t *testing.T) {
	db := setupTestDB(t)

	coll, err := services.CreateCollection(db, "alice", "Reading", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Seed directly with staggered creation times.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, ref := range []string{"third", "first", "second"} {
		offsets := []time.Duration{2 * time.Hour, 0, time.Hour}
		item := models.Item{
			CollectionID: coll.CollectionID,
			RefID:        ref,
			CreatedAt:    base.Add(offsets[i]),
		}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("Seeding item failed: %v", err)
		}
	}

	got, err := services.GetCollection(db, "alice", coll.CollectionID)
	if err != nil {
		t.Fatalf("GetCollection failed: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(got.Items))
	}
	want := []string{"first", "second", "third"}
	for i, ref := range want {
		if got.Items[i].RefID != ref {
			t.Errorf("Position %d: expected %q, got %q", i, ref, got.Items[i].RefID)
		}
	}
}

func TestGetCollectionNotFound(t *testing.T) {
	db := setupTestDB(t)

	coll, err := services.CreateCollection(db, "alice", "Mine", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := services.GetCollection(db, "alice", coll.CollectionID+100); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
	// Another owner's collection is indistinguishable from a missing one.
	if _, err := services.GetCollection(db, "bob", coll.CollectionID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign collection, got %v", err)
	}
}

func TestUpdateCollection(t *testing.T) {
	db := setupTestDB(t)

	coll, err := services.CreateCollection(db, "alice", "Drafts", "scratch space")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	name := "Published"
	desc := "done and dusted"
	updated, err := services.UpdateCollection(db, "alice", coll.CollectionID, &name, &desc)
	if err != nil {
		t.Fatalf("UpdateCollection failed: %v", err)
	}
	if updated.Name != "Published" {
		t.Errorf("Expected name 'Published', got %q", updated.Name)
	}
	if updated.Description != "done and dusted" {
		t.Errorf("Expected updated description, got %q", updated.Description)
	}

	// Nil fields leave the stored value untouched.
	updated, err = services.UpdateCollection(db, "alice", coll.CollectionID, nil, nil)
	if err != nil {
		t.Fatalf("No-op update failed: %v", err)
	}
	if updated.Name != "Published" || updated.Description != "done and dusted" {
		t.Errorf("No-op update changed the collection: %+v", updated)
	}
}

func TestUpdateCollectionRenameToTakenName(t *testing.T) {
	db := setupTestDB(t)

	if _, err := services.CreateCollection(db, "alice", "Favorites", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	coll, err := services.CreateCollection(db, "alice", "Drafts", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	name := "Favorites"
	updated, err := services.UpdateCollection(db, "alice", coll.CollectionID, &name, nil)
	if err != nil {
		t.Fatalf("UpdateCollection failed: %v", err)
	}
	if updated.Name != "Favorites (1)" {
		t.Errorf("Expected rewritten name 'Favorites (1)', got %q", updated.Name)
	}
}

func TestUpdateCollectionNotFound(t *testing.T) {
	db := setupTestDB(t)

	name := "Anything"
	if _, err := services.UpdateCollection(db, "alice", 9999, &name, nil); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCollectionCascades(t *testing.T) {
	db := setupTestDB(t)

	coll, err := services.CreateCollection(db, "alice", "Doomed", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, ref := range []string{"a", "b", "c"} {
		if _, err := services.AddItem(db, "alice", coll.CollectionID, ref, "", models.JSON{}); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
	}

	if err := services.DeleteCollection(db, "alice", coll.CollectionID); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}

	var items int64
	db.Model(&models.Item{}).Where("collection_id = ?", coll.CollectionID).Count(&items)
	if items != 0 {
		t.Errorf("Expected cascaded item deletion, %d items remain", items)
	}
	if _, err := services.GetCollection(db, "alice", coll.CollectionID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after deletion, got %v", err)
	}
}

func TestDeleteCollectionNotFound(t *testing.T) {
	db := setupTestDB(t)

	if err := services.DeleteCollection(db, "alice", 42); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
