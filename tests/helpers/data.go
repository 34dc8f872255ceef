package helpers

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/models"
	"gorm.io/gorm"
)

// CreateTestCollection creates a collection row directly, creating the owner
// if needed.
func CreateTestCollection(t *testing.T, db *gorm.DB, userID, name string) *models.Collection {
	t.Helper()
	user := models.User{UserID: userID}
	if err := db.Where("user_id = ?", userID).FirstOrCreate(&user).Error; err != nil {
		t.Fatalf("Failed to ensure user %q: %v", userID, err)
	}

	coll := models.Collection{UserID: userID, Name: name}
	if err := db.Create(&coll).Error; err != nil {
		t.Fatalf("Failed to create collection %q: %v", name, err)
	}
	return &coll
}

// CreateTestItem creates an item row directly.
func CreateTestItem(t *testing.T, db *gorm.DB, collectionID uint64, refID, note string) *models.Item {
	t.Helper()
	item := models.Item{CollectionID: collectionID, RefID: refID, Note: note}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to create item %q: %v", refID, err)
	}
	return &item
}

// FillCollection adds refs until the collection holds n items.
func FillCollection(t *testing.T, db *gorm.DB, collectionID uint64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		CreateTestItem(t, db, collectionID, fmt.Sprintf("ref-%d", i), "")
	}
}

// CountItemsRaw counts a collection's items over a direct database/sql
// connection, bypassing GORM entirely. Integration tests use it to verify
// invariants with an independent view of the data.
func CountItemsRaw(t *testing.T, cfg *config.Config, collectionID uint64) int {
	t.Helper()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBDatabase)
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("Failed to open raw connection: %v", err)
	}
	defer sqlDB.Close()

	var count int
	err = sqlDB.QueryRow(
		"SELECT COUNT(*) FROM items WHERE collection_id = ?", collectionID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count items: %v", err)
	}
	return count
}
