package services

import (
	"fmt"

	"github.com/shelfmark/shelfmark/internal/models"
	"gorm.io/gorm"
)

// maxNameProbes bounds the sequential name probe.
const maxNameProbes = 100

// AllocateName derives a collision-free collection name for an owner.
// It probes base, "base (1)", "base (2)", ... and returns the first name the
// owner does not already use, giving up with ErrNameExhausted after 100
// attempts. The probe is advisory planning only and mutates nothing: a
// concurrent creator can still take the returned name first, in which case
// the insert fails on the (user_id, name) unique index and the caller
// surfaces ErrConflict rather than retrying.
func AllocateName(db *gorm.DB, userID, base string) (string, error) {
	var names []string
	err := db.Model(&models.Collection{}).
		Where("user_id = ?", userID).
		Pluck("name", &names).Error
	if err != nil {
		return "", fmt.Errorf("listing collection names for %q: %w", userID, err)
	}

	taken := make(map[string]struct{}, len(names))
	for _, n := range names {
		taken[n] = struct{}{}
	}

	candidate := base
	for n := 1; n <= maxNameProbes; n++ {
		if _, ok := taken[candidate]; !ok {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (%d)", base, n)
	}

	return "", ErrNameExhausted
}
