package services

import (
	"strings"

	"github.com/shelfmark/shelfmark/internal/models"
)

// ItemScore returns the relevance contribution of a single item: 2 points
// for an item carrying a non-whitespace note, 1 point otherwise.
func ItemScore(item models.Item) int {
	if strings.TrimSpace(item.Note) != "" {
		return 2
	}
	return 1
}

// CollectionScore sums the item scores of a collection. The score is a
// read-only projection recomputed per listing; it is never persisted.
func CollectionScore(items []models.Item) int {
	score := 0
	for _, item := range items {
		score += ItemScore(item)
	}
	return score
}
