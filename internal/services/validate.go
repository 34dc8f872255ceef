package services

import (
	"fmt"
	"strings"
)

// Field limits from the data model.
const (
	maxUserIDLen      = 255
	maxNameLen        = 255
	maxDescriptionLen = 1000
	maxRefIDLen       = 255
	maxNoteLen        = 500
)

func validateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: owner id is required", ErrValidation)
	}
	if len(userID) > maxUserIDLen {
		return fmt.Errorf("%w: owner id exceeds %d characters", ErrValidation, maxUserIDLen)
	}
	return nil
}

func validateCollectionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: collection name is required", ErrValidation)
	}
	if len(name) > maxNameLen {
		return "", fmt.Errorf("%w: collection name exceeds %d characters", ErrValidation, maxNameLen)
	}
	return name, nil
}

func validateDescription(description string) error {
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, maxDescriptionLen)
	}
	return nil
}

func validateRefID(refID string) error {
	if refID == "" {
		return fmt.Errorf("%w: item reference id is required", ErrValidation)
	}
	if len(refID) > maxRefIDLen {
		return fmt.Errorf("%w: item reference id exceeds %d characters", ErrValidation, maxRefIDLen)
	}
	return nil
}

// validateNote trims the note and enforces its length limit.
func validateNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLen {
		return "", fmt.Errorf("%w: note exceeds %d characters", ErrValidation, maxNoteLen)
	}
	return note, nil
}

func validateCollectionID(collectionID uint64) error {
	if collectionID == 0 {
		return fmt.Errorf("%w: collection id must be positive", ErrValidation)
	}
	return nil
}
