package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var noteIDPattern = regexp.MustCompile("^[0-9a-fA-F]{8}$")

// IsValidNoteID checks that an id matches the short hex id shape assigned
// at creation time.
func IsValidNoteID(id string) bool {
	return noteIDPattern.MatchString(id)
}

// NewNoteID generates a short UUID (8 hex characters) for new notes.
func NewNoteID() string {
	fullUUID := uuid.New().String()
	return strings.ReplaceAll(fullUUID[:8], "-", "")
}

// NewItemID generates an id for a checklist item. Item ids only need to be
// unique within their owning note.
func NewItemID() string {
	return NewNoteID()
}
