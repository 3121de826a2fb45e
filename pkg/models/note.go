package models

import (
	"strings"
	"time"
)

// Color is one entry of the fixed note palette.
type Color string

const (
	ColorWhite  Color = "white"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
)

// Palette returns the six palette colors in display order.
// The first entry is the default for newly created notes.
func Palette() []Color {
	return []Color{ColorWhite, ColorRed, ColorYellow, ColorGreen, ColorBlue, ColorPurple}
}

// DefaultColor is the palette's first entry.
func DefaultColor() Color {
	return ColorWhite
}

// IsValidColor reports whether c belongs to the palette.
func IsValidColor(c Color) bool {
	for _, p := range Palette() {
		if p == c {
			return true
		}
	}
	return false
}

// ChecklistItem is a single entry of a note's optional checklist.
// Item IDs are unique within their owning note only.
type ChecklistItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Note is the central persisted entity.
type Note struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Color     Color           `json:"color"`
	Tags      []string        `json:"tags"`
	Items     []ChecklistItem `json:"items,omitempty"`
}

// HasTag reports whether the note carries the given tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasEmptyTitle reports whether the title is empty after trimming whitespace.
// Notes with an empty title are only ever drafts; they are never finalized.
func (n Note) HasEmptyTitle() bool {
	return strings.TrimSpace(n.Title) == ""
}

// Clone returns a deep copy so callers cannot mutate repository state
// through shared slices.
func (n Note) Clone() Note {
	c := n
	if n.Tags != nil {
		c.Tags = make([]string, len(n.Tags))
		copy(c.Tags, n.Tags)
	}
	if n.Items != nil {
		c.Items = make([]ChecklistItem, len(n.Items))
		copy(c.Items, n.Items)
	}
	return c
}

// CloneNotes deep-copies a full collection snapshot.
func CloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// DraftFields carries the user-editable fields of a note under composition.
// The repository owns id and timestamp assignment.
type DraftFields struct {
	Title   string
	Content string
	Color   Color
	Tags    []string
	Items   []ChecklistItem
}

// NormalizeTags removes duplicates and blank entries while preserving the
// insertion order used for display.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := []string{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
