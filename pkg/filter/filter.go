package filter

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"notedeck/pkg/models"
)

// Criteria is the ephemeral filter state driven by the filter bar. Empty
// sets and an empty search string act as wildcards.
type Criteria struct {
	Colors []models.Color
	Tags   []string
	Search string
}

// IsEmpty reports whether the criteria match everything.
func (c Criteria) IsEmpty() bool {
	return len(c.Colors) == 0 && len(c.Tags) == 0 && strings.TrimSpace(c.Search) == ""
}

// Apply derives the visible subset of notes, preserving the relative order
// of the input. Pure: no side effects, same inputs always yield the same
// subsequence.
func Apply(notes []models.Note, c Criteria) []models.Note {
	matched := []models.Note{}
	for _, n := range notes {
		if Matches(n, c) {
			matched = append(matched, n)
		}
	}
	return matched
}

// Matches reports whether a single note satisfies the criteria: its color
// is in the color set, its tags intersect the tag set, and the search
// string occurs case-insensitively in title, content, or any tag.
func Matches(n models.Note, c Criteria) bool {
	return matchesColor(n, c.Colors) && matchesTags(n, c.Tags) && matchesSearch(n, c.Search)
}

func matchesColor(n models.Note, colors []models.Color) bool {
	if len(colors) == 0 {
		return true
	}
	for _, c := range colors {
		if n.Color == c {
			return true
		}
	}
	return false
}

func matchesTags(n models.Note, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.HasTag(t) {
			return true
		}
	}
	return false
}

func matchesSearch(n models.Note, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Content), search) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), search) {
			return true
		}
	}
	return false
}

// Tags collects the distinct tags across all notes in first-seen order,
// which is what the filter bar lists.
func Tags(notes []models.Note) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, n := range notes {
		for _, t := range n.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// SuggestTags fuzzy-ranks the known tags against partial input for the
// filter bar's tag picker. Empty input returns all tags in first-seen order.
func SuggestTags(notes []models.Note, input string) []string {
	tags := Tags(notes)
	if strings.TrimSpace(input) == "" {
		return tags
	}

	matches := fuzzy.Find(input, tags)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, tags[m.Index])
	}
	return out
}
