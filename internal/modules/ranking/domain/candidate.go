package domain

import (
	"strings"

	"pairrank/internal/platform/slug"
)

// RawEntry is a user-supplied item before normalization. Image may be
// empty.
type RawEntry struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Score int    `json:"score"`
}

// NormalizeKey derives the identity key candidates are deduplicated
// by. Two names that collapse to the same key are the same candidate.
func NormalizeKey(name string) string {
	return slug.Make(name)
}

// Normalize trims entries, drops those with an empty name, derives
// ids, and collapses duplicates. A later duplicate overwrites the
// stored record while the first occurrence keeps its position, so the
// returned order is the insertion order of distinct ids. Scores start
// at zero. Normalizing already-normalized input returns the same
// candidates.
func Normalize(entries []RawEntry) []Candidate {
	out := make([]Candidate, 0, len(entries))
	positions := map[string]int{}
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		candidate := Candidate{
			ID:    NormalizeKey(name),
			Name:  name,
			Image: strings.TrimSpace(entry.Image),
		}
		if pos, seen := positions[candidate.ID]; seen {
			out[pos] = candidate
			continue
		}
		positions[candidate.ID] = len(out)
		out = append(out, candidate)
	}
	return out
}
