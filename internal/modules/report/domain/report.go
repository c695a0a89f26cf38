package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	ManagedRankingsStart = "<!-- pairrank:rankings:start -->"
	ManagedRankingsEnd   = "<!-- pairrank:rankings:end -->"
	SchemaVersion        = 1
)

type RankedCandidate struct {
	Rank  int
	ID    string
	Name  string
	Score int
}

// ProfileReport is the note-facing view of one ranking session.
// Rankings arrive already ordered best first.
type ProfileReport struct {
	ProfileID        string
	Name             string
	UpdatedAt        time.Time
	TotalComparisons int
	Pending          int
	Rankings         []RankedCandidate
}

func (r ProfileReport) Progress() int {
	return r.TotalComparisons - r.Pending
}

func (r ProfileReport) Completed() bool {
	return r.Pending == 0
}

func (r ProfileReport) Validate() error {
	if strings.TrimSpace(r.ProfileID) == "" {
		return fmt.Errorf("profile id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("profile name is required")
	}
	return nil
}

// RenderTable produces the markdown table that goes between the
// managed markers.
func (r ProfileReport) RenderTable() string {
	b := strings.Builder{}
	b.WriteString("| Rank | Candidate | Score |\n")
	b.WriteString("| ---: | --- | ---: |\n")
	for _, candidate := range r.Rankings {
		fmt.Fprintf(&b, "| %d | %s | %d |\n", candidate.Rank, candidate.Name, candidate.Score)
	}
	return strings.TrimRight(b.String(), "\n")
}
