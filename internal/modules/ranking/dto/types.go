package dto

import "time"

type EntryInput struct {
	Name  string
	Image string
}

type CreateProfileInput struct {
	Name    string
	Entries []EntryInput
}

type MergeCandidatesInput struct {
	Entries []EntryInput
}

type VoteInput struct {
	PairIndex int
	Winner    string
}

type SkipInput struct {
	PairIndex int
}

type CandidateOutput struct {
	Rank  int
	ID    string
	Name  string
	Image string
	Score int
}

type PairOutput struct {
	Index     int
	ID        string
	LeftID    string
	LeftName  string
	RightID   string
	RightName string
	Skipped   int
}

type ProfileSummaryOutput struct {
	ID         string
	Name       string
	Current    bool
	Candidates int
	Pending    int
	Progress   int
	Total      int
	FullyVoted bool
	UpdatedAt  time.Time
}

type ProfileOutput struct {
	ID         string
	Name       string
	Current    bool
	Rankings   []CandidateOutput
	Pending    []PairOutput
	Progress   int
	Total      int
	FullyVoted bool
	UpdatedAt  time.Time
}

type MergeOutput struct {
	ProfileID  string
	Name       string
	AddedPairs int
	Candidates int
	Pending    int
	Total      int
}

type VoteOutput struct {
	ProfileID   string
	PairID      string
	WinnerID    string
	WinnerName  string
	WinnerScore int
	Pending     int
	Progress    int
	Total       int
	FullyVoted  bool
}

type SkipOutput struct {
	ProfileID string
	PairID    string
	Skipped   int
	Pending   int
}

type ActionOutput struct {
	At     time.Time
	Kind   string
	Detail string
}
