package domain

import (
	"fmt"
	"sort"
	"time"
)

// Profile is one ranking session. Order preserves candidate insertion
// order; Pairs is the pending queue. GeneratedPairs records every pair
// id generated over the profile's lifetime so a merge never recreates
// a resolved comparison; TotalComparisons equals its size and stays
// the stable progress denominator while Pairs shrinks.
type Profile struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	Candidates       map[string]Candidate `json:"candidates"`
	Order            []string             `json:"order"`
	Pairs            []VotingPair         `json:"pairs"`
	GeneratedPairs   map[string]struct{}  `json:"generated_pairs"`
	DateTime         time.Time            `json:"datetime"`
	TotalComparisons int                  `json:"total_comparisons"`
}

// State is the root snapshot. An empty CurrentProfile means none is
// selected; a non-empty one always keys an existing profile.
type State struct {
	CurrentProfile string             `json:"current_profile"`
	Profiles       map[string]Profile `json:"profiles"`
}

func NewState() State {
	return State{Profiles: map[string]Profile{}}
}

// NewProfile normalizes the entries and generates the complete pair
// set over them.
func NewProfile(id, name string, entries []RawEntry, at time.Time) Profile {
	profile := Profile{
		ID:             id,
		Name:           name,
		Candidates:     map[string]Candidate{},
		GeneratedPairs: map[string]struct{}{},
		DateTime:       at,
	}
	for _, candidate := range Normalize(entries) {
		profile.Candidates[candidate.ID] = candidate
		profile.Order = append(profile.Order, candidate.ID)
	}
	profile.Pairs = GeneratePairs(profile.Order, nil)
	for _, pair := range profile.Pairs {
		profile.GeneratedPairs[pair.ID] = struct{}{}
	}
	profile.TotalComparisons = len(profile.Pairs)
	return profile
}

func (p Profile) clone() Profile {
	out := p
	out.Candidates = make(map[string]Candidate, len(p.Candidates))
	for id, candidate := range p.Candidates {
		out.Candidates[id] = candidate
	}
	out.GeneratedPairs = make(map[string]struct{}, len(p.GeneratedPairs))
	for id := range p.GeneratedPairs {
		out.GeneratedPairs[id] = struct{}{}
	}
	out.Order = append([]string(nil), p.Order...)
	out.Pairs = append([]VotingPair(nil), p.Pairs...)
	return out
}

// Progress counts resolved comparisons. Votes are the only way pairs
// leave the queue, so it never decreases.
func (p Profile) Progress() int {
	return p.TotalComparisons - len(p.Pairs)
}

// FullyVoted is a derived read; an empty queue is the terminal state.
func (p Profile) FullyVoted() bool {
	return len(p.Pairs) == 0
}

// CandidatesInOrder returns candidates in insertion order.
func (p Profile) CandidatesInOrder() []Candidate {
	out := make([]Candidate, 0, len(p.Order))
	for _, id := range p.Order {
		out = append(out, p.Candidates[id])
	}
	return out
}

// Rankings sorts candidates by score descending; equal scores keep
// insertion order.
func (p Profile) Rankings() []Candidate {
	out := p.CandidatesInOrder()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Current resolves the selected profile.
func (s State) Current() (Profile, error) {
	if s.CurrentProfile == "" {
		return Profile{}, ErrNoCurrentProfile
	}
	profile, ok := s.Profiles[s.CurrentProfile]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrInvalidProfile, s.CurrentProfile)
	}
	return profile, nil
}

// withProfile copies the snapshot and replaces one profile. Untouched
// profiles are shared between snapshots; that is safe because
// transitions never mutate a stored profile in place.
func (s State) withProfile(profile Profile) State {
	out := s
	out.Profiles = make(map[string]Profile, len(s.Profiles)+1)
	for id, existing := range s.Profiles {
		out.Profiles[id] = existing
	}
	out.Profiles[profile.ID] = profile
	return out
}
