package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidProfile      = errors.New("profile does not exist")
	ErrNoCurrentProfile    = errors.New("no profile selected")
	ErrPairIndexOutOfRange = errors.New("pair index out of range")
	ErrUnknownCandidate    = errors.New("unknown candidate")
	ErrUnknownActionKind   = errors.New("unknown action kind")
)

type ActionKind string

const (
	ActionAddProfile        ActionKind = "add_profile"
	ActionSetCurrentProfile ActionKind = "set_current_profile"
	ActionMergeCandidates   ActionKind = "merge_candidates"
	ActionVote              ActionKind = "vote"
	ActionSkip              ActionKind = "skip"
)

func (k ActionKind) Validate() error {
	switch k {
	case ActionAddProfile, ActionSetCurrentProfile, ActionMergeCandidates, ActionVote, ActionSkip:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownActionKind, k)
	}
}

// Action is one state transition. Kind selects the payload shape;
// unknown kinds are rejected before any state is read. At is stamped
// by the caller so Apply stays a pure function of its inputs.
type Action struct {
	Kind    ActionKind      `json:"kind"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

type AddProfilePayload struct {
	ProfileID string     `json:"profile_id"`
	Name      string     `json:"name"`
	Entries   []RawEntry `json:"entries"`
}

type SetCurrentProfilePayload struct {
	ProfileID string `json:"profile_id"`
}

type MergeCandidatesPayload struct {
	Entries []RawEntry `json:"entries"`
}

type VotePayload struct {
	PairIndex int    `json:"pair_index"`
	WinnerID  string `json:"winner_id"`
}

type SkipPayload struct {
	PairIndex int `json:"pair_index"`
}

func NewAddProfile(at time.Time, profileID, name string, entries []RawEntry) Action {
	return newAction(ActionAddProfile, at, AddProfilePayload{ProfileID: profileID, Name: name, Entries: entries})
}

func NewSetCurrentProfile(at time.Time, profileID string) Action {
	return newAction(ActionSetCurrentProfile, at, SetCurrentProfilePayload{ProfileID: profileID})
}

func NewMergeCandidates(at time.Time, entries []RawEntry) Action {
	return newAction(ActionMergeCandidates, at, MergeCandidatesPayload{Entries: entries})
}

func NewVote(at time.Time, pairIndex int, winnerID string) Action {
	return newAction(ActionVote, at, VotePayload{PairIndex: pairIndex, WinnerID: winnerID})
}

func NewSkip(at time.Time, pairIndex int) Action {
	return newAction(ActionSkip, at, SkipPayload{PairIndex: pairIndex})
}

func newAction(kind ActionKind, at time.Time, payload any) Action {
	raw, _ := json.Marshal(payload)
	return Action{Kind: kind, At: at.UTC(), Payload: raw}
}

// Apply advances the snapshot by one action. On error the input is
// returned unchanged; on success the result shares no mutable
// internals with the input. Transitions must be serialized by the
// caller, since each one starts from the snapshot it was given.
func Apply(state State, action Action) (State, error) {
	if err := action.Kind.Validate(); err != nil {
		return state, err
	}
	if state.Profiles == nil {
		state.Profiles = map[string]Profile{}
	}

	switch action.Kind {
	case ActionAddProfile:
		payload := AddProfilePayload{}
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return state, fmt.Errorf("decode add_profile payload: %w", err)
		}
		next := state.withProfile(NewProfile(payload.ProfileID, payload.Name, payload.Entries, action.At))
		next.CurrentProfile = payload.ProfileID
		return next, nil

	case ActionSetCurrentProfile:
		payload := SetCurrentProfilePayload{}
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return state, fmt.Errorf("decode set_current_profile payload: %w", err)
		}
		if _, ok := state.Profiles[payload.ProfileID]; !ok {
			return state, fmt.Errorf("%w: %s", ErrInvalidProfile, payload.ProfileID)
		}
		next := state
		next.CurrentProfile = payload.ProfileID
		return next, nil

	case ActionMergeCandidates:
		payload := MergeCandidatesPayload{}
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return state, fmt.Errorf("decode merge_candidates payload: %w", err)
		}
		current, err := state.Current()
		if err != nil {
			return state, err
		}
		profile := current.clone()
		submitted := make([]string, 0, len(payload.Entries))
		for _, candidate := range Normalize(payload.Entries) {
			submitted = append(submitted, candidate.ID)
			if _, exists := profile.Candidates[candidate.ID]; exists {
				// existing record wins: the score survives the merge
				continue
			}
			profile.Candidates[candidate.ID] = candidate
			profile.Order = append(profile.Order, candidate.ID)
		}
		added := GeneratePairs(submitted, profile.GeneratedPairs)
		for _, pair := range added {
			profile.GeneratedPairs[pair.ID] = struct{}{}
		}
		profile.Pairs = append(profile.Pairs, added...)
		profile.TotalComparisons += len(added)
		profile.DateTime = action.At
		return state.withProfile(profile), nil

	case ActionVote:
		payload := VotePayload{}
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return state, fmt.Errorf("decode vote payload: %w", err)
		}
		current, err := state.Current()
		if err != nil {
			return state, err
		}
		if payload.PairIndex < 0 || payload.PairIndex >= len(current.Pairs) {
			return state, fmt.Errorf("%w: %d", ErrPairIndexOutOfRange, payload.PairIndex)
		}
		pair := current.Pairs[payload.PairIndex]
		if payload.WinnerID != pair.LeftID && payload.WinnerID != pair.RightID {
			return state, fmt.Errorf("%w: %s is not part of pair %s", ErrUnknownCandidate, payload.WinnerID, pair.ID)
		}
		winner, ok := current.Candidates[payload.WinnerID]
		if !ok {
			return state, fmt.Errorf("%w: %s", ErrUnknownCandidate, payload.WinnerID)
		}
		profile := current.clone()
		profile.Pairs = append(profile.Pairs[:payload.PairIndex], profile.Pairs[payload.PairIndex+1:]...)
		winner.Score++
		profile.Candidates[winner.ID] = winner
		profile.DateTime = action.At
		return state.withProfile(profile), nil

	case ActionSkip:
		payload := SkipPayload{}
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return state, fmt.Errorf("decode skip payload: %w", err)
		}
		current, err := state.Current()
		if err != nil {
			return state, err
		}
		if payload.PairIndex < 0 || payload.PairIndex >= len(current.Pairs) {
			return state, fmt.Errorf("%w: %d", ErrPairIndexOutOfRange, payload.PairIndex)
		}
		profile := current.clone()
		pair := profile.Pairs[payload.PairIndex]
		pair.Skipped++
		// skipped pairs requeue at the back, keeping their counter
		profile.Pairs = append(profile.Pairs[:payload.PairIndex], profile.Pairs[payload.PairIndex+1:]...)
		profile.Pairs = append(profile.Pairs, pair)
		profile.DateTime = action.At
		return state.withProfile(profile), nil
	}

	return state, fmt.Errorf("%w: %s", ErrUnknownActionKind, action.Kind)
}
