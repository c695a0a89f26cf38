package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"pairrank/internal/modules/ranking/domain"
	rankingout "pairrank/internal/modules/ranking/port/out"
	"pairrank/internal/platform/clock"
	"pairrank/internal/platform/id"
	"pairrank/internal/platform/tx"
)

// RankingService serializes state transitions. Every mutation holds
// the mutex across load, apply, and persist, so each transition starts
// from the latest snapshot and at most one is in flight. Reads load
// whatever snapshot is current without taking the write lock.
type RankingService struct {
	clock     clock.Clock
	ids       id.Allocator
	store     rankingout.StateStore
	log       rankingout.ActionLog
	projector rankingout.RankingProjector
	txm       tx.Manager
	logger    *zap.Logger

	mu sync.Mutex
}

func NewRankingService(
	clk clock.Clock,
	ids id.Allocator,
	store rankingout.StateStore,
	log rankingout.ActionLog,
	projector rankingout.RankingProjector,
	txm tx.Manager,
	logger *zap.Logger,
) *RankingService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{clock: clk, ids: ids, store: store, log: log, projector: projector, txm: txm, logger: logger}
}

func (s *RankingService) CreateProfile(ctx context.Context, name string, entries []domain.RawEntry) (domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Profile{}, fmt.Errorf("profile name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}

	profileID, err := s.ids.Allocate(name, func(candidate string) bool {
		_, taken := state.Profiles[candidate]
		return taken
	})
	if err != nil {
		if !errors.Is(err, id.ErrAttemptsExhausted) {
			return domain.Profile{}, err
		}
		// exhaustion is non-fatal: the create proceeds with the last id drawn
		s.logger.Warn("profile id collision retries exhausted",
			zap.String("profile_id", profileID),
			zap.Int("attempts", s.ids.Attempts()))
	}

	action := domain.NewAddProfile(s.clock.Now(), profileID, name, entries)
	next, err := domain.Apply(state, action)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := s.persist(ctx, next, action); err != nil {
		return domain.Profile{}, err
	}
	s.logger.Debug("profile created",
		zap.String("profile_id", profileID),
		zap.Int("candidates", len(next.Profiles[profileID].Order)),
		zap.Int("pairs", next.Profiles[profileID].TotalComparisons))
	return next.Profiles[profileID], nil
}

func (s *RankingService) SetCurrentProfile(ctx context.Context, profileID string) (domain.Profile, error) {
	next, err := s.dispatch(ctx, func(domain.State) domain.Action {
		return domain.NewSetCurrentProfile(s.clock.Now(), profileID)
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return next.Profiles[profileID], nil
}

// MergeCandidates returns the updated profile and how many pairs the
// merge actually added.
func (s *RankingService) MergeCandidates(ctx context.Context, entries []domain.RawEntry) (domain.Profile, int, error) {
	before := 0
	next, err := s.dispatch(ctx, func(state domain.State) domain.Action {
		if profile, ok := state.Profiles[state.CurrentProfile]; ok {
			before = profile.TotalComparisons
		}
		return domain.NewMergeCandidates(s.clock.Now(), entries)
	})
	if err != nil {
		return domain.Profile{}, 0, err
	}
	profile := next.Profiles[next.CurrentProfile]
	added := profile.TotalComparisons - before
	s.logger.Debug("candidates merged",
		zap.String("profile_id", profile.ID),
		zap.Int("added_pairs", added))
	return profile, added, nil
}

// Vote resolves the pair at pairIndex in favor of winnerID and returns
// the updated profile together with the resolved pair.
func (s *RankingService) Vote(ctx context.Context, pairIndex int, winnerID string) (domain.Profile, domain.VotingPair, error) {
	resolved := domain.VotingPair{}
	next, err := s.dispatch(ctx, func(state domain.State) domain.Action {
		if profile, ok := state.Profiles[state.CurrentProfile]; ok && pairIndex >= 0 && pairIndex < len(profile.Pairs) {
			resolved = profile.Pairs[pairIndex]
		}
		return domain.NewVote(s.clock.Now(), pairIndex, winnerID)
	})
	if err != nil {
		return domain.Profile{}, domain.VotingPair{}, err
	}
	return next.Profiles[next.CurrentProfile], resolved, nil
}

// Skip requeues the pair at pairIndex and returns it with its bumped
// counter.
func (s *RankingService) Skip(ctx context.Context, pairIndex int) (domain.Profile, domain.VotingPair, error) {
	next, err := s.dispatch(ctx, func(state domain.State) domain.Action {
		return domain.NewSkip(s.clock.Now(), pairIndex)
	})
	if err != nil {
		return domain.Profile{}, domain.VotingPair{}, err
	}
	profile := next.Profiles[next.CurrentProfile]
	return profile, profile.Pairs[len(profile.Pairs)-1], nil
}

// ListProfiles returns every profile, most recently touched first, and
// the id of the current one.
func (s *RankingService) ListProfiles(ctx context.Context) ([]domain.Profile, string, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	out := make([]domain.Profile, 0, len(state.Profiles))
	for _, profile := range state.Profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.After(out[j].DateTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, state.CurrentProfile, nil
}

func (s *RankingService) GetProfile(ctx context.Context, profileID string) (domain.Profile, bool, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, false, err
	}
	profile, ok := state.Profiles[profileID]
	if !ok {
		return domain.Profile{}, false, fmt.Errorf("%w: %s", domain.ErrInvalidProfile, profileID)
	}
	return profile, state.CurrentProfile == profileID, nil
}

func (s *RankingService) CurrentProfile(ctx context.Context) (domain.Profile, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	return state.Current()
}

// History returns the last tail actions, oldest first. tail <= 0 means
// all of them.
func (s *RankingService) History(ctx context.Context, tail int) ([]domain.Action, error) {
	actions, err := s.log.List(ctx)
	if err != nil {
		return nil, err
	}
	if tail > 0 && len(actions) > tail {
		actions = actions[len(actions)-tail:]
	}
	return actions, nil
}

// Reindex rebuilds the read model from the snapshot.
func (s *RankingService) Reindex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	return s.txm.Within(ctx, func(ctx context.Context) error {
		if err := s.projector.Reset(ctx); err != nil {
			return err
		}
		ids := make([]string, 0, len(state.Profiles))
		for profileID := range state.Profiles {
			ids = append(ids, profileID)
		}
		sort.Strings(ids)
		for _, profileID := range ids {
			if err := s.projector.UpsertProfile(ctx, state.Profiles[profileID]); err != nil {
				return err
			}
		}
		return s.projector.SetCurrent(ctx, state.CurrentProfile)
	})
}

// dispatch runs one serialized transition: build the action against
// the loaded snapshot, apply it, persist on success.
func (s *RankingService) dispatch(ctx context.Context, build func(domain.State) domain.Action) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.State{}, err
	}
	action := build(state)
	next, err := domain.Apply(state, action)
	if err != nil {
		return domain.State{}, err
	}
	if err := s.persist(ctx, next, action); err != nil {
		return domain.State{}, err
	}
	return next, nil
}

func (s *RankingService) persist(ctx context.Context, state domain.State, action domain.Action) error {
	return s.txm.Within(ctx, func(ctx context.Context) error {
		if err := s.log.Append(ctx, action); err != nil {
			return err
		}
		if err := s.store.Save(ctx, state); err != nil {
			return err
		}
		if state.CurrentProfile != "" {
			if err := s.projector.UpsertProfile(ctx, state.Profiles[state.CurrentProfile]); err != nil {
				return err
			}
		}
		return s.projector.SetCurrent(ctx, state.CurrentProfile)
	})
}
