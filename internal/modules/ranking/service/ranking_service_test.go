package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pairrank/internal/modules/ranking/domain"
	"pairrank/internal/modules/ranking/service"
	"pairrank/internal/platform/id"
	"pairrank/internal/platform/tx"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type stubGen struct {
	ids []string
	idx int
}

func (g *stubGen) New(string) string {
	if g.idx >= len(g.ids) {
		return g.ids[len(g.ids)-1]
	}
	out := g.ids[g.idx]
	g.idx++
	return out
}

type memStateStore struct {
	state domain.State
	saves int
}

func (m *memStateStore) Load(context.Context) (domain.State, error) {
	if m.state.Profiles == nil {
		return domain.NewState(), nil
	}
	return m.state, nil
}

func (m *memStateStore) Save(_ context.Context, state domain.State) error {
	m.state = state
	m.saves++
	return nil
}

type memActionLog struct {
	actions []domain.Action
}

func (m *memActionLog) Append(_ context.Context, action domain.Action) error {
	m.actions = append(m.actions, action)
	return nil
}

func (m *memActionLog) List(context.Context) ([]domain.Action, error) {
	return append([]domain.Action{}, m.actions...), nil
}

type memProjector struct {
	upserts int
	resets  int
	last    domain.Profile
	current string
}

func (m *memProjector) Reset(context.Context) error {
	m.resets++
	return nil
}

func (m *memProjector) UpsertProfile(_ context.Context, profile domain.Profile) error {
	m.upserts++
	m.last = profile
	return nil
}

func (m *memProjector) SetCurrent(_ context.Context, profileID string) error {
	m.current = profileID
	return nil
}

func testTimes() []time.Time {
	base := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	out := make([]time.Time, 0, 16)
	for i := 0; i < 16; i++ {
		out = append(out, base.Add(time.Duration(i)*time.Minute))
	}
	return out
}

func rawEntries(names ...string) []domain.RawEntry {
	out := make([]domain.RawEntry, 0, len(names))
	for _, name := range names {
		out = append(out, domain.RawEntry{Name: name})
	}
	return out
}

func newService(gen id.Generator, attempts int, store *memStateStore, log *memActionLog, projector *memProjector, logger *zap.Logger) *service.RankingService {
	return service.NewRankingService(
		&fakeClock{values: testTimes()},
		id.NewAllocator(gen, attempts),
		store, log, projector,
		tx.NoopManager{},
		logger,
	)
}

func TestCreateProfileRetriesTakenIDs(t *testing.T) {
	t.Parallel()
	store := &memStateStore{}
	log := &memActionLog{}
	projector := &memProjector{}
	svc := newService(&stubGen{ids: []string{"films-1", "films-1", "films-2"}}, 5, store, log, projector, zap.NewNop())

	first, err := svc.CreateProfile(context.Background(), "Films", rawEntries("A", "B"))
	if err != nil {
		t.Fatalf("create first profile: %v", err)
	}
	if first.ID != "films-1" {
		t.Fatalf("expected first id films-1, got %s", first.ID)
	}

	second, err := svc.CreateProfile(context.Background(), "Films", rawEntries("X", "Y"))
	if err != nil {
		t.Fatalf("create second profile: %v", err)
	}
	if second.ID != "films-2" {
		t.Fatalf("expected allocator to step over the taken id, got %s", second.ID)
	}
	if len(store.state.Profiles) != 2 || store.state.CurrentProfile != "films-2" {
		t.Fatalf("unexpected persisted state: %+v", store.state)
	}
	if len(log.actions) != 2 || log.actions[0].Kind != domain.ActionAddProfile {
		t.Fatalf("expected two add_profile actions, got %+v", log.actions)
	}
	if projector.current != "films-2" || projector.last.ID != "films-2" {
		t.Fatalf("projector not updated: current=%s last=%s", projector.current, projector.last.ID)
	}
}

func TestCreateProfileProceedsWhenIDAttemptsExhausted(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.WarnLevel)
	store := &memStateStore{}
	log := &memActionLog{}
	svc := newService(&stubGen{ids: []string{"dup"}}, 3, store, log, &memProjector{}, zap.New(core))

	if _, err := svc.CreateProfile(context.Background(), "First", rawEntries("A", "B")); err != nil {
		t.Fatalf("create first profile: %v", err)
	}
	profile, err := svc.CreateProfile(context.Background(), "Second", rawEntries("X", "Y"))
	if err != nil {
		t.Fatalf("exhaustion must not fail the create: %v", err)
	}
	if profile.ID != "dup" {
		t.Fatalf("expected the last drawn id, got %s", profile.ID)
	}
	if profile.Name != "Second" {
		t.Fatalf("colliding create must still insert the new profile, got %+v", profile)
	}

	warnings := logs.FilterMessage("profile id collision retries exhausted").All()
	if len(warnings) != 1 {
		t.Fatalf("expected one exhaustion warning, got %d", len(warnings))
	}
	fields := warnings[0].ContextMap()
	if fields["attempts"] != int64(3) {
		t.Fatalf("expected attempts=3 in warning, got %v", fields["attempts"])
	}
}

func TestVoteSkipAndMergeFlow(t *testing.T) {
	t.Parallel()
	store := &memStateStore{}
	log := &memActionLog{}
	projector := &memProjector{}
	svc := newService(&stubGen{ids: []string{"films-1"}}, 5, store, log, projector, zap.NewNop())

	created, err := svc.CreateProfile(context.Background(), "Films", rawEntries("A", "B", "C"))
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if created.TotalComparisons != 3 {
		t.Fatalf("expected 3 pairs, got %d", created.TotalComparisons)
	}

	profile, pair, err := svc.Vote(context.Background(), 0, "a")
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if pair.ID != domain.PairID("a", "b") || profile.Candidates["a"].Score != 1 {
		t.Fatalf("unexpected vote result: pair=%s score=%d", pair.ID, profile.Candidates["a"].Score)
	}

	profile, skipped, err := svc.Skip(context.Background(), 0)
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if skipped.Skipped != 1 || len(profile.Pairs) != 2 {
		t.Fatalf("unexpected skip result: %+v", skipped)
	}

	profile, added, err := svc.MergeCandidates(context.Background(), rawEntries("A", "D"))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if added != 1 || profile.TotalComparisons != 4 {
		t.Fatalf("expected one new pair, got added=%d total=%d", added, profile.TotalComparisons)
	}

	kinds := make([]domain.ActionKind, 0, len(log.actions))
	for _, action := range log.actions {
		kinds = append(kinds, action.Kind)
	}
	want := []domain.ActionKind{domain.ActionAddProfile, domain.ActionVote, domain.ActionSkip, domain.ActionMergeCandidates}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d actions, got %v", len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("action %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
	if projector.last.TotalComparisons != 4 {
		t.Fatalf("projector saw stale profile: %+v", projector.last)
	}
}

func TestRejectedTransitionPersistsNothing(t *testing.T) {
	t.Parallel()
	store := &memStateStore{}
	log := &memActionLog{}
	svc := newService(&stubGen{ids: []string{"films-1"}}, 5, store, log, &memProjector{}, zap.NewNop())

	if _, err := svc.CreateProfile(context.Background(), "Films", rawEntries("A", "B")); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	savesBefore := store.saves

	if _, err := svc.SetCurrentProfile(context.Background(), "ghost"); !errors.Is(err, domain.ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	if _, _, err := svc.Vote(context.Background(), 0, "zed"); !errors.Is(err, domain.ErrUnknownCandidate) {
		t.Fatalf("expected ErrUnknownCandidate, got %v", err)
	}
	if _, _, err := svc.Skip(context.Background(), 9); !errors.Is(err, domain.ErrPairIndexOutOfRange) {
		t.Fatalf("expected ErrPairIndexOutOfRange, got %v", err)
	}

	if store.saves != savesBefore {
		t.Fatalf("rejected transitions must not save, saves went %d -> %d", savesBefore, store.saves)
	}
	if len(log.actions) != 1 {
		t.Fatalf("rejected transitions must not append to the log, got %d", len(log.actions))
	}
}

func TestCreateProfileRequiresName(t *testing.T) {
	t.Parallel()
	svc := newService(&stubGen{ids: []string{"x"}}, 5, &memStateStore{}, &memActionLog{}, &memProjector{}, zap.NewNop())
	if _, err := svc.CreateProfile(context.Background(), "   ", nil); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestReindexRebuildsProjector(t *testing.T) {
	t.Parallel()
	store := &memStateStore{}
	log := &memActionLog{}
	projector := &memProjector{}
	svc := newService(&stubGen{ids: []string{"one", "two"}}, 5, store, log, projector, zap.NewNop())

	if _, err := svc.CreateProfile(context.Background(), "One", rawEntries("A", "B")); err != nil {
		t.Fatalf("create one: %v", err)
	}
	if _, err := svc.CreateProfile(context.Background(), "Two", rawEntries("X", "Y")); err != nil {
		t.Fatalf("create two: %v", err)
	}
	upsertsBefore := projector.upserts

	if err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if projector.resets != 1 {
		t.Fatalf("expected one reset, got %d", projector.resets)
	}
	if projector.upserts != upsertsBefore+2 {
		t.Fatalf("expected every profile reprojected, got %d extra", projector.upserts-upsertsBefore)
	}
	if projector.current != "two" {
		t.Fatalf("expected current profile restored, got %s", projector.current)
	}
}

func TestHistoryTail(t *testing.T) {
	t.Parallel()
	store := &memStateStore{}
	log := &memActionLog{}
	svc := newService(&stubGen{ids: []string{"films-1"}}, 5, store, log, &memProjector{}, zap.NewNop())

	if _, err := svc.CreateProfile(context.Background(), "Films", rawEntries("A", "B", "C")); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, _, err := svc.Vote(context.Background(), 0, "a"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, _, err := svc.Vote(context.Background(), 0, "c"); err != nil {
		t.Fatalf("vote: %v", err)
	}

	tail, err := svc.History(context.Background(), 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(tail) != 2 || tail[0].Kind != domain.ActionVote || tail[1].Kind != domain.ActionVote {
		t.Fatalf("unexpected tail: %+v", tail)
	}
	all, err := svc.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected full history, got %d", len(all))
	}
}
