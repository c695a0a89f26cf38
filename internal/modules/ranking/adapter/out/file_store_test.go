package out_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	rankingout "pairrank/internal/modules/ranking/adapter/out"
	"pairrank/internal/modules/ranking/domain"
)

func TestFileStateStoreLoadMissingReturnsFreshState(t *testing.T) {
	t.Parallel()
	store := rankingout.NewFileStateStore(t.TempDir())
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if state.CurrentProfile != "" || len(state.Profiles) != 0 {
		t.Fatalf("expected fresh state, got %+v", state)
	}
	if state.Profiles == nil {
		t.Fatalf("profiles map must be initialized")
	}
}

func TestFileStateStoreLoadEmptyFileReturnsFreshState(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dataDir, ".pairrank"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, ".pairrank", "state.json"), nil, 0o644); err != nil {
		t.Fatalf("write empty state: %v", err)
	}
	store := rankingout.NewFileStateStore(dataDir)
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if len(state.Profiles) != 0 {
		t.Fatalf("expected fresh state, got %+v", state)
	}
}

func TestFileStateStoreRoundTrip(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	store := rankingout.NewFileStateStore(dataDir)

	state := domain.NewState()
	profile := domain.NewProfile("films-1", "Films",
		[]domain.RawEntry{{Name: "Alpha"}, {Name: "Beta", Image: "beta.png"}},
		time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC))
	state.Profiles[profile.ID] = profile
	state.CurrentProfile = profile.ID

	if err := store.Save(context.Background(), state); err != nil {
		t.Fatalf("save state: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, ".pairrank", "state.json")); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if !reflect.DeepEqual(state, loaded) {
		t.Fatalf("state changed across save and load:\nsaved:  %+v\nloaded: %+v", state, loaded)
	}
}

func TestFileActionLogAppendAndList(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	log := rankingout.NewFileActionLog(dataDir)

	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	first := domain.NewVote(at, 0, "alpha")
	second := domain.NewSkip(at.Add(time.Minute), 1)
	if err := log.Append(context.Background(), first); err != nil {
		t.Fatalf("append vote: %v", err)
	}
	if err := log.Append(context.Background(), second); err != nil {
		t.Fatalf("append skip: %v", err)
	}

	// a stray blank line must not break replay
	logPath := filepath.Join(dataDir, ".pairrank", "actions.jsonl")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		t.Fatalf("write blank line: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	actions, err := log.List(context.Background())
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected two actions, got %d", len(actions))
	}
	if actions[0].Kind != domain.ActionVote || actions[1].Kind != domain.ActionSkip {
		t.Fatalf("unexpected kinds: %s, %s", actions[0].Kind, actions[1].Kind)
	}
	if !actions[0].At.Equal(first.At) {
		t.Fatalf("timestamp changed across append and list: %s vs %s", actions[0].At, first.At)
	}
	payload := domain.VotePayload{}
	if err := json.Unmarshal(actions[0].Payload, &payload); err != nil {
		t.Fatalf("decode vote payload: %v", err)
	}
	if payload.PairIndex != 0 || payload.WinnerID != "alpha" {
		t.Fatalf("unexpected vote payload: %+v", payload)
	}
}
