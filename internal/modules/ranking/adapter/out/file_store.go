package out

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pairrank/internal/modules/ranking/domain"
	rankingout "pairrank/internal/modules/ranking/port/out"
)

type FileStateStore struct {
	path string
	mu   sync.Mutex
}

type FileActionLog struct {
	path string
	mu   sync.Mutex
}

func NewFileStateStore(dataDir string) rankingout.StateStore {
	return &FileStateStore{path: filepath.Join(dataDir, ".pairrank", "state.json")}
}

func NewFileActionLog(dataDir string) rankingout.ActionLog {
	return &FileActionLog{path: filepath.Join(dataDir, ".pairrank", "actions.jsonl")}
}

func (s *FileStateStore) Load(_ context.Context) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewState(), nil
		}
		return domain.State{}, fmt.Errorf("read state: %w", err)
	}
	if len(raw) == 0 {
		return domain.NewState(), nil
	}
	state := domain.NewState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.State{}, fmt.Errorf("decode state: %w", err)
	}
	if state.Profiles == nil {
		state.Profiles = map[string]domain.Profile{}
	}
	return state, nil
}

func (s *FileStateStore) Save(_ context.Context, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (l *FileActionLog) Append(_ context.Context, action domain.Action) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create action log dir: %w", err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	defer file.Close()
	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	if _, err := file.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write action log: %w", err)
	}
	return nil
}

func (l *FileActionLog) List(_ context.Context) ([]domain.Action, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Action{}, nil
		}
		return nil, fmt.Errorf("open action log: %w", err)
	}
	defer file.Close()

	out := []domain.Action{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		action := domain.Action{}
		if err := json.Unmarshal(line, &action); err != nil {
			return nil, fmt.Errorf("decode action line: %w", err)
		}
		out = append(out, action)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan action log: %w", err)
	}
	return out, nil
}
