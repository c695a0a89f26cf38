package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"pairrank/internal/modules/ranking/domain"
	rankingout "pairrank/internal/modules/ranking/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteRankingProjector keeps a queryable mirror of the snapshot. It
// is write-only from this tool's side; anything may read the database.
type SQLiteRankingProjector struct {
	db *sql.DB
}

func NewSQLiteRankingProjector(dbPath string) (rankingout.RankingProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteRankingProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (p *SQLiteRankingProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  candidates INTEGER NOT NULL,
  total_comparisons INTEGER NOT NULL,
  pending_pairs INTEGER NOT NULL,
  progress INTEGER NOT NULL,
  fully_voted INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS candidates (
  profile_id TEXT NOT NULL,
  id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  score INTEGER NOT NULL,
  rank INTEGER NOT NULL,
  position INTEGER NOT NULL,
  PRIMARY KEY (profile_id, id)
);
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create ranking tables: %w", err)
	}
	return nil
}

func (p *SQLiteRankingProjector) Reset(ctx context.Context) error {
	for _, table := range []string{"candidates", "profiles", "meta"} {
		if _, err := p.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

func (p *SQLiteRankingProjector) UpsertProfile(ctx context.Context, profile domain.Profile) error {
	const stmt = `
INSERT INTO profiles (id, name, candidates, total_comparisons, pending_pairs, progress, fully_voted, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  candidates=excluded.candidates,
  total_comparisons=excluded.total_comparisons,
  pending_pairs=excluded.pending_pairs,
  progress=excluded.progress,
  fully_voted=excluded.fully_voted,
  updated_at=excluded.updated_at;
`
	fullyVoted := 0
	if profile.FullyVoted() {
		fullyVoted = 1
	}
	_, err := p.db.ExecContext(ctx, stmt,
		profile.ID,
		profile.Name,
		len(profile.Order),
		profile.TotalComparisons,
		len(profile.Pairs),
		profile.Progress(),
		fullyVoted,
		profile.DateTime.Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return p.replaceCandidates(ctx, profile)
}

func (p *SQLiteRankingProjector) replaceCandidates(ctx context.Context, profile domain.Profile) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM candidates WHERE profile_id = ?`, profile.ID); err != nil {
		return fmt.Errorf("clear candidates: %w", err)
	}
	positions := make(map[string]int, len(profile.Order))
	for position, candidateID := range profile.Order {
		positions[candidateID] = position
	}
	const stmt = `
INSERT INTO candidates (profile_id, id, name, image, score, rank, position)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	for rank, candidate := range profile.Rankings() {
		_, err := p.db.ExecContext(ctx, stmt,
			profile.ID,
			candidate.ID,
			candidate.Name,
			candidate.Image,
			candidate.Score,
			rank+1,
			positions[candidate.ID],
		)
		if err != nil {
			return fmt.Errorf("insert candidate %s: %w", candidate.ID, err)
		}
	}
	return nil
}

func (p *SQLiteRankingProjector) SetCurrent(ctx context.Context, profileID string) error {
	const stmt = `
INSERT INTO meta (key, value) VALUES ('current_profile', ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value;
`
	if _, err := p.db.ExecContext(ctx, stmt, profileID); err != nil {
		return fmt.Errorf("set current profile: %w", err)
	}
	return nil
}
