package out

import (
	"context"

	"pairrank/internal/modules/ranking/domain"
)

// StateStore persists the snapshot opaquely. Load on a fresh data dir
// returns an empty state, not an error.
type StateStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}

// ActionLog is the append-only transition history.
type ActionLog interface {
	Append(ctx context.Context, action domain.Action) error
	List(ctx context.Context) ([]domain.Action, error)
}

// RankingProjector maintains the queryable read model. It is derived
// data; Reset plus re-upserting every profile rebuilds it.
type RankingProjector interface {
	Reset(ctx context.Context) error
	UpsertProfile(ctx context.Context, profile domain.Profile) error
	SetCurrent(ctx context.Context, profileID string) error
}
