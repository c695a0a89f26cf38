package in

import (
	"context"

	"pairrank/internal/modules/ranking/dto"
)

type Usecase interface {
	CreateProfile(ctx context.Context, input dto.CreateProfileInput) (dto.ProfileOutput, error)
	SetCurrentProfile(ctx context.Context, profileID string) (dto.ProfileOutput, error)
	MergeCandidates(ctx context.Context, input dto.MergeCandidatesInput) (dto.MergeOutput, error)
	Vote(ctx context.Context, input dto.VoteInput) (dto.VoteOutput, error)
	Skip(ctx context.Context, input dto.SkipInput) (dto.SkipOutput, error)
	ListProfiles(ctx context.Context) ([]dto.ProfileSummaryOutput, error)
	GetProfile(ctx context.Context, profileID string) (dto.ProfileOutput, error)
	CurrentProfile(ctx context.Context) (dto.ProfileOutput, error)
	PendingPairs(ctx context.Context, limit int) ([]dto.PairOutput, error)
	History(ctx context.Context, tail int) ([]dto.ActionOutput, error)
	Reindex(ctx context.Context) error
	SyncReports(ctx context.Context) (int, error)
}
