package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pairrank/internal/modules/ranking/domain"
	"pairrank/internal/modules/ranking/dto"
	rankingin "pairrank/internal/modules/ranking/port/in"
	"pairrank/internal/modules/ranking/service"
	reportin "pairrank/internal/modules/report/port/in"
)

type Interactor struct {
	svc    *service.RankingService
	report reportin.Usecase
}

func NewInteractor(svc *service.RankingService, report reportin.Usecase) rankingin.Usecase {
	return &Interactor{svc: svc, report: report}
}

func (i *Interactor) CreateProfile(ctx context.Context, input dto.CreateProfileInput) (dto.ProfileOutput, error) {
	profile, err := i.svc.CreateProfile(ctx, input.Name, toRawEntries(input.Entries))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	i.syncReport(ctx, profile)
	return toProfileOutput(profile, true), nil
}

func (i *Interactor) SetCurrentProfile(ctx context.Context, profileID string) (dto.ProfileOutput, error) {
	profile, err := i.svc.SetCurrentProfile(ctx, strings.TrimSpace(profileID))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toProfileOutput(profile, true), nil
}

func (i *Interactor) MergeCandidates(ctx context.Context, input dto.MergeCandidatesInput) (dto.MergeOutput, error) {
	profile, added, err := i.svc.MergeCandidates(ctx, toRawEntries(input.Entries))
	if err != nil {
		return dto.MergeOutput{}, err
	}
	i.syncReport(ctx, profile)
	return dto.MergeOutput{
		ProfileID:  profile.ID,
		Name:       profile.Name,
		AddedPairs: added,
		Candidates: len(profile.Order),
		Pending:    len(profile.Pairs),
		Total:      profile.TotalComparisons,
	}, nil
}

func (i *Interactor) Vote(ctx context.Context, input dto.VoteInput) (dto.VoteOutput, error) {
	// winners may arrive as display names; the normalization key of an
	// id is the id itself, so normalizing is safe either way
	winnerID := domain.NormalizeKey(input.Winner)
	profile, pair, err := i.svc.Vote(ctx, input.PairIndex, winnerID)
	if err != nil {
		return dto.VoteOutput{}, err
	}
	i.syncReport(ctx, profile)
	winner := profile.Candidates[winnerID]
	return dto.VoteOutput{
		ProfileID:   profile.ID,
		PairID:      pair.ID,
		WinnerID:    winner.ID,
		WinnerName:  winner.Name,
		WinnerScore: winner.Score,
		Pending:     len(profile.Pairs),
		Progress:    profile.Progress(),
		Total:       profile.TotalComparisons,
		FullyVoted:  profile.FullyVoted(),
	}, nil
}

func (i *Interactor) Skip(ctx context.Context, input dto.SkipInput) (dto.SkipOutput, error) {
	profile, pair, err := i.svc.Skip(ctx, input.PairIndex)
	if err != nil {
		return dto.SkipOutput{}, err
	}
	i.syncReport(ctx, profile)
	return dto.SkipOutput{
		ProfileID: profile.ID,
		PairID:    pair.ID,
		Skipped:   pair.Skipped,
		Pending:   len(profile.Pairs),
	}, nil
}

func (i *Interactor) ListProfiles(ctx context.Context) ([]dto.ProfileSummaryOutput, error) {
	profiles, currentID, err := i.svc.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfileSummaryOutput, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, dto.ProfileSummaryOutput{
			ID:         profile.ID,
			Name:       profile.Name,
			Current:    profile.ID == currentID,
			Candidates: len(profile.Order),
			Pending:    len(profile.Pairs),
			Progress:   profile.Progress(),
			Total:      profile.TotalComparisons,
			FullyVoted: profile.FullyVoted(),
			UpdatedAt:  profile.DateTime,
		})
	}
	return out, nil
}

func (i *Interactor) GetProfile(ctx context.Context, profileID string) (dto.ProfileOutput, error) {
	profile, current, err := i.svc.GetProfile(ctx, strings.TrimSpace(profileID))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toProfileOutput(profile, current), nil
}

func (i *Interactor) CurrentProfile(ctx context.Context) (dto.ProfileOutput, error) {
	profile, err := i.svc.CurrentProfile(ctx)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toProfileOutput(profile, true), nil
}

func (i *Interactor) PendingPairs(ctx context.Context, limit int) ([]dto.PairOutput, error) {
	profile, err := i.svc.CurrentProfile(ctx)
	if err != nil {
		return nil, err
	}
	pairs := toPairOutputs(profile)
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs, nil
}

func (i *Interactor) History(ctx context.Context, tail int) ([]dto.ActionOutput, error) {
	actions, err := i.svc.History(ctx, tail)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActionOutput, 0, len(actions))
	for _, action := range actions {
		out = append(out, dto.ActionOutput{
			At:     action.At,
			Kind:   string(action.Kind),
			Detail: describeAction(action),
		})
	}
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context) error {
	return i.svc.Reindex(ctx)
}

// SyncReports rewrites the ranking note of every profile and returns
// how many were written.
func (i *Interactor) SyncReports(ctx context.Context) (int, error) {
	if i.report == nil {
		return 0, nil
	}
	profiles, _, err := i.svc.ListProfiles(ctx)
	if err != nil {
		return 0, err
	}
	written := 0
	for _, profile := range profiles {
		if _, err := i.report.SyncProfile(ctx, toSyncInput(profile)); err != nil {
			return written, fmt.Errorf("sync report for %s: %w", profile.ID, err)
		}
		written++
	}
	return written, nil
}

func (i *Interactor) syncReport(ctx context.Context, profile domain.Profile) {
	if i.report != nil {
		_, _ = i.report.SyncProfile(ctx, toSyncInput(profile))
	}
}

func toSyncInput(profile domain.Profile) reportin.SyncProfileInput {
	rankings := profile.Rankings()
	candidates := make([]reportin.RankedCandidateInput, 0, len(rankings))
	for _, candidate := range rankings {
		candidates = append(candidates, reportin.RankedCandidateInput{
			ID:    candidate.ID,
			Name:  candidate.Name,
			Score: candidate.Score,
		})
	}
	return reportin.SyncProfileInput{
		ProfileID:        profile.ID,
		Name:             profile.Name,
		UpdatedAt:        profile.DateTime,
		TotalComparisons: profile.TotalComparisons,
		Pending:          len(profile.Pairs),
		Rankings:         candidates,
	}
}

func toRawEntries(entries []dto.EntryInput) []domain.RawEntry {
	out := make([]domain.RawEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, domain.RawEntry{Name: entry.Name, Image: entry.Image})
	}
	return out
}

func toProfileOutput(profile domain.Profile, current bool) dto.ProfileOutput {
	rankings := profile.Rankings()
	candidates := make([]dto.CandidateOutput, 0, len(rankings))
	for rank, candidate := range rankings {
		candidates = append(candidates, dto.CandidateOutput{
			Rank:  rank + 1,
			ID:    candidate.ID,
			Name:  candidate.Name,
			Image: candidate.Image,
			Score: candidate.Score,
		})
	}
	return dto.ProfileOutput{
		ID:         profile.ID,
		Name:       profile.Name,
		Current:    current,
		Rankings:   candidates,
		Pending:    toPairOutputs(profile),
		Progress:   profile.Progress(),
		Total:      profile.TotalComparisons,
		FullyVoted: profile.FullyVoted(),
		UpdatedAt:  profile.DateTime,
	}
}

func toPairOutputs(profile domain.Profile) []dto.PairOutput {
	out := make([]dto.PairOutput, 0, len(profile.Pairs))
	for index, pair := range profile.Pairs {
		out = append(out, dto.PairOutput{
			Index:     index,
			ID:        pair.ID,
			LeftID:    pair.LeftID,
			LeftName:  profile.Candidates[pair.LeftID].Name,
			RightID:   pair.RightID,
			RightName: profile.Candidates[pair.RightID].Name,
			Skipped:   pair.Skipped,
		})
	}
	return out
}

func describeAction(action domain.Action) string {
	switch action.Kind {
	case domain.ActionAddProfile:
		payload := domain.AddProfilePayload{}
		if err := json.Unmarshal(action.Payload, &payload); err == nil {
			return fmt.Sprintf("profile %q (%s), %d entries", payload.Name, payload.ProfileID, len(payload.Entries))
		}
	case domain.ActionSetCurrentProfile:
		payload := domain.SetCurrentProfilePayload{}
		if err := json.Unmarshal(action.Payload, &payload); err == nil {
			return "switched to " + payload.ProfileID
		}
	case domain.ActionMergeCandidates:
		payload := domain.MergeCandidatesPayload{}
		if err := json.Unmarshal(action.Payload, &payload); err == nil {
			return fmt.Sprintf("%d entries submitted", len(payload.Entries))
		}
	case domain.ActionVote:
		payload := domain.VotePayload{}
		if err := json.Unmarshal(action.Payload, &payload); err == nil {
			return fmt.Sprintf("pair %d won by %s", payload.PairIndex, payload.WinnerID)
		}
	case domain.ActionSkip:
		payload := domain.SkipPayload{}
		if err := json.Unmarshal(action.Payload, &payload); err == nil {
			return fmt.Sprintf("pair %d deferred", payload.PairIndex)
		}
	}
	return ""
}
