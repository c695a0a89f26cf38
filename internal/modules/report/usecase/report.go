package usecase

import (
	"context"

	"pairrank/internal/modules/report/domain"
	reportin "pairrank/internal/modules/report/port/in"
	"pairrank/internal/modules/report/service"
)

type Interactor struct {
	svc *service.ReportService
}

func NewInteractor(svc *service.ReportService) reportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SyncProfile(ctx context.Context, input reportin.SyncProfileInput) (string, error) {
	rankings := make([]domain.RankedCandidate, 0, len(input.Rankings))
	for index, candidate := range input.Rankings {
		rankings = append(rankings, domain.RankedCandidate{
			Rank:  index + 1,
			ID:    candidate.ID,
			Name:  candidate.Name,
			Score: candidate.Score,
		})
	}
	return i.svc.SyncProfile(ctx, domain.ProfileReport{
		ProfileID:        input.ProfileID,
		Name:             input.Name,
		UpdatedAt:        input.UpdatedAt,
		TotalComparisons: input.TotalComparisons,
		Pending:          input.Pending,
		Rankings:         rankings,
	})
}
