package service

import (
	"context"

	"pairrank/internal/modules/report/domain"
	reportout "pairrank/internal/modules/report/port/out"
)

type ReportService struct {
	store reportout.NoteStore
}

func NewReportService(store reportout.NoteStore) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) SyncProfile(ctx context.Context, report domain.ProfileReport) (string, error) {
	if err := report.Validate(); err != nil {
		return "", err
	}
	return s.store.Save(ctx, report)
}
