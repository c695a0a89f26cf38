package in

import (
	"context"
	"time"
)

type RankedCandidateInput struct {
	ID    string
	Name  string
	Score int
}

type SyncProfileInput struct {
	ProfileID        string
	Name             string
	UpdatedAt        time.Time
	TotalComparisons int
	Pending          int
	Rankings         []RankedCandidateInput
}

type Usecase interface {
	SyncProfile(ctx context.Context, input SyncProfileInput) (string, error)
}
