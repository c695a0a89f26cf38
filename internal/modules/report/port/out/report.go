package out

import (
	"context"

	"pairrank/internal/modules/report/domain"
)

// NoteStore writes a profile's ranking note and returns its path.
type NoteStore interface {
	Save(ctx context.Context, report domain.ProfileReport) (string, error)
}
