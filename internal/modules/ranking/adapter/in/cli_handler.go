package in

import (
	"context"
	"strings"

	"pairrank/internal/modules/ranking/dto"
	rankingin "pairrank/internal/modules/ranking/port/in"
)

type CLIHandler struct {
	usecase rankingin.Usecase
}

func NewCLIHandler(usecase rankingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) CreateProfile(ctx context.Context, name string, entries []dto.EntryInput) (dto.ProfileOutput, error) {
	return h.usecase.CreateProfile(ctx, dto.CreateProfileInput{Name: name, Entries: entries})
}

func (h CLIHandler) UseProfile(ctx context.Context, profileID string) (dto.ProfileOutput, error) {
	return h.usecase.SetCurrentProfile(ctx, profileID)
}

func (h CLIHandler) AddCandidates(ctx context.Context, entries []dto.EntryInput) (dto.MergeOutput, error) {
	return h.usecase.MergeCandidates(ctx, dto.MergeCandidatesInput{Entries: entries})
}

func (h CLIHandler) Vote(ctx context.Context, pairIndex int, winner string) (dto.VoteOutput, error) {
	return h.usecase.Vote(ctx, dto.VoteInput{PairIndex: pairIndex, Winner: winner})
}

func (h CLIHandler) Skip(ctx context.Context, pairIndex int) (dto.SkipOutput, error) {
	return h.usecase.Skip(ctx, dto.SkipInput{PairIndex: pairIndex})
}

func (h CLIHandler) ListProfiles(ctx context.Context) ([]dto.ProfileSummaryOutput, error) {
	return h.usecase.ListProfiles(ctx)
}

func (h CLIHandler) ShowProfile(ctx context.Context, profileID string) (dto.ProfileOutput, error) {
	if strings.TrimSpace(profileID) == "" {
		return h.usecase.CurrentProfile(ctx)
	}
	return h.usecase.GetProfile(ctx, profileID)
}

func (h CLIHandler) PendingPairs(ctx context.Context, limit int) ([]dto.PairOutput, error) {
	return h.usecase.PendingPairs(ctx, limit)
}

func (h CLIHandler) History(ctx context.Context, tail int) ([]dto.ActionOutput, error) {
	return h.usecase.History(ctx, tail)
}

func (h CLIHandler) Reindex(ctx context.Context) error {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) SyncReports(ctx context.Context) (int, error) {
	return h.usecase.SyncReports(ctx)
}

// ParseEntryLines turns free-form text into entry inputs, one per
// line. A name may carry an image URL after a "|" or, failing that,
// after the first ",". Blank lines are dropped; trimming and
// deduplication happen later in the core.
func ParseEntryLines(text string) []dto.EntryInput {
	lines := strings.Split(text, "\n")
	out := make([]dto.EntryInput, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, ParseEntry(line))
	}
	return out
}

// ParseEntry splits one raw line into name and optional image URL.
func ParseEntry(line string) dto.EntryInput {
	separator := "|"
	if !strings.Contains(line, separator) {
		separator = ","
	}
	name, image, found := strings.Cut(line, separator)
	if !found {
		return dto.EntryInput{Name: strings.TrimSpace(line)}
	}
	return dto.EntryInput{Name: strings.TrimSpace(name), Image: strings.TrimSpace(image)}
}
