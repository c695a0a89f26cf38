package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pairrank/internal/modules/report/domain"
	reportout "pairrank/internal/modules/report/port/out"
	"pairrank/internal/platform/markdown"
)

type noteFrontmatter struct {
	SchemaVersion    int    `yaml:"schema_version"`
	ProfileID        string `yaml:"profile_id"`
	Name             string `yaml:"name"`
	CreatedAt        string `yaml:"created_at"`
	UpdatedAt        string `yaml:"updated_at"`
	TotalComparisons int    `yaml:"total_comparisons"`
	PendingPairs     int    `yaml:"pending_pairs"`
	Progress         int    `yaml:"progress"`
	Completed        bool   `yaml:"completed"`
}

type FileNoteStore struct {
	dataDir string
}

func NewFileNoteStore(dataDir string) reportout.NoteStore {
	return &FileNoteStore{dataDir: dataDir}
}

func (s *FileNoteStore) Save(_ context.Context, report domain.ProfileReport) (string, error) {
	notePath := filepath.Join(s.dataDir, "rankings", report.ProfileID+".md")
	if err := os.MkdirAll(filepath.Dir(notePath), 0o755); err != nil {
		return "", fmt.Errorf("create rankings directory: %w", err)
	}

	body := ""
	createdAt := report.UpdatedAt.Format(time.RFC3339)
	if existing, err := os.ReadFile(notePath); err == nil {
		meta := noteFrontmatter{}
		parsed, splitErr := markdown.SplitFrontmatter(string(existing), &meta)
		if splitErr != nil {
			return "", fmt.Errorf("parse %s: %w", notePath, splitErr)
		}
		body = parsed
		if meta.CreatedAt != "" {
			createdAt = meta.CreatedAt
		}
	}

	if strings.TrimSpace(body) == "" {
		body = "## Notes\n"
	}
	body = markdown.ReplaceManagedBlock(body, domain.ManagedRankingsStart, domain.ManagedRankingsEnd, report.RenderTable())

	meta := noteFrontmatter{
		SchemaVersion:    domain.SchemaVersion,
		ProfileID:        report.ProfileID,
		Name:             report.Name,
		CreatedAt:        createdAt,
		UpdatedAt:        report.UpdatedAt.Format(time.RFC3339),
		TotalComparisons: report.TotalComparisons,
		PendingPairs:     report.Pending,
		Progress:         report.Progress(),
		Completed:        report.Completed(),
	}
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(notePath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write ranking note: %w", err)
	}
	return notePath, nil
}
