package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pairrank/internal/bootstrap"
	rankingcli "pairrank/internal/modules/ranking/adapter/in"
	rankingdto "pairrank/internal/modules/ranking/dto"
	"pairrank/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "pairrank",
		Short:         "Pairwise voting ranker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory")

	root.AddCommand(newProfileCmd(&dataDir))
	root.AddCommand(newAddCmd(&dataDir))
	root.AddCommand(newPairsCmd(&dataDir))
	root.AddCommand(newVoteCmd(&dataDir))
	root.AddCommand(newSkipCmd(&dataDir))
	root.AddCommand(newRankingCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newReindexCmd(&dataDir))
	root.AddCommand(newReportCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// collectEntries merges positional entry args with lines read from
// --from (a file path, or "-" for stdin).
func collectEntries(cmd *cobra.Command, args []string, fromPath string) ([]rankingdto.EntryInput, error) {
	entries := make([]rankingdto.EntryInput, 0, len(args))
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		entries = append(entries, rankingcli.ParseEntry(arg))
	}
	if fromPath == "" {
		return entries, nil
	}
	var raw []byte
	var err error
	if fromPath == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(fromPath)
	}
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return append(entries, rankingcli.ParseEntryLines(string(raw))...), nil
}

func newProfileCmd(dataDir *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Ranking profile commands"}

	var name, fromPath string
	create := &cobra.Command{
		Use:   "create --name <name> [entries...]",
		Short: "Create a profile and make it current",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			entries, err := collectEntries(cmd, args, fromPath)
			if err != nil {
				return err
			}
			out, err := app.RankingCLI.CreateProfile(context.Background(), name, entries)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created profile %s (%s) candidates=%d pairs=%d\n", out.Name, out.ID, len(out.Rankings), out.Total)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "profile name")
	create.Flags().StringVar(&fromPath, "from", "", "read entries from a file, or - for stdin")

	profile.AddCommand(create)

	profile.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			profiles, err := app.RankingCLI.ListProfiles(context.Background())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no profiles")
				return nil
			}
			for _, p := range profiles {
				marker := " "
				if p.Current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%d candidates\t%d/%d voted\n", marker, p.ID, p.Name, p.Candidates, p.Progress, p.Total)
			}
			return nil
		},
	})

	var showID string
	show := &cobra.Command{
		Use:   "show [--id <id>]",
		Short: "Show a profile (default: current)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			p, err := app.RankingCLI.ShowProfile(context.Background(), showID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nname: %s\ncandidates: %d\nprogress: %d/%d\npending: %d\nfully voted: %t\nupdated: %s\n",
				p.ID, p.Name, len(p.Rankings), p.Progress, p.Total, len(p.Pending), p.FullyVoted, p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
			return nil
		},
	}
	show.Flags().StringVar(&showID, "id", "", "profile id (defaults to current)")
	profile.AddCommand(show)

	var useID string
	use := &cobra.Command{
		Use:   "use --id <id>",
		Short: "Switch the current profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(useID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			p, err := app.RankingCLI.UseProfile(context.Background(), useID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "current profile: %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	use.Flags().StringVar(&useID, "id", "", "profile id")
	profile.AddCommand(use)

	return profile
}

func newAddCmd(dataDir *string) *cobra.Command {
	var fromPath string
	add := &cobra.Command{
		Use:   "add [entries...]",
		Short: "Merge candidates into the current profile",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			entries, err := collectEntries(cmd, args, fromPath)
			if err != nil {
				return err
			}
			out, err := app.RankingCLI.AddCandidates(context.Background(), entries)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "merged into %s: %d new pairs, %d candidates, %d pending\n", out.ProfileID, out.AddedPairs, out.Candidates, out.Pending)
			return nil
		},
	}
	add.Flags().StringVar(&fromPath, "from", "", "read entries from a file, or - for stdin")
	return add
}

func newPairsCmd(dataDir *string) *cobra.Command {
	var limit int
	pairs := &cobra.Command{
		Use:   "pairs",
		Short: "List pending pairs of the current profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			out, err := app.RankingCLI.PendingPairs(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(out) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no pending pairs")
				return nil
			}
			for _, pair := range out {
				line := fmt.Sprintf("[%d] %s vs %s", pair.Index, pair.LeftName, pair.RightName)
				if pair.Skipped > 0 {
					line += fmt.Sprintf(" (skipped %d)", pair.Skipped)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	pairs.Flags().IntVar(&limit, "limit", 0, "show at most this many pairs (0 = all)")
	return pairs
}

func newVoteCmd(dataDir *string) *cobra.Command {
	var pairIndex int
	var winner string
	vote := &cobra.Command{
		Use:   "vote --pair <index> --winner <name-or-id>",
		Short: "Resolve a pending pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pairIndex < 0 {
				return fmt.Errorf("--pair is required")
			}
			if strings.TrimSpace(winner) == "" {
				return fmt.Errorf("--winner is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			out, err := app.RankingCLI.Vote(context.Background(), pairIndex, winner)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s wins %s, score=%d, %d pending (%d/%d)\n", out.WinnerName, out.PairID, out.WinnerScore, out.Pending, out.Progress, out.Total)
			if out.FullyVoted {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all pairs voted")
			}
			return nil
		},
	}
	vote.Flags().IntVar(&pairIndex, "pair", -1, "pending pair index")
	vote.Flags().StringVar(&winner, "winner", "", "winning candidate name or id")
	return vote
}

func newSkipCmd(dataDir *string) *cobra.Command {
	var pairIndex int
	skip := &cobra.Command{
		Use:   "skip --pair <index>",
		Short: "Defer a pending pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pairIndex < 0 {
				return fmt.Errorf("--pair is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			out, err := app.RankingCLI.Skip(context.Background(), pairIndex)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "skipped %s (%d times), %d pending\n", out.PairID, out.Skipped, out.Pending)
			return nil
		},
	}
	skip.Flags().IntVar(&pairIndex, "pair", -1, "pending pair index")
	return skip
}

func newRankingCmd(dataDir *string) *cobra.Command {
	var profileID string
	ranking := &cobra.Command{
		Use:   "ranking [--id <id>]",
		Short: "Show the ranking (default: current profile)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			p, err := app.RankingCLI.ShowProfile(context.Background(), profileID)
			if err != nil {
				return err
			}
			if len(p.Rankings) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no candidates")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d/%d voted)\n", p.Name, p.Progress, p.Total)
			for _, c := range p.Rankings {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\n", c.Rank, c.Name, c.Score)
			}
			return nil
		},
	}
	ranking.Flags().StringVar(&profileID, "id", "", "profile id (defaults to current)")
	return ranking
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	var tail int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show recorded actions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			actions, err := app.RankingCLI.History(context.Background(), tail)
			if err != nil {
				return err
			}
			if len(actions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no actions recorded")
				return nil
			}
			for _, action := range actions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", action.At.Format("2006-01-02T15:04:05Z07:00"), action.Kind, action.Detail)
			}
			return nil
		},
	}
	history.Flags().IntVar(&tail, "tail", 0, "show only the last N actions (0 = all)")
	return history
}

func newReindexCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite read model from the snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			if err := app.RankingCLI.Reindex(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reindex complete")
			return nil
		},
	}
}

func newReportCmd(dataDir *string) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Ranking note commands"}
	report.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Rewrite every profile's ranking note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer app.Logger.Sync()
			written, err := app.RankingCLI.SyncReports(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "synced %d ranking notes\n", written)
			return nil
		},
	})
	return report
}
