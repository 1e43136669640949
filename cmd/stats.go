package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/timez/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show play statistics from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		return printStats(cmd.Context(), s.EventRepo(), limit, cmd.OutOrStdout())
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of recent sessions to show")
}

func printStats(ctx context.Context, repo store.EventRepo, limit int, out io.Writer) error {
	sessions, err := repo.QuerySessionSummaries(ctx, store.QueryOpts{})
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No games played yet.")
		return nil
	}

	var wins, best int
	for _, s := range sessions {
		if s.Won() {
			wins++
		}
		best = max(best, s.Score)
	}
	totals, err := repo.AnswerTotals(ctx)
	if err != nil {
		return fmt.Errorf("query answers: %w", err)
	}

	fmt.Fprintf(out, "Games:     %d (%d won)\n", len(sessions), wins)
	fmt.Fprintf(out, "Best:      %d\n", best)
	if totals.Answered > 0 {
		fmt.Fprintf(out, "Answers:   %d (%.0f%% correct)\n",
			totals.Answered, float64(totals.Correct)/float64(totals.Answered)*100)
	}

	missed, err := repo.MostMissed(ctx, 5)
	if err != nil {
		return fmt.Errorf("query missed facts: %w", err)
	}
	if len(missed) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Most missed")
		fmt.Fprintln(out, strings.Repeat("─", 30))
		for _, m := range missed {
			fmt.Fprintf(out, "%3d × %-3d = %-5d  %d×\n", m.A, m.B, m.A*m.B, m.Misses)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Recent games")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	fmt.Fprintf(out, "%-16s  %-8s  %-8s  %5s  %9s  %6s  %s\n",
		"Date", "Tier", "Lang", "Score", "Questions", "Time", "Result")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	for i, s := range sessions {
		if limit > 0 && i >= limit {
			break
		}
		result := "abandoned"
		if s.Won() {
			result = "won"
		}
		fmt.Fprintf(out, "%-16s  %-8s  %-8s  %5d  %9d  %3d:%02d  %s\n",
			s.Timestamp.Local().Format("2006-01-02 15:04"),
			s.Tier, s.Language, s.Score, s.Questions,
			s.DurationSecs/60, s.DurationSecs%60, result)
	}
	return nil
}
