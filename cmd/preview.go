package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/phrasebook"
	"github.com/abhisek/timez/internal/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play in plain text (no TUI, no database)",
	Long: `Answer questions on stdin without the TUI.

This is a stateless developer tool: no database, no journal, no narration.
Useful for checking question difficulty at a given tier and score.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("tier", "easy", "Difficulty tier: easy, moderate or hard")
	previewCmd.Flags().Int("score", 0, "Starting score (options turn into typed answers at 900)")
	previewCmd.Flags().Int("count", 10, "Number of questions")
	previewCmd.Flags().String("lang", "en", "Language for the question prompt")
	previewCmd.Flags().Uint64("seed", 0, "Seed for the question sequence (0 = random)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	tierVal, _ := cmd.Flags().GetString("tier")
	score, _ := cmd.Flags().GetInt("score")
	count, _ := cmd.Flags().GetInt("count")
	langVal, _ := cmd.Flags().GetString("lang")
	seed, _ := cmd.Flags().GetUint64("seed")

	tier, err := engine.ParseDifficulty(tierVal)
	if err != nil {
		return err
	}
	tag, err := parseLang(langVal)
	if err != nil {
		return err
	}

	phrases := phrasebook.NewCatalog().Phrasebook(tag)
	game := session.New(session.Options{Rand: engine.NewRand(seed), Phrases: phrases})
	if err := game.StartAt(cmd.Context(), tier, score); err != nil {
		return err
	}

	return playPreview(cmd.Context(), game, count, os.Stdin, cmd.OutOrStdout())
}

// playPreview runs up to count questions of an already started game over
// plain text streams.
func playPreview(ctx context.Context, game *session.Game, count int, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	e := game.Engine()

	fmt.Fprintf(out, "Tier: %s, starting at %d points\n", game.Summary().Tier, e.Score())
	fmt.Fprintln(out, "Type the product, or #1-#4 to pick an option.")
	fmt.Fprintln(out)

	asked := 0
	for i := 1; i <= count; i++ {
		q, err := game.Next()
		if err != nil {
			return err
		}
		asked++

		fmt.Fprintf(out, "── Question %d/%d ──\n", i, count)
		fmt.Fprintln(out, e.Narration())
		freeEntry := e.Score() >= engine.FreeEntryScore
		if !freeEntry {
			for j, o := range q.Options {
				fmt.Fprintf(out, "  %d) %d\n", j+1, o)
			}
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			asked--
			break
		}
		answer := strings.TrimSpace(scanner.Text())

		var o engine.Outcome
		if idx, ok := optionPick(answer); ok && !freeEntry {
			o, err = game.Answer(ctx, q.Options[idx])
		} else {
			o, err = game.AnswerText(ctx, answer)
		}
		if err != nil {
			return err
		}

		if o.Correct {
			fmt.Fprintf(out, "\033[32m✓ %s\033[0m  %+d → %d\n", o.Compliment, o.Delta, o.Score)
		} else {
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %d  %+d → %d\n", q.Answer, o.Delta, o.Score)
		}
		if o.LevelDropped {
			fmt.Fprintln(out, "(difficulty lowered)")
		}
		fmt.Fprintln(out)

		if o.Won {
			fmt.Fprintln(out, game.WinText())
			break
		}
	}

	sum := game.Summary()
	fmt.Fprintf(out, "── Summary: %d/%d correct, score %d ──\n", sum.Correct, asked, sum.Score)
	return nil
}

// optionPick parses "#N" into a zero-based option index. Bare numbers are
// always typed answers, so a product of 1-4 is never mistaken for a pick.
func optionPick(s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, "#")
	if !ok {
		return 0, false
	}
	n, ok := engine.ParseAnswer(strings.TrimSpace(rest))
	if !ok || n < 1 || n > engine.OptionCount {
		return 0, false
	}
	return n - 1, true
}
