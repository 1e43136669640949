package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/phrasebook"
)

var phrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "Inspect or generate narration phrase sets",
}

var phrasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and cached narration languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		catalog := phrasebook.NewCatalog()
		fmt.Fprintln(out, "Built in")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, tag := range catalog.Languages() {
			fmt.Fprintf(out, "%-8s  %s\n", tag, phrasebook.Label(tag))
		}

		recs, err := s.PhraseRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list phrase sets: %w", err)
		}
		if len(recs) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Generated")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, rec := range recs {
			label := rec.Lang
			if tag, err := language.Parse(rec.Lang); err == nil {
				label = phrasebook.Label(tag)
			}
			fmt.Fprintf(out, "%-8s  %-20s  %s  %s\n", rec.Lang, label,
				rec.CreatedAt.Local().Format("2006-01-02"), rec.Model)
		}
		return nil
	},
}

var phrasesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a phrase set for a language with the configured LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		langVal, _ := cmd.Flags().GetString("lang")
		force, _ := cmd.Flags().GetBool("force")
		tag, err := parseLang(langVal)
		if err != nil {
			return err
		}

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		catalog := phrasebook.NewCatalog()
		if matched, ok := catalog.Match(tag); ok && !force {
			return fmt.Errorf("%s is built in (as %s); use --force to generate anyway", tag, matched)
		}

		provider := buildProvider(cmd, cfg.LLM, s.EventRepo())
		if provider == nil {
			return phrasebook.ErrNoProvider
		}

		translator := phrasebook.NewTranslator(catalog, s.PhraseRepo(), provider)
		set, err := translator.Generate(cmd.Context(), tag)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		book := catalog.Phrasebook(tag)
		fmt.Fprintf(out, "Saved phrases for %s (%s)\n\n", tag, phrasebook.Label(tag))
		fmt.Fprintf(out, "Question:  %s\n", book.Question(7, 8))
		fmt.Fprintf(out, "Win:       %s\n", book.Win(1000))
		fmt.Fprintf(out, "Praise:    %s\n", strings.Join(set.Standard, " · "))
		fmt.Fprintf(out, "Near win:  %s\n", strings.Join(set.NearWin, " · "))
		return nil
	},
}

func parseLang(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", s, err)
	}
	return tag, nil
}

func init() {
	phrasesGenerateCmd.Flags().String("lang", "", "BCP 47 language tag (required)")
	phrasesGenerateCmd.Flags().Bool("force", false, "Generate even when the language is built in")
	_ = phrasesGenerateCmd.MarkFlagRequired("lang")

	phrasesCmd.AddCommand(phrasesListCmd)
	phrasesCmd.AddCommand(phrasesGenerateCmd)
}
