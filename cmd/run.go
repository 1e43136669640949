package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/timez/internal/app"
	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/llm"
	"github.com/abhisek/timez/internal/narration"
	"github.com/abhisek/timez/internal/phrasebook"
	"github.com/abhisek/timez/internal/session"
	"github.com/abhisek/timez/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	provider := buildProvider(cmd, cfg.LLM, eventRepo)

	translator := phrasebook.NewTranslator(phrasebook.NewCatalog(), st.PhraseRepo(), provider)
	if err := translator.Preload(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	phrases := translator.Resolve(ctx, cfg.LanguageTag())

	caption := &narration.CaptionSpeaker{}
	var speaker narration.Speaker = caption
	if cfg.NarrationCommand != "" {
		speaker = narration.MultiSpeaker{caption, &narration.ExecSpeaker{Command: cfg.NarrationCommand}}
	}
	narrator := narration.NewDispatcher(speaker, phrases.Tag())
	defer narrator.Close()

	game := session.New(session.Options{
		Rand:      engine.NewRand(cfg.Seed),
		Phrases:   phrases,
		Narrator:  narrator,
		EventRepo: eventRepo,
	})

	opts := app.Options{
		Game:          game,
		Catalog:       translator.Catalog(),
		EventRepo:     eventRepo,
		Narrator:      narrator,
		Caption:       caption,
		FeedbackDelay: cfg.FeedbackDelay,
	}
	if tier, ok := cfg.Difficulty(); ok {
		opts.Tier = &tier
	}

	err = app.Run(opts)
	// Quitting mid-game journals the session as abandoned.
	game.Abandon(ctx)
	return err
}

// buildProvider returns the configured LLM provider, or nil when none is
// configured or it fails to initialize.
func buildProvider(cmd *cobra.Command, cfg llm.Config, eventRepo store.EventRepo) llm.Provider {
	provider, err := llm.NewProvider(cmd.Context(), cfg, eventRepo)
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Phrases for new languages will be unavailable.")
		}
		return nil
	}
	return provider
}
