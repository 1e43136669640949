package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/timez/internal/config"
	"github.com/abhisek/timez/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "timez",
	Short: "Adaptive times-tables trainer",
	Long: `timez is a terminal multiplication quiz that adapts to the player.

Pick a difficulty and answer until your score reaches 1000. Questions get
harder on streaks and easier after repeated mistakes; past 900 points the
options disappear and answers must be typed.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TIMEZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/timez/config.toml)")
	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(phrasesCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// addPlayFlags registers the flags shared by the commands that start a game.
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().String("tier", "", "Start straight away on easy, moderate or hard")
	cmd.Flags().String("lang", "", "Narration language as a BCP 47 tag, e.g. es or pt-BR")
	cmd.Flags().Uint64("seed", 0, "Seed for the question sequence (0 = random)")
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if f := flags.Lookup("tier"); f != nil && f.Changed {
		cfg.Tier = f.Value.String()
	}
	if f := flags.Lookup("lang"); f != nil && f.Changed {
		cfg.Language = f.Value.String()
	}
	if f := flags.Lookup("seed"); f != nil && f.Changed {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db / TIMEZ_DB / the
// config file, then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads the configuration and opens the journal.
func openStore(cmd *cobra.Command) (*store.Store, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}
