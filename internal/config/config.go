// Package config loads timez settings. Sources are layered, highest first:
// command-line flags (applied by the caller), TIMEZ_* environment variables
// (after loading .env), the TOML config file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/llm"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TIMEZ_"

// Config holds all runtime settings.
type Config struct {
	// Tier preselects a difficulty; empty shows the tier menu.
	Tier string `env:"TIER"`

	// Language is a BCP 47 tag for narration.
	Language string `env:"LANG"`

	// FeedbackDelay is the pause between an answer and the next question.
	FeedbackDelay time.Duration `env:"FEEDBACK_DELAY"`

	// NarrationCommand is a TTS command template; {lang} and {text} are
	// substituted. Empty disables spoken narration.
	NarrationCommand string `env:"NARRATION_CMD"`

	DBPath string `env:"DB"`

	// Seed fixes the question sequence. Zero seeds from the clock.
	Seed uint64 `env:"SEED"`

	LLM llm.Config
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Language:      "en",
		FeedbackDelay: 1500 * time.Millisecond,
		LLM:           llm.DefaultConfig(),
	}
}

// FileConfig represents the TOML configuration file. Absent keys leave the
// defaults untouched.
type FileConfig struct {
	Play      PlayConfig      `toml:"play"`
	Narration NarrationConfig `toml:"narration"`
	Storage   StorageConfig   `toml:"storage"`
	LLM       llm.Config      `toml:"llm"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Tier          *string        `toml:"tier"`
	Lang          *string        `toml:"lang"`
	FeedbackDelay *time.Duration `toml:"feedback_delay"`
	Seed          *uint64        `toml:"seed"`
}

// NarrationConfig maps narration settings.
type NarrationConfig struct {
	Command *string `toml:"command"`
}

// StorageConfig maps storage settings.
type StorageConfig struct {
	DB *string `toml:"db"`
}

// Load builds the configuration from .env, the TOML file at path (the
// default location when empty) and the environment.
func Load(path string) (Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := cfg.applyFile(path); err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LLM.Discover()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyFile overlays the TOML file at path. A missing file is not an error.
func (c *Config) applyFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat config: %w", err)
	}

	fc := FileConfig{LLM: c.LLM}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	if v := fc.Play.Tier; v != nil {
		c.Tier = *v
	}
	if v := fc.Play.Lang; v != nil {
		c.Language = *v
	}
	if v := fc.Play.FeedbackDelay; v != nil {
		c.FeedbackDelay = *v
	}
	if v := fc.Play.Seed; v != nil {
		c.Seed = *v
	}
	if v := fc.Narration.Command; v != nil {
		c.NarrationCommand = *v
	}
	if v := fc.Storage.DB; v != nil {
		c.DBPath = *v
	}
	c.LLM = fc.LLM
	return nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Tier != "" {
		if _, err := engine.ParseDifficulty(c.Tier); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := language.Parse(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("invalid language %q: %w", c.Language, err))
	}
	if c.FeedbackDelay < 0 {
		errs = append(errs, fmt.Errorf("feedback delay must not be negative, got %s", c.FeedbackDelay))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Difficulty returns the preselected tier, if any.
func (c Config) Difficulty() (engine.Difficulty, bool) {
	if c.Tier == "" {
		return 0, false
	}
	d, err := engine.ParseDifficulty(c.Tier)
	return d, err == nil
}

// LanguageTag returns the narration language, English when unparsable.
func (c Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.English
	}
	return tag
}
