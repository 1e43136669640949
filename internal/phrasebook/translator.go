package phrasebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/llm"
	"github.com/abhisek/timez/internal/store"
)

// ErrNoProvider is returned when a phrase set has to be generated but no
// LLM provider is configured.
var ErrNoProvider = errors.New("no LLM provider configured")

// Translator extends a Catalog with phrase sets generated by an LLM and
// cached in the store.
type Translator struct {
	catalog  *Catalog
	repo     store.PhraseRepo
	provider llm.Provider
}

// NewTranslator creates a Translator. repo and provider may be nil, which
// disables caching and generation respectively.
func NewTranslator(c *Catalog, repo store.PhraseRepo, provider llm.Provider) *Translator {
	return &Translator{catalog: c, repo: repo, provider: provider}
}

// Catalog returns the catalog the translator registers into.
func (t *Translator) Catalog() *Catalog { return t.catalog }

// Preload registers every cached phrase set. Sets that no longer validate
// are skipped with a warning.
func (t *Translator) Preload(ctx context.Context) error {
	if t.repo == nil {
		return nil
	}
	recs, err := t.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list phrase sets: %w", err)
	}
	for _, rec := range recs {
		if err := t.register(rec); err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping cached phrases for %s: %v\n", rec.Lang, err)
		}
	}
	return nil
}

// Ensure makes tag available, loading it from the cache or generating it
// when the catalog has no close match. It returns the tag narration will
// use.
func (t *Translator) Ensure(ctx context.Context, tag language.Tag) (language.Tag, error) {
	if matched, ok := t.catalog.Match(tag); ok {
		return matched, nil
	}

	if t.repo != nil {
		rec, err := t.repo.Load(ctx, tag.String())
		if err != nil {
			return language.English, fmt.Errorf("load phrase set: %w", err)
		}
		if rec != nil {
			if err := t.register(*rec); err != nil {
				return language.English, err
			}
			return tag, nil
		}
	}

	if _, err := t.Generate(ctx, tag); err != nil {
		return language.English, err
	}
	return tag, nil
}

// Resolve returns the phrasebook for tag. Any failure to obtain phrases is
// reported as a warning and narration falls back to English.
func (t *Translator) Resolve(ctx context.Context, tag language.Tag) *Phrasebook {
	matched, err := t.Ensure(ctx, tag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: no phrases for %s, narrating in English: %v\n", tag, err)
	}
	return t.catalog.Phrasebook(matched)
}

// Generate asks the provider for a phrase set for tag, caches it and
// registers it, replacing any previous set for the language.
func (t *Translator) Generate(ctx context.Context, tag language.Tag) (PhraseSet, error) {
	if t.provider == nil {
		return PhraseSet{}, ErrNoProvider
	}

	ctx = llm.WithPurpose(ctx, llm.PhrasebookPurpose(tag.String()))
	resp, err := t.provider.Generate(ctx, llm.Request{
		System: translateSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTranslateUserMessage(tag)},
		},
		Schema:      PhraseSetSchema,
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return PhraseSet{}, fmt.Errorf("phrase generation: %w", err)
	}

	var set PhraseSet
	if err := json.Unmarshal(resp.Content, &set); err != nil {
		return PhraseSet{}, fmt.Errorf("parse phrase set: %w", err)
	}
	if err := t.catalog.Register(tag, set); err != nil {
		return PhraseSet{}, err
	}

	if t.repo != nil {
		payload, err := json.Marshal(set)
		if err != nil {
			return PhraseSet{}, fmt.Errorf("marshal phrase set: %w", err)
		}
		rec := store.PhraseSetRecord{
			Lang:      tag.String(),
			Payload:   payload,
			Model:     resp.Model,
			CreatedAt: time.Now(),
		}
		if err := t.repo.Save(ctx, rec); err != nil {
			return PhraseSet{}, fmt.Errorf("save phrase set: %w", err)
		}
	}
	return set, nil
}

func (t *Translator) register(rec store.PhraseSetRecord) error {
	tag, err := language.Parse(rec.Lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", rec.Lang, err)
	}
	var set PhraseSet
	if err := json.Unmarshal(rec.Payload, &set); err != nil {
		return fmt.Errorf("decode phrase set for %s: %w", rec.Lang, err)
	}
	return t.catalog.Register(tag, set)
}
