package phrasebook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/llm"
	"github.com/abhisek/timez/internal/store"
)

type memPhraseRepo struct {
	sets map[string]store.PhraseSetRecord
}

func newMemPhraseRepo() *memPhraseRepo {
	return &memPhraseRepo{sets: map[string]store.PhraseSetRecord{}}
}

func (m *memPhraseRepo) Save(_ context.Context, rec store.PhraseSetRecord) error {
	m.sets[rec.Lang] = rec
	return nil
}

func (m *memPhraseRepo) Load(_ context.Context, lang string) (*store.PhraseSetRecord, error) {
	rec, ok := m.sets[lang]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memPhraseRepo) List(_ context.Context) ([]store.PhraseSetRecord, error) {
	var out []store.PhraseSetRecord
	for _, rec := range m.sets {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memPhraseRepo) Delete(_ context.Context, lang string) error {
	delete(m.sets, lang)
	return nil
}

const swahiliJSON = `{
	"question": "%d mara %d ni ngapi?",
	"win": "Umefikia alama %d. Umeshinda!",
	"standard": ["Hongera!", "Vizuri sana!", "Sahihi!", "Kazi nzuri!", "Umeweza!"],
	"near_win": ["Karibu kabisa!", "Umekaribia!", "Kidogo tu!"]
}`

func TestTranslator_GeneratesAndCaches(t *testing.T) {
	repo := newMemPhraseRepo()
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(swahiliJSON)})
	tr := NewTranslator(NewCatalog(), repo, mock)

	sw := language.MustParse("sw")
	got, err := tr.Ensure(context.Background(), sw)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if got != sw {
		t.Errorf("tag = %s, want sw", got)
	}
	if _, ok := repo.sets["sw"]; !ok {
		t.Error("phrase set not cached")
	}
	if last, _ := mock.LastRequest(); last.Schema != PhraseSetSchema {
		t.Error("request did not carry the phrase set schema")
	}

	// A fresh catalog picks the set up from the cache without a provider.
	tr2 := NewTranslator(NewCatalog(), repo, nil)
	p := tr2.Resolve(context.Background(), sw)
	if p.Question(6, 7) != "6 mara 7 ni ngapi?" {
		t.Errorf("Question = %q", p.Question(6, 7))
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider called %d times, want 1", mock.CallCount())
	}
}

func TestTranslator_BuiltinNeedsNoProvider(t *testing.T) {
	tr := NewTranslator(NewCatalog(), nil, nil)
	got, err := tr.Ensure(context.Background(), language.MustParse("fr-CA"))
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if got != language.French {
		t.Errorf("tag = %s, want fr", got)
	}
}

func TestTranslator_NoProviderFallsBackToEnglish(t *testing.T) {
	// sw and yo fall back to English in CLDR with high confidence; they
	// still have no phrases of their own.
	for _, lang := range []string{"sw", "yo", "ja"} {
		t.Run(lang, func(t *testing.T) {
			tr := NewTranslator(NewCatalog(), newMemPhraseRepo(), nil)
			tag := language.MustParse(lang)

			if _, err := tr.Ensure(context.Background(), tag); !errors.Is(err, ErrNoProvider) {
				t.Fatalf("expected ErrNoProvider, got %v", err)
			}
			if p := tr.Resolve(context.Background(), tag); p.Tag() != language.English {
				t.Errorf("Resolve tag = %s, want en", p.Tag())
			}
		})
	}
}

func TestTranslator_RejectsBrokenTemplate(t *testing.T) {
	broken := `{"question":"mara ngapi?","win":"%d!","standard":["a","b","c","d","e"],"near_win":["x","y","z"]}`
	repo := newMemPhraseRepo()
	tr := NewTranslator(NewCatalog(), repo, llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(broken)}))

	if _, err := tr.Generate(context.Background(), language.MustParse("sw")); err == nil {
		t.Fatal("expected validation error")
	}
	if len(repo.sets) != 0 {
		t.Error("invalid set should not be cached")
	}
}

func TestTranslator_Preload(t *testing.T) {
	repo := newMemPhraseRepo()
	repo.sets["sw"] = store.PhraseSetRecord{Lang: "sw", Payload: []byte(swahiliJSON)}
	repo.sets["xx-bad"] = store.PhraseSetRecord{Lang: "yo", Payload: []byte(`{"question":"?"}`)}

	c := NewCatalog()
	if err := NewTranslator(c, repo, nil).Preload(context.Background()); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if !c.Supports(language.MustParse("sw")) {
		t.Error("sw not registered")
	}
	if c.Supports(language.MustParse("yo")) {
		t.Error("invalid yo set registered")
	}
}
