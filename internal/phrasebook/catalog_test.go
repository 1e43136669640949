package phrasebook

import (
	"math/rand/v2"
	"slices"
	"testing"

	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/engine"
)

var _ engine.Phrases = (*Phrasebook)(nil)

func TestCatalog_Match(t *testing.T) {
	c := NewCatalog()
	tests := []struct {
		in     string
		want   language.Tag
		wantOK bool
	}{
		{"en", language.English, true},
		{"en-GB", language.English, true},
		{"es-MX", language.Spanish, true},
		{"pt-BR", language.BrazilianPortuguese, true},
		{"pt", language.BrazilianPortuguese, true},
		{"de-AT", language.German, true},
		{"hi", language.Hindi, true},
		{"sw", language.English, false},
		{"yo", language.English, false},
		{"ja", language.English, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := c.Match(language.MustParse(tt.in))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("tag = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPhrasebook_Question(t *testing.T) {
	c := NewCatalog()
	tests := []struct {
		lang string
		want string
	}{
		{"en", "What is 7 times 8?"},
		{"es", "¿Cuánto es 7 por 8?"},
		{"de", "Was ist 7 mal 8?"},
		{"pt-BR", "Quanto é 7 vezes 8?"},
		{"sw", "What is 7 times 8?"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := c.Phrasebook(language.MustParse(tt.lang)).Question(7, 8)
			if got != tt.want {
				t.Errorf("Question = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPhrasebook_Compliments(t *testing.T) {
	p := NewCatalog().Phrasebook(language.French)

	std := p.Compliments(false)
	if len(std) != StandardCount || std[0] != "Bravo !" {
		t.Errorf("standard = %v", std)
	}
	near := p.Compliments(true)
	if len(near) != NearWinCount || near[0] != "Presque !" {
		t.Errorf("near-win = %v", near)
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for range 20 {
		if c := p.Compliment(rng, true); !slices.Contains(near, c) {
			t.Fatalf("compliment %q not in near-win pool", c)
		}
	}
}

func TestPhrasebook_WinAndLabel(t *testing.T) {
	c := NewCatalog()
	if got := c.Phrasebook(language.Italian).Win(42); got != "Hai raggiunto 42 punti. Hai vinto!" {
		t.Errorf("Win = %q", got)
	}
	if got := c.Phrasebook(language.Spanish).Label(); got != "español" {
		t.Errorf("Label = %q", got)
	}
}

func TestCatalog_Register(t *testing.T) {
	c := NewCatalog()
	sw := language.MustParse("sw")
	if c.Supports(sw) {
		t.Fatal("sw should not be built in")
	}

	set := PhraseSet{
		Question: "%d mara %d ni ngapi?",
		Win:      "Umefikia alama %d. Umeshinda!",
		Standard: []string{"Hongera!", "Vizuri sana!", "Sahihi!", "Kazi nzuri!", "Umeweza!"},
		NearWin:  []string{"Karibu kabisa!", "Umekaribia!", "Kidogo tu!"},
	}
	if err := c.Register(sw, set); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !c.Supports(sw) {
		t.Fatal("sw should be supported after Register")
	}
	if got := c.Phrasebook(sw).Question(3, 4); got != "3 mara 4 ni ngapi?" {
		t.Errorf("Question = %q", got)
	}
	if langs := c.Languages(); langs[len(langs)-1] != sw {
		t.Errorf("languages = %v", langs)
	}

	set.Question = "broken"
	if err := c.Register(language.MustParse("yo"), set); err == nil {
		t.Fatal("expected error for invalid set")
	}
}
