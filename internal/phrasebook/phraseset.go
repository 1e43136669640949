// Package phrasebook holds the narration text for every supported language:
// the question template, the compliment pools and the win announcement.
package phrasebook

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Pool sizes every phrase set must satisfy.
const (
	StandardCount = 5
	NearWinCount  = 3
)

// PhraseSet is the narration text for one language. Question takes the two
// operands and Win takes the final score, both as %d verbs.
type PhraseSet struct {
	Question string   `json:"question"`
	Win      string   `json:"win"`
	Standard []string `json:"standard"`
	NearWin  []string `json:"near_win"`
}

// Validate checks pool sizes and format verbs.
func (s PhraseSet) Validate() error {
	var errs []error
	if err := checkVerbs("question", s.Question, 2); err != nil {
		errs = append(errs, err)
	}
	if err := checkVerbs("win", s.Win, 1); err != nil {
		errs = append(errs, err)
	}
	if len(s.Standard) != StandardCount {
		errs = append(errs, fmt.Errorf("standard: want %d compliments, got %d", StandardCount, len(s.Standard)))
	}
	if len(s.NearWin) != NearWinCount {
		errs = append(errs, fmt.Errorf("near_win: want %d compliments, got %d", NearWinCount, len(s.NearWin)))
	}
	for i, c := range append(append([]string(nil), s.Standard...), s.NearWin...) {
		if strings.TrimSpace(c) == "" {
			errs = append(errs, fmt.Errorf("compliment %d is empty", i))
		}
		if strings.Contains(c, "%") {
			errs = append(errs, fmt.Errorf("compliment %d contains a format verb", i))
		}
	}
	return errors.Join(errs...)
}

func checkVerbs(field, s string, want int) error {
	if got := strings.Count(s, "%d"); got != want {
		return fmt.Errorf("%s: want %d %%d verbs, got %d", field, want, got)
	}
	if strings.Count(s, "%") != want {
		return fmt.Errorf("%s: unexpected %% in %q", field, s)
	}
	return nil
}

type builtin struct {
	tag language.Tag
	set PhraseSet
}

// builtins are registered by NewCatalog. English comes first so it is the
// matcher's default.
var builtins = []builtin{
	{language.English, PhraseSet{
		Question: "What is %d times %d?",
		Win:      "You reached %d points. You win!",
		Standard: []string{"Great job!", "Well done!", "Correct!", "Nice work!", "You got it!"},
		NearWin:  []string{"Almost there!", "So close to the top!", "Just a few more!"},
	}},
	{language.Spanish, PhraseSet{
		Question: "¿Cuánto es %d por %d?",
		Win:      "¡Llegaste a %d puntos! ¡Ganaste!",
		Standard: []string{"¡Muy bien!", "¡Excelente!", "¡Correcto!", "¡Buen trabajo!", "¡Así se hace!"},
		NearWin:  []string{"¡Ya casi!", "¡Muy cerca de la meta!", "¡Solo un poco más!"},
	}},
	{language.French, PhraseSet{
		Question: "Combien font %d fois %d ?",
		Win:      "Tu as atteint %d points. Tu as gagné !",
		Standard: []string{"Bravo !", "Très bien !", "Correct !", "Excellent travail !", "C'est ça !"},
		NearWin:  []string{"Presque !", "Tu y es presque !", "Encore un petit effort !"},
	}},
	{language.German, PhraseSet{
		Question: "Was ist %d mal %d?",
		Win:      "Du hast %d Punkte erreicht. Gewonnen!",
		Standard: []string{"Super!", "Gut gemacht!", "Richtig!", "Toll!", "Genau so!"},
		NearWin:  []string{"Fast geschafft!", "Ganz nah am Ziel!", "Nur noch ein bisschen!"},
	}},
	{language.BrazilianPortuguese, PhraseSet{
		Question: "Quanto é %d vezes %d?",
		Win:      "Você chegou a %d pontos. Você venceu!",
		Standard: []string{"Muito bem!", "Ótimo!", "Correto!", "Bom trabalho!", "Isso mesmo!"},
		NearWin:  []string{"Quase lá!", "Pertinho da meta!", "Só mais um pouco!"},
	}},
	{language.Italian, PhraseSet{
		Question: "Quanto fa %d per %d?",
		Win:      "Hai raggiunto %d punti. Hai vinto!",
		Standard: []string{"Bravo!", "Ottimo!", "Giusto!", "Ben fatto!", "Esatto!"},
		NearWin:  []string{"Ci sei quasi!", "Manca pochissimo!", "Ancora un piccolo sforzo!"},
	}},
	{language.Hindi, PhraseSet{
		Question: "%d गुणा %d कितना होता है?",
		Win:      "आपने %d अंक पूरे किए। आप जीत गए!",
		Standard: []string{"बहुत बढ़िया!", "शाबाश!", "सही जवाब!", "अच्छा काम!", "बिलकुल सही!"},
		NearWin:  []string{"बस थोड़ा और!", "मंज़िल बहुत पास है!", "लगभग पहुँच गए!"},
	}},
}

// English returns the built-in English phrase set.
func English() PhraseSet {
	return builtins[0].set
}
