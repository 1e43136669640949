package phrasebook

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const translateSystemPrompt = `You localise a multiplication quiz for children aged 6-11. Phrases are read aloud by a speech synthesizer, so keep them short, warm and natural for a native speaker.`

func buildTranslateUserMessage(tag language.Tag) string {
	en := English()
	var b strings.Builder

	name := display.English.Tags().Name(tag)
	if name == "" {
		name = tag.String()
	}
	fmt.Fprintf(&b, "Target language: %s (%s)\n\n", name, tag)

	b.WriteString("English phrases:\n")
	fmt.Fprintf(&b, "question: %s\n", en.Question)
	fmt.Fprintf(&b, "win: %s\n", en.Win)
	for _, s := range en.Standard {
		fmt.Fprintf(&b, "standard: %s\n", s)
	}
	for _, s := range en.NearWin {
		fmt.Fprintf(&b, "near_win: %s\n", s)
	}

	fmt.Fprintf(&b, `
Instructions:
1. Translate every phrase into the target language. Adapt rather than translate word for word.
2. Keep the %%d verbs exactly as written: two in question (first operand, then second), one in win.
3. Do not use the %% character anywhere else.
4. Return exactly %d standard and %d near_win compliments.`, StandardCount, NearWinCount)

	return b.String()
}
