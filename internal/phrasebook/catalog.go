package phrasebook

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	keyQuestion = "question"
	keyWin      = "win"
)

func standardKey(i int) string { return fmt.Sprintf("compliment.standard.%d", i) }
func nearWinKey(i int) string  { return fmt.Sprintf("compliment.near_win.%d", i) }

// Catalog is the set of languages narration can be phrased in. It is safe
// for concurrent use.
type Catalog struct {
	builder *catalog.Builder

	mu      sync.RWMutex
	tags    []language.Tag
	matcher language.Matcher
}

// NewCatalog returns a catalog holding the built-in languages.
func NewCatalog() *Catalog {
	c := &Catalog{builder: catalog.NewBuilder(catalog.Fallback(language.English))}
	for _, b := range builtins {
		if err := c.Register(b.tag, b.set); err != nil {
			panic(fmt.Sprintf("phrasebook: built-in %s: %v", b.tag, err))
		}
	}
	return c
}

// Register adds or replaces the phrases for tag.
func (c *Catalog) Register(tag language.Tag, set PhraseSet) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("phrase set for %s: %w", tag, err)
	}

	entries := map[string]string{
		keyQuestion: set.Question,
		keyWin:      set.Win,
	}
	for i, s := range set.Standard {
		entries[standardKey(i)] = s
	}
	for i, s := range set.NearWin {
		entries[nearWinKey(i)] = s
	}
	for key, msg := range entries {
		if err := c.builder.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("set %s/%s: %w", tag, key, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.tags, tag) {
		c.tags = append(c.tags, tag)
		c.matcher = language.NewMatcher(c.tags)
	}
	return nil
}

// Languages returns the registered tags in registration order.
func (c *Catalog) Languages() []language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tags)
}

// Match returns the registered tag closest to tag and whether it is the
// same language. Regional and script variants match (pt to pt-BR); a
// different language never does, even when CLDR would fall back to it
// with high confidence (sw to en). A miss returns English.
func (c *Catalog) Match(tag language.Tag) (language.Tag, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return language.English, false
	}
	matched := c.tags[idx]
	if conf != language.Exact {
		want, _ := tag.Base()
		got, _ := matched.Base()
		if want != got {
			return language.English, false
		}
	}
	return matched, true
}

// Supports reports whether tag has phrases of its own.
func (c *Catalog) Supports(tag language.Tag) bool {
	_, ok := c.Match(tag)
	return ok
}

// Phrasebook returns the phrasebook for the closest registered language.
func (c *Catalog) Phrasebook(tag language.Tag) *Phrasebook {
	matched, _ := c.Match(tag)
	return &Phrasebook{
		tag:     matched,
		printer: message.NewPrinter(matched, message.Catalog(c.builder)),
	}
}

// Phrasebook phrases narration in one language.
type Phrasebook struct {
	tag     language.Tag
	printer *message.Printer
}

// Tag returns the language of the phrasebook.
func (p *Phrasebook) Tag() language.Tag { return p.tag }

// Label returns the language's name in itself, e.g. "español".
func (p *Phrasebook) Label() string {
	return Label(p.tag)
}

// Question phrases the question "num1 times num2".
func (p *Phrasebook) Question(num1, num2 int) string {
	return p.printer.Sprintf(message.Key(keyQuestion, English().Question), num1, num2)
}

// Compliments returns the compliment pool, the near-win pool when nearWin.
func (p *Phrasebook) Compliments(nearWin bool) []string {
	en := English()
	if nearWin {
		out := make([]string, NearWinCount)
		for i := range out {
			out[i] = p.printer.Sprintf(message.Key(nearWinKey(i), en.NearWin[i]))
		}
		return out
	}
	out := make([]string, StandardCount)
	for i := range out {
		out[i] = p.printer.Sprintf(message.Key(standardKey(i), en.Standard[i]))
	}
	return out
}

// Compliment picks one compliment at random.
func (p *Phrasebook) Compliment(rng *rand.Rand, nearWin bool) string {
	pool := p.Compliments(nearWin)
	return pool[rng.IntN(len(pool))]
}

// Win announces a win at score.
func (p *Phrasebook) Win(score int) string {
	return p.printer.Sprintf(message.Key(keyWin, English().Win), score)
}

// Label returns the name of tag in its own language, falling back to the
// BCP 47 string when no name is known.
func Label(tag language.Tag) string {
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return tag.String()
}
