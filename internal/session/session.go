// Package session runs one playthrough: it drives the engine, narrates
// questions and compliments, and journals the session and every answer.
package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/narration"
	"github.com/abhisek/timez/internal/phrasebook"
	"github.com/abhisek/timez/internal/store"
)

// Options configures a Game. Every field except Rand is optional.
type Options struct {
	Rand      *rand.Rand
	Phrases   *phrasebook.Phrasebook
	Narrator  *narration.Dispatcher
	EventRepo store.EventRepo

	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

// Game is one player's run from tier selection to a win or abandon. It is
// not safe for concurrent use.
type Game struct {
	engine    *engine.Engine
	phrases   *phrasebook.Phrasebook
	narrator  *narration.Dispatcher
	eventRepo store.EventRepo
	now       func() time.Time

	id         string
	tier       engine.Difficulty
	startedAt  time.Time
	shownAt    time.Time
	questions  int
	correct    int
	bestStreak int
	finished   bool
}

// New creates a Game waiting for a tier selection.
func New(opts Options) *Game {
	if opts.Rand == nil {
		opts.Rand = engine.NewRand(0)
	}
	if opts.Phrases == nil {
		opts.Phrases = phrasebook.NewCatalog().Phrasebook(language.English)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Game{
		engine:    engine.New(opts.Rand, opts.Phrases),
		phrases:   opts.Phrases,
		narrator:  opts.Narrator,
		eventRepo: opts.EventRepo,
		now:       opts.Now,
	}
}

// Engine exposes the engine for read-only rendering.
func (g *Game) Engine() *engine.Engine { return g.engine }

// ID returns the current session ID, empty before the first Start.
func (g *Game) ID() string { return g.id }

// Phrasebook returns the narration phrasebook.
func (g *Game) Phrasebook() *phrasebook.Phrasebook { return g.phrases }

// SetPhrasebook switches the narration language.
func (g *Game) SetPhrasebook(p *phrasebook.Phrasebook) {
	if p == nil {
		return
	}
	g.phrases = p
	g.engine.SetPhrases(p)
	if g.narrator != nil {
		g.narrator.SetLanguage(p.Tag())
	}
}

// Start begins a new session on tier.
func (g *Game) Start(ctx context.Context, tier engine.Difficulty) error {
	return g.StartAt(ctx, tier, 0)
}

// StartAt begins a new session on tier with the score preset.
func (g *Game) StartAt(ctx context.Context, tier engine.Difficulty, score int) error {
	if err := g.engine.SelectTierAt(tier, score); err != nil {
		return err
	}
	g.id = uuid.NewString()
	g.tier = tier
	g.startedAt = g.now()
	g.questions, g.correct, g.bestStreak = 0, 0, 0
	g.finished = false

	g.journalSession(ctx, store.ActionStart)
	return nil
}

// Next produces the next question and narrates it.
func (g *Game) Next() (engine.Question, error) {
	q, err := g.engine.NextQuestion()
	if err != nil {
		return engine.Question{}, err
	}
	g.shownAt = g.now()
	if g.narrator != nil {
		g.narrator.Question(g.engine.Narration())
	}
	return q, nil
}

// Answer submits one of the offered options.
func (g *Game) Answer(ctx context.Context, value int) (engine.Outcome, error) {
	q, _ := g.engine.Current()
	out, err := g.engine.Submit(value)
	if err != nil {
		return out, err
	}
	g.record(ctx, q, out, store.InputChoice)
	return out, nil
}

// AnswerText submits free-form input typed by the player.
func (g *Game) AnswerText(ctx context.Context, text string) (engine.Outcome, error) {
	q, _ := g.engine.Current()
	out, err := g.engine.SubmitText(text)
	if err != nil {
		return out, err
	}
	g.record(ctx, q, out, store.InputTyped)
	return out, nil
}

func (g *Game) record(ctx context.Context, q engine.Question, out engine.Outcome, mode string) {
	g.questions++
	if out.Correct {
		g.correct++
	}
	g.bestStreak = max(g.bestStreak, g.engine.CorrectStreak())

	g.journalAnswer(ctx, q, out, mode)

	if g.narrator != nil {
		switch {
		case out.Won:
			g.narrator.Compliment(g.WinText())
		case out.Correct:
			g.narrator.Compliment(out.Compliment)
		default:
			g.narrator.Halt()
		}
	}
	if out.Won {
		g.journalSession(ctx, store.ActionWon)
		g.finished = true
	}
}

// WinText is the win announcement for the current score.
func (g *Game) WinText() string {
	return g.phrases.Win(g.engine.Score())
}

// Abandon ends a session in progress without a win and returns to tier
// selection. It is a no-op when nothing is being played.
func (g *Game) Abandon(ctx context.Context) {
	if g.engine.Phase() == engine.PhasePlaying && !g.finished {
		g.journalSession(ctx, store.ActionAbandon)
		g.finished = true
	}
	if g.narrator != nil {
		g.narrator.Halt()
	}
	g.engine.Reset()
}

// Reset returns to tier selection after a win.
func (g *Game) Reset() {
	g.engine.Reset()
}

// Summary describes the session so far.
func (g *Game) Summary() Summary {
	s := Summary{
		SessionID:  g.id,
		Tier:       g.tier,
		Questions:  g.questions,
		Correct:    g.correct,
		BestStreak: g.bestStreak,
		Score:      g.engine.Score(),
		Won:        g.engine.Phase() == engine.PhaseWon,
	}
	if !g.startedAt.IsZero() {
		s.Duration = g.now().Sub(g.startedAt)
	}
	if g.questions > 0 {
		s.Accuracy = float64(g.correct) / float64(g.questions)
	}
	return s
}

func (g *Game) journalSession(ctx context.Context, action string) {
	if g.eventRepo == nil {
		return
	}
	sum := g.Summary()
	data := store.SessionEventData{
		SessionID:    g.id,
		Action:       action,
		Tier:         g.tier.String(),
		Language:     g.phrases.Tag().String(),
		Score:        sum.Score,
		Questions:    sum.Questions,
		Correct:      sum.Correct,
		BestStreak:   sum.BestStreak,
		DurationSecs: int(sum.Duration.Seconds()),
	}
	if err := g.eventRepo.AppendSessionEvent(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write session event: %v\n", err)
	}
}

func (g *Game) journalAnswer(ctx context.Context, q engine.Question, out engine.Outcome, mode string) {
	if g.eventRepo == nil {
		return
	}
	data := store.AnswerEventData{
		SessionID:  g.id,
		Num1:       q.Num1,
		Num2:       q.Num2,
		Answer:     q.Answer,
		Submitted:  out.Submitted,
		Correct:    out.Correct,
		Malformed:  out.Malformed,
		Delta:      out.Delta,
		ScoreAfter: out.Score,
		TimeMs:     int(g.now().Sub(g.shownAt).Milliseconds()),
		InputMode:  mode,
	}
	if err := g.eventRepo.AppendAnswerEvent(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write answer event: %v\n", err)
	}
}
