package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Phase is the session-level state of an Engine.
type Phase int

const (
	PhaseSelectingDifficulty Phase = iota
	PhasePlaying
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectingDifficulty:
		return "selecting-difficulty"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var (
	// ErrNotPlaying is returned when a question operation is attempted
	// outside the playing phase.
	ErrNotPlaying = errors.New("no session in progress")

	// ErrNoQuestion is returned when an answer is submitted with no
	// unanswered question on screen.
	ErrNoQuestion = errors.New("no unanswered question")

	// ErrSessionActive is returned by SelectTier while a session is running.
	ErrSessionActive = errors.New("session already in progress")
)

// Phrases supplies narration text in the selected language.
type Phrases interface {
	Question(num1, num2 int) string
	Compliments(nearWin bool) []string
}

// Engine drives one player through SelectingDifficulty, Playing and Won.
// It is not safe for concurrent use; the UI event loop is its only caller.
type Engine struct {
	rng     *rand.Rand
	phrases Phrases

	phase   Phase
	state   *ProgressionState
	current *Question

	// last is the most recently answered question, kept for feedback.
	last       *Question
	wrongValue int
	hasWrong   bool

	narration string
}

// New returns an Engine waiting for a tier selection. phrases may be nil, in
// which case narration is plain English.
func New(rng *rand.Rand, phrases Phrases) *Engine {
	if phrases == nil {
		phrases = englishPhrases{}
	}
	return &Engine{rng: rng, phrases: phrases}
}

// NewRand returns a PCG source seeded with seed, or from the clock when seed
// is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SetPhrases switches the narration language. Numeric logic is unaffected.
func (e *Engine) SetPhrases(p Phrases) {
	if p != nil {
		e.phrases = p
	}
}

// SelectTier starts a new session on tier.
func (e *Engine) SelectTier(tier Difficulty) error {
	if !tier.Valid() {
		return fmt.Errorf("select tier: unknown difficulty %d", int(tier))
	}
	if e.phase != PhaseSelectingDifficulty {
		return ErrSessionActive
	}
	e.state = NewProgressionState(tier)
	e.phase = PhasePlaying
	e.clearQuestion()
	return nil
}

// SelectTierAt starts a session on tier with the score preset, for
// previewing late-game behaviour. score is clamped to [0, WinScore-1].
func (e *Engine) SelectTierAt(tier Difficulty, score int) error {
	if err := e.SelectTier(tier); err != nil {
		return err
	}
	e.state.Score = min(max(score, 0), WinScore-1)
	return nil
}

// NextQuestion generates the next question and its narration. Any feedback
// from the previous answer is cleared.
func (e *Engine) NextQuestion() (Question, error) {
	if e.phase != PhasePlaying {
		return Question{}, ErrNotPlaying
	}
	q := GenerateQuestion(e.rng, e.state)
	e.current = &q
	e.last = nil
	e.hasWrong = false
	e.narration = e.phrases.Question(q.Num1, q.Num2)
	return q, nil
}

// Submit evaluates value against the current question. The question is
// consumed: a second submission returns ErrNoQuestion.
func (e *Engine) Submit(value int) (Outcome, error) {
	return e.submit(value, false)
}

// SubmitText evaluates typed input. Input that is not an integer counts as
// a wrong answer.
func (e *Engine) SubmitText(s string) (Outcome, error) {
	n, ok := ParseAnswer(s)
	return e.submit(n, !ok)
}

func (e *Engine) submit(value int, malformed bool) (Outcome, error) {
	if e.phase != PhasePlaying {
		return Outcome{}, ErrNotPlaying
	}
	if e.current == nil {
		return Outcome{}, ErrNoQuestion
	}
	q := *e.current
	e.current = nil
	e.last = &q

	if malformed {
		// 0 is never a product of two positive operands.
		value = 0
	}
	out := EvaluateAnswer(e.state, q, value)
	out.Malformed = malformed

	if out.Correct {
		pool := e.phrases.Compliments(out.NearWin)
		if len(pool) > 0 {
			out.Compliment = pool[e.rng.IntN(len(pool))]
			e.narration = out.Compliment
		}
	} else {
		e.wrongValue = value
		e.hasWrong = !malformed
	}

	if out.Won {
		e.phase = PhaseWon
	}
	return out, nil
}

// Reset discards the session and returns to tier selection. It is used both
// after a win and to abandon a session in progress.
func (e *Engine) Reset() {
	e.phase = PhaseSelectingDifficulty
	e.state = nil
	e.clearQuestion()
}

func (e *Engine) clearQuestion() {
	e.current = nil
	e.last = nil
	e.hasWrong = false
	e.narration = ""
}

// Phase returns the current session phase.
func (e *Engine) Phase() Phase { return e.phase }

// State returns a copy of the progression state. ok is false before a tier
// has been selected.
func (e *Engine) State() (st ProgressionState, ok bool) {
	if e.state == nil {
		return ProgressionState{}, false
	}
	return *e.state, true
}

// Current returns the question awaiting an answer.
func (e *Engine) Current() (Question, bool) {
	if e.current == nil {
		return Question{}, false
	}
	return *e.current, true
}

// Answered returns the most recently answered question while its feedback
// is still showing.
func (e *Engine) Answered() (Question, bool) {
	if e.last == nil {
		return Question{}, false
	}
	return *e.last, true
}

// WrongValue returns the wrongly submitted value for highlighting, if the
// last answer was wrong.
func (e *Engine) WrongValue() (int, bool) {
	return e.wrongValue, e.hasWrong
}

// Narration returns the latest narration text: the question prompt after
// NextQuestion, or the compliment after a correct answer.
func (e *Engine) Narration() string { return e.narration }

// Score returns the current score, or 0 outside a session.
func (e *Engine) Score() int {
	if e.state == nil {
		return 0
	}
	return e.state.Score
}

// CorrectStreak returns the current run of correct answers.
func (e *Engine) CorrectStreak() int {
	if e.state == nil {
		return 0
	}
	return e.state.CorrectStreak
}

// englishPhrases is the narration used when no phrasebook is configured.
type englishPhrases struct{}

func (englishPhrases) Question(num1, num2 int) string {
	return fmt.Sprintf("What is %d times %d?", num1, num2)
}

func (englishPhrases) Compliments(nearWin bool) []string {
	if nearWin {
		return []string{"Almost there!", "So close to the top!"}
	}
	return []string{"Great job!", "Well done!", "Correct!"}
}
