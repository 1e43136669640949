// Package play is the screen where a session is played.
package play

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/narration"
	"github.com/abhisek/timez/internal/router"
	"github.com/abhisek/timez/internal/screen"
	"github.com/abhisek/timez/internal/screens/won"
	"github.com/abhisek/timez/internal/session"
	"github.com/abhisek/timez/internal/ui/components"
	"github.com/abhisek/timez/internal/ui/layout"
)

// DefaultFeedbackDelay is how long feedback shows before the next question.
const DefaultFeedbackDelay = 1500 * time.Millisecond

// Options configures a PlayScreen.
type Options struct {
	Game *session.Game
	Tier engine.Difficulty

	// Caption, when set, supplies the narration caption shown under the
	// question.
	Caption *narration.CaptionSpeaker

	FeedbackDelay time.Duration
}

// PlayScreen runs one session from the first question to a win or abandon.
type PlayScreen struct {
	game    *session.Game
	tier    engine.Difficulty
	caption *narration.CaptionSpeaker
	delay   time.Duration

	question    engine.Question
	grid        components.OptionGrid
	input       components.TextInput
	freeEntry   bool
	feedback    bool
	outcome     engine.Outcome
	gen         int
	quitConfirm bool
	errMsg      string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatsProvider = (*PlayScreen)(nil)

// New creates a PlayScreen. The session starts in Init.
func New(opts Options) *PlayScreen {
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = DefaultFeedbackDelay
	}
	return &PlayScreen{
		game:    opts.Game,
		tier:    opts.Tier,
		caption: opts.Caption,
		delay:   opts.FeedbackDelay,
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	if err := s.game.Start(context.Background(), s.tier); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return s.next()
}

func (s *PlayScreen) Title() string {
	return s.tier.String()
}

func (s *PlayScreen) HeaderStats() layout.HeaderStats {
	e := s.game.Engine()
	return layout.HeaderStats{
		InPlay: true,
		Score:  e.Score(),
		Streak: e.CorrectStreak(),
		Lang:   s.game.Phrasebook().Label(),
	}
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.freeEntry:
		return []layout.KeyHint{
			{Key: "0-9", Description: "Type answer"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.OptionChosenMsg:
		if s.feedback || s.freeEntry || s.quitConfirm {
			return s, nil
		}
		out, err := s.game.Answer(context.Background(), msg.Value)
		return s.handleOutcome(out, err)

	case nextQuestionMsg:
		if msg.gen != s.gen || !s.feedback || s.quitConfirm {
			return s, nil
		}
		return s.advance()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.freeEntry && !s.feedback {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, popToRoot(false, 0)
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			score := s.game.Engine().Score()
			s.game.Abandon(context.Background())
			return s, popToRoot(false, score)
		case "n", "N", "esc":
			s.quitConfirm = false
			if s.feedback {
				return s.advance()
			}
		}
		return s, nil
	}

	if s.feedback {
		if key == "esc" && !s.outcome.Won {
			s.quitConfirm = true
			return s, nil
		}
		return s.advance()
	}

	if key == "esc" {
		s.quitConfirm = true
		return s, nil
	}

	var cmd tea.Cmd
	if s.freeEntry {
		if key == "enter" {
			if s.input.Value() == "" {
				return s, nil
			}
			out, err := s.game.AnswerText(context.Background(), s.input.Value())
			return s.handleOutcome(out, err)
		}
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	s.grid, cmd = s.grid.Update(msg)
	return s, cmd
}

// handleOutcome shows feedback for an evaluated answer and schedules the
// next question.
func (s *PlayScreen) handleOutcome(out engine.Outcome, err error) (screen.Screen, tea.Cmd) {
	if err != nil {
		if errors.Is(err, engine.ErrNoQuestion) {
			return s, nil
		}
		s.errMsg = err.Error()
		return s, nil
	}

	s.outcome = out
	s.feedback = true
	if s.freeEntry {
		s.input.Submit(out.Correct)
	} else {
		wrong := -1
		if !out.Correct {
			wrong = s.question.OptionIndex(out.Submitted)
		}
		s.grid.ShowFeedback(s.question.AnswerIndex(), wrong)
	}

	s.gen++
	gen := s.gen
	return s, tea.Tick(s.delay, func(time.Time) tea.Msg {
		return nextQuestionMsg{gen: gen}
	})
}

// advance leaves feedback: to the won screen after a win, otherwise to the
// next question.
func (s *PlayScreen) advance() (screen.Screen, tea.Cmd) {
	s.gen++
	if s.game.Engine().Phase() == engine.PhaseWon {
		s.feedback = false
		next := won.New(s.game)
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}
	return s, s.next()
}

// next shows a new question. Free numeric entry replaces the options once
// the score reaches engine.FreeEntryScore.
func (s *PlayScreen) next() tea.Cmd {
	q, err := s.game.Next()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.question = q
	s.feedback = false
	s.outcome = engine.Outcome{}
	s.grid = components.NewOptionGrid(q.Options)
	s.freeEntry = s.game.Engine().Score() >= engine.FreeEntryScore
	if s.freeEntry {
		s.input = components.NewTextInput("?", true, 6)
		return s.input.Init()
	}
	return nil
}

func popToRoot(won bool, score int) tea.Cmd {
	return func() tea.Msg {
		return router.PopToRootMsg{Msg: screen.SessionEndedMsg{Won: won, Score: score}}
	}
}

// HandlesBack is true: Esc asks before abandoning.
func (s *PlayScreen) HandlesBack() bool { return true }
