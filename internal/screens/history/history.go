package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/timez/internal/router"
	"github.com/abhisek/timez/internal/screen"
	"github.com/abhisek/timez/internal/store"
	"github.com/abhisek/timez/internal/ui/layout"
	"github.com/abhisek/timez/internal/ui/theme"
)

const sessionLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummary
	Err      error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerRecord
	Err       error
}

// HistoryScreen displays past sessions from the journal. Enter expands a
// session to the facts it missed.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionSummary
	answers   map[string][]store.AnswerRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		answers:   make(map[string][]store.AnswerRecord),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		sessions, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: sessionLimit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, s.loadAnswers(s.sessions[s.selected].SessionID)
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadAnswers(sessionID string) tea.Cmd {
	if _, ok := s.answers[sessionID]; ok {
		return nil
	}
	repo := s.eventRepo
	return func() tea.Msg {
		answers, err := repo.QueryAnswers(context.Background(), sessionID)
		return answersLoadedMsg{SessionID: sessionID, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No games yet. Pick a difficulty and play!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+sessionLine(sess))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetails(sess.SessionID, width))
		}
	}

	return b.String()
}

func sessionLine(sess store.SessionSummary) string {
	dateStr := sess.Timestamp.Format("Jan 02, 2006")
	durationStr := fmt.Sprintf("%d:%02d", sess.DurationSecs/60, sess.DurationSecs%60)

	var accuracy float64
	if sess.Questions > 0 {
		accuracy = float64(sess.Correct) / float64(sess.Questions) * 100
	}

	result := "abandoned"
	if sess.Won() {
		result = "★ won"
	}

	return fmt.Sprintf("%s  %-8s %s  %4d pts  %3d questions  %3.0f%%  %s",
		dateStr, sess.Tier, durationStr, sess.Score, sess.Questions, accuracy, result)
}

func (s *HistoryScreen) renderDetails(sessionID string, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	answers, ok := s.answers[sessionID]
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Loading...")) + "\n"
	}

	var missed []string
	for _, a := range answers {
		if a.Correct {
			continue
		}
		given := fmt.Sprintf("%d", a.Submitted)
		if a.Malformed {
			given = "?"
		}
		missed = append(missed, fmt.Sprintf("%d × %d = %d (you said %s)", a.Num1, a.Num2, a.Answer, given))
	}
	if len(missed) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No mistakes!")) + "\n"
	}

	var b strings.Builder
	for _, line := range missed {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render("    "+line)))
		b.WriteString("\n")
	}
	return b.String()
}
