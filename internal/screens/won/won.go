// Package won is the screen shown after a session reaches the win score.
package won

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timez/internal/router"
	"github.com/abhisek/timez/internal/screen"
	"github.com/abhisek/timez/internal/session"
	"github.com/abhisek/timez/internal/ui/layout"
	"github.com/abhisek/timez/internal/ui/theme"
)

const trophy = `  ___________
 '._==_==_=_.'
 .-\:      /-.
| (|:.     |) |
 '-|:.     |-'
   \::.    /
    '::. .'
      ) (
    _.' '._
   '-------'`

// Resetter returns the game to tier selection.
type Resetter interface {
	Reset()
}

// WonScreen announces the win and shows the session summary.
type WonScreen struct {
	game    Resetter
	summary session.Summary
	winText string
	lang    string
}

var _ screen.Screen = (*WonScreen)(nil)
var _ screen.KeyHintProvider = (*WonScreen)(nil)
var _ screen.StatsProvider = (*WonScreen)(nil)

// New creates a WonScreen for a game that has just been won.
func New(game *session.Game) *WonScreen {
	return &WonScreen{
		game:    game,
		summary: game.Summary(),
		winText: game.WinText(),
		lang:    game.Phrasebook().Label(),
	}
}

func (s *WonScreen) Init() tea.Cmd {
	return nil
}

func (s *WonScreen) Title() string {
	return "You Win!"
}

func (s *WonScreen) HeaderStats() layout.HeaderStats {
	return layout.HeaderStats{InPlay: true, Score: s.summary.Score, Streak: s.summary.BestStreak, Lang: s.lang}
}

func (s *WonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Play again"},
		{Key: "Esc", Description: "Home"},
	}
}

// HandlesBack is true so Esc resets the game like Enter.
func (s *WonScreen) HandlesBack() bool { return true }

func (s *WonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "space":
			s.game.Reset()
			ended := screen.SessionEndedMsg{Won: true, Score: s.summary.Score}
			return s, func() tea.Msg { return router.PopToRootMsg{Msg: ended} }
		}
	}
	return s, nil
}

func (s *WonScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")

	if height >= 24 {
		b.WriteString(center.Foreground(theme.ArcadeYellow).Render(trophy))
		b.WriteString("\n\n")
	}

	b.WriteString(center.Foreground(theme.ArcadeYellow).Bold(true).Render(s.winText))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center.Foreground(theme.TextDim).Render(
		fmt.Sprintf("%s  ·  %d:%02d", sum.Tier, mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d    Correct: %d    Accuracy: %.0f%%    Best streak: %d",
		sum.Questions, sum.Correct, sum.Accuracy*100, sum.BestStreak)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.TextDim).Render("Press Enter to play again"))
	return b.String()
}
