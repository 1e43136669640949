package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/ui/components"
	"github.com/abhisek/timez/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.quitConfirm {
		return renderQuitConfirm(width)
	}

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	bar := components.NewScoreBar(s.game.Engine().Score(), engine.WinScore, cw)
	bar.MarkerAt = engine.FreeEntryScore
	bar.MarkerColor = theme.ArcadeYellow
	if s.outcome.NearWin || s.game.Engine().Score() >= engine.NearWinScore {
		bar.FillColor = theme.ArcadeYellow
	}
	b.WriteString(center.Render(bar.View()))
	b.WriteString("\n\n")

	question := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(s.question.Text() + " = ?")
	b.WriteString(center.Render(question))
	b.WriteString("\n\n")

	if s.freeEntry {
		b.WriteString(center.Render(s.input.View()))
	} else {
		cell := max((cw-2)/2, 8)
		b.WriteString(center.Render(s.grid.View(cell)))
	}
	b.WriteString("\n\n")

	if s.feedback {
		b.WriteString(center.Render(s.renderFeedbackLine()))
		b.WriteString("\n")
	}

	if s.caption != nil {
		if text := s.caption.Caption(); text != "" {
			b.WriteString("\n")
			b.WriteString(center.Render(theme.Caption.Width(cw).Align(lipgloss.Center).Render("♪ " + text)))
		}
	}

	return b.String()
}

func (s *PlayScreen) renderFeedbackLine() string {
	out := s.outcome
	if out.Correct {
		line := theme.Correct.Render(fmt.Sprintf("Correct! +%d", out.Delta))
		if out.Won {
			line += "  " + lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("★ YOU WIN ★")
		}
		return line
	}

	line := theme.Incorrect.Render(fmt.Sprintf("Not quite. %d × %d = %d",
		s.question.Num1, s.question.Num2, s.question.Answer))
	if out.Delta != 0 {
		line += "  " + lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("%d", out.Delta))
	}
	if out.LevelDropped {
		line += "\n" + theme.Hint.Render("Let's take it a little easier.")
	}
	return line
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Abandon this game?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Your score will be lost."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Error).Render("[Y] Yes, abandon"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
