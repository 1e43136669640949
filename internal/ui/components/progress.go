package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/timez/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Value       int
	Max         int
	ShowCount   bool
	Width       int
	FillColor   color.Color
	MarkerAt    int // draws a tick at this value when > 0
	MarkerColor color.Color
}

// NewScoreBar creates the bar that tracks score toward max.
func NewScoreBar(score, max, width int) ProgressBar {
	return ProgressBar{
		Label:     "Score",
		Value:     score,
		Max:       max,
		ShowCount: true,
		Width:     width,
		FillColor: theme.Secondary,
	}
}

// Percent returns the filled fraction clamped to [0, 1].
func (p ProgressBar) Percent() float64 {
	if p.Max <= 0 {
		return 0
	}
	return min(max(float64(p.Value)/float64(p.Max), 0), 1)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	count := ""
	if p.ShowCount {
		count = fmt.Sprintf("  %d/%d", p.Value, p.Max)
	}

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(count), 4)
	filled := int(float64(barWidth) * p.Percent())

	fill := p.FillColor
	if fill == nil {
		fill = theme.Secondary
	}

	marker := -1
	if p.MarkerAt > 0 && p.Max > 0 {
		marker = min(barWidth*p.MarkerAt/p.Max, barWidth-1)
	}

	var bar strings.Builder
	for i := range barWidth {
		style := lipgloss.NewStyle().Background(theme.Border)
		if i < filled {
			style = style.Background(fill)
		}
		cell := " "
		if i == marker {
			cell = "│"
			style = style.Foreground(p.MarkerColor)
		}
		bar.WriteString(style.Render(cell))
	}
	result += bar.String()

	if count != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
	}
	return result
}
