package components

import (
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timez/internal/ui/theme"
)

// OptionChosenMsg is emitted when the player picks an option.
type OptionChosenMsg struct {
	Index int
	Value int
}

// OptionGrid shows four numeric answer options in a 2×2 grid. Options are
// picked with the 1-4 keys or with the arrows and Enter.
type OptionGrid struct {
	Options  [4]int
	Selected int

	// Reveal switches to feedback mode: Correct is highlighted green and
	// Wrong, when >= 0, red.
	Reveal  bool
	Correct int
	Wrong   int

	Disabled bool
}

// NewOptionGrid creates a grid for the given options.
func NewOptionGrid(options [4]int) OptionGrid {
	return OptionGrid{Options: options, Correct: -1, Wrong: -1}
}

// Update handles option selection.
func (g OptionGrid) Update(msg tea.Msg) (OptionGrid, tea.Cmd) {
	if g.Reveal || g.Disabled {
		return g, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}

	switch key := kmsg.String(); key {
	case "1", "2", "3", "4":
		g.Selected = int(key[0] - '1')
		return g, g.choose()
	case "left", "h":
		if g.Selected%2 == 1 {
			g.Selected--
		}
	case "right", "l":
		if g.Selected%2 == 0 {
			g.Selected++
		}
	case "up", "k":
		if g.Selected >= 2 {
			g.Selected -= 2
		}
	case "down", "j":
		if g.Selected < 2 {
			g.Selected += 2
		}
	case "enter", "space":
		return g, g.choose()
	}
	return g, nil
}

func (g OptionGrid) choose() tea.Cmd {
	idx, val := g.Selected, g.Options[g.Selected]
	return func() tea.Msg { return OptionChosenMsg{Index: idx, Value: val} }
}

// ShowFeedback marks the correct option and, if wrong >= 0, the wrongly
// chosen one.
func (g *OptionGrid) ShowFeedback(correct, wrong int) {
	g.Reveal = true
	g.Correct = correct
	g.Wrong = wrong
}

// View renders the grid. cellWidth is the width of one option box.
func (g OptionGrid) View(cellWidth int) string {
	cells := make([]string, len(g.Options))
	for i, opt := range g.Options {
		style := theme.OptionIdle
		switch {
		case g.Reveal && i == g.Correct:
			style = theme.OptionCorrect
		case g.Reveal && i == g.Wrong:
			style = theme.OptionWrong
		case g.Reveal || g.Disabled:
			style = theme.OptionDim
		case i == g.Selected:
			style = theme.OptionSelected
		}
		label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strconv.Itoa(i+1)+") ") + strconv.Itoa(opt)
		cells[i] = style.Width(cellWidth).Render(label)
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, cells[0], "  ", cells[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cells[2], "  ", cells[3])
	return lipgloss.JoinVertical(lipgloss.Center, top, bottom)
}
