package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/timez/internal/ui/components"
	"github.com/abhisek/timez/internal/ui/theme"
)

const arcadeTitleFull = `████████╗██╗███╗   ███╗███████╗███████╗
╚══██╔══╝██║████╗ ████║██╔════╝╚══███╔╝
   ██║   ██║██╔████╔██║█████╗    ███╔╝
   ██║   ██║██║╚██╔╝██║██╔══╝   ███╔╝
   ██║   ██║██║ ╚═╝ ██║███████╗███████╗
   ╚═╝   ╚═╝╚═╝     ╚═╝╚══════╝╚══════╝`

const arcadeTitleCompact = "T · I · M · E · Z"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 30

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders journal stats in a bordered box matching content width.
func renderStatsBar(st stats, cw int, compact bool) string {
	bestStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	winStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	gameStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			bestStyle.Render(fmt.Sprintf("★%d", st.Best)),
			winStyle.Render(fmt.Sprintf("♛%d", st.Wins)),
			gameStyle.Render(fmt.Sprintf("▶%d", st.Games)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			bestStyle.Render(fmt.Sprintf("★ BEST %d", st.Best)),
			winStyle.Render(fmt.Sprintf("♛ %d WINS", st.Wins)),
			gameStyle.Render(fmt.Sprintf("▶ %d GAMES", st.Games)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// renderArcadeMenu renders the menu as fixed-width buttons.
func renderArcadeMenu(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(m.View(buttonWidth))
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(m components.Menu, cw int) string {
	var lines []string
	for i, label := range m.Labels() {
		if i == m.Selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ "+label+" "))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("   "+label))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
