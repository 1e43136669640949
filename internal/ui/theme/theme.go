package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: bright arcade colours on a dark background
var (
	Primary      = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary    = lipgloss.Color("#14B8A6") // Teal
	Accent       = lipgloss.Color("#F97316") // Orange
	Success      = lipgloss.Color("#22C55E") // Green
	Error        = lipgloss.Color("#F43F5E") // Rose
	Text         = lipgloss.Color("#F8FAFC") // White
	TextDim      = lipgloss.Color("#94A3B8") // Slate
	BgDark       = lipgloss.Color("#0F172A") // Deep Navy
	BgCard       = lipgloss.Color("#1E293B") // Dark Slate
	Border       = lipgloss.Color("#334155") // Slate
	ArcadeYellow = lipgloss.Color("#FACC15") // Marquee Yellow
	ArcadeCyan   = lipgloss.Color("#22D3EE") // Neon Cyan
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Caption = lipgloss.NewStyle().
		Foreground(ArcadeCyan).
		Italic(true)
)

// Answer options
var (
	OptionIdle = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Align(lipgloss.Center).
			Padding(0, 1)

	OptionSelected = OptionIdle.
			Foreground(ArcadeYellow).
			BorderForeground(ArcadeYellow).
			Bold(true)

	OptionCorrect = OptionIdle.
			Foreground(BgDark).
			Background(Success).
			BorderForeground(Success).
			Bold(true)

	OptionWrong = OptionIdle.
			Foreground(Text).
			Background(Error).
			BorderForeground(Error).
			Bold(true)

	OptionDim = OptionIdle.
			Foreground(TextDim)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
