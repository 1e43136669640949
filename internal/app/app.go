package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/narration"
	"github.com/abhisek/timez/internal/phrasebook"
	"github.com/abhisek/timez/internal/router"
	"github.com/abhisek/timez/internal/screen"
	"github.com/abhisek/timez/internal/screens/home"
	"github.com/abhisek/timez/internal/session"
	"github.com/abhisek/timez/internal/store"
	"github.com/abhisek/timez/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Game      *session.Game
	Catalog   *phrasebook.Catalog
	EventRepo store.EventRepo

	// Narrator results are drained so captions redraw and failures show in
	// the footer. Caption is the speaker the play screen reads.
	Narrator *narration.Dispatcher
	Caption  *narration.CaptionSpeaker

	FeedbackDelay time.Duration
	Tier          *engine.Difficulty
}

// narrationDoneMsg wraps a finished utterance.
type narrationDoneMsg narration.Result

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router       *router.Router
	narrator     *narration.Dispatcher
	narrationErr string
	width        int
	height       int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(home.Options{
		Game:          opts.Game,
		Catalog:       opts.Catalog,
		EventRepo:     opts.EventRepo,
		Caption:       opts.Caption,
		FeedbackDelay: opts.FeedbackDelay,
		Autostart:     opts.Tier,
	})
	return AppModel{
		router:   router.New(homeScreen),
		narrator: opts.Narrator,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.waitNarration())
}

func (m AppModel) waitNarration() tea.Cmd {
	if m.narrator == nil {
		return nil
	}
	done := m.narrator.Done()
	return func() tea.Msg {
		return narrationDoneMsg(<-done)
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case narrationDoneMsg:
		m.narrationErr = ""
		if msg.Err != nil {
			m.narrationErr = msg.Err.Error()
		}
		return m, m.waitNarration()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the whole frame: header, active screen and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var stats layout.HeaderStats
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatsProvider); ok {
			stats = sp.HeaderStats()
		}
	}

	header := layout.RenderHeader(title, stats, m.width)

	var footerHints []layout.KeyHint
	if kh, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kh.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	if m.narrationErr != "" {
		footerHints = append(footerHints, layout.KeyHint{Key: "!", Description: "narration: " + m.narrationErr})
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
