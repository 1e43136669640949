package home

import (
	"context"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/narration"
	"github.com/abhisek/timez/internal/phrasebook"
	"github.com/abhisek/timez/internal/router"
	"github.com/abhisek/timez/internal/screen"
	"github.com/abhisek/timez/internal/screens/history"
	"github.com/abhisek/timez/internal/screens/play"
	"github.com/abhisek/timez/internal/session"
	"github.com/abhisek/timez/internal/store"
	"github.com/abhisek/timez/internal/ui/components"
	"github.com/abhisek/timez/internal/ui/layout"
)

// statsWindow is how many recent sessions feed the stats bar.
const statsWindow = 200

// Options configures the home screen.
type Options struct {
	Game    *session.Game
	Catalog *phrasebook.Catalog

	// EventRepo feeds the stats bar and the history screen. Optional.
	EventRepo store.EventRepo

	Caption       *narration.CaptionSpeaker
	FeedbackDelay time.Duration

	// Autostart, when set, starts a game on this tier as soon as the
	// screen is shown.
	Autostart *engine.Difficulty
}

type stats struct {
	Best  int
	Wins  int
	Games int
}

type statsLoadedMsg struct {
	Stats stats
	Last  *store.SessionSummary
	Err   error
}

type languageChangedMsg struct {
	Tag language.Tag
}

// Menu rows.
const (
	itemEasy = iota
	itemModerate
	itemHard
	itemLanguage
	itemHistory
	itemQuit
)

// HomeScreen is tier selection: the root of the router stack.
type HomeScreen struct {
	opts          Options
	menu          components.Menu
	stats         stats
	mascotVariant MascotVariant
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatsProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	if opts.Catalog == nil {
		opts.Catalog = phrasebook.NewCatalog()
	}
	h := &HomeScreen{opts: opts}

	items := make([]components.MenuItem, 0, itemQuit+1)
	for _, tier := range engine.AllDifficulties {
		items = append(items, components.MenuItem{
			Label:  strings.ToUpper(tier.String()),
			Action: func() tea.Cmd { return h.start(tier) },
		})
	}
	items = append(items,
		components.MenuItem{
			Label: "LANGUAGE",
			Value: opts.Game.Phrasebook().Label(),
			Cycle: h.cycleLanguage,
		},
		components.MenuItem{Label: "HISTORY", Action: h.openHistory},
		components.MenuItem{Label: "EXIT GAME", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{h.loadStats()}
	if t := h.opts.Autostart; t != nil {
		h.opts.Autostart = nil
		h.menu.Selected = int(*t)
		cmds = append(cmds, h.start(*t))
	}
	return tea.Batch(cmds...)
}

func (h *HomeScreen) Title() string {
	return "Pick a difficulty"
}

func (h *HomeScreen) HeaderStats() layout.HeaderStats {
	return layout.HeaderStats{Lang: h.opts.Game.Phrasebook().Label()}
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if h.menu.Selected == itemLanguage {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Language"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err == nil {
			h.stats = msg.Stats
			h.mascotVariant = mascotFor(msg.Last)
		}
		return h, nil

	case languageChangedMsg:
		h.menu.Items[itemLanguage].Value = phrasebook.Label(msg.Tag)
		return h, nil

	case screen.SessionEndedMsg:
		if msg.Won {
			h.mascotVariant = MascotCelebrating
		} else {
			h.mascotVariant = MascotAlert
		}
		return h, h.loadStats()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) start(tier engine.Difficulty) tea.Cmd {
	next := play.New(play.Options{
		Game:          h.opts.Game,
		Tier:          tier,
		Caption:       h.opts.Caption,
		FeedbackDelay: h.opts.FeedbackDelay,
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) openHistory() tea.Cmd {
	if h.opts.EventRepo == nil {
		return nil
	}
	next := history.New(h.opts.EventRepo)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

// cycleLanguage moves to the previous or next registered narration
// language.
func (h *HomeScreen) cycleLanguage(delta int) tea.Cmd {
	tags := h.opts.Catalog.Languages()
	if len(tags) == 0 {
		return nil
	}
	i := slices.Index(tags, h.opts.Game.Phrasebook().Tag())
	i = ((i+delta)%len(tags) + len(tags)) % len(tags)

	tag := tags[i]
	h.opts.Game.SetPhrasebook(h.opts.Catalog.Phrasebook(tag))
	return func() tea.Msg { return languageChangedMsg{Tag: tag} }
}

func (h *HomeScreen) loadStats() tea.Cmd {
	repo := h.opts.EventRepo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		sessions, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: statsWindow})
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		msg := statsLoadedMsg{Stats: stats{Games: len(sessions)}}
		for _, s := range sessions {
			msg.Stats.Best = max(msg.Stats.Best, s.Score)
			if s.Won() {
				msg.Stats.Wins++
			}
		}
		if len(sessions) > 0 {
			msg.Last = &sessions[0]
		}
		return msg
	}
}

func mascotFor(last *store.SessionSummary) MascotVariant {
	switch {
	case last == nil:
		return MascotIdle
	case last.Won():
		return MascotCelebrating
	default:
		return MascotAlert
	}
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+8)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant, cw))
	}

	sections = append(sections, renderStatsBar(h.stats, cw, compact))

	if compact {
		sections = append(sections, renderArcadeMenuCompact(h.menu, cw))
	} else {
		sections = append(sections, renderArcadeMenu(h.menu, cw))
	}

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}
