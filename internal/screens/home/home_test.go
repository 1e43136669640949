package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/phrasebook"
	"github.com/abhisek/timez/internal/router"
	"github.com/abhisek/timez/internal/screen"
	"github.com/abhisek/timez/internal/screens/history"
	"github.com/abhisek/timez/internal/screens/play"
	"github.com/abhisek/timez/internal/session"
	"github.com/abhisek/timez/internal/store"
)

type fakeRepo struct {
	store.EventRepo
	sessions []store.SessionSummary
}

func (f *fakeRepo) QuerySessionSummaries(_ context.Context, _ store.QueryOpts) ([]store.SessionSummary, error) {
	return f.sessions, nil
}

func summary(action string, score int) store.SessionSummary {
	return store.SessionSummary{SessionEventData: store.SessionEventData{Action: action, Score: score}}
}

func testHome(repo store.EventRepo) (*HomeScreen, *session.Game) {
	catalog := phrasebook.NewCatalog()
	game := session.New(session.Options{
		Rand:    engine.NewRand(1),
		Phrases: catalog.Phrasebook(language.English),
	})
	return New(Options{Game: game, Catalog: catalog, EventRepo: repo}), game
}

func press(h *HomeScreen, code rune) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestHomeScreen_TierStartsPlay(t *testing.T) {
	h, _ := testHome(nil)

	press(h, tea.KeyDown)
	cmd := press(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	p, ok := msg.Screen.(*play.PlayScreen)
	if !ok {
		t.Fatalf("pushed %T", msg.Screen)
	}
	if p.Title() != "Moderate" {
		t.Errorf("tier = %q, want Moderate", p.Title())
	}
}

func TestHomeScreen_LanguageCycles(t *testing.T) {
	h, game := testHome(nil)
	h.menu.Selected = itemLanguage

	cmd := press(h, tea.KeyRight)
	if cmd == nil {
		t.Fatal("expected languageChangedMsg")
	}
	h.Update(cmd())

	tags := phrasebook.NewCatalog().Languages()
	if game.Phrasebook().Tag() != tags[1] {
		t.Errorf("language = %v, want %v", game.Phrasebook().Tag(), tags[1])
	}
	if got := h.menu.Items[itemLanguage].Value; got != phrasebook.Label(tags[1]) {
		t.Errorf("label = %q", got)
	}

	// Left from the first language wraps to the last.
	h.Update(press(h, tea.KeyLeft)())
	h.Update(press(h, tea.KeyLeft)())
	if game.Phrasebook().Tag() != tags[len(tags)-1] {
		t.Errorf("language = %v, want %v", game.Phrasebook().Tag(), tags[len(tags)-1])
	}
}

func TestHomeScreen_StatsAndMascot(t *testing.T) {
	repo := &fakeRepo{sessions: []store.SessionSummary{
		summary(store.ActionAbandon, 340),
		summary(store.ActionWon, 1000),
		summary(store.ActionWon, 1000),
	}}
	h, _ := testHome(repo)

	h.Update(h.loadStats()())
	if h.stats != (stats{Best: 1000, Wins: 2, Games: 3}) {
		t.Errorf("stats = %+v", h.stats)
	}
	if h.mascotVariant != MascotAlert {
		t.Errorf("mascot = %v, want alert after an abandoned game", h.mascotVariant)
	}

	cmd := func() tea.Cmd {
		_, cmd := h.Update(screen.SessionEndedMsg{Won: true, Score: 1000})
		return cmd
	}()
	if h.mascotVariant != MascotCelebrating {
		t.Errorf("mascot = %v, want celebrating", h.mascotVariant)
	}
	if cmd == nil {
		t.Error("expected stats reload")
	}

	view := h.View(120, 40)
	if !strings.Contains(view, "BEST 1000") || !strings.Contains(view, "2 WINS") {
		t.Error("stats missing from view")
	}
}

func TestHomeScreen_History(t *testing.T) {
	h, _ := testHome(&fakeRepo{})
	h.menu.Selected = itemHistory

	msg, ok := press(h, tea.KeyEnter)().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("pushed %T", msg.Screen)
	}

	withoutJournal, _ := testHome(nil)
	withoutJournal.menu.Selected = itemHistory
	if press(withoutJournal, tea.KeyEnter) != nil {
		t.Error("history needs a journal")
	}
}

func TestHomeScreen_Autostart(t *testing.T) {
	h, _ := testHome(nil)
	hard := engine.Hard
	h.opts.Autostart = &hard

	if h.Init() == nil {
		t.Fatal("expected a start command")
	}
	if h.menu.Selected != itemHard {
		t.Errorf("Selected = %d, want %d", h.menu.Selected, itemHard)
	}
	if h.opts.Autostart != nil {
		t.Error("autostart should only fire once")
	}
}
