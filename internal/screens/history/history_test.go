package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timez/internal/router"
	"github.com/abhisek/timez/internal/store"
)

type fakeRepo struct {
	store.EventRepo
	sessions []store.SessionSummary
	answers  map[string][]store.AnswerRecord
	queried  int
}

func (f *fakeRepo) QuerySessionSummaries(_ context.Context, _ store.QueryOpts) ([]store.SessionSummary, error) {
	return f.sessions, nil
}

func (f *fakeRepo) QueryAnswers(_ context.Context, id string) ([]store.AnswerRecord, error) {
	f.queried++
	return f.answers[id], nil
}

func testRepo() *fakeRepo {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &fakeRepo{
		sessions: []store.SessionSummary{
			{Timestamp: ts, SessionEventData: store.SessionEventData{
				SessionID: "s2", Action: store.ActionWon, Tier: "Hard", Score: 1000,
				Questions: 40, Correct: 36, DurationSecs: 415,
			}},
			{Timestamp: ts.Add(-time.Hour), SessionEventData: store.SessionEventData{
				SessionID: "s1", Action: store.ActionAbandon, Tier: "Easy", Score: 120,
				Questions: 8, Correct: 5, DurationSecs: 62,
			}},
		},
		answers: map[string][]store.AnswerRecord{
			"s2": {
				{AnswerEventData: store.AnswerEventData{Num1: 7, Num2: 8, Answer: 56, Submitted: 54}},
				{AnswerEventData: store.AnswerEventData{Num1: 6, Num2: 6, Answer: 36, Submitted: 36, Correct: true}},
				{AnswerEventData: store.AnswerEventData{Num1: 9, Num2: 12, Answer: 108, Malformed: true}},
			},
		},
	}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatal("history not loaded")
	}
}

func TestHistoryScreen_ListsSessions(t *testing.T) {
	s := New(testRepo())
	load(t, s)

	view := s.View(120, 30)
	for _, want := range []string{"Mar 14, 2026", "Hard", "6:55", "1000 pts", "★ won", "abandoned"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_ExpandShowsMisses(t *testing.T) {
	repo := testRepo()
	s := New(repo)
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected answers to load")
	}
	s.Update(cmd())

	view := s.View(120, 30)
	if !strings.Contains(view, "7 × 8 = 56 (you said 54)") {
		t.Error("missing wrong answer")
	}
	if !strings.Contains(view, "9 × 12 = 108 (you said ?)") {
		t.Error("missing malformed answer")
	}
	if strings.Contains(view, "6 × 6") {
		t.Error("correct answers should not be listed")
	}

	// Collapsing and expanding again uses the loaded answers.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("answers should be cached")
	}
	if repo.queried != 1 {
		t.Errorf("queried = %d, want 1", repo.queried)
	}
}

func TestHistoryScreen_NoMistakes(t *testing.T) {
	s := New(testRepo())
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if !strings.Contains(s.View(120, 30), "No mistakes!") {
		t.Error("expected no-mistakes note")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&fakeRepo{})
	load(t, s)
	if !strings.Contains(s.View(80, 24), "No games yet") {
		t.Error("expected empty-state message")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on empty history should do nothing")
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := New(testRepo())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
