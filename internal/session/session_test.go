package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/engine"
	"github.com/abhisek/timez/internal/narration"
	"github.com/abhisek/timez/internal/phrasebook"
	"github.com/abhisek/timez/internal/store"
)

// memEventRepo records journal writes; the query methods are unused.
type memEventRepo struct {
	store.EventRepo
	sessions []store.SessionEventData
	answers  []store.AnswerEventData
	fail     bool
}

func (m *memEventRepo) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	if m.fail {
		return errors.New("disk full")
	}
	m.sessions = append(m.sessions, data)
	return nil
}

func (m *memEventRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	if m.fail {
		return errors.New("disk full")
	}
	m.answers = append(m.answers, data)
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGame(t *testing.T) (*Game, *memEventRepo, *fakeClock) {
	t.Helper()
	repo := &memEventRepo{}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	g := New(Options{
		Rand:      engine.NewRand(7),
		EventRepo: repo,
		Now:       clock.Now,
	})
	return g, repo, clock
}

func wrongOption(q engine.Question) int {
	for _, o := range q.Options {
		if o != q.Answer {
			return o
		}
	}
	return q.Answer + 1
}

func TestGame_StartJournalsSession(t *testing.T) {
	g, repo, _ := newTestGame(t)

	if err := g.Start(context.Background(), engine.Moderate); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := uuid.Parse(g.ID()); err != nil {
		t.Errorf("session ID %q is not a UUID: %v", g.ID(), err)
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("expected 1 session event, got %d", len(repo.sessions))
	}
	ev := repo.sessions[0]
	if ev.Action != store.ActionStart || ev.Tier != "Moderate" || ev.Language != "en" || ev.SessionID != g.ID() {
		t.Errorf("start event = %+v", ev)
	}

	if err := g.Start(context.Background(), engine.Easy); !errors.Is(err, engine.ErrSessionActive) {
		t.Errorf("second Start: expected ErrSessionActive, got %v", err)
	}
}

func TestGame_StartAtPresetsScore(t *testing.T) {
	g, repo, _ := newTestGame(t)

	if err := g.StartAt(context.Background(), engine.Hard, engine.FreeEntryScore); err != nil {
		t.Fatalf("StartAt: %v", err)
	}
	if got := g.Engine().Score(); got != engine.FreeEntryScore {
		t.Errorf("score = %d, want %d", got, engine.FreeEntryScore)
	}
	if len(repo.sessions) != 1 || repo.sessions[0].Tier != "Hard" {
		t.Errorf("start event = %+v", repo.sessions)
	}
	if _, err := g.Next(); err != nil {
		t.Fatal(err)
	}
}

func TestGame_AnswersAreJournaled(t *testing.T) {
	g, repo, clock := newTestGame(t)
	ctx := context.Background()
	if err := g.Start(ctx, engine.Easy); err != nil {
		t.Fatal(err)
	}

	q, err := g.Next()
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(2300 * time.Millisecond)
	out, err := g.Answer(ctx, q.Answer)
	if err != nil || !out.Correct {
		t.Fatalf("Answer = %+v, %v", out, err)
	}

	q, _ = g.Next()
	clock.Advance(time.Second)
	if out, _ := g.Answer(ctx, wrongOption(q)); out.Correct {
		t.Fatal("expected wrong answer")
	}

	g.Next()
	if out, _ := g.AnswerText(ctx, "seven"); !out.Malformed {
		t.Fatal("expected malformed answer")
	}

	if len(repo.answers) != 3 {
		t.Fatalf("expected 3 answer events, got %d", len(repo.answers))
	}
	first, second, third := repo.answers[0], repo.answers[1], repo.answers[2]
	if !first.Correct || first.TimeMs != 2300 || first.InputMode != store.InputChoice || first.ScoreAfter != 5 {
		t.Errorf("first answer = %+v", first)
	}
	if second.Correct || second.Delta >= 0 || second.SessionID != g.ID() {
		t.Errorf("second answer = %+v", second)
	}
	if !third.Malformed || third.Submitted != 0 || third.InputMode != store.InputTyped {
		t.Errorf("third answer = %+v", third)
	}

	sum := g.Summary()
	if sum.Questions != 3 || sum.Correct != 1 || sum.BestStreak != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Accuracy < 0.33 || sum.Accuracy > 0.34 {
		t.Errorf("accuracy = %f", sum.Accuracy)
	}
	if sum.Duration != 3300*time.Millisecond {
		t.Errorf("duration = %s", sum.Duration)
	}
}

func TestGame_AnswerWithoutQuestion(t *testing.T) {
	g, repo, _ := newTestGame(t)
	ctx := context.Background()

	if _, err := g.Answer(ctx, 4); !errors.Is(err, engine.ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying, got %v", err)
	}
	g.Start(ctx, engine.Easy)
	q, _ := g.Next()
	g.Answer(ctx, q.Answer)
	if _, err := g.Answer(ctx, q.Answer); !errors.Is(err, engine.ErrNoQuestion) {
		t.Errorf("expected ErrNoQuestion, got %v", err)
	}
	if len(repo.answers) != 1 {
		t.Errorf("expected 1 answer event, got %d", len(repo.answers))
	}
}

func TestGame_WinJournalsOnce(t *testing.T) {
	g, repo, _ := newTestGame(t)
	ctx := context.Background()
	g.Start(ctx, engine.Hard)

	var out engine.Outcome
	for i := 0; i < 1000 && !out.Won; i++ {
		q, err := g.Next()
		if err != nil {
			t.Fatalf("Next after %d answers: %v", i, err)
		}
		out, _ = g.Answer(ctx, q.Answer)
	}
	if !out.Won {
		t.Fatal("never reached the winning score")
	}

	last := repo.sessions[len(repo.sessions)-1]
	if last.Action != store.ActionWon || last.Score < engine.WinScore || last.Questions != last.Correct {
		t.Errorf("won event = %+v", last)
	}
	if !g.Summary().Won {
		t.Error("summary should report the win")
	}
	if g.WinText() == "" {
		t.Error("empty win announcement")
	}

	g.Abandon(ctx)
	if got := repo.sessions[len(repo.sessions)-1].Action; got != store.ActionWon {
		t.Errorf("abandon after win journaled %q", got)
	}
	if g.Engine().Phase() != engine.PhaseSelectingDifficulty {
		t.Errorf("phase = %s", g.Engine().Phase())
	}
}

func TestGame_Abandon(t *testing.T) {
	g, repo, clock := newTestGame(t)
	ctx := context.Background()

	g.Abandon(ctx)
	if len(repo.sessions) != 0 {
		t.Fatal("abandon with no session should not journal")
	}

	g.Start(ctx, engine.Easy)
	q, _ := g.Next()
	g.Answer(ctx, q.Answer)
	clock.Advance(90 * time.Second)
	g.Abandon(ctx)

	last := repo.sessions[len(repo.sessions)-1]
	if last.Action != store.ActionAbandon || last.Score != 5 || last.DurationSecs != 90 {
		t.Errorf("abandon event = %+v", last)
	}
	if g.Engine().Phase() != engine.PhaseSelectingDifficulty {
		t.Errorf("phase = %s", g.Engine().Phase())
	}
}

func TestGame_JournalFailureDoesNotStopPlay(t *testing.T) {
	g, repo, _ := newTestGame(t)
	repo.fail = true
	ctx := context.Background()

	if err := g.Start(ctx, engine.Easy); err != nil {
		t.Fatalf("Start: %v", err)
	}
	q, _ := g.Next()
	if _, err := g.Answer(ctx, q.Answer); err != nil {
		t.Fatalf("Answer: %v", err)
	}
}

func TestGame_NarratesInSelectedLanguage(t *testing.T) {
	caption := &narration.CaptionSpeaker{}
	d := narration.NewDispatcher(caption, language.English)
	defer d.Close()

	g := New(Options{Rand: engine.NewRand(3), Narrator: d})
	g.SetPhrasebook(phrasebook.NewCatalog().Phrasebook(language.German))
	g.Start(context.Background(), engine.Easy)

	q, _ := g.Next()
	select {
	case res := <-d.Done():
		if res.Err != nil {
			t.Fatalf("narration error: %v", res.Err)
		}
		if res.Utterance.Lang != language.German || res.Utterance.Kind != narration.KindQuestion {
			t.Errorf("utterance = %+v", res.Utterance)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("question narration did not complete")
	}
	want := g.Phrasebook().Question(q.Num1, q.Num2)
	if caption.Caption() != want {
		t.Errorf("caption = %q, want %q", caption.Caption(), want)
	}

	out, _ := g.Answer(context.Background(), q.Answer)
	select {
	case res := <-d.Done():
		if res.Utterance.Kind != narration.KindCompliment || res.Utterance.Text != out.Compliment {
			t.Errorf("utterance = %+v, want compliment %q", res.Utterance, out.Compliment)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("compliment narration did not complete")
	}
}
