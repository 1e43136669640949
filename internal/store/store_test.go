package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"entgo.io/ent/dialect/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entschema "github.com/abhisek/timez/ent/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "timez.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		require.NoError(t, err, "PRAGMA %s", tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)",
		withPragmas("a.db"))
	assert.Contains(t, withPragmas("file:a.db?mode=rwc"), "mode=rwc&_pragma=journal_mode(WAL)")
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{sessionEventsTable, answerEventsTable, llmEventsTable, phraseSetsTable, sequenceTable} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timez.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: ActionWon, Tier: "Hard", Score: 1000}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	sums, err := s.EventRepo().QuerySessionSummaries(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 1000, sums[0].Score)

	// The sequence continues rather than restarting.
	seq, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seq, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i), seq)
	}
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "a", Action: ActionStart, Tier: "Easy", Language: "en"},
		{SessionID: "a", Action: ActionAbandon, Tier: "Easy", Language: "en", Score: 40, Questions: 10, Correct: 8, DurationSecs: 60},
		{SessionID: "b", Action: ActionStart, Tier: "Hard", Language: "fr"},
		{SessionID: "b", Action: ActionWon, Tier: "Hard", Language: "fr", Score: 1000, Questions: 230, Correct: 215, BestStreak: 40, DurationSecs: 900},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendSessionEvent(ctx, e))
	}

	sums, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sums, 2)

	assert.Equal(t, "b", sums[0].SessionID)
	assert.True(t, sums[0].Won())
	assert.Equal(t, 40, sums[0].BestStreak)
	assert.Equal(t, "fr", sums[0].Language)
	assert.Equal(t, "a", sums[1].SessionID)
	assert.False(t, sums[1].Won())
	assert.Greater(t, sums[0].Sequence, sums[1].Sequence)
	assert.WithinDuration(t, time.Now(), sums[0].Timestamp, time.Minute)

	limited, err := repo.QuerySessionSummaries(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "b", limited[0].SessionID)

	before, err := repo.QuerySessionSummaries(ctx, QueryOpts{Before: sums[0].Sequence})
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "a", before[0].SessionID)
}

func TestAnswers(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s", Num1: 7, Num2: 8, Answer: 56, Submitted: 54, Delta: -2, InputMode: InputChoice},
		{SessionID: "s", Num1: 8, Num2: 7, Answer: 56, Submitted: 56, Correct: true, Delta: 5, ScoreAfter: 5, InputMode: InputChoice},
		{SessionID: "s", Num1: 8, Num2: 7, Answer: 56, Submitted: 0, Malformed: true, Delta: -2, InputMode: InputTyped},
		{SessionID: "s", Num1: 6, Num2: 9, Answer: 54, Submitted: 56, Delta: -2, InputMode: InputChoice},
		{SessionID: "other", Num1: 2, Num2: 3, Answer: 6, Submitted: 6, Correct: true, Delta: 5, ScoreAfter: 5, InputMode: InputChoice},
	}
	for _, a := range answers {
		require.NoError(t, repo.AppendAnswerEvent(ctx, a))
	}

	got, err := repo.QueryAnswers(ctx, "s")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 54, got[0].Submitted)
	assert.True(t, got[1].Correct)
	assert.True(t, got[2].Malformed)
	assert.Equal(t, InputTyped, got[2].InputMode)

	totals, err := repo.AnswerTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, AnswerTotals{Answered: 5, Correct: 2}, totals)

	missed, err := repo.MostMissed(ctx, 5)
	require.NoError(t, err)
	require.Len(t, missed, 2)
	assert.Equal(t, MissedFact{A: 7, B: 8, Misses: 2}, missed[0])
	assert.Equal(t, MissedFact{A: 6, B: 9, Misses: 1}, missed[1])
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "phrasebook",
		InputTokens: 120, OutputTokens: 80, LatencyMs: 900, Success: true,
		RequestBody: "[user]\ntranslate", ResponseBody: `{"question":"x"}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "phrasebook", ErrorMessage: "rate limited",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "openai", events[0].Provider)
	assert.False(t, events[0].Success)
	assert.Equal(t, "rate limited", events[0].ErrorMessage)

	ev, err := repo.GetLLMEvent(ctx, events[1].ID)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, `{"question":"x"}`, ev.ResponseBody)
	assert.Equal(t, 120, ev.InputTokens)
	assert.True(t, ev.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestResetKeepsPhraseSets(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: ActionWon}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "a", Num1: 2, Num2: 2, Answer: 4}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock"}))
	require.NoError(t, s.PhraseRepo().Save(ctx, PhraseSetRecord{Lang: "sw", Payload: []byte(`{}`)}))

	require.NoError(t, repo.Reset(ctx))

	sums, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, sums)
	totals, err := repo.AnswerTotals(ctx)
	require.NoError(t, err)
	assert.Zero(t, totals.Answered)
	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, events)

	rec, err := s.PhraseRepo().Load(ctx, "sw")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestPhraseRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.PhraseRepo()
	ctx := context.Background()

	rec, err := repo.Load(ctx, "sw")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, repo.Save(ctx, PhraseSetRecord{Lang: "sw", Payload: []byte(`{"v":1}`), Model: "m1"}))
	require.NoError(t, repo.Save(ctx, PhraseSetRecord{Lang: "ja", Payload: []byte(`{"v":1}`), Model: "m1"}))
	require.NoError(t, repo.Save(ctx, PhraseSetRecord{Lang: "sw", Payload: []byte(`{"v":2}`), Model: "m2"}))

	rec, err = repo.Load(ctx, "sw")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.JSONEq(t, `{"v":2}`, string(rec.Payload))
	assert.Equal(t, "m2", rec.Model)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ja", all[0].Lang)

	require.NoError(t, repo.Delete(ctx, "ja"))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("TIMEZ_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "x.db"), p)
	assert.DirExists(t, filepath.Join(dir, "custom"))

	t.Setenv("TIMEZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "timez", "timez.db"), p)
}

func TestTableForEventSchemas(t *testing.T) {
	tbl := tableFor(sessionEventsTable, entschema.SessionEvent{})
	require.GreaterOrEqual(t, len(tbl.Columns), 4)
	assert.Equal(t, "id", tbl.Columns[0].Name)
	assert.Equal(t, "sequence", tbl.Columns[1].Name)
	assert.True(t, tbl.Columns[1].Unique)
	assert.Equal(t, "timestamp", tbl.Columns[2].Name)
	assert.Nil(t, tbl.Columns[2].Default, "func defaults are not column defaults")

	var lang *schema.Column
	for _, c := range tbl.Columns {
		if c.Name == "language" {
			lang = c
		}
	}
	require.NotNil(t, lang)
	assert.Equal(t, "en", lang.Default)

	var names []string
	for _, ix := range tbl.Indexes {
		names = append(names, ix.Name)
	}
	assert.ElementsMatch(t, []string{"session_events_timestamp", "session_events_session_id"}, names)

	llm := tableFor(llmEventsTable, entschema.LLMRequestEvent{})
	for _, c := range llm.Columns {
		if c.Name == "request_body" {
			assert.Greater(t, c.Size, int64(65535))
		}
	}
}
