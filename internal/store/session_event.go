package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with the SQL builder and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func builder() entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// insertEvent appends one row to an event table, stamping it with the next
// sequence number and the current time.
func (r *eventRepo) insertEvent(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := builder().
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, vals...)...).
		Query()
	return r.drv.Exec(ctx, q, args, nil)
}

// applyOpts adds the sequence and timestamp filters of opts to sel.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insertEvent(ctx, sessionEventsTable,
		[]string{"session_id", "action", "tier", "language", "score", "questions", "correct", "best_streak", "duration_secs"},
		[]any{data.SessionID, data.Action, data.Tier, data.Language, data.Score, data.Questions, data.Correct, data.BestStreak, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummary, error) {
	sel := builder().
		Select("sequence", "timestamp", "session_id", "action", "tier", "language",
			"score", "questions", "correct", "best_streak", "duration_secs").
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.In("action", ActionWon, ActionAbandon)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	q, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.Sequence, &s.Timestamp, &s.SessionID, &s.Action, &s.Tier, &s.Language,
			&s.Score, &s.Questions, &s.Correct, &s.BestStreak, &s.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	return out, nil
}

func (r *eventRepo) Reset(ctx context.Context) error {
	for _, table := range []string{sessionEventsTable, answerEventsTable, llmEventsTable} {
		q, args := builder().Delete(table).Query()
		if err := r.drv.Exec(ctx, q, args, nil); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
