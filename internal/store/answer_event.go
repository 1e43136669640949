package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	lo, hi := data.Num1, data.Num2
	if lo > hi {
		lo, hi = hi, lo
	}
	err := r.insertEvent(ctx, answerEventsTable,
		[]string{"session_id", "num1", "num2", "pair_lo", "pair_hi", "answer", "submitted",
			"correct", "malformed", "delta", "score_after", "time_ms", "input_mode"},
		[]any{data.SessionID, data.Num1, data.Num2, lo, hi, data.Answer, data.Submitted,
			data.Correct, data.Malformed, data.Delta, data.ScoreAfter, data.TimeMs, data.InputMode},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error) {
	q, args := builder().
		Select("sequence", "timestamp", "session_id", "num1", "num2", "answer", "submitted",
			"correct", "malformed", "delta", "score_after", "time_ms", "input_mode").
		From(entsql.Table(answerEventsTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var a AnswerRecord
		if err := rows.Scan(&a.Sequence, &a.Timestamp, &a.SessionID, &a.Num1, &a.Num2, &a.Answer, &a.Submitted,
			&a.Correct, &a.Malformed, &a.Delta, &a.ScoreAfter, &a.TimeMs, &a.InputMode); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	return out, nil
}

func (r *eventRepo) AnswerTotals(ctx context.Context) (AnswerTotals, error) {
	q, args := builder().
		Select(entsql.Count("*"), "COALESCE(SUM(correct), 0)").
		From(entsql.Table(answerEventsTable)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return AnswerTotals{}, fmt.Errorf("query answer totals: %w", err)
	}
	defer rows.Close()

	var t AnswerTotals
	if rows.Next() {
		if err := rows.Scan(&t.Answered, &t.Correct); err != nil {
			return AnswerTotals{}, fmt.Errorf("scan answer totals: %w", err)
		}
	}
	return t, rows.Err()
}

func (r *eventRepo) MostMissed(ctx context.Context, limit int) ([]MissedFact, error) {
	sel := builder().
		Select("pair_lo", "pair_hi", entsql.As(entsql.Count("*"), "misses")).
		From(entsql.Table(answerEventsTable)).
		Where(entsql.EQ("correct", false)).
		GroupBy("pair_lo", "pair_hi").
		OrderBy(entsql.Desc("misses"), "pair_lo", "pair_hi")
	if limit > 0 {
		sel.Limit(limit)
	}

	q, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query missed facts: %w", err)
	}
	defer rows.Close()

	var out []MissedFact
	for rows.Next() {
		var m MissedFact
		if err := rows.Scan(&m.A, &m.B, &m.Misses); err != nil {
			return nil, fmt.Errorf("scan missed fact: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query missed facts: %w", err)
	}
	return out, nil
}
