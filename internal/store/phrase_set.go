package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// phraseRepo implements PhraseRepo. Phrase sets are cache entries, not
// events, so they carry no sequence number.
type phraseRepo struct {
	drv *entsql.Driver
}

func (r *phraseRepo) Save(ctx context.Context, rec PhraseSetRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	q, args := builder().
		Insert(phraseSetsTable).
		Columns("lang", "payload", "model", "created_at").
		Values(rec.Lang, string(rec.Payload), rec.Model, rec.CreatedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("lang"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save phrase set %s: %w", rec.Lang, err)
	}
	return nil
}

func (r *phraseRepo) Load(ctx context.Context, lang string) (*PhraseSetRecord, error) {
	recs, err := r.query(ctx, entsql.EQ("lang", lang))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

func (r *phraseRepo) List(ctx context.Context) ([]PhraseSetRecord, error) {
	return r.query(ctx, nil)
}

func (r *phraseRepo) Delete(ctx context.Context, lang string) error {
	q, args := builder().Delete(phraseSetsTable).Where(entsql.EQ("lang", lang)).Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("delete phrase set %s: %w", lang, err)
	}
	return nil
}

func (r *phraseRepo) query(ctx context.Context, where *entsql.Predicate) ([]PhraseSetRecord, error) {
	sel := builder().
		Select("lang", "payload", "model", "created_at").
		From(entsql.Table(phraseSetsTable)).
		OrderBy("lang")
	if where != nil {
		sel.Where(where)
	}

	q, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query phrase sets: %w", err)
	}
	defer rows.Close()

	var out []PhraseSetRecord
	for rows.Next() {
		var rec PhraseSetRecord
		var payload string
		if err := rows.Scan(&rec.Lang, &payload, &rec.Model, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan phrase set: %w", err)
		}
		rec.Payload = []byte(payload)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query phrase sets: %w", err)
	}
	return out, nil
}
