package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/timez/ent/schema"
)

const (
	sessionEventsTable = "session_events"
	answerEventsTable  = "answer_events"
	llmEventsTable     = "llm_request_events"
	phraseSetsTable    = "phrase_sets"
	sequenceTable      = "global_sequence"
)

// tableFor builds a migration table from an ent schema definition. Every
// table gets an auto-increment id followed by mixin and schema fields.
func tableFor(name string, def ent.Interface) *schema.Table {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range def.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, def.Fields()...)
	indexes = append(indexes, def.Indexes()...)

	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &schema.Table{
		Name:       name,
		Columns:    []*schema.Column{id},
		PrimaryKey: []*schema.Column{id},
	}
	byName := map[string]*schema.Column{id.Name: id}
	for _, f := range fields {
		d := f.Descriptor()
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
		}
		switch v := d.Default.(type) {
		case string, bool, int, int64, float64:
			c.Default = v
		}
		t.Columns = append(t.Columns, c)
		byName[c.Name] = c
	}
	for _, idx := range indexes {
		d := idx.Descriptor()
		ix := &schema.Index{
			Name:   name + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, col := range d.Fields {
			if c, ok := byName[col]; ok {
				ix.Columns = append(ix.Columns, c)
			}
		}
		if len(ix.Columns) > 0 {
			t.Indexes = append(t.Indexes, ix)
		}
	}
	return t
}

var (
	phraseSetsColumns = []*schema.Column{
		{Name: "lang", Type: field.TypeString, Unique: true},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}

	tables = []*schema.Table{
		tableFor(sessionEventsTable, entschema.SessionEvent{}),
		tableFor(answerEventsTable, entschema.AnswerEvent{}),
		tableFor(llmEventsTable, entschema.LLMRequestEvent{}),
		{
			Name:       phraseSetsTable,
			Columns:    phraseSetsColumns,
			PrimaryKey: []*schema.Column{phraseSetsColumns[0]},
		},
		{
			Name:       sequenceTable,
			Columns:    sequenceColumns,
			PrimaryKey: []*schema.Column{sequenceColumns[0]},
		},
	}
)

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
