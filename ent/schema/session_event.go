package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records session lifecycle events.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("action").
			NotEmpty().
			Comment("start, won or abandoned"),
		field.String("tier").
			Comment("Easy, Moderate or Hard"),
		field.String("language").
			Default("en").
			Comment("Phrase language tag"),
		field.Int("score").
			Default(0).
			Comment("Score when the event was written"),
		field.Int("questions").
			Default(0),
		field.Int("correct").
			Default(0),
		field.Int("best_streak").
			Default(0),
		field.Int("duration_secs").
			Default(0),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
