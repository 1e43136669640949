package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one graded answer within a session.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.Int("num1"),
		field.Int("num2"),
		field.Int("pair_lo").
			Comment("Smaller factor of the unordered pair"),
		field.Int("pair_hi"),
		field.Int("answer").
			Comment("The correct product"),
		field.Int("submitted").
			Comment("What the player entered, 0 when malformed"),
		field.Bool("correct"),
		field.Bool("malformed").
			Default(false),
		field.Int("delta").
			Comment("Score change applied"),
		field.Int("score_after"),
		field.Int("time_ms").
			Comment("Milliseconds to answer"),
		field.String("input_mode").
			Comment("choice or text"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
