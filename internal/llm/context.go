package llm

import (
	"context"
	"strings"
)

type contextKey struct{}

// Purposes recorded with LLM request events.
const (
	PurposePhrasebook = "phrasebook"
	PurposeUnknown    = "unknown"
)

// PhrasebookPurpose labels a phrase set request for lang, e.g. "phrasebook:sw".
func PhrasebookPurpose(lang string) string {
	return PurposePhrasebook + ":" + lang
}

// SplitPurpose splits a purpose label into its kind and subject:
// "phrasebook:sw" gives ("phrasebook", "sw"), "unknown" gives ("unknown", "").
func SplitPurpose(purpose string) (kind, subject string) {
	kind, subject, _ = strings.Cut(purpose, ":")
	return kind, subject
}

// WithPurpose labels the requests made with ctx for the journal.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, contextKey{}, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return PurposeUnknown
}
