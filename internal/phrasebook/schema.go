package phrasebook

import "github.com/abhisek/timez/internal/llm"

// PhraseSetSchema defines the JSON schema for phrase set generation.
var PhraseSetSchema = &llm.Schema{
	Name:        "phrase-set",
	Description: "Narration phrases for a children's multiplication quiz in one language",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question 'What is %d times %d?' with both %d verbs kept in order",
			},
			"win": map[string]any{
				"type":        "string",
				"description": "Win announcement with one %d verb for the final score",
			},
			"standard": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    StandardCount,
				"maxItems":    StandardCount,
				"description": "Short compliments for a correct answer (1-4 words each)",
			},
			"near_win": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    NearWinCount,
				"maxItems":    NearWinCount,
				"description": "Short encouragements for a correct answer close to winning",
			},
		},
		"required":             []any{"question", "win", "standard", "near_win"},
		"additionalProperties": false,
	},
}
