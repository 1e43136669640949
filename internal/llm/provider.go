// Package llm talks to hosted language models. timez uses it for one job:
// translating the narration phrasebook into languages that have no built-in
// catalog.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a response for a prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model this provider sends requests to.
	ModelID() string
}

// Request is a single-turn or multi-turn prompt.
type Request struct {
	System    string
	Messages  []Message
	Schema    *Schema
	MaxTokens int

	// Temperature is sent only when positive.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema a structured response must satisfy.
type Schema struct {
	// Name is kebab-case and doubles as the compile cache key.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is validated JSON when the request had a Schema, raw text
	// otherwise.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a short alias to a full model ID. Unknown names are
// passed through so full IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
