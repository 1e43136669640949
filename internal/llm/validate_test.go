package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func phraseTestSchema() *Schema {
	return &Schema{
		Name: "validate-test-phrases",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"standard": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
					"maxItems": 2,
				},
			},
			"required":             []string{"question", "standard"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"question":"q","standard":["a","b"]}`, false},
		{"missing field", `{"question":"q"}`, true},
		{"wrong count", `{"question":"q","standard":["a"]}`, true},
		{"extra field", `{"question":"q","standard":["a","b"],"x":1}`, true},
		{"not json", `question: q`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(phraseTestSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidResponse
				if !errors.As(err, &invalid) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
				if string(invalid.Content) != tt.raw {
					t.Errorf("content = %s, want %s", invalid.Content, tt.raw)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchemaAcceptsAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"question":"q"}`)},
		MockResponse{Content: json.RawMessage(`{"question":"q","standard":["a","b"]}`)},
	)
	req := Request{Schema: phraseTestSchema()}

	if _, err := mock.Generate(context.Background(), req); err == nil {
		t.Fatal("expected validation error")
	}
	resp, err := mock.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Model != "mock" || resp.StopReason != "end" {
		t.Errorf("response = %+v", resp)
	}

	if _, err := mock.Generate(context.Background(), req); err == nil {
		t.Fatal("expected error from empty queue")
	}
	if last, ok := mock.LastRequest(); !ok || last.Schema == nil {
		t.Error("last request not recorded")
	}
}
