package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session actions recorded in the journal.
const (
	ActionStart   = "start"
	ActionWon     = "won"
	ActionAbandon = "abandon"
)

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID    string
	Action       string
	Tier         string
	Language     string
	Score        int
	Questions    int
	Correct      int
	BestStreak   int
	DurationSecs int
}

// SessionSummary is a finished session as read back from the journal.
type SessionSummary struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// Won reports whether the session ended by reaching the winning score.
func (s SessionSummary) Won() bool {
	return s.Action == ActionWon
}

// Answer input modes.
const (
	InputChoice = "choice"
	InputTyped  = "typed"
)

// AnswerEventData captures one evaluated answer.
type AnswerEventData struct {
	SessionID  string
	Num1       int
	Num2       int
	Answer     int
	Submitted  int
	Correct    bool
	Malformed  bool
	Delta      int
	ScoreAfter int
	TimeMs     int
	InputMode  string
}

// AnswerRecord is an answer event read back from the journal.
type AnswerRecord struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// MissedFact counts wrong answers for one unordered operand pair.
type MissedFact struct {
	A, B   int
	Misses int
}

// AnswerTotals aggregates every journaled answer.
type AnswerTotals struct {
	Answered int
	Correct  int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo is the append-only play journal.
type EventRepo interface {
	// AppendSessionEvent records a session start, win or abandon.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records one evaluated answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessionSummaries returns finished sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummary, error)

	// QueryAnswers returns the answers of one session in play order.
	QueryAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error)

	// AnswerTotals counts all journaled answers.
	AnswerTotals(ctx context.Context) (AnswerTotals, error)

	// MostMissed returns the operand pairs answered wrongly most often.
	MostMissed(ctx context.Context, limit int) ([]MissedFact, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM request event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// Reset deletes every event. Cached phrase sets are kept.
	Reset(ctx context.Context) error
}

// PhraseSetRecord is a cached narration phrase set for one language.
type PhraseSetRecord struct {
	Lang      string
	Payload   []byte
	Model     string
	CreatedAt time.Time
}

// PhraseRepo caches phrase sets generated for languages without a built-in
// catalog.
type PhraseRepo interface {
	// Save inserts or replaces the phrase set for rec.Lang.
	Save(ctx context.Context, rec PhraseSetRecord) error

	// Load returns the phrase set for lang, or nil if none is cached.
	Load(ctx context.Context, lang string) (*PhraseSetRecord, error)

	// List returns every cached phrase set ordered by language.
	List(ctx context.Context) ([]PhraseSetRecord, error)

	// Delete removes the cached phrase set for lang.
	Delete(ctx context.Context, lang string) error
}
