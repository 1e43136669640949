package engine

// Score thresholds. Each one is used independently.
const (
	// WinScore ends the playthrough.
	WinScore = 1000

	// NearWinScore switches compliments to the near-win pool.
	NearWinScore = 950

	// FreeEntryScore is where the UI replaces multiple choice with typed
	// answers. The engine itself never reads it.
	FreeEntryScore = 900

	// OverrideScore makes every tier draw from the hard operand ranges.
	OverrideScore = 800

	// NoOnesScore stops operands equal to 1 from being served.
	NoOnesScore = 100

	// boostScore adds two to the fallback rule's effective level.
	boostScore = 500

	// introCorrectCount gates the introductory Easy rule.
	introCorrectCount = 30

	// pointsPerCorrect is awarded for every correct answer.
	pointsPerCorrect = 5
)

// Pair is an unordered operand pair.
type Pair struct {
	A, B int
}

// NewPair returns the canonical (A <= B) form of the pair.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// ProgressionState is the mutable state of one playthrough. It has exactly
// one owner; nothing in this package locks it.
type ProgressionState struct {
	Score         int
	Tier          Difficulty
	Level         int
	CorrectStreak int
	WrongStreak   int
	CorrectCount  int

	// LastPair is the operand pair of the most recently generated question.
	LastPair *Pair
}

// NewProgressionState returns the initial state for a session on tier.
func NewProgressionState(tier Difficulty) *ProgressionState {
	return &ProgressionState{
		Tier:  tier,
		Level: tier.InitialLevel(),
	}
}
