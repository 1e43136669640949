package engine

import (
	"fmt"
	"strings"
)

// Difficulty is the player-selected base tier, fixed for a session.
type Difficulty int

const (
	Easy Difficulty = iota
	Moderate
	Hard
)

// AllDifficulties lists the tiers in menu order.
var AllDifficulties = []Difficulty{Easy, Moderate, Hard}

// String returns a human-readable label for the tier.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Moderate:
		return "Moderate"
	case Hard:
		return "Hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// InitialLevel is the difficulty level a fresh session starts at.
func (d Difficulty) InitialLevel() int {
	switch d {
	case Moderate:
		return 2
	case Hard:
		return 5
	default:
		return 0
	}
}

// baseSpan is the operand span used by the fallback generation rule.
func (d Difficulty) baseSpan() int {
	switch d {
	case Moderate:
		return 7
	case Hard:
		return 10
	default:
		return 4
	}
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// ParseDifficulty parses a tier name, case-insensitively.
// "medium" is accepted as an alias for Moderate.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "e":
		return Easy, nil
	case "moderate", "medium", "m":
		return Moderate, nil
	case "hard", "h":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("unknown difficulty %q (want easy, moderate or hard)", s)
	}
}
