package session

import (
	"time"

	"github.com/abhisek/timez/internal/engine"
)

// Summary holds the data displayed when a session ends.
type Summary struct {
	SessionID  string
	Tier       engine.Difficulty
	Questions  int
	Correct    int
	Accuracy   float64
	BestStreak int
	Score      int
	Duration   time.Duration
	Won        bool
}
