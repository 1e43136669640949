package play

// nextQuestionMsg ends the feedback pause. gen guards against a stale tick
// after the player skipped ahead.
type nextQuestionMsg struct {
	gen int
}
