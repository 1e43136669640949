package engine

// Outcome is the result of evaluating one submitted answer.
type Outcome struct {
	Correct bool

	// Submitted is the value that was evaluated. When the submission was
	// malformed text it is 0 and Malformed is set.
	Submitted int
	Malformed bool

	// Delta is the signed score change actually applied, after clamping.
	Delta int

	// Penalty is the nominal penalty for a wrong answer (0 when correct).
	Penalty int

	// NearWin is set on a correct answer that lifts the score to the
	// near-win band.
	NearWin bool

	// LevelDropped is set when this answer completed a run of three wrong
	// answers and the difficulty level went down.
	LevelDropped bool

	// Score is the score after the answer was applied.
	Score int

	// Won is set when the score has reached WinScore.
	Won bool

	// Compliment is the praise picked for a correct answer. Only the Engine
	// fills it in.
	Compliment string
}

// Penalty returns the points deducted for a wrong answer at score.
func Penalty(score int) int {
	switch {
	case score >= 930:
		return 8
	case score >= 800:
		return 5
	case score >= 700:
		return 4
	default:
		return 2
	}
}

// EvaluateAnswer applies submitted as the answer to q and updates st.
// Callers must evaluate each question at most once; this function does not
// track which questions have been answered.
func EvaluateAnswer(st *ProgressionState, q Question, submitted int) Outcome {
	before := st.Score
	out := Outcome{Submitted: submitted}

	if submitted == q.Answer {
		out.Correct = true
		st.Score += pointsPerCorrect
		st.CorrectStreak++
		st.WrongStreak = 0
		st.CorrectCount++
		out.NearWin = st.Score >= NearWinScore
	} else {
		out.Penalty = Penalty(st.Score)
		st.Score = max(0, st.Score-out.Penalty)
		st.CorrectStreak = 0
		st.WrongStreak++
	}

	if st.WrongStreak > 0 && st.WrongStreak%3 == 0 && st.Level > 0 {
		st.Level--
		out.LevelDropped = true
	}

	out.Delta = st.Score - before
	out.Score = st.Score
	out.Won = st.Score >= WinScore
	return out
}
