package engine

import "math/rand/v2"

// maxDrawAttempts caps the repetition guard. With the narrowest operand
// ranges a draw repeats the previous pair with probability 1/16, so the cap
// is never reached in practice.
const maxDrawAttempts = 500

// Rule identifies which branch of the generation cascade produced a pair.
type Rule int

const (
	RuleScoreOverride Rule = iota
	RuleHard
	RuleModerate
	RuleIntro
	RuleFallback
)

func (r Rule) String() string {
	switch r {
	case RuleScoreOverride:
		return "score-override"
	case RuleHard:
		return "hard"
	case RuleModerate:
		return "moderate"
	case RuleIntro:
		return "intro"
	default:
		return "fallback"
	}
}

var (
	hardOperands     = []int{6, 7, 8, 9}
	moderateOperands = []int{4, 5, 6, 7}
	introOperands    = []int{2, 3}
	noOneOperands    = []int{2, 3, 4}
)

// SelectRule returns the first cascade rule matching the state.
func SelectRule(st *ProgressionState) Rule {
	switch {
	case st.Score >= OverrideScore:
		return RuleScoreOverride
	case st.Tier == Hard:
		return RuleHard
	case st.Tier == Moderate:
		return RuleModerate
	case st.Tier == Easy && st.CorrectCount < introCorrectCount:
		return RuleIntro
	default:
		return RuleFallback
	}
}

// GenerateQuestion draws a new question for st and records its operand pair
// as st.LastPair. The pair never repeats the previous question's pair in
// either order.
func GenerateQuestion(rng *rand.Rand, st *ProgressionState) Question {
	var a, b int
	for range maxDrawAttempts {
		a, b = drawOperands(rng, st)
		if st.LastPair == nil || NewPair(a, b) != *st.LastPair {
			return finishQuestion(rng, st, a, b)
		}
	}

	return finishQuestion(rng, st, stepOperand(a), b)
}

// stepOperand moves an operand by one. Replacing either operand of a pair
// with its step always yields a different pair, and the result is never 1.
func stepOperand(a int) int {
	if a < 12 {
		return a + 1
	}
	return a - 1
}

func finishQuestion(rng *rand.Rand, st *ProgressionState, a, b int) Question {
	p := NewPair(a, b)
	st.LastPair = &p

	answer := a * b
	return Question{
		Num1:    a,
		Num2:    b,
		Answer:  answer,
		Options: buildOptions(rng, a, b, answer),
	}
}

// drawOperands runs the rule cascade followed by post-processing.
func drawOperands(rng *rand.Rand, st *ProgressionState) (int, int) {
	var a, b int

	switch SelectRule(st) {
	case RuleScoreOverride:
		a, b = pick(rng, hardOperands), between(rng, 6, 12)
		a, b = maybeSwap(rng, a, b)
	case RuleHard:
		a, b = pick(rng, hardOperands), pick(rng, hardOperands)
	case RuleModerate:
		a, b = pick(rng, moderateOperands), between(rng, 1, 10)
		a, b = maybeSwap(rng, a, b)
	case RuleIntro:
		a, b = pick(rng, introOperands), between(rng, 1, 10)
		a, b = maybeSwap(rng, a, b)
	default:
		base := st.Tier.baseSpan()
		eff := effectiveLevel(st)
		a = between(rng, 1, base+eff)
		b = between(rng, 1, base+max(0, eff-2))
		if a == 1 && b == 1 {
			b = between(rng, 2, 10)
		}
	}

	if st.Score >= NoOnesScore {
		if a == 1 {
			a = pick(rng, noOneOperands)
		}
		if b == 1 {
			b = pick(rng, noOneOperands)
		}
	}
	return a, b
}

// effectiveLevel is the fallback rule's span extension.
func effectiveLevel(st *ProgressionState) int {
	eff := st.Level + st.CorrectStreak/3
	if st.Score >= boostScore {
		eff += 2
	}
	return eff
}

// between returns a uniform draw from [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

func pick(rng *rand.Rand, set []int) int {
	return set[rng.IntN(len(set))]
}

func maybeSwap(rng *rand.Rand, a, b int) (int, int) {
	if rng.IntN(2) == 0 {
		return b, a
	}
	return a, b
}
