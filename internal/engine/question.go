package engine

import "fmt"

// OptionCount is the number of multiple-choice options per question.
const OptionCount = 4

// Question is one multiplication problem. It is never mutated after
// generation; the next question replaces it.
type Question struct {
	Num1    int
	Num2    int
	Answer  int
	Options [OptionCount]int
}

// Pair returns the question's unordered operand pair.
func (q Question) Pair() Pair {
	return NewPair(q.Num1, q.Num2)
}

// OptionIndex returns the index of v in Options, or -1.
func (q Question) OptionIndex(v int) int {
	for i, o := range q.Options {
		if o == v {
			return i
		}
	}
	return -1
}

// AnswerIndex returns the index of the correct option.
func (q Question) AnswerIndex() int {
	return q.OptionIndex(q.Answer)
}

// Text renders the problem as "a × b".
func (q Question) Text() string {
	return fmt.Sprintf("%d × %d", q.Num1, q.Num2)
}
