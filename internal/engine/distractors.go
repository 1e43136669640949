package engine

import (
	"math/rand/v2"
	"slices"
)

// maxDistractorAttempts caps distractor synthesis. Past the cap the option
// set is completed with the nearest unused values above the answer.
const maxDistractorAttempts = 1000

// buildOptions returns the answer plus three distinct positive distractors in
// random order.
func buildOptions(rng *rand.Rand, num1, num2, answer int) [OptionCount]int {
	set := make([]int, 1, OptionCount)
	set[0] = answer

	for attempt := 0; len(set) < OptionCount && attempt < maxDistractorAttempts; attempt++ {
		mult := num1
		if rng.IntN(2) == 1 {
			mult = num2
		}
		c := answer + between(rng, -5, 4)*mult

		if c == answer || c <= 0 {
			sign := 1
			if rng.IntN(2) == 0 {
				sign = -1
			}
			c = answer + len(set)*sign*between(rng, 2, 4)
		}
		if c <= 0 || slices.Contains(set, c) {
			continue
		}
		set = append(set, c)
	}

	for c := answer + 1; len(set) < OptionCount; c++ {
		if !slices.Contains(set, c) {
			set = append(set, c)
		}
	}

	rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })

	var opts [OptionCount]int
	copy(opts[:], set)
	return opts
}
