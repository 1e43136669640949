package engine

import (
	"strconv"
	"strings"
)

// ParseAnswer parses typed input as an integer answer. Surrounding
// whitespace and leading zeros are ignored. ok is false for anything else;
// such input is scored as a wrong answer, never rejected.
func ParseAnswer(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
