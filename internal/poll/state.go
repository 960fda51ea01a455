package poll

import (
	"fmt"
	"slices"
)

// State holds one voter set per option, in option order.
type State [][]int64

func NewState(optionCount int) State {
	s := make(State, optionCount)
	for i := range s {
		s[i] = []int64{}
	}
	return s
}

func (s State) Clone() State {
	c := make(State, len(s))
	for i, voters := range s {
		c[i] = append([]int64{}, voters...)
	}
	return c
}

// Total counts voters across all options.
func (s State) Total() int {
	total := 0
	for _, voters := range s {
		total += len(voters)
	}
	return total
}

// Counts returns the number of voters per option.
func (s State) Counts() []int {
	counts := make([]int, len(s))
	for i, voters := range s {
		counts[i] = len(voters)
	}
	return counts
}

// IndexOf returns the option the voter currently backs, or -1.
func (s State) IndexOf(voter int64) int {
	for i, voters := range s {
		if slices.Contains(voters, voter) {
			return i
		}
	}
	return -1
}

// Equal compares voter sets in order. Nil and empty sets are equal.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !slices.Equal(s[i], other[i]) {
			return false
		}
	}
	return true
}

// Validate checks that the state matches optionCount options and that no
// voter appears twice.
func (s State) Validate(optionCount int) error {
	if len(s) != optionCount {
		return fmt.Errorf("%w: %d voter sets for %d options", ErrCorruptPayload, len(s), optionCount)
	}
	seen := make(map[int64]struct{}, s.Total())
	for _, voters := range s {
		for _, v := range voters {
			if _, dup := seen[v]; dup {
				return fmt.Errorf("%w: voter %d appears more than once", ErrCorruptPayload, v)
			}
			seen[v] = struct{}{}
		}
	}
	return nil
}
