package poll

import (
	"fmt"
	"slices"
)

type OutcomeKind int

const (
	OutcomeCast OutcomeKind = iota
	OutcomeRetracted
	OutcomeMoved
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCast:
		return "cast"
	case OutcomeRetracted:
		return "retracted"
	case OutcomeMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Outcome describes what a single button press did.
type Outcome struct {
	Kind OutcomeKind
	// From is the previous option for OutcomeMoved, -1 otherwise.
	From  int
	To    int
	Total int
}

// Message renders the outcome for the voter.
func (o Outcome) Message(options []Option) string {
	switch o.Kind {
	case OutcomeRetracted:
		return "Vote retracted."
	case OutcomeMoved:
		return fmt.Sprintf("Vote changed from %s to %s.", displayAt(options, o.From), displayAt(options, o.To))
	default:
		return fmt.Sprintf("Vote cast for %s.", displayAt(options, o.To))
	}
}

func displayAt(options []Option, i int) string {
	if i < 0 || i >= len(options) {
		return "?"
	}
	return options[i].Display()
}

// Apply records voter pressing option choice. Pressing the option the voter
// already backs retracts the vote, pressing another option moves it.
// The state is left untouched when an error is returned.
func Apply(s State, voter int64, choice int) (Outcome, error) {
	if choice < 0 || choice >= len(s) {
		return Outcome{}, fmt.Errorf("%w: index %d of %d", ErrUnknownOption, choice, len(s))
	}

	out := Outcome{Kind: OutcomeCast, From: -1, To: choice}
	switch current := s.IndexOf(voter); {
	case current == choice:
		s[choice] = remove(s[choice], voter)
		out.Kind = OutcomeRetracted
	case current >= 0:
		s[current] = remove(s[current], voter)
		s[choice] = append(s[choice], voter)
		out.Kind = OutcomeMoved
		out.From = current
	default:
		s[choice] = append(s[choice], voter)
	}

	out.Total = s.Total()
	return out, nil
}

func remove(voters []int64, voter int64) []int64 {
	return slices.DeleteFunc(voters, func(v int64) bool { return v == voter })
}
