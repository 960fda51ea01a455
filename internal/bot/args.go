package bot

import (
	"errors"
	"strings"
	"unicode"
)

var errUnbalancedQuotes = errors.New("unbalanced quotes")

// closingQuote maps opening quotes to their closing counterpart. Telegram
// clients often substitute typographic quotes.
var closingQuote = map[rune]rune{
	'"': '"',
	'“': '”',
	'«': '»',
}

// splitArgs splits a command payload on whitespace, keeping quoted runs
// together. "" yields an empty argument.
func splitArgs(s string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		started bool
		closing rune
	)

	for _, r := range s {
		switch {
		case closing != 0:
			if r == closing {
				closing = 0
				continue
			}
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			if c, ok := closingQuote[r]; ok {
				closing = c
			} else {
				cur.WriteRune(r)
			}
			started = true
		}
	}

	if closing != 0 {
		return nil, errUnbalancedQuotes
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
