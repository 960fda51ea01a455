package poll

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxOptions     = 25
	MaxOptionRunes = 50
)

// Option is one selectable choice. Exactly one of Label and Icon is set.
type Option struct {
	Index int
	Label string
	Icon  string
}

// Display returns the text shown on the option's button.
func (o Option) Display() string {
	if o.Icon != "" {
		return o.Icon
	}
	return o.Label
}

// ParseOption classifies button text as an icon or a text label.
func ParseOption(index int, text string) Option {
	if IsIcon(text) {
		return Option{Index: index, Icon: text}
	}
	return Option{Index: index, Label: text}
}

// NewOptions validates poll choices in the order the creator supplied them.
func NewOptions(defs []string) ([]Option, error) {
	if len(defs) == 0 {
		return nil, ErrNoOptions
	}
	if len(defs) > MaxOptions {
		return nil, ErrTooManyOptions
	}

	options := make([]Option, 0, len(defs))
	for i, def := range defs {
		def = strings.TrimSpace(def)
		if def == "" {
			return nil, ErrEmptyOption
		}
		if utf8.RuneCountInString(def) > MaxOptionRunes {
			return nil, ErrOptionTooLong
		}
		options = append(options, ParseOption(i, def))
	}
	return options, nil
}

// IsIcon reports whether s consists only of emoji: symbols plus the joiners,
// variation selectors and skin tone modifiers that compose them.
func IsIcon(s string) bool {
	if s == "" {
		return false
	}
	hasSymbol := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.So, r):
			hasSymbol = true
		case r == '\u200d', r == '\u20e3', unicode.Is(unicode.Variation_Selector, r):
		case r >= 0x1f3fb && r <= 0x1f3ff:
		default:
			return false
		}
	}
	return hasSymbol
}
