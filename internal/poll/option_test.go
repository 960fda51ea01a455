package poll

import (
	"errors"
	"strings"
	"testing"
)

func TestNewOptions(t *testing.T) {
	tests := []struct {
		name    string
		defs    []string
		wantErr error
	}{
		{"single option", []string{"yes"}, nil},
		{"max options", make25("opt"), nil},
		{"no options", nil, ErrNoOptions},
		{"too many options", append(make25("opt"), "extra"), ErrTooManyOptions},
		{"option at limit", []string{strings.Repeat("a", MaxOptionRunes)}, nil},
		{"option too long", []string{strings.Repeat("a", MaxOptionRunes+1)}, ErrOptionTooLong},
		{"limit counts runes", []string{strings.Repeat("я", MaxOptionRunes)}, nil},
		{"blank option", []string{"yes", "  "}, ErrEmptyOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := NewOptions(tt.defs)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewOptions() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(opts) != len(tt.defs) {
				t.Fatalf("got %d options, want %d", len(opts), len(tt.defs))
			}
			for i, o := range opts {
				if o.Index != i {
					t.Errorf("option %d has index %d", i, o.Index)
				}
			}
		})
	}
}

func make25(prefix string) []string {
	defs := make([]string, MaxOptions)
	for i := range defs {
		defs[i] = prefix + strings.Repeat("x", i+1)
	}
	return defs
}

func TestIsIcon(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"👍", true},
		{"❤️", true},
		{"👍🏽", true},
		{"👨‍👩‍👧", true},
		{"🇺🇦", true},
		{"yes", false},
		{"👍 yes", false},
		{"1️⃣", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsIcon(tt.in); got != tt.want {
			t.Errorf("IsIcon(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOption_Display(t *testing.T) {
	icon := ParseOption(0, "🍕")
	if icon.Icon != "🍕" || icon.Label != "" {
		t.Errorf("ParseOption(🍕) = %+v, want icon", icon)
	}
	label := ParseOption(1, "Pizza")
	if label.Label != "Pizza" || label.Icon != "" {
		t.Errorf("ParseOption(Pizza) = %+v, want label", label)
	}
	if icon.Display() != "🍕" || label.Display() != "Pizza" {
		t.Error("Display should return whichever of icon and label is set")
	}
}
