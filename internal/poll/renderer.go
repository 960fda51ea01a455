package poll

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const barWidth = 20

// Percent returns count/total as a percentage rounded to two places.
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}

// Bar returns a barWidth wide bar filled in proportion to count/total.
func Bar(count, total int) string {
	filled := int(Percent(count, total) * barWidth / 100)
	filled = min(max(filled, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat(" ", barWidth-filled)
}

// FormatPercent prints a percentage without trailing zeros, e.g. 33.33 or 100.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// ProgressBar renders one option's share as plain text:
// "`██████████          ` | 50% (1)".
func ProgressBar(count, total int) string {
	return fmt.Sprintf("`%s` | %s%% (%d)", Bar(count, total), FormatPercent(Percent(count, total)), count)
}

// Row is one option in a poll summary.
type Row struct {
	Label   string
	Count   int
	Bar     string
	Percent string
}

// Summary is what a poll message shows.
type Summary struct {
	Title  string
	Total  int
	Rows   []Row
	PollID string
}

// Summarize pairs options with their vote counts.
func Summarize(title string, options []Option, state State, pollID string) *Summary {
	total := state.Total()
	s := &Summary{Title: title, Total: total, PollID: pollID, Rows: make([]Row, 0, len(options))}
	for i, opt := range options {
		count := 0
		if i < len(state) {
			count = len(state[i])
		}
		s.Rows = append(s.Rows, Row{
			Label:   opt.Display(),
			Count:   count,
			Bar:     Bar(count, total),
			Percent: FormatPercent(Percent(count, total)),
		})
	}
	return s
}

// Names resolves voter IDs to display names.
type Names interface {
	Name(ctx context.Context, id int64) string
}

// TallyRow lists the voters behind one option.
type TallyRow struct {
	Label  string
	Count  int
	Voters []string
}

// Tally is the detailed result listing.
type Tally struct {
	Title     string
	Rows      []TallyRow
	NotChosen []string
}

// Count lists voters per option. Options nobody picked go to NotChosen.
func Count(ctx context.Context, title string, options []Option, state State, names Names) *Tally {
	t := &Tally{Title: title}
	for i, opt := range options {
		var voters []int64
		if i < len(state) {
			voters = state[i]
		}
		if len(voters) == 0 {
			t.NotChosen = append(t.NotChosen, opt.Display())
			continue
		}

		row := TallyRow{Label: opt.Display(), Count: len(voters), Voters: make([]string, 0, len(voters))}
		for _, id := range voters {
			row.Voters = append(row.Voters, names.Name(ctx, id))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
