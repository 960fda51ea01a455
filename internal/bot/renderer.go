package bot

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"nuclight.org/buttonpoll/internal/poll"
)

// TelegramMaxMessageLength is the maximum length of a Telegram message (4096 chars)
const TelegramMaxMessageLength = 4096

//go:embed templates/*
var templates embed.FS

var pollTmpl *template.Template
var resultsTmpl *template.Template

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

var templateFuncs = template.FuncMap{
	"plural": plural,
	"hidden": func(r poll.TallyRow) int { return r.Count - len(r.Voters) },
}

// InitTemplates initializes all templates. Must be called before using any Render* functions.
func InitTemplates() error {
	var err error
	pollTmpl, err = template.New("poll.html").Funcs(templateFuncs).ParseFS(templates, "templates/poll.html")
	if err != nil {
		return fmt.Errorf("parse poll template: %w", err)
	}
	resultsTmpl, err = template.New("results.html").Funcs(templateFuncs).ParseFS(templates, "templates/results.html")
	if err != nil {
		return fmt.Errorf("parse results template: %w", err)
	}
	return nil
}

// RenderPoll renders the poll message body. The store identifier, when set,
// is always the last line.
func RenderPoll(s *poll.Summary) (string, error) {
	var buf bytes.Buffer
	if err := pollTmpl.Execute(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderResults renders the per-option voter listing.
// If the message exceeds Telegram's limit, voter lists are truncated.
func RenderResults(t *poll.Tally) (string, error) {
	var buf bytes.Buffer
	if err := resultsTmpl.Execute(&buf, t); err != nil {
		return "", err
	}

	result := buf.String()
	if len(result) <= TelegramMaxMessageLength {
		return result, nil
	}

	// Work on a copy so the caller's tally is untouched.
	truncated := &poll.Tally{Title: t.Title, NotChosen: t.NotChosen, Rows: make([]poll.TallyRow, len(t.Rows))}
	for i, row := range t.Rows {
		row.Voters = append([]string{}, row.Voters...)
		truncated.Rows[i] = row
	}

	for len(result) > TelegramMaxMessageLength {
		// Drop one name from the longest list.
		longest := -1
		for i, row := range truncated.Rows {
			if len(row.Voters) > 0 && (longest < 0 || len(row.Voters) > len(truncated.Rows[longest].Voters)) {
				longest = i
			}
		}
		if longest < 0 {
			break
		}
		voters := truncated.Rows[longest].Voters
		truncated.Rows[longest].Voters = voters[:len(voters)-1]

		buf.Reset()
		if err := resultsTmpl.Execute(&buf, truncated); err != nil {
			return "", err
		}
		result = buf.String()
	}

	return result, nil
}

// HelpMessage returns the help message HTML.
func HelpMessage() (string, error) {
	content, err := templates.ReadFile("templates/help.html")
	if err != nil {
		return "", err
	}
	return string(content), nil
}
