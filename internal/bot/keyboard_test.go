package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/buttonpoll/internal/poll"
)

func TestKeyboard_Rows(t *testing.T) {
	tests := []struct {
		options  int
		wantRows []int
	}{
		{1, []int{1}},
		{5, []int{5}},
		{12, []int{5, 5, 2}},
		{25, []int{5, 5, 5, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d options", tt.options), func(t *testing.T) {
			options := make([]poll.Option, tt.options)
			slots := make([]string, tt.options)
			for i := range options {
				options[i] = poll.Option{Index: i, Label: fmt.Sprint(i)}
				slots[i] = fmt.Sprintf("slot-%d", i)
			}

			markup := keyboard(options, slots)
			if len(markup.InlineKeyboard) != len(tt.wantRows) {
				t.Fatalf("got %d rows, want %d", len(markup.InlineKeyboard), len(tt.wantRows))
			}
			n := 0
			for r, row := range markup.InlineKeyboard {
				if len(row) != tt.wantRows[r] {
					t.Errorf("row %d has %d buttons, want %d", r, len(row), tt.wantRows[r])
				}
				for _, btn := range row {
					if btn.Data != slots[n] || btn.Text != options[n].Label {
						t.Errorf("button %d = %+v", n, btn)
					}
					n++
				}
			}
		})
	}
}

func TestSnapshotFromMessage(t *testing.T) {
	options := lunchOptions(t)
	slots := []string{"{v1:~store~:v1}", "aa", "bb"}
	id := "0b6f0f5c-3c55-4c43-9d7e-2f7d1a5b8e21"

	text, err := RenderPoll(poll.Summarize("Team lunch", options, poll.NewState(3), id))
	if err != nil {
		t.Fatalf("RenderPoll failed: %v", err)
	}
	msg := &tele.Message{
		ID:          42,
		Chat:        &tele.Chat{ID: -100},
		Text:        plainText(text),
		ReplyMarkup: keyboard(options, slots),
	}

	snap, err := snapshotFromMessage(msg)
	if err != nil {
		t.Fatalf("snapshotFromMessage failed: %v", err)
	}

	if snap.Key != "-100:42" {
		t.Errorf("Key = %q", snap.Key)
	}
	if snap.Title != "Team lunch" {
		t.Errorf("Title = %q", snap.Title)
	}
	if snap.PollID != id {
		t.Errorf("PollID = %q, want %q", snap.PollID, id)
	}
	if len(snap.Options) != 3 || snap.Options[1].Icon != "🍣" || snap.Options[2].Label != "Thai food" {
		t.Errorf("Options = %+v", snap.Options)
	}
	for i := range slots {
		if snap.Slots[i] != slots[i] {
			t.Errorf("slot %d = %q, want %q", i, snap.Slots[i], slots[i])
		}
	}
}

func TestSnapshotFromMessage_PollID(t *testing.T) {
	markup := keyboard([]poll.Option{{Label: "A"}}, []string{"x"})

	tests := []struct {
		name string
		text string
		want string
	}{
		{"inline poll", "Title\nTotal: 0 voters\n\nA\n | 0% (0)", ""},
		{"invalid identifier", "Title\nA\nID: not-a-uuid", ""},
		{"option named like an identifier", "Title\nID: 0b6f0f5c-3c55-4c43-9d7e-2f7d1a5b8e21\n | 0% (0)", ""},
		{"stored poll", "Title\nA\nID: 0b6f0f5c-3c55-4c43-9d7e-2f7d1a5b8e21", "0b6f0f5c-3c55-4c43-9d7e-2f7d1a5b8e21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := snapshotFromMessage(&tele.Message{ID: 1, Text: tt.text, ReplyMarkup: markup})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if snap.PollID != tt.want {
				t.Errorf("PollID = %q, want %q", snap.PollID, tt.want)
			}
		})
	}
}

func TestSnapshotFromMessage_NotPoll(t *testing.T) {
	tests := []struct {
		name string
		msg  *tele.Message
	}{
		{"nil message", nil},
		{"no keyboard", &tele.Message{Text: "hello"}},
		{"empty keyboard", &tele.Message{Text: "hello", ReplyMarkup: &tele.ReplyMarkup{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := snapshotFromMessage(tt.msg); !errors.Is(err, poll.ErrNotPoll) {
				t.Errorf("error = %v, want ErrNotPoll", err)
			}
		})
	}
}

func TestSnapshotFromMessage_LoadsCreatedPoll(t *testing.T) {
	svc, err := poll.NewService(nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	draft, err := svc.Create("Lunch", []string{"Pizza", "🍣", "Thai food"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	text, err := RenderPoll(poll.Summarize(draft.Title, draft.Options, draft.State, ""))
	if err != nil {
		t.Fatalf("RenderPoll failed: %v", err)
	}

	snap, err := snapshotFromMessage(&tele.Message{
		ID:          7,
		Chat:        &tele.Chat{ID: 1},
		Text:        plainText(text),
		ReplyMarkup: keyboard(draft.Options, draft.Slots),
	})
	if err != nil {
		t.Fatalf("snapshotFromMessage failed: %v", err)
	}

	state, mode, err := svc.Load(context.Background(), snap)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if mode != poll.ModeInline || !state.Equal(poll.NewState(3)) {
		t.Errorf("Load = %v (%v)", state, mode)
	}
}
