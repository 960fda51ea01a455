package bot

import (
	"fmt"
	"slices"
	"strings"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/buttonpoll/internal/poll"
)

// rowSize is how many option buttons share a keyboard row.
const rowSize = 5

const pollIDPrefix = "ID: "

// keyboard lays out one button per option. Each button carries its slot as
// callback data.
func keyboard(options []poll.Option, slots []string) *tele.ReplyMarkup {
	buttons := make([]tele.InlineButton, len(options))
	for i, opt := range options {
		buttons[i] = tele.InlineButton{Text: opt.Display(), Data: slots[i]}
	}

	markup := &tele.ReplyMarkup{}
	for row := range slices.Chunk(buttons, rowSize) {
		markup.InlineKeyboard = append(markup.InlineKeyboard, row)
	}
	return markup
}

// messageKey identifies a message across updates.
func messageKey(m *tele.Message) string {
	var chatID int64
	if m.Chat != nil {
		chatID = m.Chat.ID
	}
	return fmt.Sprintf("%d:%d", chatID, m.ID)
}

// snapshotFromMessage recovers a poll from a message the bot rendered: the
// title is the first text line, options and slots come from the keyboard,
// and the store identifier, if any, is the last line.
func snapshotFromMessage(m *tele.Message) (poll.Snapshot, error) {
	if m == nil || m.ReplyMarkup == nil || len(m.ReplyMarkup.InlineKeyboard) == 0 {
		return poll.Snapshot{}, poll.ErrNotPoll
	}

	snap := poll.Snapshot{Key: messageKey(m)}
	for _, row := range m.ReplyMarkup.InlineKeyboard {
		for _, btn := range row {
			snap.Options = append(snap.Options, poll.ParseOption(len(snap.Options), btn.Text))
			snap.Slots = append(snap.Slots, btn.Data)
		}
	}

	lines := strings.Split(strings.TrimSpace(m.Text), "\n")
	snap.Title = strings.TrimSpace(lines[0])
	if id, ok := strings.CutPrefix(strings.TrimSpace(lines[len(lines)-1]), pollIDPrefix); ok && poll.ValidPollID(id) {
		snap.PollID = id
	}
	return snap, nil
}
