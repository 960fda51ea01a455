package bot

import (
	"context"
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/buttonpoll/internal/poll"
)

// RegisterCommands sets up all bot commands. Anyone in a chat may use them.
func (b *Bot) RegisterCommands() {
	group := b.bot.Group()
	group.Use(b.RememberSender())
	group.Use(b.HandleErrors())

	group.Handle("/poll", b.handlePoll)
	group.Handle("/vote", b.handlePoll)
	group.Handle("/open", b.handleOpen)
	group.Handle("/results", b.handleOpen)
	group.Handle("/help", b.handleHelp)
}

// handlePoll creates a poll.
// Usage: /poll <title> <option> [option...]
func (b *Bot) handlePoll(c tele.Context) error {
	args, err := splitArgs(c.Message().Payload)
	if err != nil {
		return UserErrorf(MsgUnbalancedQuotes)
	}
	if len(args) == 0 {
		return UserErrorf(MsgPollUsage)
	}
	// The title is the first line of the message, so it must stay on one.
	title := strings.Join(strings.Fields(args[0]), " ")

	b.logger.Info("command /poll",
		"user_id", c.Sender().ID,
		"username", c.Sender().Username,
		"chat_id", c.Chat().ID,
		"title", title,
		"options", len(args)-1,
	)

	draft, err := b.polls.Create(title, args[1:])
	if err != nil {
		return createError(err)
	}

	html, err := RenderPoll(poll.Summarize(draft.Title, draft.Options, draft.State, ""))
	if err != nil {
		return WrapUserError(MsgFailedRenderPoll, err)
	}

	_, err = b.bot.Send(c.Chat(), html, &tele.SendOptions{
		ParseMode:   tele.ModeHTML,
		ReplyMarkup: keyboard(draft.Options, draft.Slots),
	})
	if err != nil {
		return WrapUserError(MsgFailedSendPoll, err)
	}
	return nil
}

// createError turns a validation failure from poll creation into a message
// for the creator.
func createError(err error) error {
	switch {
	case errors.Is(err, poll.ErrNoTitle):
		return UserErrorf(MsgPollUsage)
	case errors.Is(err, poll.ErrNoOptions):
		return UserErrorf(MsgNoOptions)
	case errors.Is(err, poll.ErrTooManyOptions):
		return UserErrorf(MsgTooManyOptions)
	case errors.Is(err, poll.ErrOptionTooLong):
		return UserErrorf(MsgOptionTooLong)
	case errors.Is(err, poll.ErrEmptyOption):
		return UserErrorf(MsgEmptyOption)
	default:
		return WrapUserError(MsgFailedCreatePoll, err)
	}
}

// handleOpen lists the voters of the poll the command replies to.
func (b *Bot) handleOpen(c tele.Context) error {
	reply := c.Message().ReplyTo
	if reply == nil {
		return UserErrorf(MsgOpenUsage)
	}

	b.logger.Info("command /open",
		"user_id", c.Sender().ID,
		"username", c.Sender().Username,
		"chat_id", c.Chat().ID,
		"message_id", reply.ID,
	)

	if reply.Sender == nil || b.bot.Me == nil || reply.Sender.ID != b.bot.Me.ID {
		return UserErrorf(MsgNotPollMessage)
	}
	snap, err := snapshotFromMessage(reply)
	if err != nil {
		return UserErrorf(MsgNotPollMessage)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	state, _, err := b.polls.Load(ctx, snap)
	if err != nil {
		return loadError(err)
	}

	html, err := RenderResults(poll.Count(ctx, snap.Title, snap.Options, state, b.names))
	if err != nil {
		return WrapUserError(MsgFailedRenderResults, err)
	}

	_, err = b.bot.Send(c.Chat(), html, &tele.SendOptions{
		ParseMode: tele.ModeHTML,
		ReplyTo:   reply,
	})
	if err != nil {
		return WrapUserError(MsgFailedSendResults, err)
	}
	return nil
}

func loadError(err error) error {
	switch {
	case errors.Is(err, poll.ErrNotPoll), errors.Is(err, poll.ErrCorruptPayload):
		return UserErrorf(MsgNotPollMessage)
	case errors.Is(err, poll.ErrStoreUnavailable):
		return WrapUserError(MsgStoreUnavailable, err)
	default:
		return WrapUserError(MsgFailedGetResults, err)
	}
}

// handleHelp shows the help message with all available commands
func (b *Bot) handleHelp(c tele.Context) error {
	helpText, err := HelpMessage()
	if err != nil {
		return err
	}
	return c.Send(helpText, tele.ModeHTML)
}
