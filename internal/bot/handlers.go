package bot

import (
	"context"
	"errors"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/buttonpoll/internal/poll"
)

func (b *Bot) RegisterHandlers() {
	b.bot.Handle(tele.OnCallback, b.handleCallback, b.RememberSender())
}

// handleCallback applies a button press to the poll message it belongs to.
func (b *Bot) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	// Presses on inline-mode messages carry no message to decode.
	if cb.Message == nil {
		return c.Respond(&tele.CallbackResponse{})
	}

	snap, err := snapshotFromMessage(cb.Message)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{})
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	ev := poll.Event{Snapshot: snap, Pressed: cb.Data, Voter: c.Sender().ID}
	res, err := b.polls.Vote(ctx, ev, b.publisher(cb.Message))
	if err != nil {
		return c.Respond(b.callbackError(err, ev))
	}

	b.logger.Info("vote",
		"user_id", ev.Voter,
		"username", c.Sender().Username,
		"message", ev.Key,
		"outcome", res.Outcome.Kind.String(),
		"mode", res.Mode.String(),
		"total", res.Outcome.Total,
	)
	if res.Promoted {
		b.logger.Info("poll moved to store", "message", ev.Key, "poll_id", res.PollID)
	}

	return c.Respond(&tele.CallbackResponse{Text: res.Outcome.Message(res.Options)})
}

// callbackError decides what the voter sees when a press is rejected.
// Presses on foreign or corrupt messages are acknowledged silently.
func (b *Bot) callbackError(err error, ev poll.Event) *tele.CallbackResponse {
	switch {
	case errors.Is(err, poll.ErrNotPoll), errors.Is(err, poll.ErrCorruptPayload):
		b.logger.Debug("ignored press", "message", ev.Key, "error", err)
		return &tele.CallbackResponse{}
	case errors.Is(err, poll.ErrUnknownOption):
		return &tele.CallbackResponse{Text: MsgStaleButton}
	case errors.Is(err, poll.ErrPollFull):
		b.logger.Warn("poll is full", "message", ev.Key, "error", err)
		return &tele.CallbackResponse{Text: MsgPollFull}
	case errors.Is(err, poll.ErrStoreUnavailable):
		b.logger.Error("store unavailable", "message", ev.Key, "poll_id", ev.PollID, "error", err)
		return &tele.CallbackResponse{Text: MsgStoreUnavailable}
	default:
		b.logger.Error("vote failed", "message", ev.Key, "user_id", ev.Voter, "error", err)
		return &tele.CallbackResponse{Text: MsgFailedRecordVote}
	}
}

// publisher edits msg to show a vote's result.
func (b *Bot) publisher(msg *tele.Message) poll.Publisher {
	return poll.PublisherFunc(func(_ context.Context, res *poll.Result) error {
		html, err := RenderPoll(poll.Summarize(res.Title, res.Options, res.State, res.PollID))
		if err != nil {
			return err
		}
		_, err = b.bot.Edit(msg, html, &tele.SendOptions{
			ParseMode:   tele.ModeHTML,
			ReplyMarkup: keyboard(res.Options, res.Slots),
		})
		return err
	})
}
