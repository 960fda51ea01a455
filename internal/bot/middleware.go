package bot

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// handlerGate tracks running handlers. Once closed it admits no new ones,
// so wait returns after the last admitted handler finishes.
type handlerGate struct {
	mu      sync.RWMutex
	closed  bool
	running sync.WaitGroup
}

func (g *handlerGate) enter() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return false
	}
	g.running.Add(1)
	return true
}

func (g *handlerGate) leave() {
	g.running.Done()
}

func (g *handlerGate) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

func (g *handlerGate) wait() {
	g.running.Wait()
}

// Track lets Stop wait for handlers still using the poll store. Updates that
// arrive after Stop are dropped.
func (b *Bot) Track() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !b.gate.enter() {
				b.logger.Debug("update dropped during shutdown")
				return nil
			}
			defer b.gate.leave()
			return next(c)
		}
	}
}

// HandleErrors replies with the user-facing part of a handler error and logs
// the rest.
func (b *Bot) HandleErrors() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			if ShouldLog(err) {
				var chatID int64
				if chat := c.Chat(); chat != nil {
					chatID = chat.ID
				}
				b.logger.Error("command failed",
					"command", c.Text(),
					"chat_id", chatID,
					"error", GetLogError(err),
				)
			}
			return c.Reply(GetUserMessage(err))
		}
	}
}

// RememberSender seeds the name cache from every interaction, so results
// rarely need a lookup.
func (b *Bot) RememberSender() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if u := c.Sender(); u != nil {
				b.names.Remember(u.ID, displayName(u))
			}
			return next(c)
		}
	}
}
