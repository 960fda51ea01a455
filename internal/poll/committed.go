package poll

import (
	"container/list"
	"sync"
)

// committed remembers the last slots published per message. Button presses
// carry the keyboard the user saw, which may predate an edit that is still
// in flight, so the service prefers this copy when it has one.
type committed struct {
	mu      sync.Mutex
	max     int
	order   *list.List
	entries map[string]*list.Element
}

type committedEntry struct {
	key    string
	slots  []string
	pollID string
}

func newCommitted(max int) *committed {
	return &committed{
		max:     max,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

func (c *committed) get(key string) (slots []string, pollID string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, "", false
	}
	c.order.MoveToFront(elem)
	e := elem.Value.(*committedEntry)
	return e.slots, e.pollID, true
}

func (c *committed) put(key string, slots []string, pollID string) {
	if c.max <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*committedEntry)
		e.slots = slots
		e.pollID = pollID
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&committedEntry{key: key, slots: slots, pollID: pollID})
	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*committedEntry).key)
	}
}
