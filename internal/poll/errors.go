package poll

import (
	"errors"

	"nuclight.org/buttonpoll/internal/codec"
)

var (
	ErrNoTitle        = errors.New("poll title is required")
	ErrNoOptions      = errors.New("poll needs at least one option")
	ErrTooManyOptions = errors.New("too many poll options")
	ErrOptionTooLong  = errors.New("poll option is too long")
	ErrEmptyOption    = errors.New("poll option is empty")

	ErrNotPoll          = errors.New("message is not a poll")
	ErrCorruptPayload   = codec.ErrCorruptPayload
	ErrCapacityExceeded = codec.ErrCapacityExceeded
	ErrPollFull         = codec.ErrStateTooLarge
	ErrUnknownOption    = errors.New("unknown poll option")
	ErrStoreUnavailable = errors.New("poll store unavailable")

	// ErrNotFound is returned by a Store when the key has no value.
	ErrNotFound = errors.New("poll data not found")
)
