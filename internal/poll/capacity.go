package poll

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"nuclight.org/buttonpoll/internal/codec"
)

// Mode says where a poll's state lives.
type Mode int

const (
	ModeInline Mode = iota
	ModeExternal
)

func (m Mode) String() string {
	if m == ModeExternal {
		return "external"
	}
	return "inline"
}

// Policy decides between inline and external storage.
type Policy struct {
	SlotLen int
}

// Decide returns the storage mode for a payload of payloadLen characters.
// A poll never leaves external mode: its identifier is already published in
// the message and cannot be retracted reliably.
func (p Policy) Decide(optionCount, payloadLen int, current Mode) Mode {
	if current == ModeExternal {
		return ModeExternal
	}
	if codec.Fits(optionCount, p.SlotLen, payloadLen) {
		return ModeInline
	}
	return ModeExternal
}

// NewPollID mints a random 128-bit poll identifier.
func NewPollID(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate poll id: %w", err)
	}
	return id.String(), nil
}

// ValidPollID reports whether s looks like an identifier from NewPollID.
func ValidPollID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
