package codec

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Framing around the payload. Ascii85 never emits '{', '}' or '~', so the
// markers and the sentinel cannot occur inside an encoded payload.
const (
	StartMarker = "{v1:"
	EndMarker   = ":v1}"
	Sentinel    = "~store~"

	Overhead = len(StartMarker) + len(EndMarker)
)

// TelegramSlotLen is the callback_data limit of an inline keyboard button.
const TelegramSlotLen = 64

// PayloadKind tells what a set of slots carries.
type PayloadKind int

const (
	// Absent means the slots do not hold poll state at all.
	Absent PayloadKind = iota
	// External means the state lives in the external store.
	External
	// Inline means Data holds the serialized state.
	Inline
)

func (k PayloadKind) String() string {
	switch k {
	case External:
		return "external"
	case Inline:
		return "inline"
	default:
		return "absent"
	}
}

// Payload is the result of Unpack.
type Payload struct {
	Kind PayloadKind
	Data string
}

// Capacity returns how many payload characters fit into optionCount slots.
func Capacity(optionCount, slotLen int) int {
	return optionCount*slotLen - Overhead
}

// Fits reports whether a payload of payloadLen characters can be packed inline.
func Fits(optionCount, slotLen, payloadLen int) bool {
	return payloadLen <= Capacity(optionCount, slotLen)
}

// Packer splits framed payloads across button identifiers.
type Packer struct {
	slotLen int
	rand    io.Reader
}

// NewPacker returns a packer for slots of slotLen characters. Filler slots are
// drawn from r; a nil r uses crypto/rand.
func NewPacker(slotLen int, r io.Reader) (*Packer, error) {
	if slotLen <= 0 {
		return nil, fmt.Errorf("slot length must be positive, got %d", slotLen)
	}
	if r == nil {
		r = rand.Reader
	}
	return &Packer{slotLen: slotLen, rand: r}, nil
}

// Pack frames payload and splits it into exactly optionCount slots.
// Slots left over after the payload are filled with random hex identifiers.
func (p *Packer) Pack(optionCount int, payload string) ([]string, error) {
	if optionCount <= 0 {
		return nil, fmt.Errorf("option count must be positive, got %d", optionCount)
	}
	if !Fits(optionCount, p.slotLen, len(payload)) {
		return nil, fmt.Errorf("%w: %d characters, capacity %d",
			ErrCapacityExceeded, len(payload), Capacity(optionCount, p.slotLen))
	}

	framed := StartMarker + payload + EndMarker
	slots := make([]string, optionCount)
	for i := range slots {
		if framed != "" {
			n := min(p.slotLen, len(framed))
			slots[i] = framed[:n]
			framed = framed[n:]
			continue
		}

		filler, err := p.filler()
		if err != nil {
			return nil, err
		}
		slots[i] = filler
	}
	return slots, nil
}

// PackExternal packs the store sentinel.
func (p *Packer) PackExternal(optionCount int) ([]string, error) {
	return p.Pack(optionCount, Sentinel)
}

func (p *Packer) filler() (string, error) {
	id, err := uuid.NewRandomFromReader(p.rand)
	if err != nil {
		return "", fmt.Errorf("generate filler: %w", err)
	}
	hex := strings.ReplaceAll(id.String(), "-", "")
	if len(hex) > p.slotLen {
		hex = hex[:p.slotLen]
	}
	return hex, nil
}

// Unpack joins slots in order and extracts the framed payload.
func Unpack(slots []string) Payload {
	joined := strings.Join(slots, "")

	rest, ok := strings.CutPrefix(joined, StartMarker)
	if !ok {
		return Payload{Kind: Absent}
	}
	end := strings.Index(rest, EndMarker)
	if end < 0 {
		return Payload{Kind: Absent}
	}

	data := rest[:end]
	if data == Sentinel {
		return Payload{Kind: External}
	}
	return Payload{Kind: Inline, Data: data}
}
