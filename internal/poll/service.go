package poll

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"nuclight.org/buttonpoll/internal/codec"
)

// Store keeps poll state that outgrew its message. Get returns ErrNotFound
// for unknown keys.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Recorder receives service events for metrics.
type Recorder interface {
	ObserveVote(outcome string, elapsed time.Duration)
	Promoted()
	StoreError(op string)
	Rejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveVote(string, time.Duration) {}
func (nopRecorder) Promoted()                         {}
func (nopRecorder) StoreError(string)                 {}
func (nopRecorder) Rejected(string)                   {}

// Snapshot is what a rendered poll message carries.
type Snapshot struct {
	// Key identifies the hosting message, e.g. "chat:message".
	Key     string
	Title   string
	Options []Option
	Slots   []string
	// PollID is the store key printed in the message, empty in inline mode.
	PollID string
}

// Event is one button press.
type Event struct {
	Snapshot
	Pressed string
	Voter   int64
}

// Draft is a freshly created poll, ready to be sent.
type Draft struct {
	Title   string
	Options []Option
	State   State
	Slots   []string
}

// Result is the state after a vote, re-encoded for the message.
type Result struct {
	Title    string
	Options  []Option
	State    State
	Outcome  Outcome
	Mode     Mode
	Slots    []string
	PollID   string
	Promoted bool
}

// Publisher applies a result to the hosting message.
type Publisher interface {
	Publish(ctx context.Context, res *Result) error
}

type PublisherFunc func(ctx context.Context, res *Result) error

func (f PublisherFunc) Publish(ctx context.Context, res *Result) error {
	return f(ctx, res)
}

type ServiceOption func(*Service)

// WithSlotLen sets the button identifier limit.
func WithSlotLen(n int) ServiceOption {
	return func(s *Service) { s.slotLen = n }
}

// WithRand sets the source for filler slots and poll identifiers. Votes on
// different messages run in parallel, so r must be safe for concurrent use.
func WithRand(r io.Reader) ServiceOption {
	return func(s *Service) { s.rand = r }
}

func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithCommittedSize bounds how many messages' last slots are remembered.
func WithCommittedSize(n int) ServiceOption {
	return func(s *Service) { s.committedSize = n }
}

type Service struct {
	store         Store
	packer        *codec.Packer
	policy        Policy
	locks         *Locker
	committed     *committed
	recorder      Recorder
	rand          io.Reader
	slotLen       int
	committedSize int
}

func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		store:         store,
		recorder:      nopRecorder{},
		rand:          rand.Reader,
		slotLen:       codec.TelegramSlotLen,
		committedSize: 1024,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = rand.Reader
	}

	packer, err := codec.NewPacker(s.slotLen, s.rand)
	if err != nil {
		return nil, err
	}
	s.packer = packer
	s.policy = Policy{SlotLen: s.slotLen}
	s.locks = NewLocker()
	s.committed = newCommitted(s.committedSize)
	return s, nil
}

// Create validates a new poll and encodes its empty state inline.
func (s *Service) Create(title string, defs []string) (*Draft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoTitle
	}
	options, err := NewOptions(defs)
	if err != nil {
		return nil, err
	}

	state := NewState(len(options))
	payload, err := codec.Serialize(state)
	if err != nil {
		return nil, err
	}
	slots, err := s.packer.Pack(len(options), payload)
	if err != nil {
		return nil, err
	}

	return &Draft{Title: title, Options: options, State: state, Slots: slots}, nil
}

// Load decodes a poll message without changing it.
func (s *Service) Load(ctx context.Context, snap Snapshot) (State, Mode, error) {
	if slots, pollID, ok := s.committed.get(snap.Key); ok {
		snap.Slots, snap.PollID = slots, pollID
	}
	d, err := s.decode(ctx, snap)
	if err != nil {
		return nil, 0, err
	}
	return d.state, d.mode, nil
}

// Vote applies one button press. Presses for the same message are handled
// one at a time, from decoding until pub has updated the message. When any
// step fails the message is left as it was.
func (s *Service) Vote(ctx context.Context, ev Event, pub Publisher) (*Result, error) {
	start := time.Now()

	res, err := s.vote(ctx, ev, pub)
	if err != nil {
		s.recorder.Rejected(rejectReason(err))
		return nil, err
	}

	s.recorder.ObserveVote(res.Outcome.Kind.String(), time.Since(start))
	return res, nil
}

func (s *Service) vote(ctx context.Context, ev Event, pub Publisher) (*Result, error) {
	unlock := s.locks.Lock(ev.Key)
	defer unlock()

	// Option indexes never change, so the press is resolved against the
	// keyboard the voter actually saw.
	choice := indexOf(ev.Slots, ev.Pressed)
	if choice < 0 || choice >= len(ev.Options) {
		return nil, fmt.Errorf("%w: pressed %q", ErrUnknownOption, ev.Pressed)
	}

	snap := ev.Snapshot
	if slots, pollID, ok := s.committed.get(ev.Key); ok {
		snap.Slots, snap.PollID = slots, pollID
	}

	d, err := s.decode(ctx, snap)
	if err != nil {
		return nil, err
	}

	outcome, err := Apply(d.state, ev.Voter, choice)
	if err != nil {
		return nil, err
	}

	res, err := s.encode(ctx, snap, d.state, d.mode)
	if err != nil {
		return nil, err
	}
	res.Outcome = outcome

	if err := pub.Publish(ctx, res); err != nil {
		if d.mode == ModeExternal {
			// The message still shows the old tally; put the old state back.
			if rerr := s.store.Put(ctx, res.PollID, []byte(d.payload)); rerr != nil {
				s.recorder.StoreError("put")
			}
		}
		return nil, fmt.Errorf("publish poll: %w", err)
	}
	if res.Promoted {
		s.recorder.Promoted()
	}

	s.committed.put(ev.Key, res.Slots, res.PollID)
	return res, nil
}

type decoded struct {
	state   State
	mode    Mode
	payload string
}

func (s *Service) decode(ctx context.Context, snap Snapshot) (*decoded, error) {
	payload := codec.Unpack(snap.Slots)

	var (
		data string
		mode Mode
	)
	switch payload.Kind {
	case codec.Inline:
		data, mode = payload.Data, ModeInline
	case codec.External:
		if snap.PollID == "" {
			return nil, fmt.Errorf("%w: stored poll without identifier", ErrNotPoll)
		}
		raw, err := s.store.Get(ctx, snap.PollID)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no stored state for %s", ErrNotPoll, snap.PollID)
		}
		if err != nil {
			s.recorder.StoreError("get")
			return nil, fmt.Errorf("%w: get %s: %w", ErrStoreUnavailable, snap.PollID, err)
		}
		data, mode = string(raw), ModeExternal
	default:
		return nil, ErrNotPoll
	}

	sets, err := codec.Deserialize(data)
	if err != nil {
		return nil, err
	}
	state := State(sets)
	if err := state.Validate(len(snap.Options)); err != nil {
		return nil, err
	}
	return &decoded{state: state, mode: mode, payload: data}, nil
}

func (s *Service) encode(ctx context.Context, snap Snapshot, state State, current Mode) (*Result, error) {
	payload, err := codec.Serialize(state)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Title:   snap.Title,
		Options: snap.Options,
		State:   state,
		Mode:    s.policy.Decide(len(state), len(payload), current),
	}

	if res.Mode == ModeInline {
		res.Slots, err = s.packer.Pack(len(state), payload)
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	res.PollID = snap.PollID
	if current != ModeExternal || res.PollID == "" {
		res.PollID, err = NewPollID(s.rand)
		if err != nil {
			return nil, err
		}
		res.Promoted = true
	}
	if err := s.store.Put(ctx, res.PollID, []byte(payload)); err != nil {
		s.recorder.StoreError("put")
		return nil, fmt.Errorf("%w: put %s: %w", ErrStoreUnavailable, res.PollID, err)
	}
	res.Slots, err = s.packer.PackExternal(len(state))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func indexOf(slots []string, pressed string) int {
	for i, slot := range slots {
		if slot == pressed {
			return i
		}
	}
	return -1
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownOption):
		return "unknown_option"
	case errors.Is(err, ErrNotPoll), errors.Is(err, ErrCorruptPayload):
		return "not_poll"
	case errors.Is(err, ErrStoreUnavailable):
		return "store"
	case errors.Is(err, ErrPollFull):
		return "poll_full"
	default:
		return "other"
	}
}
