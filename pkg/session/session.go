package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/goliatone/go-leadform/pkg/intake"
)

// Lifecycle states.
const (
	StateActive    = "active"
	StateSubmitted = "submitted"
	StateAbandoned = "abandoned"
)

// Lifecycle events.
const (
	EventSubmit  = "submit"
	EventAbandon = "abandon"
)

var (
	// ErrSessionClosed is returned for any operation on a submitted or
	// abandoned session.
	ErrSessionClosed = errors.New("session: closed")
	// ErrSessionNotFound is returned by Store.Get for unknown or expired ids.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrStaleEvent is returned for an event whose Seq is not above the last
	// sequenced event the session applied.
	ErrStaleEvent = errors.New("session: stale event")
)

// DeliverFunc hands a submission to the external collaborator. An error keeps
// the session active so the visitor can retry.
type DeliverFunc func(ctx context.Context, id string, sub intake.Submission) error

// Session owns one engine. Every method serialises on the session mutex so
// events for the same session apply one at a time.
type Session struct {
	id        string
	createdAt time.Time

	mu       sync.Mutex
	engine   *intake.Engine
	machine  *fsm.FSM
	closedAt time.Time
	lastSeq  uint64
	engaged  bool
	onEngage func(*Session)
	now      func() time.Time
}

func newSession(id string, now func() time.Time, options ...intake.Option) *Session {
	s := &Session{
		id:        id,
		createdAt: now(),
		engine:    intake.New(options...),
		now:       now,
	}
	s.machine = fsm.NewFSM(
		StateActive,
		fsm.Events{
			{Name: EventSubmit, Src: []string{StateActive}, Dst: StateSubmitted},
			{Name: EventAbandon, Src: []string{StateActive}, Dst: StateAbandoned},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if e.Dst != StateActive {
					s.closedAt = s.now()
				}
			},
		},
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session started.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// State returns the current lifecycle state.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Current()
}

// ClosedAt returns when the session left the active state, or the zero time.
func (s *Session) ClosedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closedAt
}

// Active reports whether the session still accepts events.
func (s *Session) Active() bool {
	return s.State() == StateActive
}

// Apply forwards ev to the engine and returns the outcome together with the
// snapshot taken under the same lock.
//
// Events carrying a Seq must arrive in increasing order. One at or below the
// last applied Seq leaves the engine untouched and returns ErrStaleEvent with
// the current snapshot. Events without a Seq are always applied.
func (s *Session) Apply(ev intake.Event) (intake.Outcome, intake.Snapshot, error) {
	out, snap, first, err := s.apply(ev)
	if first && s.onEngage != nil {
		s.onEngage(s)
	}
	return out, snap, err
}

// Engaged reports whether the session has applied at least one event.
func (s *Session) Engaged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engaged
}

// apply reports first when this is the first event the engine accepted.
// onEngage runs after the lock is released; the store takes its own lock.
func (s *Session) apply(ev intake.Event) (out intake.Outcome, snap intake.Snapshot, first bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return intake.Outcome{Field: ev.Field}, intake.Snapshot{}, false, err
	}
	if ev.Seq != 0 {
		if ev.Seq <= s.lastSeq {
			return intake.Outcome{Field: ev.Field}, s.engine.Snapshot(), false,
				fmt.Errorf("%w: seq %d after %d", ErrStaleEvent, ev.Seq, s.lastSeq)
		}
		s.lastSeq = ev.Seq
	}
	out, err = s.engine.Apply(ev)
	if err == nil && !s.engaged {
		s.engaged, first = true, true
	}
	return out, s.engine.Snapshot(), first, err
}

// Snapshot returns the current read model.
func (s *Session) Snapshot() (intake.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return intake.Snapshot{}, err
	}
	return s.engine.Snapshot(), nil
}

// Submit captures the submission, hands it to deliver when set and closes the
// session. Submission has no validation gate: records with issues are
// delivered as they are.
func (s *Session) Submit(ctx context.Context, deliver DeliverFunc) (intake.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return intake.Submission{}, err
	}
	sub := s.engine.Submit()
	if deliver != nil {
		if err := deliver(ctx, s.id, sub); err != nil {
			return sub, fmt.Errorf("session: deliver %s: %w", s.id, err)
		}
	}
	// Delivery already happened; a cancelled request must not leave the
	// session open.
	if err := s.machine.Event(context.WithoutCancel(ctx), EventSubmit); err != nil {
		return sub, fmt.Errorf("session: submit %s: %w", s.id, err)
	}
	s.engine.Reset()
	return sub, nil
}

// Abandon closes an active session without submitting it.
func (s *Session) Abandon(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abandonLocked(ctx)
}

func (s *Session) abandonLocked(ctx context.Context) error {
	if err := s.activeLocked(); err != nil {
		return err
	}
	if err := s.machine.Event(ctx, EventAbandon); err != nil {
		return fmt.Errorf("session: abandon %s: %w", s.id, err)
	}
	s.engine.Reset()
	return nil
}

func (s *Session) activeLocked() error {
	if s.machine.Current() != StateActive {
		return fmt.Errorf("%w: %s is %s", ErrSessionClosed, s.id, s.machine.Current())
	}
	return nil
}
