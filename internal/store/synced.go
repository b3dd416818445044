// Package store provides the synchronized state container shared by the
// entity services. A Synced[T] holds one remotely-sourced value together
// with its lifecycle state, and serializes refreshes and mutations so
// that out-of-order responses can never clobber newer data.
package store

import (
	"errors"
	"sync"
)

// State is the lifecycle of a synchronized value.
type State int

const (
	// Uninitialized means no load has been attempted yet.
	Uninitialized State = iota
	// Loading means the first load (or a retry after a failed first
	// load) is in flight and no usable value exists.
	Loading
	// Ready means a value has been committed at least once. The value
	// stays Ready through later refreshes and failures.
	Ready
	// Errored means every load so far has failed; Err holds the last
	// failure.
	Errored
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "error"
	default:
		return "unknown"
	}
}

// ErrClosed is returned by Begin* calls after Close.
var ErrClosed = errors.New("store: closed")

// Snapshot is a point-in-time view of a Synced value.
type Snapshot[T any] struct {
	// Data is the last committed value. Only meaningful when the store
	// has reached Ready; it is retained unchanged across later
	// failures.
	Data T
	// State is the lifecycle state at snapshot time.
	State State
	// Busy reports an in-flight refresh or mutation. It is independent
	// of State: a Ready store is Busy while it re-fetches.
	Busy bool
	// Err is the most recent failure, cleared by the next successful
	// commit.
	Err error
	// Version counts committed updates. It increases by one per commit
	// and never moves backwards.
	Version uint64
}

// Synced holds one synchronized value of type T.
//
// Callers obtain a token from BeginRefresh or BeginMutation before
// talking to the remote service, then settle it with Commit or Fail.
// Tokens are monotonic: a Commit whose token is older than the last
// applied one is discarded, so a slow response can never overwrite the
// result of a later operation.
type Synced[T any] struct {
	mu sync.Mutex

	data    T
	state   State
	err     error
	version uint64

	nextToken   uint64
	lastApplied uint64
	inflight    int
	closed      bool

	subs   map[int]chan Snapshot[T]
	nextID int
}

// NewSynced returns an empty store in the Uninitialized state.
func NewSynced[T any]() *Synced[T] {
	return &Synced[T]{subs: make(map[int]chan Snapshot[T])}
}

// Snapshot returns the current view.
func (s *Synced[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Synced[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Data:    s.data,
		State:   s.state,
		Busy:    s.inflight > 0,
		Err:     s.err,
		Version: s.version,
	}
}

// BeginRefresh marks a load in flight and returns the token to settle
// it with. Before the first successful commit the state moves to
// Loading; once Ready, the store stays Ready and only Busy is raised.
func (s *Synced[T]) BeginRefresh() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.state == Uninitialized || s.state == Errored {
		s.state = Loading
	}
	return s.beginLocked(), nil
}

// BeginMutation marks a write in flight. Unlike BeginRefresh it never
// demotes the state: a mutation against an Uninitialized store leaves
// it Uninitialized until a commit arrives.
func (s *Synced[T]) BeginMutation() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.beginLocked(), nil
}

func (s *Synced[T]) beginLocked() uint64 {
	s.nextToken++
	s.inflight++
	s.notifyLocked()
	return s.nextToken
}

// Commit settles token with a new value. It reports false when the
// commit was discarded: the store is closed, or a commit with a newer
// token has already been applied.
func (s *Synced[T]) Commit(token uint64, data T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked()
	if s.closed || token <= s.lastApplied {
		s.notifyLocked()
		return false
	}
	s.lastApplied = token
	s.data = data
	s.state = Ready
	s.err = nil
	s.version++
	s.notifyLocked()
	return true
}

// Fail settles token with an error. The last committed value is kept;
// the store only reaches Errored when nothing was ever committed. A
// failure whose token is older than the last applied commit is
// discarded outright, the same way Commit discards stale data: a newer
// success has already superseded it, so its error must not surface.
func (s *Synced[T]) Fail(token uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked()
	if s.closed || token <= s.lastApplied {
		s.notifyLocked()
		return
	}
	s.lastApplied = token
	s.err = err
	if s.state != Ready {
		s.state = Errored
	}
	s.notifyLocked()
}

func (s *Synced[T]) settleLocked() {
	if s.inflight > 0 {
		s.inflight--
	}
}

// Reset clears the store back to Uninitialized, as after logout.
// In-flight operations settle as discarded.
func (s *Synced[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	var zero T
	s.data = zero
	s.state = Uninitialized
	s.err = nil
	s.version++
	s.lastApplied = s.nextToken
	s.notifyLocked()
}

// Subscribe registers a snapshot listener. The channel receives the
// current snapshot immediately and a snapshot after every change; slow
// receivers miss intermediate snapshots but always get the latest. The
// returned cancel func releases the subscription.
func (s *Synced[T]) Subscribe() (<-chan Snapshot[T], func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot[T], 1)
	id := s.nextID
	s.nextID++
	if s.subs == nil {
		s.subs = make(map[int]chan Snapshot[T])
	}
	s.subs[id] = ch
	ch <- s.snapshotLocked()
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *Synced[T]) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot and replace it.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Close marks the store closed. Later Begin* calls fail with ErrClosed
// and later Commit/Fail calls are discarded. Subscribers are closed.
func (s *Synced[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
