package session

import "sync"

// Store applies session transitions and notifies subscribers. One Store
// exists per running client; it is safe for concurrent use.
//
// The epoch counter guards against stale asynchronous results: it is bumped
// on every Logout, and DispatchIf drops transitions whose triggering
// operation started before the most recent logout.
type Store struct {
	mu      sync.Mutex
	state   State
	epoch   uint64
	subs    map[int]func(State)
	nextSub int
}

// NewStore returns a Store in the initial state: unauthenticated and loading,
// until the persisted session has been examined.
func NewStore() *Store {
	return &Store{
		state: State{IsLoading: true},
		subs:  make(map[int]func(State)),
	}
}

// State returns the current snapshot. The user profile is cloned so callers
// cannot mutate the stored state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.User = s.state.User.Clone()
	return st
}

// Epoch returns the current session epoch. Capture it before starting an
// asynchronous operation and pass it to DispatchIf with the result.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Dispatch applies a transition unconditionally and notifies subscribers.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.applyLocked(a)
	st := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// DispatchIf applies a transition only when the session epoch still matches
// the captured value. It reports whether the transition was applied. Results
// arriving after a logout are discarded this way.
func (s *Store) DispatchIf(epoch uint64, a Action) bool {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return false
	}
	s.applyLocked(a)
	st := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return true
}

func (s *Store) applyLocked(a Action) {
	s.state = reduce(s.state, a)
	if a.Type == Logout {
		s.epoch++
	}
}

func (s *Store) subscribersLocked() []func(State) {
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

// Subscribe registers fn to be called with a snapshot after every applied
// transition. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
