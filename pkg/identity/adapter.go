package identity

import (
	"sync"
)

// Adapter re-derives the profile whenever it observes a different snapshot and
// fans the result out to subscribers. It is safe for concurrent use.
type Adapter struct {
	mu       sync.RWMutex
	observed bool
	last     *Snapshot
	profile  Profile
	status   Status
	nextID   uint64
	subs     map[uint64]func(Profile, Status)
}

// NewAdapter returns an adapter that reports StatusPending until the first snapshot arrives.
func NewAdapter() *Adapter {
	return &Adapter{
		status: StatusPending,
		subs:   make(map[uint64]func(Profile, Status)),
	}
}

// Observe feeds the current upstream snapshot. Passing the same pointer again
// returns the memoized result without notifying subscribers.
func (a *Adapter) Observe(s *Snapshot) (Profile, Status) {
	a.mu.Lock()
	if a.observed && a.last == s {
		p, st := a.profile, a.status
		a.mu.Unlock()
		return p, st
	}

	p, st := Derive(s)
	a.observed = true
	a.last = s
	a.profile = p
	a.status = st

	subs := make([]func(Profile, Status), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(p, st)
	}
	return p, st
}

// Current returns the last derived value.
func (a *Adapter) Current() (Profile, Status) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.profile, a.status
}

// Subscribe registers fn for every re-derivation and returns a func that removes it.
func (a *Adapter) Subscribe(fn func(Profile, Status)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs, id)
			a.mu.Unlock()
		})
	}
}
