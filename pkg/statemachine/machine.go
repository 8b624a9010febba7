package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Machine is the in-memory StateMachine implementation.
// Transitions are indexed as [from][event] so lookups stay O(1) per Fire.
type Machine struct {
	mu          sync.RWMutex
	initial     State
	current     State
	transitions map[string]map[string][]Transition
	observers   []Observer
}

var _ StateMachine = (*Machine)(nil)

func newMachine(initial State) *Machine {
	return &Machine{
		initial:     initial,
		current:     initial,
		transitions: make(map[string]map[string][]Transition),
	}
}

func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Machine) addTransition(t Transition) error {
	if t.From == nil || t.To == nil || t.Event == nil {
		return ErrInvalidTransition
	}

	byEvent, ok := m.transitions[t.From.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		m.transitions[t.From.Name()] = byEvent
	}
	// Several transitions per (from, event) are allowed; the first one whose guards pass wins.
	byEvent[t.Event.Name()] = append(byEvent[t.Event.Name()], t)
	return nil
}

// Fire applies the first transition for event whose guards accept data.
func (m *Machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	from := m.current
	candidates := m.transitions[from.Name()][event.Name()]
	if len(candidates) == 0 {
		m.mu.Unlock()
		return &TransitionError{State: from.Name(), Event: event.Name(), Reason: ErrNoTransition}
	}

	selected := m.selectLocked(ctx, candidates, event, data)
	if selected == nil {
		m.mu.Unlock()
		return &TransitionError{State: from.Name(), Event: event.Name(), Reason: ErrRejected}
	}

	for _, action := range selected.Actions {
		if err := action(ctx, from, selected.To, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = selected.To
	observers := m.observers
	m.mu.Unlock()

	for _, observe := range observers {
		observe(ctx, from, selected.To, event)
	}
	return nil
}

// CanFire reports whether Fire would select a transition, without running actions.
func (m *Machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates := m.transitions[m.current.Name()][event.Name()]
	return m.selectLocked(ctx, candidates, event, data) != nil
}

// Reset moves the machine back to its initial state without notifying observers.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
	return nil
}

func (m *Machine) selectLocked(ctx context.Context, candidates []Transition, event Event, data any) *Transition {
	for i := range candidates {
		if guardsPass(ctx, candidates[i].Guards, m.current, event, data) {
			return &candidates[i]
		}
	}
	return nil
}

func guardsPass(ctx context.Context, guards []Guard, from State, event Event, data any) bool {
	for _, guard := range guards {
		if !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
