package review

import (
	"context"
	"fmt"
)

// GuardFunc decides whether a configured transition may fire.
type GuardFunc func(ctx context.Context) bool

// transition is one configured edge with an optional guard.
type transition struct {
	toState State
	guard   GuardFunc
}

// Machine tracks the current session state and validates transitions.
type Machine struct {
	currentState State
	transitions  map[State]map[Trigger][]transition
}

// Builder accumulates transition configuration for a Machine.
type Builder struct {
	transitions map[State]map[Trigger][]transition
}

// NewBuilder creates an empty state machine builder.
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger][]transition)}
}

// Permit allows trigger to move fromState to toState unconditionally.
func (b *Builder) Permit(fromState State, trigger Trigger, toState State) *Builder {
	return b.PermitIf(fromState, trigger, toState, nil)
}

// PermitIf allows the transition only when the guard passes.
func (b *Builder) PermitIf(fromState State, trigger Trigger, toState State, guard GuardFunc) *Builder {
	if !fromState.IsValid() {
		panic(fmt.Sprintf("invalid source state: %s", fromState))
	}
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}

	edges, ok := b.transitions[fromState]
	if !ok {
		edges = make(map[Trigger][]transition)
		b.transitions[fromState] = edges
	}
	edges[trigger] = append(edges[trigger], transition{toState: toState, guard: guard})
	return b
}

// Build creates a machine starting in initialState. The configuration is
// copied so later builder mutations do not leak into built machines.
func (b *Builder) Build(initialState State) *Machine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	transitionsCopy := make(map[State]map[Trigger][]transition, len(b.transitions))
	for state, edges := range b.transitions {
		edgesCopy := make(map[Trigger][]transition, len(edges))
		for trigger, list := range edges {
			edgesCopy[trigger] = append([]transition(nil), list...)
		}
		transitionsCopy[state] = edgesCopy
	}

	return &Machine{
		currentState: initialState,
		transitions:  transitionsCopy,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.currentState
}

// CanFire returns true if at least one transition is configured for the
// trigger in the current state. Guards are not evaluated.
func (m *Machine) CanFire(trigger Trigger) bool {
	return len(m.transitions[m.currentState][trigger]) > 0
}

// Fire executes the trigger, moving to the first configured target whose
// guard passes.
func (m *Machine) Fire(ctx context.Context, trigger Trigger) error {
	edges := m.transitions[m.currentState][trigger]
	if len(edges) == 0 {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.currentState)
	}

	for _, t := range edges {
		if t.guard == nil || t.guard(ctx) {
			m.currentState = t.toState
			return nil
		}
	}
	return fmt.Errorf("%w: trigger %s from %s", ErrGuardFailed, trigger, m.currentState)
}

// PermittedTriggers returns the triggers configured for the current state.
func (m *Machine) PermittedTriggers() []Trigger {
	edges := m.transitions[m.currentState]
	triggers := make([]Trigger, 0, len(edges))
	for trigger := range edges {
		triggers = append(triggers, trigger)
	}
	return triggers
}
