package arbiter

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/amelnychuk/fableforge/internal/game/dice"
)

// State is a turn's position in the action-resolution state machine:
//
//	Idle → AwaitingOracle → {Decided | Fallback} → AwaitingRoll → Resolved
//
// AwaitingRoll is skipped when the decision requires no dice.
type State int

const (
	StateIdle State = iota
	StateAwaitingOracle
	StateDecided
	StateFallback
	StateAwaitingRoll
	StateResolved
)

// String returns the state's lowercase label.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingOracle:
		return "awaiting_oracle"
	case StateDecided:
		return "decided"
	case StateFallback:
		return "fallback"
	case StateAwaitingRoll:
		return "awaiting_roll"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Turn tracks the resolution of one player action. The arbiter declares what
// roll is needed; the caller executes it and feeds the result back through
// CompleteRoll, which performs the difficulty comparison.
type Turn struct {
	ID          string
	CharacterID string
	Intent      string

	state    State
	decision Decision
	roll     *dice.RollResult
	success  bool
}

// NewTurn starts a turn in StateIdle for the given character and intent.
func NewTurn(characterID, intent string) *Turn {
	return &Turn{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		Intent:      intent,
		state:       StateIdle,
	}
}

// State returns the turn's current state.
func (t *Turn) State() State { return t.state }

// Decision returns the decision delivered to this turn. Zero before Deliver.
func (t *Turn) Decision() Decision { return t.decision }

// Roll returns the executed roll, or nil when none was required or executed.
func (t *Turn) Roll() *dice.RollResult { return t.roll }

// Success reports whether the required roll met its difficulty. Only
// meaningful in StateResolved for turns that required a roll.
func (t *Turn) Success() bool { return t.success }

// Begin transitions Idle → AwaitingOracle.
func (t *Turn) Begin() error {
	if t.state != StateIdle {
		return fmt.Errorf("arbiter: cannot begin turn in state %s", t.state)
	}
	t.state = StateAwaitingOracle
	return nil
}

// Deliver records the decision, moving to Decided or Fallback, then
// immediately on to AwaitingRoll when dice are required or Resolved when
// not.
func (t *Turn) Deliver(d Decision) error {
	if t.state != StateAwaitingOracle {
		return fmt.Errorf("arbiter: cannot deliver decision in state %s", t.state)
	}
	t.decision = d
	if d.Fallback {
		t.state = StateFallback
	} else {
		t.state = StateDecided
	}
	if d.Dice.None() {
		t.state = StateResolved
		t.success = true
	} else {
		t.state = StateAwaitingRoll
	}
	return nil
}

// CompleteRoll finishes an AwaitingRoll turn with the executed roll. Success
// is roll total >= the decision's difficulty (meets-it-beats-it).
func (t *Turn) CompleteRoll(roll dice.RollResult) error {
	if t.state != StateAwaitingRoll {
		return fmt.Errorf("arbiter: cannot complete roll in state %s", t.state)
	}
	t.roll = &roll
	t.success = roll.Total() >= t.decision.Dice.Difficulty
	t.state = StateResolved
	return nil
}
