// Package arbiter turns the narrative oracle's freeform judgment into a
// validated, bounded decision the rules engine can act on.
package arbiter

import "strings"

// ActionType is the oracle's feasibility classification of a player intent.
type ActionType string

const (
	// ActionSimple resolves in a single exchange.
	ActionSimple ActionType = "simple"
	// ActionComplex needs a roll or meaningful cost to resolve.
	ActionComplex ActionType = "complex"
	// ActionMultiTurn spans several player turns.
	ActionMultiTurn ActionType = "multi_turn"
	// ActionImpossible cannot be attempted as stated.
	ActionImpossible ActionType = "impossible"
)

// normalizeActionType maps arbitrary oracle output onto the enum, defaulting
// to ActionSimple.
func normalizeActionType(s string) ActionType {
	switch ActionType(strings.ToLower(strings.TrimSpace(s))) {
	case ActionComplex:
		return ActionComplex
	case ActionMultiTurn:
		return ActionMultiTurn
	case ActionImpossible:
		return ActionImpossible
	default:
		return ActionSimple
	}
}

// DiceTypeNone marks a decision that requires no roll.
const DiceTypeNone = "none"

// DiceRequirement declares the roll a decision demands. The arbiter only
// declares it; execution and the difficulty comparison belong to the caller.
type DiceRequirement struct {
	// Type is the die to roll ("d20", "d6", ...) or DiceTypeNone.
	Type string
	// ModifierStat names the governing attribute ("str".."cha"); empty when
	// no modifier applies.
	ModifierStat string
	// Difficulty is the threshold the roll total must meet or exceed.
	Difficulty int
	// DamageDice is rolled on success for attack-like actions; empty
	// otherwise.
	DamageDice string
}

// None reports whether no roll is required.
func (d DiceRequirement) None() bool {
	return d.Type == DiceTypeNone || d.Type == ""
}

// Consequences is the success/failure narrative branch pair.
type Consequences struct {
	Success string
	Failure string
}

// Decision is the validated, bounded outcome the arbiter derives from one
// oracle response (or from the fallback fixed point).
type Decision struct {
	Narrative    string
	ActionType   ActionType
	Dice         DiceRequirement
	Hint         string
	Consequences Consequences
	XPReward     int
	GoldReward   int
	// AbilityID names a limited ability the oracle judged the action to use;
	// empty when none applies.
	AbilityID string
	// Fallback is true when the decision is the deterministic degraded
	// value, not an oracle product.
	Fallback bool
}

// FallbackDecision returns the single fixed point the whole system degrades
// to on any oracle failure: generic mishap narrative, no roll, a generic
// hint, zero rewards. It must never itself fail.
func FallbackDecision() Decision {
	return Decision{
		Narrative:  "Something went wrong with the magic... The world flickers and settles back into place.",
		ActionType: ActionSimple,
		Dice:       DiceRequirement{Type: DiceTypeNone},
		Hint:       "Try again!",
		Fallback:   true,
	}
}
