// Package dice provides dice-notation parsing, evaluation, and the
// attribute-modifier arithmetic used everywhere a roll or damage total is
// computed.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier. No clamping
// happens at this layer; a negative modifier may drive the total below zero,
// and policy floors (e.g. minimum damage) belong to the caller.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// ModifierFor converts an attribute score into its derived modifier:
// floor((score - 10) / 2). True floor semantics, so scores below 10 produce
// negative modifiers (8 → -1, 7 → -2).
func ModifierFor(score int) int {
	d := score - 10
	if d < 0 {
		// Integer division truncates toward zero; shift odd negatives down.
		return -((-d + 1) / 2)
	}
	return d / 2
}
