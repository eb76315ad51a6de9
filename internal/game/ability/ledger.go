// Package ability tracks per-character usage of limited class abilities and
// evaluates ability effects.
package ability

import (
	"errors"
	"fmt"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
)

// Scope is the window over which an ability's use count is limited.
type Scope string

const (
	// ScopeBattle counters reset when the caller signals battle end.
	ScopeBattle Scope = "battle"
	// ScopeDay counters reset when the caller signals day rollover.
	ScopeDay Scope = "day"
)

// ErrUnknownAbility is returned when an ability name is not in the catalog.
// There is no safe default usage policy, so this surfaces rather than
// degrading.
var ErrUnknownAbility = errors.New("unknown ability")

// ErrLimitExceeded is returned when RecordUse is called for an ability whose
// scope limit is already spent. Callers must gate with CanUse first.
var ErrLimitExceeded = errors.New("ability usage limit exceeded")

type usageKey struct {
	characterID string
	abilityID   string
	scope       Scope
}

// Ledger tracks ability usage counts per character and scope window. It
// holds no wall clock: scope resets are entirely caller-driven (battle end,
// day rollover).
//
// Not safe for concurrent callers on the same character; the caller must
// serialize actions per character, treating check-then-record as one
// logical transaction.
type Ledger struct {
	catalog *catalog.Catalog
	uses    map[usageKey]int
}

// NewLedger creates an empty Ledger backed by the given catalog.
//
// Precondition: cat must be non-nil.
func NewLedger(cat *catalog.Catalog) *Ledger {
	return &Ledger{catalog: cat, uses: make(map[usageKey]int)}
}

// CanUse reports whether the character may use the ability right now: true
// when the ability is unlimited, or its use count in every limited scope is
// below the declared limit.
//
// Postcondition: returns ErrUnknownAbility iff the name is not registered.
func (l *Ledger) CanUse(characterID, abilityID string) (bool, error) {
	ab, ok := l.catalog.Ability(abilityID)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAbility, abilityID)
	}
	if ab.UsesPerBattle > 0 && l.uses[usageKey{characterID, abilityID, ScopeBattle}] >= ab.UsesPerBattle {
		return false, nil
	}
	if ab.UsesPerDay > 0 && l.uses[usageKey{characterID, abilityID, ScopeDay}] >= ab.UsesPerDay {
		return false, nil
	}
	return true, nil
}

// RecordUse increments the character's use count for the ability. For an
// unlimited ability this is a no-op success. Calling it when CanUse would
// return false is a caller error and fails with ErrLimitExceeded.
//
// Postcondition: on success, no counter exceeds its declared limit.
func (l *Ledger) RecordUse(characterID, abilityID string) error {
	ok, err := l.CanUse(characterID, abilityID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q for character %s", ErrLimitExceeded, abilityID, characterID)
	}

	ab, _ := l.catalog.Ability(abilityID)
	if ab.UsesPerBattle > 0 {
		l.uses[usageKey{characterID, abilityID, ScopeBattle}]++
	}
	if ab.UsesPerDay > 0 {
		l.uses[usageKey{characterID, abilityID, ScopeDay}]++
	}
	return nil
}

// UsesIn returns the character's current use count for the ability in the
// given scope.
func (l *Ledger) UsesIn(characterID, abilityID string, scope Scope) int {
	return l.uses[usageKey{characterID, abilityID, scope}]
}

// ResetScope clears all counters for the character in the given scope.
// Battle end clears per-battle counters; day rollover clears per-day ones.
func (l *Ledger) ResetScope(characterID string, scope Scope) {
	for key := range l.uses {
		if key.characterID == characterID && key.scope == scope {
			delete(l.uses, key)
		}
	}
}
