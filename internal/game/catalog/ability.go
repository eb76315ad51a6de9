package catalog

import (
	"errors"
	"fmt"

	"github.com/amelnychuk/fableforge/internal/game/dice"
)

// Effect describes what an ability does when it fires. Exactly one of the
// fields drives the mechanical outcome; Tag covers effects the rules engine
// does not compute itself (the narrative layer interprets it).
type Effect struct {
	Damage string `yaml:"damage"` // dice formula dealt to the target
	Heal   string `yaml:"heal"`   // dice formula restored to the caster
	Tag    string `yaml:"tag"`    // named narrative effect, e.g. "invisibility"
	Script string `yaml:"script"` // Lua expression computing a magnitude from caster stats
}

// Ability defines a class ability: its resource cost, usage limits, and
// effect. Loaded once from content and immutable for the process lifetime.
type Ability struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	MPCost        int    `yaml:"mp_cost"`         // 0 = free
	UsesPerBattle int    `yaml:"uses_per_battle"` // 0 = unlimited within a battle
	UsesPerDay    int    `yaml:"uses_per_day"`    // 0 = unlimited within a day
	Effect        Effect `yaml:"effect"`
}

// Limited reports whether the ability carries any usage limit.
func (a *Ability) Limited() bool {
	return a.UsesPerBattle > 0 || a.UsesPerDay > 0
}

// Validate checks that the Ability satisfies its invariants, including that
// any damage or heal formula parses as dice notation.
func (a *Ability) Validate() error {
	if a.ID == "" {
		return errors.New("ID must not be empty")
	}
	if a.Name == "" {
		return errors.New("Name must not be empty")
	}
	if a.MPCost < 0 {
		return errors.New("mp_cost must be >= 0")
	}
	if a.UsesPerBattle < 0 || a.UsesPerDay < 0 {
		return errors.New("usage limits must be >= 0")
	}
	if a.Effect.Damage != "" {
		if _, err := dice.Parse(a.Effect.Damage); err != nil {
			return fmt.Errorf("effect.damage: %w", err)
		}
	}
	if a.Effect.Heal != "" {
		if _, err := dice.Parse(a.Effect.Heal); err != nil {
			return fmt.Errorf("effect.heal: %w", err)
		}
	}
	return nil
}
