package ability

import (
	"fmt"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
	"github.com/amelnychuk/fableforge/internal/game/dice"
	"github.com/amelnychuk/fableforge/internal/scripting"
)

// EffectKind classifies the mechanical outcome of an ability effect.
type EffectKind int

const (
	// EffectNone means the ability has no mechanical effect here.
	EffectNone EffectKind = iota
	// EffectDamage deals Amount damage to the target.
	EffectDamage
	// EffectHeal restores Amount HP to the caster.
	EffectHeal
	// EffectTag is a named narrative effect interpreted upstream.
	EffectTag
)

// EffectResult is the evaluated outcome of firing an ability once.
type EffectResult struct {
	Kind   EffectKind
	Amount int
	Roll   *dice.RollResult // nil for tag and script effects
	Tag    string
}

// EvaluateEffect computes the mechanical result of the ability for the given
// caster. Damage and heal formulas roll through src; script effects run in a
// Lua sandbox with the caster's attribute scores and level bound as globals
// (str, dex, con, int, wis, cha, level).
//
// Amounts are floored at zero; a formula that nets negative yields 0, not a
// reversed effect.
func EvaluateEffect(ab *catalog.Ability, caster *character.Character, src dice.Source) (EffectResult, error) {
	switch {
	case ab.Effect.Script != "":
		amount, err := scripting.EvalInt(ab.Effect.Script, map[string]int{
			"str":   caster.Attributes.Strength,
			"dex":   caster.Attributes.Dexterity,
			"con":   caster.Attributes.Constitution,
			"int":   caster.Attributes.Intelligence,
			"wis":   caster.Attributes.Wisdom,
			"cha":   caster.Attributes.Charisma,
			"level": caster.Level,
		})
		if err != nil {
			return EffectResult{}, fmt.Errorf("ability %q script: %w", ab.ID, err)
		}
		return EffectResult{Kind: EffectDamage, Amount: floorZero(amount)}, nil

	case ab.Effect.Damage != "":
		roll, err := dice.RollExpr(ab.Effect.Damage, src)
		if err != nil {
			return EffectResult{}, fmt.Errorf("ability %q damage formula: %w", ab.ID, err)
		}
		return EffectResult{Kind: EffectDamage, Amount: floorZero(roll.Total()), Roll: &roll}, nil

	case ab.Effect.Heal != "":
		roll, err := dice.RollExpr(ab.Effect.Heal, src)
		if err != nil {
			return EffectResult{}, fmt.Errorf("ability %q heal formula: %w", ab.ID, err)
		}
		return EffectResult{Kind: EffectHeal, Amount: floorZero(roll.Total()), Roll: &roll}, nil

	case ab.Effect.Tag != "":
		return EffectResult{Kind: EffectTag, Tag: ab.Effect.Tag}, nil
	}
	return EffectResult{Kind: EffectNone}, nil
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
