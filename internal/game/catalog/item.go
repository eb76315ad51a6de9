package catalog

import (
	"errors"
	"fmt"

	"github.com/amelnychuk/fableforge/internal/game/dice"
)

// ItemKind classifies the broad category of an item.
type ItemKind string

const (
	// KindWeapon is an item usable in an attack.
	KindWeapon ItemKind = "weapon"
	// KindArmor contributes to defense.
	KindArmor ItemKind = "armor"
	// KindConsumable is used up when applied (potions, rations).
	KindConsumable ItemKind = "consumable"
	// KindTrinket is narrative-only gear (rope, holy symbol).
	KindTrinket ItemKind = "trinket"
)

// Item defines the static properties of an item loaded from YAML.
type Item struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Kind        ItemKind `yaml:"kind"`
	DamageDice  string   `yaml:"damage_dice"` // weapons only
	Ranged      bool     `yaml:"ranged"`      // weapons only; ranged weapons roll DEX
	Defense     int      `yaml:"defense"`     // armor only
	Value       int      `yaml:"value"`       // gold value
}

// IsWeapon reports whether the item can be swung or fired in combat.
func (i *Item) IsWeapon() bool {
	return i.Kind == KindWeapon
}

// Validate checks that the Item satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid, including that a
// weapon's damage dice string parses.
func (i *Item) Validate() error {
	if i.ID == "" {
		return errors.New("ID must not be empty")
	}
	if i.Name == "" {
		return errors.New("Name must not be empty")
	}
	switch i.Kind {
	case KindWeapon:
		if _, err := dice.Parse(i.DamageDice); err != nil {
			return fmt.Errorf("damage_dice: %w", err)
		}
	case KindArmor, KindConsumable, KindTrinket:
	default:
		return fmt.Errorf("unknown kind %q", i.Kind)
	}
	if i.Value < 0 {
		return errors.New("value must be >= 0")
	}
	return nil
}
