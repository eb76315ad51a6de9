// Package character defines the character domain model and pure creation logic.
package character

import (
	"strings"
	"time"
)

// Attributes holds the six attribute scores for a character.
type Attributes struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// Score returns the value of the attribute named by its short label
// ("str", "dex", "con", "int", "wis", "cha"), case-insensitive. Unknown
// names return (0, false).
func (a Attributes) Score(name string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "str", "strength":
		return a.Strength, true
	case "dex", "dexterity":
		return a.Dexterity, true
	case "con", "constitution":
		return a.Constitution, true
	case "int", "intelligence":
		return a.Intelligence, true
	case "wis", "wisdom":
		return a.Wisdom, true
	case "cha", "charisma":
		return a.Charisma, true
	}
	return 0, false
}

// ItemStack is one inventory entry: an item reference with a quantity.
type ItemStack struct {
	ItemID   string
	Quantity int
}

// Character represents a player character's persistent state. The ID is the
// chat platform's user identifier; the persistence collaborator owns the
// record and the core only works on snapshots.
//
// Invariant: 0 <= CurrentHP <= MaxHP, 0 <= CurrentMP <= MaxMP, and every
// attribute score >= 1.
type Character struct {
	ID    string
	Name  string
	Class string // class ID from the catalog
	Level int

	CurrentHP int
	MaxHP     int
	CurrentMP int
	MaxMP     int

	Attributes Attributes
	Experience int
	Gold       int
	Inventory  []ItemStack

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasItem reports whether the inventory holds at least one of itemID.
func (c *Character) HasItem(itemID string) bool {
	for _, s := range c.Inventory {
		if s.ItemID == itemID && s.Quantity > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the character, so callers can hand out
// snapshots without aliasing the inventory slice.
func (c *Character) Clone() *Character {
	out := *c
	out.Inventory = make([]ItemStack, len(c.Inventory))
	copy(out.Inventory, c.Inventory)
	return &out
}
