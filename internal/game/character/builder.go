package character

import (
	"errors"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
)

// Build constructs a new level-1 Character from a class definition: base
// stats, full HP/MP, starter equipment, and starting gold come from the
// class.
//
// Precondition: id and name must be non-empty; class must be non-nil and
// validated by the catalog.
// Postcondition: the returned Character satisfies all model invariants.
func Build(id, name string, class *catalog.Class) (*Character, error) {
	if id == "" {
		return nil, errors.New("character id must not be empty")
	}
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if class == nil {
		return nil, errors.New("class must not be nil")
	}

	inv := make([]ItemStack, 0, len(class.StartingItems))
	for _, itemID := range class.StartingItems {
		inv = append(inv, ItemStack{ItemID: itemID, Quantity: 1})
	}

	return &Character{
		ID:        id,
		Name:      name,
		Class:     class.ID,
		Level:     1,
		CurrentHP: class.HitPoints,
		MaxHP:     class.HitPoints,
		CurrentMP: class.ManaPoints,
		MaxMP:     class.ManaPoints,
		Attributes: Attributes{
			Strength:     class.Attributes.Strength,
			Dexterity:    class.Attributes.Dexterity,
			Constitution: class.Attributes.Constitution,
			Intelligence: class.Attributes.Intelligence,
			Wisdom:       class.Attributes.Wisdom,
			Charisma:     class.Attributes.Charisma,
		},
		Gold:      class.StartingGold,
		Inventory: inv,
	}, nil
}
