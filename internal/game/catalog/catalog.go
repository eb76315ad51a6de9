// Package catalog holds the static game reference data: classes, items,
// and abilities. A Catalog is built once at startup and never mutated
// afterwards, so it can be shared by reference without synchronization.
package catalog

import (
	"fmt"
	"sort"
)

// Catalog is the immutable lookup surface consumed by the combat resolver,
// ability ledger, and narrative arbiter.
type Catalog struct {
	classes   map[string]*Class
	items     map[string]*Item
	abilities map[string]*Ability
}

// New builds a Catalog from the given definitions.
//
// Precondition: all definitions must pass Validate and have unique IDs.
// Postcondition: returns an immutable Catalog or a descriptive error.
func New(classes []*Class, items []*Item, abilities []*Ability) (*Catalog, error) {
	c := &Catalog{
		classes:   make(map[string]*Class, len(classes)),
		items:     make(map[string]*Item, len(items)),
		abilities: make(map[string]*Ability, len(abilities)),
	}
	for _, cl := range classes {
		if err := cl.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: class %q: %w", cl.ID, err)
		}
		if _, exists := c.classes[cl.ID]; exists {
			return nil, fmt.Errorf("catalog: class ID %q already registered", cl.ID)
		}
		c.classes[cl.ID] = cl
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: item %q: %w", it.ID, err)
		}
		if _, exists := c.items[it.ID]; exists {
			return nil, fmt.Errorf("catalog: item ID %q already registered", it.ID)
		}
		c.items[it.ID] = it
	}
	for _, ab := range abilities {
		if err := ab.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: ability %q: %w", ab.ID, err)
		}
		if _, exists := c.abilities[ab.ID]; exists {
			return nil, fmt.Errorf("catalog: ability ID %q already registered", ab.ID)
		}
		c.abilities[ab.ID] = ab
	}

	// Classes must only reference items and abilities that exist.
	for _, cl := range c.classes {
		for _, id := range cl.StartingItems {
			if _, ok := c.items[id]; !ok {
				return nil, fmt.Errorf("catalog: class %q references unknown starting item %q", cl.ID, id)
			}
		}
		for _, id := range cl.Abilities {
			if _, ok := c.abilities[id]; !ok {
				return nil, fmt.Errorf("catalog: class %q references unknown ability %q", cl.ID, id)
			}
		}
	}
	return c, nil
}

// Class returns the class definition for id.
//
// Postcondition: ok is true iff id is registered.
func (c *Catalog) Class(id string) (*Class, bool) {
	cl, ok := c.classes[id]
	return cl, ok
}

// Item returns the item definition for id.
//
// Postcondition: ok is true iff id is registered. Callers that need a weapon
// and miss should degrade to Unarmed(), not error.
func (c *Catalog) Item(id string) (*Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Ability returns the ability definition for id. Unlike item misses, an
// ability miss has no safe default and must surface to the caller.
func (c *Catalog) Ability(id string) (*Ability, bool) {
	ab, ok := c.abilities[id]
	return ab, ok
}

// ClassIDs returns all registered class IDs in sorted order.
func (c *Catalog) ClassIDs() []string {
	ids := make([]string, 0, len(c.classes))
	for id := range c.classes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Unarmed returns the baseline unarmed weapon profile: 1d4 melee. Combat
// falls back to it whenever a weapon lookup misses or carries malformed
// dice. The returned value is shared; callers must not mutate it.
func (c *Catalog) Unarmed() *Item {
	return unarmed
}

var unarmed = &Item{
	ID:         "unarmed",
	Name:       "Bare Fists",
	Kind:       KindWeapon,
	DamageDice: "1d4",
}
