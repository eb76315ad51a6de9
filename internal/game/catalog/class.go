package catalog

import "errors"

// BaseAttributes holds the six starting attribute scores a class grants.
type BaseAttributes struct {
	Strength     int `yaml:"str"`
	Dexterity    int `yaml:"dex"`
	Constitution int `yaml:"con"`
	Intelligence int `yaml:"int"`
	Wisdom       int `yaml:"wis"`
	Charisma     int `yaml:"cha"`
}

// Class defines a playable character class for character creation.
type Class struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	HitPoints     int            `yaml:"hit_points"`  // starting max HP
	ManaPoints    int            `yaml:"mana_points"` // starting max MP; 0 for non-casters
	Attributes    BaseAttributes `yaml:"attributes"`
	StartingGold  int            `yaml:"starting_gold"`
	StartingItems []string       `yaml:"starting_items"`
	Abilities     []string       `yaml:"abilities"`
}

// Validate checks that the Class satisfies its invariants.
//
// Postcondition: returns nil iff the class is usable for character creation.
func (c *Class) Validate() error {
	if c.ID == "" {
		return errors.New("ID must not be empty")
	}
	if c.Name == "" {
		return errors.New("Name must not be empty")
	}
	if c.HitPoints < 1 {
		return errors.New("hit_points must be >= 1")
	}
	if c.ManaPoints < 0 {
		return errors.New("mana_points must be >= 0")
	}
	for _, score := range []int{
		c.Attributes.Strength, c.Attributes.Dexterity, c.Attributes.Constitution,
		c.Attributes.Intelligence, c.Attributes.Wisdom, c.Attributes.Charisma,
	} {
		if score < 1 {
			return errors.New("attribute scores must be >= 1")
		}
	}
	return nil
}
