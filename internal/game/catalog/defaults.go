package catalog

// Default returns the compiled-in catalog: the five playable classes with
// their starter gear and abilities. It backs tests and dev mode when no
// content directory is configured; production deployments load YAML content
// with Load, which may override any of this.
func Default() *Catalog {
	c, err := New(defaultClasses(), defaultItems(), defaultAbilities())
	if err != nil {
		panic("catalog: default content is invalid: " + err.Error())
	}
	return c
}

func defaultClasses() []*Class {
	return []*Class{
		{
			ID: "knight", Name: "Knight",
			Description: "A heavily armored front-line fighter.",
			HitPoints:   14, ManaPoints: 0,
			Attributes:    BaseAttributes{Strength: 16, Dexterity: 10, Constitution: 14, Intelligence: 8, Wisdom: 10, Charisma: 12},
			StartingGold:  15,
			StartingItems: []string{"sword", "shield"},
			Abilities:     []string{"power_strike", "shield_wall"},
		},
		{
			ID: "mage", Name: "Mage",
			Description: "A scholar of the arcane, fragile but devastating.",
			HitPoints:   8, ManaPoints: 12,
			Attributes:    BaseAttributes{Strength: 8, Dexterity: 12, Constitution: 10, Intelligence: 16, Wisdom: 14, Charisma: 10},
			StartingGold:  10,
			StartingItems: []string{"staff", "spellbook"},
			Abilities:     []string{"fireball", "arcane_shield"},
		},
		{
			ID: "archer", Name: "Archer",
			Description: "A sharpshooter who strikes before being seen.",
			HitPoints:   10, ManaPoints: 0,
			Attributes:    BaseAttributes{Strength: 10, Dexterity: 16, Constitution: 12, Intelligence: 10, Wisdom: 14, Charisma: 8},
			StartingGold:  12,
			StartingItems: []string{"bow", "dagger"},
			Abilities:     []string{"aimed_shot"},
		},
		{
			ID: "thief", Name: "Thief",
			Description: "A shadow in the crowd with quick fingers.",
			HitPoints:   9, ManaPoints: 0,
			Attributes:    BaseAttributes{Strength: 10, Dexterity: 16, Constitution: 10, Intelligence: 12, Wisdom: 10, Charisma: 14},
			StartingGold:  25,
			StartingItems: []string{"dagger", "lockpicks"},
			Abilities:     []string{"sneak_attack"},
		},
		{
			ID: "cleric", Name: "Cleric",
			Description: "A divine servant mending wounds and turning the dead.",
			HitPoints:   11, ManaPoints: 10,
			Attributes:    BaseAttributes{Strength: 12, Dexterity: 8, Constitution: 12, Intelligence: 10, Wisdom: 16, Charisma: 12},
			StartingGold:  12,
			StartingItems: []string{"mace", "holy_symbol"},
			Abilities:     []string{"heal", "turn_undead"},
		},
	}
}

func defaultItems() []*Item {
	return []*Item{
		{ID: "sword", Name: "Longsword", Kind: KindWeapon, DamageDice: "1d8", Value: 15},
		{ID: "dagger", Name: "Dagger", Kind: KindWeapon, DamageDice: "1d4", Value: 2},
		{ID: "mace", Name: "Mace", Kind: KindWeapon, DamageDice: "1d6", Value: 5},
		{ID: "staff", Name: "Quarterstaff", Kind: KindWeapon, DamageDice: "1d6", Value: 2},
		{ID: "bow", Name: "Shortbow", Kind: KindWeapon, DamageDice: "1d6", Ranged: true, Value: 25},
		{ID: "shield", Name: "Wooden Shield", Kind: KindArmor, Defense: 2, Value: 10},
		{ID: "spellbook", Name: "Spellbook", Kind: KindTrinket, Value: 20},
		{ID: "lockpicks", Name: "Lockpicks", Kind: KindTrinket, Value: 10},
		{ID: "holy_symbol", Name: "Holy Symbol", Kind: KindTrinket, Value: 5},
		{ID: "healing_potion", Name: "Healing Potion", Kind: KindConsumable, Value: 25},
	}
}

func defaultAbilities() []*Ability {
	return []*Ability{
		{
			ID: "power_strike", Name: "Power Strike",
			Description:   "An all-or-nothing blow that trades finesse for force.",
			UsesPerBattle: 1,
			Effect:        Effect{Damage: "2d6"},
		},
		{
			ID: "shield_wall", Name: "Shield Wall",
			Description:   "Brace behind the shield, shrugging off the next hit.",
			UsesPerBattle: 1,
			Effect:        Effect{Tag: "damage_reduction"},
		},
		{
			ID: "fireball", Name: "Fireball",
			Description: "A roaring sphere of flame.",
			MPCost:      4,
			Effect:      Effect{Damage: "3d6"},
		},
		{
			ID: "arcane_shield", Name: "Arcane Shield",
			Description: "A shimmering barrier of force.",
			MPCost:      2, UsesPerBattle: 1,
			Effect: Effect{Tag: "shielded"},
		},
		{
			ID: "aimed_shot", Name: "Aimed Shot",
			Description:   "A patient, precise shot at a vital spot.",
			UsesPerBattle: 2,
			Effect:        Effect{Damage: "1d6+2"},
		},
		{
			ID: "sneak_attack", Name: "Sneak Attack",
			Description:   "Strike from hiding where it hurts most.",
			UsesPerBattle: 1,
			// Scales with the thief's own quickness rather than a fixed die.
			Effect: Effect{Script: "return math.floor(dex / 2) + 3"},
		},
		{
			ID: "heal", Name: "Healing Word",
			Description: "A whispered prayer knitting flesh.",
			MPCost:      3,
			Effect:      Effect{Heal: "1d8+2"},
		},
		{
			ID: "turn_undead", Name: "Turn Undead",
			Description: "Blazing holy light that routs the restless dead.",
			MPCost:      2, UsesPerDay: 1,
			Effect: Effect{Tag: "turn_undead"},
		},
	}
}
