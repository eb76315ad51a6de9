package character

// Deltas describes an in-memory mutation to a character produced by an
// action outcome. Fields are signed; zero values leave the field untouched.
type Deltas struct {
	HP   int
	MP   int
	XP   int
	Gold int
	// AddItems appends to, or tops up, inventory stacks.
	AddItems []ItemStack
}

// IsZero reports whether applying the deltas would change nothing.
func (d Deltas) IsZero() bool {
	return d.HP == 0 && d.MP == 0 && d.XP == 0 && d.Gold == 0 && len(d.AddItems) == 0
}

// Apply mutates c by the deltas, clamping to the model invariants:
// HP into [0, MaxHP], MP into [0, MaxMP], and XP and gold are floored at
// zero. Item additions merge into existing stacks by item ID.
//
// Postcondition: c satisfies all model invariants.
func (d Deltas) Apply(c *Character) {
	c.CurrentHP = clamp(c.CurrentHP+d.HP, 0, c.MaxHP)
	c.CurrentMP = clamp(c.CurrentMP+d.MP, 0, c.MaxMP)
	if c.Experience += d.XP; c.Experience < 0 {
		c.Experience = 0
	}
	if c.Gold += d.Gold; c.Gold < 0 {
		c.Gold = 0
	}

	for _, add := range d.AddItems {
		merged := false
		for i := range c.Inventory {
			if c.Inventory[i].ItemID == add.ItemID {
				c.Inventory[i].Quantity += add.Quantity
				merged = true
				break
			}
		}
		if !merged {
			c.Inventory = append(c.Inventory, add)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
