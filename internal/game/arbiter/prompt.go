package arbiter

import (
	"fmt"
	"strings"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
	"github.com/amelnychuk/fableforge/internal/game/dice"
)

// responseSchema is the fixed output instruction appended to every oracle
// request. The oracle is told to answer with exactly this JSON object;
// Decode tolerates partial conformance anyway.
const responseSchema = `ALWAYS answer with a single JSON object of exactly this shape:
{
  "main_response": "the narrative outcome shown to the player",
  "action_type": "simple|complex|multi_turn|impossible",
  "dice_required": {"type": "d20", "modifier_stat": "str", "difficulty": 15, "damage_dice": "1d6"},
  "hint": "a short hint (1-2 sentences) about what the character's class makes possible",
  "consequences": {"success": "what happens if the roll succeeds", "failure": "what happens if it fails"},
  "xp_reward": 0,
  "gold_reward": 0,
  "ability": "id of a class ability the action spends, if any"
}
Omit "dice_required" (or set type to "none") when no roll is needed.
Omit "ability" unless the action uses one of the character's listed abilities.
Do not wrap the JSON in markdown fences or add any text around it.`

// BuildSystemPrompt renders the bounded system instruction embedding the
// character's full current state plus the recent narrative context and the
// fixed output schema.
func BuildSystemPrompt(c *character.Character, cat *catalog.Catalog, recentContext string) string {
	var b strings.Builder

	b.WriteString("You are the game master of a tabletop RPG adventure. The player's character:\n")
	className := c.Class
	if cl, ok := cat.Class(c.Class); ok {
		className = cl.Name
	}
	fmt.Fprintf(&b, "- Name: %s\n", c.Name)
	fmt.Fprintf(&b, "- Class: %s\n", className)
	fmt.Fprintf(&b, "- Level: %d\n", c.Level)
	fmt.Fprintf(&b, "- HP: %d/%d\n", c.CurrentHP, c.MaxHP)
	fmt.Fprintf(&b, "- MP: %d/%d\n", c.CurrentMP, c.MaxMP)
	fmt.Fprintf(&b, "- Attributes: STR:%d(%+d) DEX:%d(%+d) CON:%d(%+d) INT:%d(%+d) WIS:%d(%+d) CHA:%d(%+d)\n",
		c.Attributes.Strength, dice.ModifierFor(c.Attributes.Strength),
		c.Attributes.Dexterity, dice.ModifierFor(c.Attributes.Dexterity),
		c.Attributes.Constitution, dice.ModifierFor(c.Attributes.Constitution),
		c.Attributes.Intelligence, dice.ModifierFor(c.Attributes.Intelligence),
		c.Attributes.Wisdom, dice.ModifierFor(c.Attributes.Wisdom),
		c.Attributes.Charisma, dice.ModifierFor(c.Attributes.Charisma),
	)
	fmt.Fprintf(&b, "- Experience: %d, Gold: %d\n", c.Experience, c.Gold)
	fmt.Fprintf(&b, "- Inventory: %s\n", inventoryLine(c, cat))
	if abilities := classAbilities(c, cat); abilities != "" {
		fmt.Fprintf(&b, "- Class abilities: %s\n", abilities)
	}

	if ctx := strings.TrimSpace(recentContext); ctx != "" {
		b.WriteString("\nRecent events:\n")
		b.WriteString(ctx)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(responseSchema)
	return b.String()
}

func inventoryLine(c *character.Character, cat *catalog.Catalog) string {
	if len(c.Inventory) == 0 {
		return "empty"
	}
	parts := make([]string, 0, len(c.Inventory))
	for _, s := range c.Inventory {
		name := s.ItemID
		if item, ok := cat.Item(s.ItemID); ok {
			name = item.Name
		}
		if s.Quantity > 1 {
			name = fmt.Sprintf("%s x%d", name, s.Quantity)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

func classAbilities(c *character.Character, cat *catalog.Catalog) string {
	cl, ok := cat.Class(c.Class)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(cl.Abilities))
	for _, id := range cl.Abilities {
		ab, ok := cat.Ability(id)
		if !ok {
			continue
		}
		desc := ab.ID
		var limits []string
		if ab.MPCost > 0 {
			limits = append(limits, fmt.Sprintf("%d MP", ab.MPCost))
		}
		if ab.UsesPerBattle > 0 {
			limits = append(limits, fmt.Sprintf("%d/battle", ab.UsesPerBattle))
		}
		if ab.UsesPerDay > 0 {
			limits = append(limits, fmt.Sprintf("%d/day", ab.UsesPerDay))
		}
		if len(limits) > 0 {
			desc = fmt.Sprintf("%s (%s)", ab.ID, strings.Join(limits, ", "))
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, ", ")
}
