// Package combat computes single attack exchanges: hit or miss, damage, and
// critical detection.
package combat

import (
	"go.uber.org/zap"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
	"github.com/amelnychuk/fableforge/internal/game/dice"
)

// AttackOutcome holds the result of a single attack exchange. It is
// ephemeral: produced per exchange and never persisted by the core.
type AttackOutcome struct {
	// Hit is true when the attack total meets or beats the target defense.
	Hit bool
	// AttackRoll is the raw d20 result before modifiers.
	AttackRoll int
	// AttackTotal is AttackRoll plus the governing attribute modifier.
	AttackTotal int
	// Damage is the final damage dealt: >= 1 on a hit, 0 on a miss.
	Damage int
	// Critical is true iff the natural d20 roll was 20. The flag does not
	// scale damage; bonus-damage rules are a deliberate extension point.
	Critical bool
	// WeaponID is the weapon actually used, after any fallback to unarmed.
	WeaponID string
	// DamageRoll carries the damage dice audit trail; nil on a miss.
	DamageRoll *dice.RollResult
}

// Resolver computes attack exchanges against the shared catalog and
// randomness source.
type Resolver struct {
	catalog *catalog.Catalog
	src     dice.Source
	logger  *zap.Logger
}

// NewResolver constructs a Resolver.
//
// Precondition: cat, src, and logger must be non-nil.
func NewResolver(cat *catalog.Catalog, src dice.Source, logger *zap.Logger) *Resolver {
	return &Resolver{catalog: cat, src: src, logger: logger}
}

// ResolveAttack performs one attack by attacker against a defense value
// using the named weapon.
//
// The governing attribute is DEX for ranged weapons and STR otherwise.
// Attack roll = 1d20 + attribute modifier; the attack hits iff the total
// meets or beats targetDefense. On a hit, damage is the weapon's dice roll,
// plus the attribute modifier for melee weapons only, floored at 1: any hit
// does at least token damage.
//
// An unknown weapon ID, a non-weapon item, or malformed catalog dice all
// degrade to the baseline unarmed profile. Bad catalog data is a
// configuration problem, never a runtime error surfaced to the player.
//
// Precondition: attacker must be non-nil.
func (r *Resolver) ResolveAttack(attacker *character.Character, targetDefense int, weaponID string) AttackOutcome {
	weapon := r.weaponOrUnarmed(weaponID)

	governing := attacker.Attributes.Strength
	if weapon.Ranged {
		governing = attacker.Attributes.Dexterity
	}
	mod := dice.ModifierFor(governing)

	raw := r.src.Intn(20) + 1
	total := raw + mod

	outcome := AttackOutcome{
		AttackRoll:  raw,
		AttackTotal: total,
		Critical:    raw == 20,
		Hit:         total >= targetDefense,
		WeaponID:    weapon.ID,
	}

	if outcome.Hit {
		roll := r.damageRoll(weapon)
		damage := roll.Total()
		if !weapon.Ranged {
			// Melee weapons add the attribute modifier to damage; ranged do not.
			damage += mod
		}
		if damage < 1 {
			damage = 1
		}
		outcome.Damage = damage
		outcome.DamageRoll = &roll
	}

	r.logger.Debug("attack resolved",
		zap.String("attacker", attacker.ID),
		zap.String("weapon", weapon.ID),
		zap.Int("defense", targetDefense),
		zap.Int("raw", raw),
		zap.Int("total", total),
		zap.Bool("hit", outcome.Hit),
		zap.Bool("critical", outcome.Critical),
		zap.Int("damage", outcome.Damage),
	)
	return outcome
}

// weaponOrUnarmed resolves weaponID to a usable weapon definition, falling
// back to the unarmed baseline when the lookup misses or yields a non-weapon.
func (r *Resolver) weaponOrUnarmed(weaponID string) *catalog.Item {
	item, ok := r.catalog.Item(weaponID)
	if !ok || !item.IsWeapon() {
		if weaponID != "" {
			r.logger.Warn("unknown or non-weapon item, using unarmed profile",
				zap.String("weapon_id", weaponID))
		}
		return r.catalog.Unarmed()
	}
	return item
}

// damageRoll evaluates the weapon's damage dice, degrading to the unarmed
// profile's dice if the catalog entry is malformed.
func (r *Resolver) damageRoll(weapon *catalog.Item) dice.RollResult {
	roll, err := dice.RollExpr(weapon.DamageDice, r.src)
	if err != nil {
		r.logger.Warn("malformed weapon damage dice, using unarmed profile",
			zap.String("weapon_id", weapon.ID),
			zap.String("damage_dice", weapon.DamageDice),
			zap.Error(err))
		return dice.Roll(dice.MustParse(r.catalog.Unarmed().DamageDice), r.src)
	}
	return roll
}
