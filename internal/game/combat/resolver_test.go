package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
	"github.com/amelnychuk/fableforge/internal/game/combat"
	"github.com/amelnychuk/fableforge/internal/game/dice"
)

// seqSource returns scripted values in order, repeating the last one.
// Values are the zero-based Intn results, so a desired die face f is f-1.
type seqSource struct {
	values []int
	next   int
}

func (s *seqSource) Intn(n int) int {
	v := s.values[s.next]
	if s.next < len(s.values)-1 {
		s.next++
	}
	if v >= n {
		v = n - 1
	}
	return v
}

func armory(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(nil, []*catalog.Item{
		{ID: "sword", Name: "Iron Sword", Kind: catalog.KindWeapon, DamageDice: "1d8"},
		{ID: "dagger", Name: "Dagger", Kind: catalog.KindWeapon, DamageDice: "1d4"},
		{ID: "bow", Name: "Short Bow", Kind: catalog.KindWeapon, DamageDice: "1d6", Ranged: true},
		{ID: "shield", Name: "Shield", Kind: catalog.KindArmor, Defense: 2},
	}, nil)
	require.NoError(t, err)
	return cat
}

func fighter() *character.Character {
	return &character.Character{
		ID: "alice", Name: "Alice",
		Attributes: character.Attributes{Strength: 16, Dexterity: 14},
	}
}

func newResolver(t *testing.T, src dice.Source) *combat.Resolver {
	t.Helper()
	return combat.NewResolver(armory(t), src, zaptest.NewLogger(t))
}

func TestResolveAttack_MeleeHit(t *testing.T) {
	// d20 face 12 + STR mod 3 = 15 vs defense 15: meets it, beats it.
	// Damage d8 face 5 + mod 3 = 8.
	r := newResolver(t, &seqSource{values: []int{11, 4}})

	out := r.ResolveAttack(fighter(), 15, "sword")
	assert.True(t, out.Hit)
	assert.Equal(t, 12, out.AttackRoll)
	assert.Equal(t, 15, out.AttackTotal)
	assert.Equal(t, 8, out.Damage)
	assert.False(t, out.Critical)
	assert.Equal(t, "sword", out.WeaponID)
	require.NotNil(t, out.DamageRoll)
	assert.Equal(t, []int{5}, out.DamageRoll.Dice)
}

func TestResolveAttack_DaggerScenario(t *testing.T) {
	// STR 12 -> mod 1. d20 face 15 + 1 = 16 vs defense 14: hit.
	// Damage d4 face 2 + 1 = 3.
	c := fighter()
	c.Attributes.Strength = 12
	r := newResolver(t, &seqSource{values: []int{14, 1}})

	out := r.ResolveAttack(c, 14, "dagger")
	assert.True(t, out.Hit)
	assert.Equal(t, 15, out.AttackRoll)
	assert.Equal(t, 16, out.AttackTotal)
	assert.Equal(t, 3, out.Damage)
	assert.False(t, out.Critical)
}

func TestResolveAttack_Miss(t *testing.T) {
	// d20 face 11 + STR mod 1 = 12 vs defense 14: miss.
	c := fighter()
	c.Attributes.Strength = 12
	r := newResolver(t, &seqSource{values: []int{10}})

	out := r.ResolveAttack(c, 14, "dagger")
	assert.False(t, out.Hit)
	assert.Equal(t, 12, out.AttackTotal)
	assert.Zero(t, out.Damage)
	assert.Nil(t, out.DamageRoll)
}

func TestResolveAttack_NaturalTwentyIsCritical(t *testing.T) {
	r := newResolver(t, &seqSource{values: []int{19, 3}})

	out := r.ResolveAttack(fighter(), 30, "sword")
	assert.True(t, out.Critical)
	assert.False(t, out.Hit, "a natural 20 is flagged but does not auto-hit")
	assert.Zero(t, out.Damage)
}

func TestResolveAttack_CriticalDoesNotScaleDamage(t *testing.T) {
	// Face 20 crit, damage d8 face 4 + mod 3 = 7, no multiplier.
	r := newResolver(t, &seqSource{values: []int{19, 3}})

	out := r.ResolveAttack(fighter(), 10, "sword")
	assert.True(t, out.Critical)
	assert.Equal(t, 7, out.Damage)
}

func TestResolveAttack_RangedUsesDexAndNoDamageModifier(t *testing.T) {
	// DEX 14 -> mod 2. d20 face 10 + 2 = 12 vs 12: hit.
	// Damage d6 face 3, no modifier added for ranged.
	r := newResolver(t, &seqSource{values: []int{9, 2}})

	out := r.ResolveAttack(fighter(), 12, "bow")
	assert.True(t, out.Hit)
	assert.Equal(t, 12, out.AttackTotal)
	assert.Equal(t, 3, out.Damage)
}

func TestResolveAttack_DamageFloorsAtOne(t *testing.T) {
	// STR 6 -> mod -2. Raw 18 + (-2) = 16 vs 10: hit.
	// Damage d4 face 1 + (-2) = -1, floored to 1.
	c := fighter()
	c.Attributes.Strength = 6
	r := newResolver(t, &seqSource{values: []int{17, 0}})

	out := r.ResolveAttack(c, 10, "dagger")
	assert.True(t, out.Hit)
	assert.Equal(t, 1, out.Damage)
}

func TestResolveAttack_UnknownWeaponDegradesToUnarmed(t *testing.T) {
	r := newResolver(t, &seqSource{values: []int{14, 2}})

	out := r.ResolveAttack(fighter(), 10, "vorpal_blade")
	assert.Equal(t, "unarmed", out.WeaponID)
	require.NotNil(t, out.DamageRoll)
	assert.Equal(t, "1d4", out.DamageRoll.Expression)
}

func TestResolveAttack_NonWeaponDegradesToUnarmed(t *testing.T) {
	r := newResolver(t, &seqSource{values: []int{14, 2}})

	out := r.ResolveAttack(fighter(), 10, "shield")
	assert.Equal(t, "unarmed", out.WeaponID)
}

func TestResolveAttack_EmptyWeaponIDIsUnarmed(t *testing.T) {
	r := newResolver(t, &seqSource{values: []int{14, 2}})

	out := r.ResolveAttack(fighter(), 10, "")
	assert.Equal(t, "unarmed", out.WeaponID)
}

func TestResolveAttack_HitIffTotalMeetsDefense(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		face := rapid.IntRange(1, 20).Draw(rt, "face")
		str := rapid.IntRange(1, 20).Draw(rt, "str")
		defense := rapid.IntRange(1, 30).Draw(rt, "defense")

		c := fighter()
		c.Attributes.Strength = str
		r := combat.NewResolver(armory(t), &seqSource{values: []int{face - 1, 0}}, zaptest.NewLogger(t))

		out := r.ResolveAttack(c, defense, "sword")
		wantTotal := face + dice.ModifierFor(str)
		if out.AttackTotal != wantTotal {
			rt.Fatalf("total = %d, want %d", out.AttackTotal, wantTotal)
		}
		if out.Hit != (wantTotal >= defense) {
			rt.Fatalf("hit = %v for total %d vs defense %d", out.Hit, wantTotal, defense)
		}
		if out.Hit && out.Damage < 1 {
			rt.Fatalf("hit dealt %d damage", out.Damage)
		}
		if out.Critical != (face == 20) {
			rt.Fatalf("critical = %v for face %d", out.Critical, face)
		}
	})
}
