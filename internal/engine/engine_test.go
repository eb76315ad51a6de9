package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amelnychuk/fableforge/internal/engine"
	"github.com/amelnychuk/fableforge/internal/game/ability"
	"github.com/amelnychuk/fableforge/internal/game/arbiter"
	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
	"github.com/amelnychuk/fableforge/internal/game/combat"
	"github.com/amelnychuk/fableforge/internal/game/dice"
	"github.com/amelnychuk/fableforge/internal/storage/memory"
	"github.com/amelnychuk/fableforge/internal/storage/postgres"
)

// scriptedOracle replays canned responses in order, repeating the last one.
type scriptedOracle struct {
	responses []string
	next      int
	err       error
}

func (o *scriptedOracle) Complete(_ context.Context, _, _ string) (string, error) {
	if o.err != nil {
		return "", o.err
	}
	r := o.responses[o.next]
	if o.next < len(o.responses)-1 {
		o.next++
	}
	return r, nil
}

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

type fixture struct {
	engine *engine.Engine
	store  *memory.Store
}

func newFixture(t *testing.T, oracle arbiter.Oracle, src dice.Source) *fixture {
	t.Helper()
	cat := catalog.Default()
	logger := zaptest.NewLogger(t)
	arb := arbiter.New(oracle, cat, time.Second, logger)
	resolver := combat.NewResolver(cat, src, logger)
	ledger := ability.NewLedger(cat)
	store := memory.NewStore()
	return &fixture{
		engine: engine.New(store, arb, resolver, ledger, cat, src, logger),
		store:  store,
	}
}

func TestCreateCharacter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &scriptedOracle{responses: []string{""}}, &seqSource{values: []int{0}})

	c, err := f.engine.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)
	assert.Equal(t, "knight", c.Class)
	assert.Equal(t, 1, c.Level)
	assert.True(t, c.HasItem("sword"))

	_, err = f.engine.CreateCharacter(ctx, "user-2", "Nobody", "bard")
	require.ErrorIs(t, err, engine.ErrUnknownClass)
}

func TestResolveAction_NoRollNeeded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &scriptedOracle{responses: []string{
		`{"main_response": "The innkeeper nods and pours you an ale.", "xp_reward": 2}`,
	}}, &seqSource{values: []int{0}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)

	out, err := f.engine.ResolveAction(ctx, "user-1", "order a drink", "")
	require.NoError(t, err)

	assert.Equal(t, "The innkeeper nods and pours you an ale.", out.Narrative)
	assert.Nil(t, out.Roll)
	assert.True(t, out.RollSuccess)
	assert.Equal(t, 2, out.Deltas.XP)
	assert.Equal(t, 2, out.Character.Experience)
}

func TestResolveAction_CheckSucceeds(t *testing.T) {
	ctx := context.Background()
	// Knight DEX 10 -> mod 0. d20 face 15 vs difficulty 14: success.
	f := newFixture(t, &scriptedOracle{responses: []string{`{
		"main_response": "The wall is slick with moss.",
		"action_type": "complex",
		"dice_required": {"type": "d20", "modifier_stat": "dex", "difficulty": 14},
		"consequences": {"success": "You haul yourself over the top.", "failure": "You slide back down."},
		"xp_reward": 10,
		"gold_reward": 0
	}`}}, &seqSource{values: []int{14}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)

	out, err := f.engine.ResolveAction(ctx, "user-1", "climb the wall", "")
	require.NoError(t, err)

	require.NotNil(t, out.Roll)
	assert.Equal(t, 15, out.Roll.Total())
	assert.True(t, out.RollSuccess)
	assert.Contains(t, out.Narrative, "You haul yourself over the top.")
	assert.NotContains(t, out.Narrative, "slide back down")
	assert.Equal(t, 10, out.Character.Experience)
}

func TestResolveAction_CheckFailsNoRewards(t *testing.T) {
	ctx := context.Background()
	// Face 8 + DEX mod 0 = 8 vs 14: failure.
	f := newFixture(t, &scriptedOracle{responses: []string{`{
		"main_response": "The wall is slick with moss.",
		"dice_required": {"type": "d20", "modifier_stat": "dex", "difficulty": 14},
		"consequences": {"success": "Over you go.", "failure": "You slide back down."},
		"xp_reward": 10,
		"gold_reward": 5
	}`}}, &seqSource{values: []int{7}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)

	out, err := f.engine.ResolveAction(ctx, "user-1", "climb the wall", "")
	require.NoError(t, err)

	assert.False(t, out.RollSuccess)
	assert.Contains(t, out.Narrative, "You slide back down.")
	assert.Zero(t, out.Character.Experience)
	assert.Equal(t, 15, out.Character.Gold, "starting gold untouched on failure")
}

func TestResolveAction_AttackUsesCarriedWeapon(t *testing.T) {
	ctx := context.Background()
	// Knight STR 16 -> mod 3. d20 face 12 + 3 = 15 vs difficulty 14: hit.
	// Sword d8 face 5 + 3 = 8 damage.
	f := newFixture(t, &scriptedOracle{responses: []string{`{
		"main_response": "The goblin snarls and raises its club.",
		"action_type": "complex",
		"dice_required": {"type": "d20", "modifier_stat": "str", "difficulty": 14, "damage_dice": "1d6"},
		"consequences": {"success": "Your blade bites deep.", "failure": "The goblin ducks away."},
		"xp_reward": 25
	}`}}, &seqSource{values: []int{11, 4}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)

	out, err := f.engine.ResolveAction(ctx, "user-1", "attack the goblin", "")
	require.NoError(t, err)

	require.NotNil(t, out.Attack)
	assert.True(t, out.Attack.Hit)
	assert.Equal(t, "sword", out.Attack.WeaponID)
	assert.Equal(t, 8, out.Attack.Damage)
	assert.True(t, out.RollSuccess)
	require.NotNil(t, out.Roll)
	assert.Equal(t, 15, out.Roll.Total())
	assert.Contains(t, out.Narrative, "Your blade bites deep.")
	assert.Equal(t, 25, out.Character.Experience)
}

func TestResolveAction_DepletedWeaponStackIgnored(t *testing.T) {
	ctx := context.Background()
	// Knight STR 16 -> mod 3. d20 face 12 + 3 = 15 vs difficulty 14: hit.
	// With the sword stack depleted, the dagger is the carried weapon:
	// d4 face 2 + 3 = 5 damage.
	f := newFixture(t, &scriptedOracle{responses: []string{`{
		"main_response": "The goblin snarls and raises its club.",
		"action_type": "complex",
		"dice_required": {"type": "d20", "modifier_stat": "str", "difficulty": 14, "damage_dice": "1d6"},
		"consequences": {"success": "Your blade bites deep.", "failure": "The goblin ducks away."}
	}`}}, &seqSource{values: []int{11, 1}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)
	_, err = f.store.UpdateCharacter(ctx, "user-1", character.Deltas{
		AddItems: []character.ItemStack{{ItemID: "sword", Quantity: -1}, {ItemID: "dagger", Quantity: 1}},
	})
	require.NoError(t, err)

	out, err := f.engine.ResolveAction(ctx, "user-1", "attack the goblin", "")
	require.NoError(t, err)

	require.NotNil(t, out.Attack)
	assert.Equal(t, "dagger", out.Attack.WeaponID)
	assert.True(t, out.Attack.Hit)
	assert.Equal(t, 5, out.Attack.Damage)
}

func TestResolveAction_CheckRollIsAudited(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	cat := catalog.Default()
	src := &seqSource{values: []int{14}}
	// Knight DEX 10 -> mod 0. d20 face 15 vs difficulty 14: success.
	oracle := &scriptedOracle{responses: []string{`{
		"main_response": "The wall is slick with moss.",
		"action_type": "complex",
		"dice_required": {"type": "d20", "modifier_stat": "dex", "difficulty": 14},
		"consequences": {"success": "You haul yourself over the top.", "failure": "You slide back down."}
	}`}}
	store := memory.NewStore()
	eng := engine.New(store, arbiter.New(oracle, cat, time.Second, logger),
		combat.NewResolver(cat, src, logger), ability.NewLedger(cat), cat, src, logger)

	_, err := eng.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)
	out, err := eng.ResolveAction(ctx, "user-1", "climb the wall", "")
	require.NoError(t, err)
	require.NotNil(t, out.Roll)

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1, "skill checks leave a roll audit record")
	fields := entries[0].ContextMap()
	assert.Equal(t, "d20", fields["expression"])
	assert.EqualValues(t, 15, fields["total"])
}

func TestResolveAction_LimitedAbilityCycle(t *testing.T) {
	ctx := context.Background()
	response := `{
		"main_response": "You vanish into the shadows and strike.",
		"dice_required": {"type": "d20", "modifier_stat": "dex", "difficulty": 10},
		"ability": "sneak_attack"
	}`
	f := newFixture(t, &scriptedOracle{responses: []string{response}}, &seqSource{values: []int{15}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Silas", "thief")
	require.NoError(t, err)

	// First use: thief DEX 16, script floor(16/2)+3 = 11.
	out, err := f.engine.ResolveAction(ctx, "user-1", "sneak attack the guard", "")
	require.NoError(t, err)
	assert.False(t, out.AbilityBlocked)
	require.NotNil(t, out.AbilityEffect)
	assert.Equal(t, ability.EffectDamage, out.AbilityEffect.Kind)
	assert.Equal(t, 11, out.AbilityEffect.Amount)

	// Second use in the same battle: blocked, action still resolves.
	out, err = f.engine.ResolveAction(ctx, "user-1", "sneak attack again", "")
	require.NoError(t, err)
	assert.True(t, out.AbilityBlocked)
	assert.Nil(t, out.AbilityEffect)
	assert.NotEmpty(t, out.Narrative)

	// Battle end restores the use.
	f.engine.EndBattle("user-1")
	out, err = f.engine.ResolveAction(ctx, "user-1", "sneak attack once more", "")
	require.NoError(t, err)
	assert.False(t, out.AbilityBlocked)
}

func TestResolveAction_AbilityChargesMPAndHeals(t *testing.T) {
	ctx := context.Background()
	response := `{
		"main_response": "Warm light spreads from your hands.",
		"ability": "heal"
	}`
	// Heal 1d8+2: face 6 -> 8 HP restored.
	f := newFixture(t, &scriptedOracle{responses: []string{response}}, &seqSource{values: []int{5}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Mira", "cleric")
	require.NoError(t, err)

	// Wound the cleric first so the heal has room to apply.
	_, err = f.store.UpdateCharacter(ctx, "user-1", character.Deltas{HP: -9})
	require.NoError(t, err)

	before, err := f.store.GetCharacter(ctx, "user-1")
	require.NoError(t, err)

	out, err := f.engine.ResolveAction(ctx, "user-1", "cast heal on myself", "")
	require.NoError(t, err)

	require.NotNil(t, out.AbilityEffect)
	assert.Equal(t, ability.EffectHeal, out.AbilityEffect.Kind)
	assert.Negative(t, out.Deltas.MP)
	assert.Equal(t, before.CurrentHP+out.AbilityEffect.Amount, out.Character.CurrentHP)
	assert.Less(t, out.Character.CurrentMP, before.CurrentMP)
}

func TestResolveAction_OracleFailureDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &scriptedOracle{err: errors.New("boom")}, &seqSource{values: []int{0}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)

	out, err := f.engine.ResolveAction(ctx, "user-1", "do anything", "")
	require.NoError(t, err)

	assert.True(t, out.Decision.Fallback)
	assert.NotEmpty(t, out.Narrative)
	assert.Nil(t, out.Roll)
	assert.True(t, out.Deltas.IsZero(), "fallback must not change state")
	assert.Zero(t, out.Character.Experience)
}

func TestResolveAction_UnknownCharacter(t *testing.T) {
	f := newFixture(t, &scriptedOracle{responses: []string{""}}, &seqSource{values: []int{0}})

	_, err := f.engine.ResolveAction(context.Background(), "ghost", "wave", "")
	require.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestResolveAttack_Passthrough(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &scriptedOracle{responses: []string{""}}, &seqSource{values: []int{11, 4}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Aldric", "knight")
	require.NoError(t, err)

	attack, err := f.engine.ResolveAttack(ctx, "user-1", 14, "sword")
	require.NoError(t, err)
	assert.True(t, attack.Hit)
	assert.Equal(t, 8, attack.Damage)

	// No state was touched: attacks here are advisory.
	c, err := f.store.GetCharacter(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 14, c.CurrentHP)
}

func TestNewDay_RestoresDailyAbilities(t *testing.T) {
	ctx := context.Background()
	response := `{"main_response": "Blazing light floods the crypt.", "ability": "turn_undead"}`
	f := newFixture(t, &scriptedOracle{responses: []string{response}}, &seqSource{values: []int{5}})

	_, err := f.engine.CreateCharacter(ctx, "user-1", "Mira", "cleric")
	require.NoError(t, err)

	out, err := f.engine.ResolveAction(ctx, "user-1", "turn the skeletons", "")
	require.NoError(t, err)
	require.False(t, out.AbilityBlocked)
	require.NotNil(t, out.AbilityEffect)
	assert.Equal(t, ability.EffectTag, out.AbilityEffect.Kind)
	assert.Equal(t, "turn_undead", out.AbilityEffect.Tag)

	out, err = f.engine.ResolveAction(ctx, "user-1", "turn them again", "")
	require.NoError(t, err)
	assert.True(t, out.AbilityBlocked)

	f.engine.EndBattle("user-1")
	out, err = f.engine.ResolveAction(ctx, "user-1", "turn them once more", "")
	require.NoError(t, err)
	assert.True(t, out.AbilityBlocked, "battle end must not restore daily uses")

	f.engine.NewDay("user-1")
	out, err = f.engine.ResolveAction(ctx, "user-1", "a new dawn, a new turning", "")
	require.NoError(t, err)
	assert.False(t, out.AbilityBlocked)
}
