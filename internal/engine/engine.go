// Package engine orchestrates one player action end to end: arbiter
// decision, ability ledger gating, dice or combat execution, and outcome
// application through the persistence collaborator.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/amelnychuk/fableforge/internal/game/ability"
	"github.com/amelnychuk/fableforge/internal/game/arbiter"
	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
	"github.com/amelnychuk/fableforge/internal/game/combat"
	"github.com/amelnychuk/fableforge/internal/game/dice"
)

// Store is the persistence collaborator boundary. The engine never assumes a
// write succeeded beyond the snapshot the store hands back.
type Store interface {
	GetCharacter(ctx context.Context, id string) (*character.Character, error)
	CreateCharacter(ctx context.Context, id, name string, class *catalog.Class) (*character.Character, error)
	UpdateCharacter(ctx context.Context, id string, deltas character.Deltas) (*character.Character, error)
}

// ErrUnknownClass is returned when character creation names a class the
// catalog does not know.
var ErrUnknownClass = errors.New("unknown class")

// ActionOutcome is the final result of resolving one player action, handed
// to the presentation collaborator.
type ActionOutcome struct {
	Decision arbiter.Decision
	// Narrative is the text to show: the decision narrative plus the
	// consequence branch selected by the roll, if one was required.
	Narrative string
	// Roll is the executed roll; nil when the decision required none.
	Roll *dice.RollResult
	// RollSuccess is the difficulty comparison result; true when no roll was
	// required.
	RollSuccess bool
	// Attack is set when the roll was resolved as a combat exchange.
	Attack *combat.AttackOutcome
	// AbilityEffect is the evaluated effect of the ability the decision
	// referenced, when the ledger allowed it.
	AbilityEffect *ability.EffectResult
	// AbilityBlocked is true when the decision referenced a limited ability
	// the character had exhausted (or could not afford); the action resolves
	// without the ability.
	AbilityBlocked bool
	// Deltas is what was applied to the character.
	Deltas character.Deltas
	// Character is the post-update snapshot.
	Character *character.Character
}

// Engine wires the arbiter, resolver, ledger, and store together. It
// serializes actions per character, so ledger check-then-record and the
// read-modify-write of character state behave as one logical transaction.
type Engine struct {
	store    Store
	arb      *arbiter.Arbiter
	resolver *combat.Resolver
	ledger   *ability.Ledger
	catalog  *catalog.Catalog
	src      dice.Source
	roller   *dice.Roller
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs an Engine.
//
// Precondition: all collaborators must be non-nil.
func New(store Store, arb *arbiter.Arbiter, resolver *combat.Resolver, ledger *ability.Ledger, cat *catalog.Catalog, src dice.Source, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		arb:      arb,
		resolver: resolver,
		ledger:   ledger,
		catalog:  cat,
		src:      src,
		roller:   dice.NewLoggedRoller(src, logger),
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor returns the per-character mutex, creating it on first use.
func (e *Engine) lockFor(characterID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[characterID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[characterID] = l
	}
	return l
}

// CreateCharacter creates a new character of the named class.
//
// Postcondition: returns ErrUnknownClass when classID is not in the catalog.
func (e *Engine) CreateCharacter(ctx context.Context, id, name, classID string) (*character.Character, error) {
	class, ok := e.catalog.Class(classID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, classID)
	}
	return e.store.CreateCharacter(ctx, id, name, class)
}

// ResolveAction resolves one free-form player intent: one oracle decision,
// at most one ledger transition, at most one roll, and one state update.
//
// The returned error covers store failures only; oracle trouble degrades to
// the fallback decision inside the arbiter and still yields an outcome.
func (e *Engine) ResolveAction(ctx context.Context, characterID, intent, recentContext string) (*ActionOutcome, error) {
	lock := e.lockFor(characterID)
	lock.Lock()
	defer lock.Unlock()

	c, err := e.store.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("fetching character: %w", err)
	}

	turn := arbiter.NewTurn(characterID, intent)
	if err := turn.Begin(); err != nil {
		return nil, err
	}
	decision := e.arb.Decide(ctx, c, intent, recentContext)
	if err := turn.Deliver(decision); err != nil {
		return nil, err
	}

	outcome := &ActionOutcome{Decision: decision, Narrative: decision.Narrative}
	var deltas character.Deltas

	e.applyAbility(c, decision, outcome, &deltas)

	if turn.State() == arbiter.StateAwaitingRoll {
		roll := e.executeRoll(c, decision, outcome)
		if err := turn.CompleteRoll(roll); err != nil {
			return nil, err
		}
		outcome.Roll = turn.Roll()
		if turn.Success() {
			if decision.Consequences.Success != "" {
				outcome.Narrative += "\n" + decision.Consequences.Success
			}
		} else if decision.Consequences.Failure != "" {
			outcome.Narrative += "\n" + decision.Consequences.Failure
		}
	}
	outcome.RollSuccess = turn.Success()

	// Rewards are earned outcomes: granted when no roll was demanded, or
	// when the demanded roll succeeded.
	if turn.Success() {
		deltas.XP += decision.XPReward
		deltas.Gold += decision.GoldReward
	}

	outcome.Deltas = deltas
	outcome.Character = c
	if !deltas.IsZero() {
		updated, err := e.store.UpdateCharacter(ctx, characterID, deltas)
		if err != nil {
			return nil, fmt.Errorf("applying outcome: %w", err)
		}
		outcome.Character = updated
	}

	e.logger.Info("action resolved",
		zap.String("character", characterID),
		zap.String("state", turn.State().String()),
		zap.Bool("fallback", decision.Fallback),
		zap.Bool("success", turn.Success()),
	)
	return outcome, nil
}

// applyAbility gates a decision's ability reference through the ledger,
// charges MP, and evaluates the effect. A blocked or unaffordable ability
// leaves the action to resolve without it.
func (e *Engine) applyAbility(c *character.Character, decision arbiter.Decision, outcome *ActionOutcome, deltas *character.Deltas) {
	if decision.AbilityID == "" {
		return
	}
	ab, ok := e.catalog.Ability(decision.AbilityID)
	if !ok {
		// The arbiter filters unknown references; a miss here means the
		// catalog changed under us. Treat as blocked.
		outcome.AbilityBlocked = true
		return
	}

	canUse, err := e.ledger.CanUse(c.ID, ab.ID)
	if err != nil || !canUse || c.CurrentMP < ab.MPCost {
		outcome.AbilityBlocked = true
		return
	}
	if err := e.ledger.RecordUse(c.ID, ab.ID); err != nil {
		outcome.AbilityBlocked = true
		return
	}

	deltas.MP -= ab.MPCost

	effect, err := ability.EvaluateEffect(ab, c, e.src)
	if err != nil {
		e.logger.Warn("ability effect evaluation failed",
			zap.String("ability", ab.ID),
			zap.Error(err))
		return
	}
	outcome.AbilityEffect = &effect
	if effect.Kind == ability.EffectHeal {
		deltas.HP += effect.Amount
	}
}

// executeRoll performs the roll a decision demands. A requirement carrying
// damage dice is an attack: it resolves through the combat resolver against
// the decision's difficulty, using the character's carried weapon. Anything
// else is a plain check: the declared die plus the governing attribute
// modifier.
func (e *Engine) executeRoll(c *character.Character, decision arbiter.Decision, outcome *ActionOutcome) dice.RollResult {
	req := decision.Dice

	if req.DamageDice != "" {
		attack := e.resolver.ResolveAttack(c, req.Difficulty, e.carriedWeapon(c))
		outcome.Attack = &attack
		return dice.RollResult{
			Expression: "1d20",
			Dice:       []int{attack.AttackRoll},
			Modifier:   attack.AttackTotal - attack.AttackRoll,
		}
	}

	expr, err := dice.Parse(req.Type)
	if err != nil {
		// Normalization upstream keeps this unreachable for oracle input,
		// but degrade to a d20 rather than fail the turn.
		expr = dice.MustParse("d20")
	}
	if score, ok := c.Attributes.Score(req.ModifierStat); ok {
		expr.Modifier += dice.ModifierFor(score)
	}
	return e.roller.Roll(expr)
}

// carriedWeapon picks the first weapon the character actually holds, or ""
// for the unarmed fallback. Depleted stacks do not count.
func (e *Engine) carriedWeapon(c *character.Character) string {
	for _, s := range c.Inventory {
		if !c.HasItem(s.ItemID) {
			continue
		}
		if item, ok := e.catalog.Item(s.ItemID); ok && item.IsWeapon() {
			return item.ID
		}
	}
	return ""
}

// ResolveAttack performs an explicit attack exchange outside the arbiter
// flow and applies nothing; the caller owns target HP bookkeeping.
func (e *Engine) ResolveAttack(ctx context.Context, characterID string, targetDefense int, weaponID string) (*combat.AttackOutcome, error) {
	c, err := e.store.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("fetching character: %w", err)
	}
	attack := e.resolver.ResolveAttack(c, targetDefense, weaponID)
	return &attack, nil
}

// EndBattle clears the character's per-battle ability counters. Driven by
// the narrative layer's battle-end signal, never by the clock.
func (e *Engine) EndBattle(characterID string) {
	lock := e.lockFor(characterID)
	lock.Lock()
	defer lock.Unlock()
	e.ledger.ResetScope(characterID, ability.ScopeBattle)
}

// NewDay clears the character's per-day ability counters.
func (e *Engine) NewDay(characterID string) {
	lock := e.lockFor(characterID)
	lock.Lock()
	defer lock.Unlock()
	e.ledger.ResetScope(characterID, ability.ScopeDay)
}
