package arbiter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
)

// Oracle is the external narrative generator. It is treated as untrusted:
// the response may be malformed, late, or missing entirely, and the arbiter
// must absorb all of that.
type Oracle interface {
	// Complete sends one system instruction and one user message and returns
	// the raw textual response.
	Complete(ctx context.Context, system, user string) (string, error)
}

// DefaultOracleTimeout bounds the single oracle attempt when no timeout is
// configured.
const DefaultOracleTimeout = 30 * time.Second

// Arbiter builds oracle requests from character state, validates the
// response, and derives the player-facing decision.
type Arbiter struct {
	oracle  Oracle
	catalog *catalog.Catalog
	timeout time.Duration
	logger  *zap.Logger
}

// New constructs an Arbiter.
//
// Precondition: oracle, cat, and logger must be non-nil; timeout <= 0 uses
// DefaultOracleTimeout.
func New(oracle Oracle, cat *catalog.Catalog, timeout time.Duration, logger *zap.Logger) *Arbiter {
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	return &Arbiter{oracle: oracle, catalog: cat, timeout: timeout, logger: logger}
}

// Decide resolves one player intent into a Decision. It is total: whatever
// the oracle does (timeout, transport error, garbage output), the caller
// gets a usable decision — at worst the deterministic fallback.
//
// Exactly one oracle attempt is made per call; there is no retry or backoff.
// The configured timeout is the only cancellation mechanism for the call.
func (a *Arbiter) Decide(ctx context.Context, c *character.Character, intent, recentContext string) Decision {
	system := BuildSystemPrompt(c, a.catalog, recentContext)

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.oracle.Complete(callCtx, system, intent)
	if err != nil {
		a.logger.Warn("oracle call failed, using fallback decision",
			zap.String("character", c.ID),
			zap.Error(err))
		return FallbackDecision()
	}

	decision, err := Decode(raw)
	if err != nil {
		a.logger.Warn("oracle response unusable, using fallback decision",
			zap.String("character", c.ID),
			zap.Error(err))
		return FallbackDecision()
	}

	// An ability reference the catalog does not know is oracle noise; drop
	// it rather than let the ledger reject the whole action downstream.
	if decision.AbilityID != "" {
		if _, ok := a.catalog.Ability(decision.AbilityID); !ok {
			a.logger.Debug("oracle referenced unknown ability, ignoring",
				zap.String("ability", decision.AbilityID))
			decision.AbilityID = ""
		}
	}

	a.logger.Debug("decision derived",
		zap.String("character", c.ID),
		zap.String("action_type", string(decision.ActionType)),
		zap.String("dice", decision.Dice.Type),
		zap.Int("difficulty", decision.Dice.Difficulty),
		zap.Int("xp_reward", decision.XPReward),
		zap.Int("gold_reward", decision.GoldReward),
	)
	return decision
}
