// Package main runs the adventure engine with a line-based console front
// end: a stand-in for the real chat transport, which lives outside this
// repository.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/amelnychuk/fableforge/internal/config"
	"github.com/amelnychuk/fableforge/internal/engine"
	"github.com/amelnychuk/fableforge/internal/game/ability"
	"github.com/amelnychuk/fableforge/internal/game/arbiter"
	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/combat"
	"github.com/amelnychuk/fableforge/internal/game/dice"
	"github.com/amelnychuk/fableforge/internal/observability"
	"github.com/amelnychuk/fableforge/internal/oracle"
	"github.com/amelnychuk/fableforge/internal/storage/memory"
	"github.com/amelnychuk/fableforge/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerID := flag.String("player", "console", "player identifier")
	noDB := flag.Bool("no-db", false, "use the in-memory store instead of PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cat := catalog.Default()
	if cfg.Game.ContentDir != "" {
		cat, err = catalog.Load(cfg.Game.ContentDir)
		if err != nil {
			logger.Fatal("loading content", zap.String("dir", cfg.Game.ContentDir), zap.Error(err))
		}
	}

	var store engine.Store
	if *noDB {
		store = memory.NewStore()
		logger.Info("using in-memory store")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.NewCharacterRepository(pool.DB())
	}

	oracleClient, err := oracle.NewClient(cfg.Oracle)
	if err != nil {
		logger.Fatal("creating oracle client", zap.Error(err))
	}

	src := dice.NewCryptoSource()
	arb := arbiter.New(oracleClient, cat, cfg.Oracle.Timeout, logger)
	resolver := combat.NewResolver(cat, src, logger)
	ledger := ability.NewLedger(cat)
	eng := engine.New(store, arb, resolver, ledger, cat, src, logger)

	logger.Info("engine ready",
		zap.Strings("classes", cat.ClassIDs()),
		zap.Duration("startup", time.Since(start)),
	)

	runConsole(ctx, eng, store, *playerID)
}

// runConsole drives a minimal presentation loop. Commands:
//
//	/new <name> <class>  create a character
//	/sheet               show the character sheet
//	/endbattle           reset per-battle ability counters
//	/newday              reset per-day ability counters
//	/quit                exit
//
// Any other line is free-form intent resolved by the engine.
func runConsole(ctx context.Context, eng *engine.Engine, store engine.Store, playerID string) {
	scanner := bufio.NewScanner(os.Stdin)
	var recent []string

	fmt.Println("FableForge — type /new <name> <class> to begin, /quit to exit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return

		case strings.HasPrefix(line, "/new "):
			parts := strings.Fields(line)
			if len(parts) != 3 {
				fmt.Println("usage: /new <name> <class>")
				continue
			}
			c, err := eng.CreateCharacter(ctx, playerID, parts[1], parts[2])
			if err != nil {
				fmt.Printf("cannot create character: %v\n", err)
				continue
			}
			fmt.Printf("Welcome, %s the %s! HP %d/%d, MP %d/%d. Your adventure begins.\n",
				c.Name, c.Class, c.CurrentHP, c.MaxHP, c.CurrentMP, c.MaxMP)

		case line == "/sheet":
			c, err := store.GetCharacter(ctx, playerID)
			if err != nil {
				fmt.Printf("no character yet: %v\n", err)
				continue
			}
			fmt.Printf("%s (%s) lvl %d — HP %d/%d MP %d/%d XP %d Gold %d\n",
				c.Name, c.Class, c.Level, c.CurrentHP, c.MaxHP, c.CurrentMP, c.MaxMP, c.Experience, c.Gold)

		case line == "/endbattle":
			eng.EndBattle(playerID)
			fmt.Println("The dust settles; battle abilities recovered.")

		case line == "/newday":
			eng.NewDay(playerID)
			fmt.Println("A new day dawns; daily abilities recovered.")

		default:
			outcome, err := eng.ResolveAction(ctx, playerID, line, strings.Join(recent, "\n"))
			if err != nil {
				if errors.Is(err, postgres.ErrCharacterNotFound) {
					fmt.Println("create a character first: /new <name> <class>")
					continue
				}
				fmt.Printf("error: %v\n", err)
				continue
			}
			printOutcome(outcome)

			recent = append(recent, "Player: "+line, "GM: "+outcome.Decision.Narrative)
			if len(recent) > 10 {
				recent = recent[len(recent)-10:]
			}
		}
	}
}

func printOutcome(o *engine.ActionOutcome) {
	fmt.Println(o.Narrative)
	if o.Roll != nil {
		verdict := "failure"
		if o.RollSuccess {
			verdict = "success"
		}
		fmt.Printf("  roll: %s (%s, DC %d)\n", o.Roll, verdict, o.Decision.Dice.Difficulty)
	}
	if o.Attack != nil && o.Attack.Critical {
		fmt.Println("  critical hit!")
	}
	if o.AbilityBlocked {
		fmt.Println("  (that ability is spent — rest or end the battle to recover it)")
	}
	if o.Decision.Hint != "" {
		fmt.Printf("  hint: %s\n", o.Decision.Hint)
	}
	if d := o.Deltas; d.XP != 0 || d.Gold != 0 {
		fmt.Printf("  rewards: %+d XP, %+d gold\n", d.XP, d.Gold)
	}
}
