package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterExists is returned when creating a character for an ID that
// already has one.
var ErrCharacterExists = errors.New("character already exists")

const characterColumns = `id, name, class, level,
	current_hp, max_hp, current_mp, max_mp,
	str, dex, con, intl, wis, cha,
	experience, gold, inventory, created_at, updated_at`

// CharacterRepository provides character persistence operations keyed by the
// chat platform's user ID.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given
// pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// GetCharacter retrieves a character by ID.
//
// Postcondition: returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1`, id)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// CreateCharacter builds a new level-1 character from the class definition
// and inserts it.
//
// Precondition: class must come from the catalog.
// Postcondition: returns the created character with timestamps set, or
// ErrCharacterExists on a duplicate ID.
func (r *CharacterRepository) CreateCharacter(ctx context.Context, id, name string, class *catalog.Class) (*character.Character, error) {
	c, err := character.Build(id, name, class)
	if err != nil {
		return nil, fmt.Errorf("building character: %w", err)
	}

	inv, err := json.Marshal(c.Inventory)
	if err != nil {
		return nil, fmt.Errorf("encoding inventory: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(id, name, class, level,
			 current_hp, max_hp, current_mp, max_mp,
			 str, dex, con, intl, wis, cha,
			 experience, gold, inventory)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING `+characterColumns,
		c.ID, c.Name, c.Class, c.Level,
		c.CurrentHP, c.MaxHP, c.CurrentMP, c.MaxMP,
		c.Attributes.Strength, c.Attributes.Dexterity, c.Attributes.Constitution,
		c.Attributes.Intelligence, c.Attributes.Wisdom, c.Attributes.Charisma,
		c.Experience, c.Gold, inv,
	)
	out, err := scanCharacter(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterExists
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// UpdateCharacter applies the given deltas to the stored character inside a
// transaction, clamping to the model invariants, and returns the updated
// snapshot. Callers must still re-fetch before trusting mutated state across
// process boundaries.
//
// Postcondition: returns ErrCharacterNotFound when the ID has no character.
func (r *CharacterRepository) UpdateCharacter(ctx context.Context, id string, deltas character.Deltas) (*character.Character, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1 FOR UPDATE`, id)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("locking character row: %w", err)
	}

	deltas.Apply(c)

	inv, err := json.Marshal(c.Inventory)
	if err != nil {
		return nil, fmt.Errorf("encoding inventory: %w", err)
	}

	row = tx.QueryRow(ctx, `
		UPDATE characters SET
			current_hp = $2, current_mp = $3,
			experience = $4, gold = $5, inventory = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+characterColumns,
		c.ID, c.CurrentHP, c.CurrentMP, c.Experience, c.Gold, inv,
	)
	out, err := scanCharacter(row)
	if err != nil {
		return nil, fmt.Errorf("updating character: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return out, nil
}

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	var inv []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.Class, &c.Level,
		&c.CurrentHP, &c.MaxHP, &c.CurrentMP, &c.MaxMP,
		&c.Attributes.Strength, &c.Attributes.Dexterity, &c.Attributes.Constitution,
		&c.Attributes.Intelligence, &c.Attributes.Wisdom, &c.Attributes.Charisma,
		&c.Experience, &c.Gold, &inv, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(inv) > 0 {
		if err := json.Unmarshal(inv, &c.Inventory); err != nil {
			return nil, fmt.Errorf("decoding inventory: %w", err)
		}
	}
	return &c, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 is PostgreSQL's unique_violation.
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
