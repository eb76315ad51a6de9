// Package memory provides an in-memory character store with the same
// surface as the Postgres repository. It backs tests and database-less dev
// runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
	"github.com/amelnychuk/fableforge/internal/storage/postgres"
)

// Store keeps characters in a map guarded by a mutex. All returned values
// are deep copies, matching the snapshot semantics of the real repository.
type Store struct {
	mu         sync.Mutex
	characters map[string]*character.Character
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{characters: make(map[string]*character.Character)}
}

// GetCharacter retrieves a character snapshot by ID.
//
// Postcondition: returns postgres.ErrCharacterNotFound on a miss, mirroring
// the repository contract.
func (s *Store) GetCharacter(_ context.Context, id string) (*character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.characters[id]
	if !ok {
		return nil, postgres.ErrCharacterNotFound
	}
	return c.Clone(), nil
}

// CreateCharacter builds a new level-1 character from the class definition
// and stores it.
func (s *Store) CreateCharacter(_ context.Context, id, name string, class *catalog.Class) (*character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.characters[id]; exists {
		return nil, postgres.ErrCharacterExists
	}

	c, err := character.Build(id, name, class)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.characters[id] = c
	return c.Clone(), nil
}

// UpdateCharacter applies deltas to the stored character and returns the
// updated snapshot.
func (s *Store) UpdateCharacter(_ context.Context, id string, deltas character.Deltas) (*character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.characters[id]
	if !ok {
		return nil, postgres.ErrCharacterNotFound
	}
	deltas.Apply(c)
	c.UpdatedAt = time.Now()
	return c.Clone(), nil
}
