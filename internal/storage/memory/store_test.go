package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amelnychuk/fableforge/internal/game/catalog"
	"github.com/amelnychuk/fableforge/internal/game/character"
	"github.com/amelnychuk/fableforge/internal/storage/memory"
	"github.com/amelnychuk/fableforge/internal/storage/postgres"
)

func knightClass() *catalog.Class {
	return &catalog.Class{
		ID: "knight", Name: "Knight",
		HitPoints: 14,
		Attributes: catalog.BaseAttributes{
			Strength: 16, Dexterity: 10, Constitution: 14,
			Intelligence: 8, Wisdom: 10, Charisma: 12,
		},
		StartingGold:  15,
		StartingItems: []string{"sword"},
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	created, err := s.CreateCharacter(ctx, "user-1", "Aldric", knightClass())
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetCharacter(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Aldric", got.Name)
	assert.Equal(t, 14, got.CurrentHP)
}

func TestStore_GetMissing(t *testing.T) {
	s := memory.NewStore()
	_, err := s.GetCharacter(context.Background(), "ghost")
	require.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, err := s.CreateCharacter(ctx, "user-1", "Aldric", knightClass())
	require.NoError(t, err)
	_, err = s.CreateCharacter(ctx, "user-1", "Brom", knightClass())
	require.ErrorIs(t, err, postgres.ErrCharacterExists)
}

func TestStore_UpdateAppliesDeltas(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, err := s.CreateCharacter(ctx, "user-1", "Aldric", knightClass())
	require.NoError(t, err)

	updated, err := s.UpdateCharacter(ctx, "user-1", character.Deltas{
		HP: -5, XP: 10, Gold: -3,
		AddItems: []character.ItemStack{{ItemID: "rope", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.CurrentHP)
	assert.Equal(t, 10, updated.Experience)
	assert.Equal(t, 12, updated.Gold)
	assert.Len(t, updated.Inventory, 2)

	_, err = s.UpdateCharacter(ctx, "ghost", character.Deltas{XP: 1})
	require.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestStore_SnapshotsDoNotAlias(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, err := s.CreateCharacter(ctx, "user-1", "Aldric", knightClass())
	require.NoError(t, err)

	snap, err := s.GetCharacter(ctx, "user-1")
	require.NoError(t, err)
	snap.Inventory[0].Quantity = 99
	snap.Gold = 0

	fresh, err := s.GetCharacter(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Inventory[0].Quantity)
	assert.Equal(t, 15, fresh.Gold)
}
