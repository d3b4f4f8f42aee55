package repository_test

import (
	"testing"

	"github.com/gridrushinc/tictactoe-backend/internal/repository"
	"github.com/gridrushinc/tictactoe-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_SetGameID(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := repository.NewPlayerRepository(st.Storage)

	// When: a player is mapped to a game
	err := playerRepo.SetGameID(ctx, "player1", "123")

	// Then: the mapping can be read back
	require.NoError(t, err)

	gameID, err := playerRepo.GetGameID(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, "123", gameID)
}

func TestPlayerRepository_GetGameID_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := repository.NewPlayerRepository(st.Storage)

	// When: looking up a player with no mapping
	gameID, err := playerRepo.GetGameID(ctx, "nobody")

	// Then: an ErrPlayerNotFound error should be returned
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrPlayerNotFound)
	assert.Empty(t, gameID)
}

func TestPlayerRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := repository.NewPlayerRepository(st.Storage)

	// Given: an existing mapping
	err := playerRepo.SetGameID(ctx, "player1", "123")
	require.NoError(t, err)

	// When: the mapping is deleted
	err = playerRepo.DeleteByID(ctx, "player1")
	require.NoError(t, err)

	// Then: the player no longer maps to a game
	_, err = playerRepo.GetGameID(ctx, "player1")
	assert.ErrorIs(t, err, repository.ErrPlayerNotFound)
}
