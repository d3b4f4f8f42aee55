package repository_test

import (
	"testing"

	"github.com/gridrushinc/tictactoe-backend/internal/entity"
	"github.com/gridrushinc/tictactoe-backend/internal/repository"
	"github.com/gridrushinc/tictactoe-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := repository.NewGameRepository(st.Storage)

	// Given: an open game with one player
	game := entity.NewGame("123", "player1")

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: no error should be returned, and the game is stored
	require.NoError(t, err)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := repository.NewGameRepository(st.Storage)

		// Given: a stored game with a mark on the grid
		game := entity.NewGame("123", "player1")
		game.Activate("player1", "player2")
		game.State.Grid[0][0] = entity.MarkX

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		require.Equal(t, game.ID, retrievedGame.ID)
		require.Equal(t, game.Players, retrievedGame.Players)
		require.Equal(t, game.State, retrievedGame.State)
		require.Equal(t, game.Status, retrievedGame.Status)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := repository.NewGameRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := repository.NewGameRepository(st.Storage)

	// Given: a stored game
	game := entity.NewGame("123", "player1")

	err := gameRepo.CreateOrUpdate(ctx, game)
	require.NoError(t, err)

	// When: DeleteByID is called with the existing ID
	err = gameRepo.DeleteByID(ctx, game.ID)

	// Then: the game should no longer be retrievable
	require.NoError(t, err)

	_, err = gameRepo.GetByID(ctx, game.ID)
	assert.ErrorIs(t, err, repository.ErrGameNotFound)
}
