package tictactoe

import (
	"testing"

	"github.com/gridrushinc/tictactoe-backend/internal/apperror"
	"github.com/gridrushinc/tictactoe-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalMoves(t *testing.T) {
	t.Run("Empty grid has zero moves", func(t *testing.T) {
		// Given: an empty grid
		grid := entity.Grid{}

		// Then: no moves have been played
		assert.Equal(t, 0, TotalMoves(grid))
	})

	t.Run("Counts every non-empty cell", func(t *testing.T) {
		// Given: a grid with three marks
		grid := entity.Grid{
			{"x", "", ""},
			{"o", "", ""},
			{"", "", "x"},
		}

		// Then: three moves have been played
		assert.Equal(t, 3, TotalMoves(grid))
	})
}

func TestIsPlayersMove(t *testing.T) {
	t.Run("First player moves on an even move count", func(t *testing.T) {
		// Given: an empty grid
		grid := entity.Grid{}

		// Then: it is the first player's move and not the second's
		assert.True(t, IsPlayersMove(true, grid))
		assert.False(t, IsPlayersMove(false, grid))
	})

	t.Run("Second player moves on an odd move count", func(t *testing.T) {
		// Given: a grid with one move played
		grid := entity.Grid{{"x", "", ""}}

		// Then: it is the second player's move and not the first's
		assert.False(t, IsPlayersMove(true, grid))
		assert.True(t, IsPlayersMove(false, grid))
	})
}

func TestResult(t *testing.T) {
	t.Run("Returns winner on a completed top row", func(t *testing.T) {
		// Given: x holds the whole top row
		grid := entity.Grid{
			{"x", "x", "x"},
			{"o", "o", ""},
			{"", "", ""},
		}

		// Then: x wins
		assert.Equal(t, entity.MarkX, Result(grid))
	})

	t.Run("Returns winner on a completed column", func(t *testing.T) {
		// Given: o holds the left column
		grid := entity.Grid{
			{"o", "x", ""},
			{"o", "x", ""},
			{"o", "", "x"},
		}

		// Then: o wins
		assert.Equal(t, entity.MarkO, Result(grid))
	})

	t.Run("Returns winner on a diagonal", func(t *testing.T) {
		// Given: x holds the top-left to bottom-right diagonal
		grid := entity.Grid{
			{"x", "o", ""},
			{"o", "x", ""},
			{"", "", "x"},
		}

		// Then: x wins
		assert.Equal(t, entity.MarkX, Result(grid))
	})

	t.Run("Returns draw when the grid is full with no line", func(t *testing.T) {
		// Given: a full grid with no three-in-a-row
		grid := entity.Grid{
			{"x", "o", "x"},
			{"x", "o", "o"},
			{"o", "x", "x"},
		}

		// Then: the game is a draw
		assert.Equal(t, entity.ResultDraw, Result(grid))
	})

	t.Run("Returns no result while the game is ongoing", func(t *testing.T) {
		// Given: a partially played grid with no line
		grid := entity.Grid{
			{"x", "o", ""},
			{"", "x", ""},
			{"", "", ""},
		}

		// Then: there is no result yet
		assert.Equal(t, entity.ResultNone, Result(grid))
	})
}

func TestResultClasses(t *testing.T) {
	t.Run("Classifies the winning line", func(t *testing.T) {
		cases := []struct {
			name    string
			grid    entity.Grid
			classes []string
		}{
			{
				name: "top row",
				grid: entity.Grid{
					{"x", "x", "x"},
					{"o", "o", ""},
					{"", "", ""},
				},
				classes: []string{"horizontal", "top"},
			},
			{
				name: "middle row",
				grid: entity.Grid{
					{"o", "", "o"},
					{"x", "x", "x"},
					{"o", "", ""},
				},
				classes: []string{"horizontal", "middle"},
			},
			{
				name: "bottom row",
				grid: entity.Grid{
					{"x", "", "x"},
					{"x", "", ""},
					{"o", "o", "o"},
				},
				classes: []string{"horizontal", "bottom"},
			},
			{
				name: "left column",
				grid: entity.Grid{
					{"x", "o", ""},
					{"x", "o", ""},
					{"x", "", ""},
				},
				classes: []string{"vertical", "left"},
			},
			{
				name: "middle column",
				grid: entity.Grid{
					{"x", "o", ""},
					{"", "o", "x"},
					{"x", "o", ""},
				},
				classes: []string{"vertical", "middle"},
			},
			{
				name: "right column",
				grid: entity.Grid{
					{"o", "", "x"},
					{"", "o", "x"},
					{"", "o", "x"},
				},
				classes: []string{"vertical", "right"},
			},
			{
				name: "diagonal from top-left",
				grid: entity.Grid{
					{"x", "o", ""},
					{"o", "x", ""},
					{"", "", "x"},
				},
				classes: []string{"diagonal", "left"},
			},
			{
				name: "diagonal from bottom-left",
				grid: entity.Grid{
					{"x", "o", "o"},
					{"x", "o", ""},
					{"o", "", "x"},
				},
				classes: []string{"diagonal", "right"},
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.classes, ResultClasses(tc.grid))
			})
		}
	})

	t.Run("Returns nil when there is no winning line", func(t *testing.T) {
		grid := entity.Grid{
			{"x", "o", ""},
			{"", "", ""},
			{"", "", ""},
		}

		assert.Nil(t, ResultClasses(grid))
	})

	t.Run("Agrees with Result on the same grid", func(t *testing.T) {
		// Given: a grid with a winning top row
		grid := entity.Grid{
			{"x", "x", "x"},
			{"o", "o", ""},
			{"", "", ""},
		}

		// Then: the classified line carries the same mark Result found
		require.Equal(t, entity.MarkX, Result(grid))
		assert.Equal(t, []string{"horizontal", "top"}, ResultClasses(grid))
	})
}

func TestApplyMark(t *testing.T) {
	t.Run("Writes the mark into an empty cell", func(t *testing.T) {
		// Given: an empty grid
		grid := entity.Grid{}

		// When: the first move is played at (0,0)
		err := ApplyMark(&grid, 0, 0, entity.MarkX)

		// Then: the grid holds the mark, nothing else changed, and
		// the turn has passed to the second player
		require.NoError(t, err)
		assert.Equal(t, entity.Grid{{"x", "", ""}, {"", "", ""}, {"", "", ""}}, grid)
		assert.Equal(t, entity.ResultNone, Result(grid))
		assert.False(t, IsPlayersMove(true, grid))
	})

	t.Run("Rejects an occupied cell and leaves the grid unchanged", func(t *testing.T) {
		// Given: a grid with a mark at (1,1)
		grid := entity.Grid{{"", "", ""}, {"", "x", ""}, {"", "", ""}}

		// When: the opponent targets the same cell
		err := ApplyMark(&grid, 1, 1, entity.MarkO)

		// Then: the move is rejected and the grid is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.Grid{{"", "", ""}, {"", "x", ""}, {"", "", ""}}, grid)
	})

	t.Run("Rejects out-of-range coordinates", func(t *testing.T) {
		grid := entity.Grid{}

		err := ApplyMark(&grid, 3, 0, entity.MarkX)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		err = ApplyMark(&grid, 0, -1, entity.MarkX)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})
}
