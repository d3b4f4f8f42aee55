package tictactoe

import (
	"fmt"

	"github.com/gridrushinc/tictactoe-backend/internal/apperror"
	"github.com/gridrushinc/tictactoe-backend/internal/entity"
)

// line is one of the 8 ways to win. The order of Lines is a contract:
// result and classification both take the first matching line, scanned
// rows top-down, then columns left-to-right, then the two diagonals.
type line struct {
	orientation string
	position    string
	cells       [3][2]int
}

var lines = [8]line{
	{"horizontal", "top", [3][2]int{{0, 0}, {0, 1}, {0, 2}}},
	{"horizontal", "middle", [3][2]int{{1, 0}, {1, 1}, {1, 2}}},
	{"horizontal", "bottom", [3][2]int{{2, 0}, {2, 1}, {2, 2}}},
	{"vertical", "left", [3][2]int{{0, 0}, {1, 0}, {2, 0}}},
	{"vertical", "middle", [3][2]int{{0, 1}, {1, 1}, {2, 1}}},
	{"vertical", "right", [3][2]int{{0, 2}, {1, 2}, {2, 2}}},
	{"diagonal", "left", [3][2]int{{0, 0}, {1, 1}, {2, 2}}},
	{"diagonal", "right", [3][2]int{{2, 0}, {1, 1}, {0, 2}}},
}

// TotalMoves counts how many moves have been played on the grid.
func TotalMoves(grid entity.Grid) int {
	moves := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell != entity.EmptyCell {
				moves++
			}
		}
	}

	return moves
}

// IsPlayersMove reports whether it is the given player's turn: with
// alternating valid play, an even move count means the first player
// moves next.
func IsPlayersMove(playerIsFirst bool, grid entity.Grid) bool {
	evenMoves := TotalMoves(grid)%2 == 0
	if playerIsFirst {
		return evenMoves
	}

	return !evenMoves
}

func winningLine(grid entity.Grid) (line, bool) {
	for _, l := range lines {
		a := grid[l.cells[0][0]][l.cells[0][1]]
		b := grid[l.cells[1][0]][l.cells[1][1]]
		c := grid[l.cells[2][0]][l.cells[2][1]]

		if a != entity.EmptyCell && a == b && b == c {
			return l, true
		}
	}

	return line{}, false
}

// Result returns the winning mark, entity.ResultDraw when the grid is
// full with no winner, or entity.ResultNone while the game is ongoing.
func Result(grid entity.Grid) string {
	if l, ok := winningLine(grid); ok {
		return grid[l.cells[0][0]][l.cells[0][1]]
	}

	if TotalMoves(grid) == len(grid)*len(grid[0]) {
		return entity.ResultDraw
	}

	return entity.ResultNone
}

// ResultClasses identifies which line won as an {orientation, position}
// tag pair, or nil if there is no winning line. It is derived from the
// same scan as Result, so the two can never disagree.
func ResultClasses(grid entity.Grid) []string {
	l, ok := winningLine(grid)
	if !ok {
		return nil
	}

	return []string{l.orientation, l.position}
}

// ApplyMark writes the mark into the cell after bounds and occupancy
// checks. The grid is mutated in place.
func ApplyMark(grid *entity.Grid, row, column int, mark string) error {
	if row < 0 || row > 2 || column < 0 || column > 2 {
		return fmt.Errorf("%w: row %d, column %d", apperror.ErrInvalidCell, row, column)
	}

	if grid[row][column] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	grid[row][column] = mark

	return nil
}
