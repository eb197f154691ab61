package biz

import (
	"github.com/yola1107/kratos/v2/errors"
)

// ErrInvalidMatrix is returned for input that is not a square character matrix.
var ErrInvalidMatrix = errors.BadRequest("INVALID_DNA_MATRIX", "dna matrix must be square")

// sequenceLen is the run length that makes a window qualify.
const sequenceLen = 4

// directions scanned from each starting cell: right, down, down-right, down-left.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// ValidateMatrix checks the scanner input contract: at least one row, and
// every row exactly as long as the number of rows.
func ValidateMatrix(dna []string) error {
	n := len(dna)
	if n == 0 {
		return ErrInvalidMatrix
	}
	for _, row := range dna {
		if len(row) != n {
			return ErrInvalidMatrix
		}
	}
	return nil
}

// IsMutant reports whether the DNA matrix holds at least two qualifying
// windows: four consecutive equal characters read horizontally, vertically
// or along either diagonal. Windows are counted per starting cell and
// direction, so overlapping windows inside one longer run each count on
// their own. The scan stops as soon as the second window is found.
func IsMutant(dna []string) bool {
	n := len(dna)
	grid := make([][]byte, n)
	for i, row := range dna {
		grid[i] = []byte(row)
	}

	found := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for _, d := range directions {
				if !windowFits(n, i, j, d[0], d[1]) {
					continue
				}
				if hasSequence(grid, n, i, j, d[0], d[1]) {
					found++
					if found > 1 {
						return true
					}
				}
			}
		}
	}
	return false
}

// windowFits prunes starting cells whose window would leave the matrix: the
// last cell of a window from (i, j) along (di, dj) must stay inside the
// n x n bounds.
func windowFits(n, i, j, di, dj int) bool {
	ei := i + (sequenceLen-1)*di
	ej := j + (sequenceLen-1)*dj
	return ei >= 0 && ei < n && ej >= 0 && ej < n
}

// hasSequence reads the window starting at (i, j) along (di, dj) and reports
// whether every cell holds the starting character, checking bounds at each
// step.
func hasSequence(grid [][]byte, n, i, j, di, dj int) bool {
	ch := grid[i][j]
	for k := 1; k < sequenceLen; k++ {
		ni, nj := i+di*k, j+dj*k
		if ni < 0 || ni >= n || nj < 0 || nj >= n || grid[ni][nj] != ch {
			return false
		}
	}
	return true
}
