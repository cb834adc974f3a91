package game

import "fmt"

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// Cell returns the cell at (row, col). Callers normally check InBounds first.
func (g *Grid) Cell(row, col int) (Cell, error) {
	if !g.InBounds(row, col) {
		return CellEmpty, &MoveError{Row: row, Col: col, Err: ErrOutOfBounds}
	}
	return g.at(row, col), nil
}

func (g *Grid) Validate(row, col int) error {
	if !g.InBounds(row, col) {
		return &MoveError{Row: row, Col: col, Err: ErrOutOfBounds}
	}
	if g.at(row, col) != CellEmpty {
		return &MoveError{Row: row, Col: col, Err: ErrCellOccupied}
	}
	return nil
}

// ApplyMove places mark at (row, col) and blocks every empty cell of its
// Moore neighbourhood. On error the grid is left untouched.
func (g *Grid) ApplyMove(row, col int, mark Cell) error {
	if !mark.IsMark() {
		panic(fmt.Sprintf("game: cannot place %v", mark))
	}
	if err := g.Validate(row, col); err != nil {
		return err
	}
	g.cells[g.index(row, col)] = mark
	g.blockNeighbours(row, col)
	return nil
}

func (g *Grid) blockNeighbours(row, col int) {
	g.forEachNeighbour(row, col, func(r, c int) {
		if i := g.index(r, c); g.cells[i] == CellEmpty {
			g.cells[i] = CellBlocked
		}
	})
}

// forEachNeighbour visits the in-bounds cells at Chebyshev distance 1.
func (g *Grid) forEachNeighbour(row, col int, fn func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if g.InBounds(r, c) {
				fn(r, c)
			}
		}
	}
}

// EmptyCells lists the empty cells in row-major order.
func (g *Grid) EmptyCells() []Pos {
	var out []Pos
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.at(r, c) == CellEmpty {
				out = append(out, Pos{Row: r, Col: c})
			}
		}
	}
	return out
}

func (g *Grid) CountEmpty() int {
	n := 0
	for _, cell := range g.cells {
		if cell == CellEmpty {
			n++
		}
	}
	return n
}
