package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

const DefaultSize = 6

type Cell int

const (
	CellEmpty Cell = iota
	CellX          // human
	CellO          // computer
	CellBlocked
)

// Symbol is the one-character rendering used by the console front-end.
func (c Cell) Symbol() string {
	switch c {
	case CellX:
		return "X"
	case CellO:
		return "O"
	case CellBlocked:
		return "-"
	default:
		return " "
	}
}

func (c Cell) String() string {
	switch c {
	case CellX:
		return "x"
	case CellO:
		return "o"
	case CellBlocked:
		return "blocked"
	default:
		return "empty"
	}
}

func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(b []byte) error {
	switch string(b) {
	case "empty":
		*c = CellEmpty
	case "x":
		*c = CellX
	case "o":
		*c = CellO
	case "blocked":
		*c = CellBlocked
	default:
		return fmt.Errorf("unknown cell %q", b)
	}
	return nil
}

// IsMark reports whether c is a player mark.
func (c Cell) IsMark() bool {
	return c == CellX || c == CellO
}

// Opponent returns the other player's mark. It panics for non-mark cells.
func (c Cell) Opponent() Cell {
	switch c {
	case CellX:
		return CellO
	case CellO:
		return CellX
	}
	panic(fmt.Sprintf("game: %v is not a player mark", c))
}

type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Move struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Mark Cell `json:"mark"`
}

func (m Move) Pos() Pos { return Pos{Row: m.Row, Col: m.Col} }

var (
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrCellOccupied = errors.New("cell is not empty")
	ErrGridTerminal = errors.New("no empty cell left")
)

// MoveError ties a validation failure to the coordinate that caused it.
type MoveError struct {
	Row, Col int
	Err      error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("invalid move (%d,%d): %v", e.Row, e.Col, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// Grid is an NxN obstruction board. N never changes after NewGrid.
type Grid struct {
	size  int
	cells []Cell
}

func NewGrid(size int) *Grid {
	if size <= 0 {
		size = DefaultSize
	}
	return &Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) index(row, col int) int {
	return row*g.size + col
}

func (g *Grid) at(row, col int) Cell {
	return g.cells[g.index(row, col)]
}

func (g *Grid) Clone() *Grid {
	clone := &Grid{size: g.size, cells: make([]Cell, len(g.cells))}
	copy(clone.cells, g.cells)
	return clone
}

// Rows returns a copy of the cells as a row-major matrix.
func (g *Grid) Rows() [][]Cell {
	out := make([][]Cell, g.size)
	for r := range out {
		out[r] = make([]Cell, g.size)
		copy(out[r], g.cells[r*g.size:(r+1)*g.size])
	}
	return out
}

type gridJSON struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(gridJSON{Size: g.size, Cells: g.Rows()})
}

func (g *Grid) UnmarshalJSON(b []byte) error {
	var in gridJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.Size <= 0 || len(in.Cells) != in.Size {
		return fmt.Errorf("grid: bad size %d with %d rows", in.Size, len(in.Cells))
	}
	cells := make([]Cell, 0, in.Size*in.Size)
	for r, row := range in.Cells {
		if len(row) != in.Size {
			return fmt.Errorf("grid: row %d has %d cells, want %d", r, len(row), in.Size)
		}
		cells = append(cells, row...)
	}
	g.size = in.Size
	g.cells = cells
	return nil
}

// Snapshot is a point-in-time copy of a grid's cells. It is never mutated
// after capture.
type Snapshot struct {
	size  int
	cells []Cell
}

func (s Snapshot) Size() int { return s.size }

// At returns the captured cell; the coordinate must be in bounds.
func (s Snapshot) At(row, col int) Cell {
	return s.cells[row*s.size+col]
}

func (g *Grid) Snapshot() Snapshot {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return Snapshot{size: g.size, cells: cells}
}

// Restore replaces the grid contents with the snapshot's.
func (g *Grid) Restore(s Snapshot) {
	if s.size != g.size {
		panic(fmt.Sprintf("game: restoring %dx%d snapshot into %dx%d grid", s.size, s.size, g.size, g.size))
	}
	copy(g.cells, s.cells)
}
