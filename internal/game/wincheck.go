package game

// IsTerminal reports whether no legal move remains anywhere on the grid.
// Blocked cells count as filled.
func (g *Grid) IsTerminal() bool {
	for _, cell := range g.cells {
		if cell == CellEmpty {
			return false
		}
	}
	return true
}

// WinnerAfter returns the winner once mover has just played: whoever makes the
// last move wins, because the opponent is left without a legal move.
func WinnerAfter(g *Grid, mover Cell) (Cell, bool) {
	if !g.IsTerminal() {
		return CellEmpty, false
	}
	return mover, true
}
