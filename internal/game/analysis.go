package game

import "math"

type Candidate struct {
	Pos
	Score int `json:"score"`
}

// Candidates are the legal moves of a grid in row-major order.
type Candidates []Candidate

// Tier is the set of candidates sharing one blocking score.
type Tier struct {
	Score int   `json:"score"`
	Moves []Pos `json:"moves"`
}

func (t Tier) Empty() bool { return len(t.Moves) == 0 }

// Pick returns a uniformly random member. The tier must not be empty.
func (t Tier) Pick(src Source) Pos {
	if len(t.Moves) == 1 {
		return t.Moves[0]
	}
	return t.Moves[src.Intn(len(t.Moves))]
}

// BlockingScore counts the empty neighbours a move at (row, col) would block.
func BlockingScore(g *Grid, row, col int) int {
	n := 0
	g.forEachNeighbour(row, col, func(r, c int) {
		if g.at(r, c) == CellEmpty {
			n++
		}
	})
	return n
}

// EnumerateCandidates scores every empty cell without mutating g.
func EnumerateCandidates(g *Grid) Candidates {
	var out Candidates
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.at(r, c) != CellEmpty {
				continue
			}
			out = append(out, Candidate{Pos: Pos{Row: r, Col: c}, Score: BlockingScore(g, r, c)})
		}
	}
	return out
}

// Best is the highest-scoring tier. An empty candidate list gives an empty
// tier whose score is meaningless.
func (cs Candidates) Best() Tier {
	return cs.Below(math.MaxInt)
}

// Below is the highest tier scoring strictly less than ceiling.
func (cs Candidates) Below(ceiling int) Tier {
	var t Tier
	for _, c := range cs {
		if c.Score >= ceiling {
			continue
		}
		switch {
		case t.Empty() || c.Score > t.Score:
			t = Tier{Score: c.Score, Moves: []Pos{c.Pos}}
		case c.Score == t.Score:
			t.Moves = append(t.Moves, c.Pos)
		}
	}
	return t
}

// Score looks up the candidate score at p.
func (cs Candidates) Score(p Pos) (int, bool) {
	for _, c := range cs {
		if c.Pos == p {
			return c.Score, true
		}
	}
	return 0, false
}
