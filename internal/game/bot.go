package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Bot chooses and commits moves for one mark. It owns the grid only for the
// duration of a call; every trial it makes is rolled back before returning.
type Bot struct {
	mark Cell
	src  Source
}

func NewBot(mark Cell, src Source) *Bot {
	if !mark.IsMark() {
		panic(fmt.Sprintf("game: bot cannot play %v", mark))
	}
	if src == nil {
		src = NewSource(0)
	}
	return &Bot{mark: mark, src: src}
}

func (b *Bot) Mark() Cell { return b.mark }

// OpeningMove commits a uniformly random empty cell without lookahead.
func (b *Bot) OpeningMove(g *Grid) (Pos, error) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return Pos{}, ErrGridTerminal
	}
	p := empty[b.src.Intn(len(empty))]
	b.commit(g, p)
	log.Debug().Str("mark", b.mark.String()).Int("row", p.Row).Int("col", p.Col).Msg("opening-move")
	return p, nil
}

// DecideMove commits one move chosen by the tiered reply-safety search.
func (b *Bot) DecideMove(g *Grid) (Pos, error) {
	cands := EnumerateCandidates(g)
	if len(cands) == 0 {
		return Pos{}, ErrGridTerminal
	}
	p := b.choose(g, cands)
	b.commit(g, p)
	log.Debug().Str("mark", b.mark.String()).Int("row", p.Row).Int("col", p.Col).Msg("decided-move")
	return p, nil
}

func (b *Bot) commit(g *Grid, p Pos) {
	b.place(g, p, b.mark)
}

func (b *Bot) place(g *Grid, p Pos, mark Cell) {
	if err := g.ApplyMove(p.Row, p.Col, mark); err != nil {
		panic(fmt.Sprintf("game: engine generated an illegal move: %v", err))
	}
}
