// Package arena plays the computer against itself to measure the decision
// engine.
package arena

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"obstruction/internal/game"
)

type Config struct {
	Games   int
	Size    int
	Workers int
	// Seed makes the whole run reproducible. Zero means random.
	Seed int64
}

// GameResult is the outcome of one self-play round.
type GameResult struct {
	Starter game.Cell `json:"starter"`
	Winner  game.Cell `json:"winner"`
	Moves   int       `json:"moves"`
}

type Result struct {
	Games       int           `json:"games"`
	WinsX       int           `json:"winsX"`
	WinsO       int           `json:"winsO"`
	StarterWins int           `json:"starterWins"`
	SecondWins  int           `json:"secondWins"`
	TotalMoves  int           `json:"totalMoves"`
	Took        time.Duration `json:"took"`
}

func (r Result) String() string {
	if r.Games == 0 {
		return "no games played"
	}
	return fmt.Sprintf("%d games on avg %.1f moves: X %d, O %d, starter %d (%.1f%%), second %d, took %v",
		r.Games, float64(r.TotalMoves)/float64(r.Games), r.WinsX, r.WinsO,
		r.StarterWins, 100*float64(r.StarterWins)/float64(r.Games), r.SecondWins, r.Took.Round(time.Millisecond))
}

func (r *Result) add(g GameResult) {
	r.Games++
	r.TotalMoves += g.Moves
	if g.Winner == game.CellX {
		r.WinsX++
	} else {
		r.WinsO++
	}
	if g.Winner == g.Starter {
		r.StarterWins++
	} else {
		r.SecondWins++
	}
}

// PlayGame runs one round to the end. first opens with a random move and the
// bots then alternate through DecideMove.
func PlayGame(size int, first, second *game.Bot) (GameResult, error) {
	g := game.NewGrid(size)
	res := GameResult{Starter: first.Mark()}
	mover := first
	if _, err := mover.OpeningMove(g); err != nil {
		return res, err
	}
	res.Moves++
	for !g.IsTerminal() {
		if mover == first {
			mover = second
		} else {
			mover = first
		}
		if _, err := mover.DecideMove(g); err != nil {
			return res, err
		}
		res.Moves++
	}
	res.Winner, _ = game.WinnerAfter(g, mover.Mark())
	return res, nil
}

// Run plays cfg.Games rounds across cfg.Workers goroutines. X starts the even
// numbered games and O the odd ones.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	results := make([]GameResult, cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			x := game.NewBot(game.CellX, source(cfg.Seed, 2*i))
			o := game.NewBot(game.CellO, source(cfg.Seed, 2*i+1))
			first, second := x, o
			if i%2 == 1 {
				first, second = o, x
			}
			res, err := PlayGame(cfg.Size, first, second)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			log.Debug().Int("game", i).Str("winner", res.Winner.String()).Int("moves", res.Moves).Msg("selfplay-game-done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var out Result
	for _, r := range results {
		out.add(r)
	}
	out.Took = time.Since(start)
	log.Info().Int("games", out.Games).Int("starterWins", out.StarterWins).Dur("took", out.Took).Msg("selfplay-finished")
	return out, nil
}

func source(seed int64, n int) game.Source {
	if seed == 0 {
		return game.NewSource(0)
	}
	return game.NewSource(seed + int64(n))
}
