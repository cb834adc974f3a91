package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"obstruction/internal/arena"
	"obstruction/internal/config"
	"obstruction/internal/console"
	"obstruction/internal/room"
	"obstruction/internal/store"
	"obstruction/internal/tui"
)

func main() {
	cfg := config.Get()
	config.SetupLogging(*cfg)

	app := &cli.App{
		Name:  "obstruction",
		Usage: "play Obstruction against the computer",
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play rounds against the computer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ui", Value: "console", Usage: "front-end: console or tui"},
					&cli.IntFlag{Name: "size", Value: cfg.BoardSize, Usage: "grid size"},
					&cli.StringFlag{Name: "db", Value: cfg.DBPath, Usage: "SQLite file for the round archive"},
					&cli.BoolFlag{Name: "memory", Usage: "keep rounds in memory only"},
					&cli.Int64Flag{Name: "seed", Value: cfg.AISeed, Usage: "tie-break seed, 0 for random"},
				},
				Action: play,
			},
			{
				Name:  "selfplay",
				Usage: "let the computer play itself and report the results",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "games", Value: 1000},
					&cli.IntFlag{Name: "size", Value: cfg.BoardSize},
					&cli.IntFlag{Name: "workers", Usage: "parallel games, defaults to GOMAXPROCS"},
					&cli.Int64Flag{Name: "seed", Value: cfg.AISeed},
				},
				Action: selfplay,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("exiting")
		stop()
		os.Exit(1)
	}
}

func play(c *cli.Context) error {
	cfg := *config.Get()
	cfg.BoardSize = c.Int("size")
	cfg.AISeed = c.Int64("seed")

	ui := c.String("ui")
	if ui != "console" && ui != "tui" {
		return fmt.Errorf("unknown ui %q", ui)
	}
	if ui == "tui" {
		// the screen belongs to tview
		log.Logger = log.Output(io.Discard)
	} else if zerolog.GlobalLevel() < zerolog.WarnLevel {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	mem := store.NewMemoryStore()
	var archive room.Archive = mem
	if !c.Bool("memory") {
		db, err := store.OpenSQLite(c.Context, c.String("db"))
		if err != nil {
			return err
		}
		defer db.Close()
		archive = db
	}
	rm := room.NewManager(mem, archive, cfg, nil)

	if ui == "tui" {
		return tui.Run(c.Context, rm)
	}
	return console.NewSession(rm, os.Stdin, os.Stdout).Run(c.Context)
}

func selfplay(c *cli.Context) error {
	res, err := arena.Run(c.Context, arena.Config{
		Games:   c.Int("games"),
		Size:    c.Int("size"),
		Workers: c.Int("workers"),
		Seed:    c.Int64("seed"),
	})
	if err != nil {
		return err
	}
	fmt.Println(res)
	return nil
}
