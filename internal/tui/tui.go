// Package tui is a full-screen terminal front-end for playing against the
// computer.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"obstruction/internal/game"
	"obstruction/internal/room"
)

const hint = "[gray]arrows: select  enter: play  n: next round  q: quit"

var cellColors = map[game.Cell]tcell.Color{
	game.CellEmpty:   tcell.ColorWhite,
	game.CellX:       tcell.ColorGreen,
	game.CellO:       tcell.ColorRed,
	game.CellBlocked: tcell.ColorGray,
}

// controller holds the game side of the UI so it can run without a screen.
type controller struct {
	ctx    context.Context
	rm     *room.Manager
	code   string
	table  *tview.Table
	status *tview.TextView
}

func newController(ctx context.Context, rm *room.Manager) (*controller, error) {
	r, err := rm.CreateRoom(ctx)
	if err != nil {
		return nil, err
	}
	c := &controller{
		ctx:    ctx,
		rm:     rm,
		code:   r.Code,
		table:  tview.NewTable().SetSelectable(true, true),
		status: tview.NewTextView().SetDynamicColors(true),
	}
	c.table.SetBorder(true).SetTitle(" Obstruction ")
	c.computerIfDue(r.View())
	return c, nil
}

// computerIfDue lets the computer move when the round is waiting on it.
func (c *controller) computerIfDue(v room.View) {
	if v.Winner == "" && v.Turn == room.SideComputer {
		out, err := c.rm.BotMove(c.ctx, c.code)
		if err != nil {
			c.fail(err)
			return
		}
		v = out.Room
	}
	c.refresh(v, "")
}

func (c *controller) play(row, col int) {
	out, err := c.rm.ApplyMove(c.ctx, c.code, row, col)
	if err != nil {
		c.fail(err)
		return
	}
	c.computerIfDue(out.Room)
}

func (c *controller) nextRound() {
	v, err := c.rm.NextRound(c.ctx, c.code)
	if err != nil {
		c.fail(err)
		return
	}
	c.computerIfDue(v)
}

func (c *controller) fail(err error) {
	log.Debug().Err(err).Str("room", c.code).Msg("tui-action-rejected")
	r, ok := c.rm.Get(c.code)
	if !ok {
		return
	}
	c.refresh(r.View(), "[red]"+err.Error())
}

func (c *controller) refresh(v room.View, note string) {
	for r, row := range v.Grid.Rows() {
		for col, cell := range row {
			text := " " + cell.Symbol() + " "
			c.table.SetCell(r, col, tview.NewTableCell(text).
				SetTextColor(cellColors[cell]).
				SetAlign(tview.AlignCenter).
				SetSelectable(cell == game.CellEmpty && v.Winner == ""))
		}
	}
	line := fmt.Sprintf("Round %d   You %d : %d Computer\n", v.Round, v.Score.Player, v.Score.Computer)
	if v.Winner != "" {
		who := "The computer wins"
		if v.Winner == room.SidePlayer {
			who = "You win"
		}
		line += fmt.Sprintf("[yellow]%s! Press n for the next round.\n", who)
	}
	if note != "" {
		line += note + "\n"
	}
	c.status.SetText(line + hint)
}

// Run opens the terminal UI and blocks until the user quits.
func Run(ctx context.Context, rm *room.Manager) error {
	c, err := newController(ctx, rm)
	if err != nil {
		return err
	}
	app := tview.NewApplication()
	c.table.SetSelectedFunc(c.play)
	c.table.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Rune() {
		case 'n':
			c.nextRound()
			return nil
		case 'q':
			app.Stop()
			return nil
		}
		return ev
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(c.table, 0, 1, true).
		AddItem(c.status, 3, 0, false)
	go func() {
		<-ctx.Done()
		app.Stop()
	}()
	return app.SetRoot(layout, true).SetFocus(c.table).Run()
}
