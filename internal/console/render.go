package console

import (
	"fmt"
	"io"
	"strings"

	"obstruction/internal/game"
	"obstruction/internal/room"
)

const Rules = `Obstruction rules:
  Players take turns placing their mark (you are X, the computer is O) on an empty cell.
  Every empty cell around a placed mark, diagonals included, becomes blocked (-).
  Whoever makes the last possible move wins.
Commands:
  move <row> <col>   place X, rows and columns start at 1
  rules              show this text
  exit               leave the game
`

// RenderGrid draws g with 1-based row and column indices.
func RenderGrid(w io.Writer, g *game.Grid) {
	n := g.Size()
	var b strings.Builder
	b.WriteString("   ")
	for c := 1; c <= n; c++ {
		fmt.Fprintf(&b, " %d", c%10)
	}
	b.WriteString("\n")
	for r, row := range g.Rows() {
		fmt.Fprintf(&b, "%2d |", r+1)
		for _, cell := range row {
			b.WriteString(cell.Symbol())
			b.WriteString("|")
		}
		b.WriteString("\n")
	}
	io.WriteString(w, b.String())
}

func RenderScore(w io.Writer, v room.View) {
	fmt.Fprintf(w, "Round %d  Player %d : %d Computer\n", v.Round, v.Score.Player, v.Score.Computer)
}

func describe(side room.Side) string {
	if side == room.SidePlayer {
		return "You"
	}
	return "The computer"
}
