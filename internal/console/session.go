package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"obstruction/internal/room"
)

const ansiClear = "\033[2J\033[H"

// Session plays rounds against the computer over line-based input.
type Session struct {
	rm    *room.Manager
	in    *bufio.Scanner
	out   io.Writer
	clear bool
}

func NewSession(rm *room.Manager, in io.Reader, out io.Writer) *Session {
	s := &Session{rm: rm, in: bufio.NewScanner(in), out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.clear = true
	}
	return s
}

var errQuit = errors.New("quit")

// Run plays until the user exits or input ends.
func (s *Session) Run(ctx context.Context) error {
	r, err := s.rm.CreateRoom(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, Rules)
	for {
		err := s.playRound(ctx, r.Code)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, "Press ENTER for the next round or type exit: ")
		line, ok := s.readLine()
		if !ok {
			return nil
		}
		if cmd, err := ParseCommand(line); err == nil && cmd.Kind == KindExit {
			return nil
		}
		if _, err := s.rm.NextRound(ctx, r.Code); err != nil {
			return err
		}
	}
}

func (s *Session) playRound(ctx context.Context, code string) error {
	r, ok := s.rm.Get(code)
	if !ok {
		return room.ErrRoomNotFound
	}
	v := r.View()
	fmt.Fprintf(s.out, "%s will start round %d.\n", describe(v.Starter), v.Round)
	for v.Winner == "" {
		if v.Turn == room.SideComputer {
			out, err := s.rm.BotMove(ctx, code)
			if err != nil {
				return err
			}
			v = out.Room
			fmt.Fprintf(s.out, "The computer played %d %d.\n", out.Move.Row+1, out.Move.Col+1)
			continue
		}
		s.show(v)
		out, err := s.readMove(ctx, code)
		if err != nil {
			return err
		}
		v = out.Room
	}
	s.show(v)
	fmt.Fprintf(s.out, "%s won round %d!\n", describe(v.Winner), v.Round)
	RenderScore(s.out, v)
	return nil
}

// readMove prompts until the player enters a legal move.
func (s *Session) readMove(ctx context.Context, code string) (room.Outcome, error) {
	for {
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			return room.Outcome{}, errQuit
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		switch cmd.Kind {
		case KindExit:
			return room.Outcome{}, errQuit
		case KindRules:
			fmt.Fprint(s.out, Rules)
			continue
		}
		out, err := s.rm.ApplyMove(ctx, code, cmd.Row, cmd.Col)
		if err != nil {
			log.Debug().Err(err).Msg("console-move-rejected")
			fmt.Fprintf(s.out, "Move %d %d is not allowed: %v\n", cmd.Row+1, cmd.Col+1, err)
			continue
		}
		return out, nil
	}
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Session) show(v room.View) {
	if s.clear {
		fmt.Fprint(s.out, ansiClear)
	}
	RenderScore(s.out, v)
	RenderGrid(s.out, v.Grid)
}
