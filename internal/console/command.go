package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

type Kind int

const (
	KindMove Kind = iota
	KindRules
	KindExit
)

// Command is one parsed console line. Row and Col are zero-based.
type Command struct {
	Kind     Kind
	Row, Col int
}

// ParseCommand reads "move <row> <col>" with 1-based coordinates, "rules"
// or "exit". Keywords are case-insensitive.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", ErrInvalidInput)
	}
	switch fields[0] {
	case "rules":
		if len(fields) != 1 {
			break
		}
		return Command{Kind: KindRules}, nil
	case "exit", "quit":
		if len(fields) != 1 {
			break
		}
		return Command{Kind: KindExit}, nil
	case "move":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("%w: use move <row> <col>", ErrInvalidInput)
		}
		row, err1 := strconv.Atoi(fields[1])
		col, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			return Command{}, fmt.Errorf("%w: row and column must be numbers", ErrInvalidInput)
		}
		return Command{Kind: KindMove, Row: row - 1, Col: col - 1}, nil
	}
	return Command{}, fmt.Errorf("%w: unknown command %q", ErrInvalidInput, line)
}
