package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeRemove Type = "rm"
	TypeMove   Type = "mv"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

// Positions are 1-based, counted from the top of the list.
type DoneArgs struct {
	Position int
}

type RemoveArgs struct {
	Position int
}

type MoveArgs struct {
	From int
	To   int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Remove *RemoveArgs
	Move   *MoveArgs
}

var aliases = map[string]Type{
	"add":    TypeAdd,
	"done":   TypeDone,
	"toggle": TypeDone,
	"rm":     TypeRemove,
	"del":    TypeRemove,
	"delete": TypeRemove,
	"mv":     TypeMove,
	"move":   TypeMove,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	typ, ok := aliases[head]
	if !ok {
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
	switch typ {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		pos, err := parsePositions(string(typ), args, 1)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDone, Raw: input, Done: &DoneArgs{Position: pos[0]}}, nil
	case TypeRemove:
		pos, err := parsePositions(string(typ), args, 1)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeRemove, Raw: input, Remove: &RemoveArgs{Position: pos[0]}}, nil
	default:
		pos, err := parsePositions(string(typ), args, 2)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeMove, Raw: input, Move: &MoveArgs{From: pos[0], To: pos[1]}}, nil
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parsePositions(name string, args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes %d position(s)", name, want)}
	}
	out := make([]int, 0, want)
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s: bad position %q", name, arg)}
		}
		out = append(out, n)
	}
	return out, nil
}
