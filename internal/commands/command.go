package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/remindd/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeRemind  Type = "remind"
	TypeDone    Type = "done"
	TypeDelete  Type = "delete"
	TypeSnooze  Type = "snooze"
	TypeShow    Type = "show"
	TypeOnline  Type = "online"
	TypeOffline Type = "offline"
	TypeSync    Type = "sync"
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
	Title string
}

// RemindArgs carries "remind <title> in <value> <unit> [every <value> <unit>]".
type RemindArgs struct {
	Title  string
	In     Interval
	Repeat model.RepeatPolicy
}

type DoneArgs struct {
	Target string
}

type DeleteArgs struct {
	Subject string // "task" or "reminder"
	Target  string
}

type SnoozeArgs struct {
	Target string
	For    *Interval // nil means the default snooze
}

type ShowArgs struct {
	Subject string // "tasks", "reminders" or "pending"
}

// Interval is a parsed "<value> <unit>" pair.
type Interval struct {
	Value int
	Unit  model.TimeUnit
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Remind *RemindArgs
	Done   *DoneArgs
	Delete *DeleteArgs
	Snooze *SnoozeArgs
	Show   *ShowArgs
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

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeSnooze:
		return parseSnooze(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeOnline, TypeOffline, TypeSync:
		if len(args) != 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	inIdx := -1
	for i, a := range args {
		if strings.EqualFold(a, "in") {
			inIdx = i
		}
	}
	if inIdx <= 0 || len(args)-inIdx-1 < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a title and 'in <value> <unit>'"}
	}
	title := strings.TrimSpace(strings.Join(args[:inIdx], " "))
	rest := args[inIdx+1:]
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a title and 'in <value> <unit>'"}
	}

	in, err := parseInterval(rest[0], rest[1])
	if err != nil {
		return Command{}, err
	}
	repeat := model.NoRepeat()
	if len(rest) > 2 {
		if !strings.EqualFold(rest[2], "every") || len(rest) != 5 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "repeat clause must be 'every <value> <unit>'"}
		}
		ev, err := parseInterval(rest[3], rest[4])
		if err != nil {
			return Command{}, err
		}
		repeat = model.RepeatEveryInterval(ev.Value, ev.Unit)
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Title: title, In: in, Repeat: repeat}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a task id"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: args[0]}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires a subject and an id"}
	}
	subject := strings.ToLower(args[0])
	if subject != "task" && subject != "reminder" && subject != "tag" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot delete %q", subject)}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Subject: subject, Target: args[1]}}, nil
}

func parseSnooze(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "snooze requires a reminder id"}
	}
	cmd := Command{Type: TypeSnooze, Raw: raw, Snooze: &SnoozeArgs{Target: args[0]}}
	if len(args) == 1 {
		return cmd, nil
	}
	if len(args) != 3 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "snooze duration must be '<value> <unit>'"}
	}
	in, err := parseInterval(args[1], args[2])
	if err != nil {
		return Command{}, err
	}
	cmd.Snooze.For = &in
	return cmd, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "tasks", "reminders", "tags", "pending":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot show %q", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}

func parseInterval(valueArg, unitArg string) (Interval, error) {
	value, err := strconv.Atoi(valueArg)
	if err != nil || value <= 0 {
		return Interval{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid interval value: %s", valueArg)}
	}
	unit := model.TimeUnit(strings.ToLower(unitArg))
	if !strings.HasSuffix(string(unit), "s") {
		unit += "s"
	}
	if !unit.IsValid() {
		return Interval{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid time unit: %s", unitArg)}
	}
	return Interval{Value: value, Unit: unit}, nil
}
