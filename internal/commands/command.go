package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/radar/internal/model"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeClear     Type = "clear"
	TypeSymbols   Type = "symbols"
	TypeOpacity   Type = "opacity"
	TypeSymbol    Type = "symbol"
	TypeLabel     Type = "label"
	TypeHotkey    Type = "hotkey"
	TypeLogin     Type = "login"
	TypeReset     Type = "reset"
	TypeNormalize Type = "normalize"
	TypePosition  Type = "position"
)

// Types lists every command in the order the palette suggests them.
var Types = []Type{
	TypeAdd, TypeClear, TypeSymbols, TypeOpacity, TypeSymbol, TypeLabel,
	TypeHotkey, TypeLogin, TypeReset, TypeNormalize, TypePosition,
}

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

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Title string
}

type ClearArgs struct {
	DoneOnly bool
}

type ToggleArgs struct {
	On bool
}

type OpacityArgs struct {
	Value float64
}

type DisplayArgs struct {
	Status model.Status
	Text   string
}

type HotkeyArgs struct {
	Hotkey model.Hotkey
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Clear   *ClearArgs
	Toggle  *ToggleArgs
	Opacity *OpacityArgs
	Display *DisplayArgs
	Hotkey  *HotkeyArgs
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
	case TypeClear:
		return parseClear(input, args)
	case TypeSymbols, TypeLogin:
		return parseToggle(input, Type(head), args)
	case TypeOpacity:
		return parseOpacity(input, args)
	case TypeSymbol, TypeLabel:
		return parseDisplay(input, Type(head), args)
	case TypeHotkey:
		return parseHotkey(input, args)
	case TypeReset, TypeNormalize:
		return Command{Type: Type(head), Raw: input}, nil
	case TypePosition:
		if len(args) != 1 || strings.ToLower(args[0]) != "reset" {
			return Command{}, invalid("usage: position reset")
		}
		return Command{Type: TypePosition, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	// A blank title parses; the task engine discards it.
	title := model.NormalizeTitle(strings.Join(args, " "))
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseClear(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeClear, Raw: raw, Clear: &ClearArgs{}}, nil
	}
	switch strings.ToLower(args[0]) {
	case "all":
		return Command{Type: TypeClear, Raw: raw, Clear: &ClearArgs{}}, nil
	case "done":
		return Command{Type: TypeClear, Raw: raw, Clear: &ClearArgs{DoneOnly: true}}, nil
	default:
		return Command{}, invalid("usage: clear [all|done]")
	}
}

func parseToggle(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("usage: %s on|off", typ)
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		return Command{Type: typ, Raw: raw, Toggle: &ToggleArgs{On: true}}, nil
	case "off", "false", "no":
		return Command{Type: typ, Raw: raw, Toggle: &ToggleArgs{On: false}}, nil
	default:
		return Command{}, invalid("usage: %s on|off", typ)
	}
}

func parseOpacity(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("usage: opacity <0.1-1.0>")
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
	if err != nil {
		return Command{}, invalid("opacity must be a number, got %q", args[0])
	}
	if strings.HasSuffix(args[0], "%") {
		v /= 100
	}
	return Command{Type: TypeOpacity, Raw: raw, Opacity: &OpacityArgs{Value: v}}, nil
}

func parseDisplay(raw string, typ Type, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("usage: %s <todo|waiting|done> <text>", typ)
	}
	status, err := model.ParseStatus(args[0])
	if err != nil {
		return Command{}, invalid("unknown status %q", args[0])
	}
	return Command{Type: typ, Raw: raw, Display: &DisplayArgs{Status: status, Text: strings.Join(args[1:], " ")}}, nil
}

func parseHotkey(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("usage: hotkey <keys>|off")
	}
	h, err := model.ParseHotkey(args[0])
	if err != nil {
		return Command{}, invalid("%v", err)
	}
	return Command{Type: TypeHotkey, Raw: raw, Hotkey: &HotkeyArgs{Hotkey: h}}, nil
}
