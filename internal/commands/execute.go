package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Clear     func(ClearArgs) (Result, error)
	Symbols   func(ToggleArgs) (Result, error)
	Opacity   func(OpacityArgs) (Result, error)
	Symbol    func(DisplayArgs) (Result, error)
	Label     func(DisplayArgs) (Result, error)
	Hotkey    func(HotkeyArgs) (Result, error)
	Login     func(ToggleArgs) (Result, error)
	Reset     func() (Result, error)
	Normalize func() (Result, error)
	Position  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeClear:
		if handlers.Clear == nil {
			return missing(cmd.Type)
		}
		return handlers.Clear(*cmd.Clear)
	case TypeSymbols:
		if handlers.Symbols == nil {
			return missing(cmd.Type)
		}
		return handlers.Symbols(*cmd.Toggle)
	case TypeOpacity:
		if handlers.Opacity == nil {
			return missing(cmd.Type)
		}
		return handlers.Opacity(*cmd.Opacity)
	case TypeSymbol:
		if handlers.Symbol == nil {
			return missing(cmd.Type)
		}
		return handlers.Symbol(*cmd.Display)
	case TypeLabel:
		if handlers.Label == nil {
			return missing(cmd.Type)
		}
		return handlers.Label(*cmd.Display)
	case TypeHotkey:
		if handlers.Hotkey == nil {
			return missing(cmd.Type)
		}
		return handlers.Hotkey(*cmd.Hotkey)
	case TypeLogin:
		if handlers.Login == nil {
			return missing(cmd.Type)
		}
		return handlers.Login(*cmd.Toggle)
	case TypeReset:
		if handlers.Reset == nil {
			return missing(cmd.Type)
		}
		return handlers.Reset()
	case TypeNormalize:
		if handlers.Normalize == nil {
			return missing(cmd.Type)
		}
		return handlers.Normalize()
	case TypePosition:
		if handlers.Position == nil {
			return missing(cmd.Type)
		}
		return handlers.Position()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
