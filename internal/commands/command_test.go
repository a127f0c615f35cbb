package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/radar/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"clear", TypeClear},
		{"/clear done", TypeClear},
		{"symbols on", TypeSymbols},
		{"opacity 0.5", TypeOpacity},
		{"symbol waiting ~", TypeSymbol},
		{"label todo mine", TypeLabel},
		{"hotkey ctrl+alt+r", TypeHotkey},
		{"login off", TypeLogin},
		{"reset", TypeReset},
		{"NORMALIZE", TypeNormalize},
		{"position reset", TypePosition},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("clear done")
	if err != nil || !cmd.Clear.DoneOnly {
		t.Fatalf("expected done-only clear, got %+v err=%v", cmd.Clear, err)
	}
	cmd, err = Parse("opacity 45%")
	if err != nil || cmd.Opacity.Value != 0.45 {
		t.Fatalf("expected percentage opacity, got %+v err=%v", cmd.Opacity, err)
	}
	cmd, err = Parse("label waiting on them")
	if err != nil || cmd.Display.Status != model.StatusWaiting || cmd.Display.Text != "on them" {
		t.Fatalf("unexpected label args: %+v err=%v", cmd.Display, err)
	}
	cmd, err = Parse("hotkey off")
	if err != nil || !cmd.Hotkey.Hotkey.IsZero() {
		t.Fatalf("expected cleared hotkey, got %+v err=%v", cmd.Hotkey, err)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{
		"clear some",
		"symbols maybe",
		"opacity dim",
		"symbol later x",
		"label todo",
		"hotkey hyper+x",
		"position",
	} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseBlankAddIsNotAnError(t *testing.T) {
	cmd, err := Parse("/add    ")
	if err != nil {
		t.Fatalf("blank add: %v", err)
	}
	if cmd.Type != TypeAdd || cmd.Add.Title != "" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("reset")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
