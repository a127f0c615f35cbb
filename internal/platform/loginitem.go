package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var ErrUnsupported = errors.New("platform: not supported on this system")

// LoginItem registers the program to start at login.
type LoginItem interface {
	Enabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
}

type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// NewLoginItem picks the implementation for the running OS. name is the
// login item name, executable the program path to launch.
func NewLoginItem(name, executable string) LoginItem {
	switch runtime.GOOS {
	case "darwin":
		return &AppleScriptLoginItem{Name: name, Path: executable, Run: execRunner}
	case "linux":
		dir, err := os.UserConfigDir()
		if err != nil {
			return UnsupportedLoginItem{}
		}
		return &AutostartLoginItem{Dir: filepath.Join(dir, "autostart"), Name: name, Exec: executable}
	default:
		return UnsupportedLoginItem{}
	}
}

type UnsupportedLoginItem struct{}

func (UnsupportedLoginItem) Enabled(context.Context) (bool, error)  { return false, ErrUnsupported }
func (UnsupportedLoginItem) SetEnabled(context.Context, bool) error { return ErrUnsupported }

// AppleScriptLoginItem manages a System Events login item through osascript.
type AppleScriptLoginItem struct {
	Name string
	Path string
	Run  CommandRunner
}

func (l *AppleScriptLoginItem) Enabled(ctx context.Context) (bool, error) {
	out, err := l.Run(ctx, "osascript", "-e", `tell application "System Events" to get the name of every login item`)
	if err != nil {
		return false, fmt.Errorf("list login items: %w", err)
	}
	for _, item := range strings.Split(strings.TrimSpace(string(out)), ",") {
		if strings.TrimSpace(item) == l.Name {
			return true, nil
		}
	}
	return false, nil
}

func (l *AppleScriptLoginItem) SetEnabled(ctx context.Context, enabled bool) error {
	var script string
	if enabled {
		script = fmt.Sprintf(`tell application "System Events" to make login item at end with properties {name:"%s", path:"%s", hidden:true}`,
			escapeAppleScript(l.Name), escapeAppleScript(l.Path))
	} else {
		script = fmt.Sprintf(`tell application "System Events" to delete login item "%s"`, escapeAppleScript(l.Name))
	}
	if _, err := l.Run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("update login item: %w", err)
	}
	return nil
}

// AutostartLoginItem writes an XDG autostart desktop entry.
type AutostartLoginItem struct {
	Dir  string
	Name string
	Exec string
}

func (l *AutostartLoginItem) path() string {
	return filepath.Join(l.Dir, l.Name+".desktop")
}

func (l *AutostartLoginItem) Enabled(context.Context) (bool, error) {
	_, err := os.Stat(l.path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *AutostartLoginItem) SetEnabled(_ context.Context, enabled bool) error {
	if !enabled {
		if err := os.Remove(l.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove autostart entry: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	entry := strings.Join([]string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=" + l.Name,
		"Exec=" + l.Exec,
		"X-GNOME-Autostart-enabled=true",
		"",
	}, "\n")
	if err := writeFileAtomic(l.Dir, l.path(), []byte(entry)); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	return nil
}

// writeFileAtomic writes through a temp file in dir so a crash never leaves a
// truncated entry behind.
func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".radar-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

func escapeAppleScript(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
