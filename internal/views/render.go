package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const DefaultPanelWidth = 44

type AppData struct {
	Header        string
	Body          string
	StatusLine    string
	StatusIsError bool
	Footer        string
	Width         int
	// Inactive panels are drawn in a single grey whose brightness follows Opacity.
	Inactive bool
	Opacity  float64
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sweepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func RenderApp(data AppData) string {
	width := data.Width
	if width <= 0 {
		width = DefaultPanelWidth
	}
	body := panelStyle.Width(width).Render(data.Body)

	var status string
	switch {
	case data.StatusLine == "":
	case data.StatusIsError:
		status = errorStyle.Render("error: " + data.StatusLine)
	default:
		status = statusStyle.Render(data.StatusLine)
	}

	lines := []string{headerStyle.Render(data.Header), body}
	if status != "" {
		lines = append(lines, status)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	out := strings.Join(lines, "\n")
	if data.Inactive {
		return Dim(out, data.Opacity)
	}
	return out
}

type CollapsedData struct {
	Todo     int
	Waiting  int
	Done     int
	Labels   [3]string
	Sweeping bool
	Sweep    string
	Hint     string
}

// RenderCollapsed draws the one-line status item shown while the panel is hidden.
func RenderCollapsed(data CollapsedData) string {
	icon := "◎"
	if data.Sweeping {
		icon = sweepStyle.Render(strings.TrimSpace(data.Sweep + " ◉"))
	}
	line := fmt.Sprintf("%s radar  %d %s · %d %s · %d %s",
		icon,
		data.Todo, data.Labels[0],
		data.Waiting, data.Labels[1],
		data.Done, data.Labels[2],
	)
	if data.Hint != "" {
		line += "  " + footerStyle.Render(data.Hint)
	}
	return line
}

// GrayForOpacity maps an opacity in [0,1] onto the 24-step ANSI greyscale ramp.
func GrayForOpacity(opacity float64) lipgloss.Color {
	if math.IsNaN(opacity) || opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	step := int(math.Round(opacity * 23))
	return lipgloss.Color(fmt.Sprintf("%d", 232+step))
}

// Dim re-renders s without its styling in the grey for opacity.
func Dim(s string, opacity float64) string {
	style := lipgloss.NewStyle().Foreground(GrayForOpacity(opacity))
	lines := strings.Split(stripANSI(s), "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func stripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
