package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Output serializes writes to stdout between reporters and the check
// behaviors that print file content. It also owns the color styles.
type Output struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
}

// Styles are the lipgloss styles used for rendering.
type Styles struct {
	Error  lipgloss.Style
	Good   lipgloss.Style
	Info   lipgloss.Style
	Strong lipgloss.Style
	Mark   lipgloss.Style
}

// NewOutput wraps w. Styles render plain text unless color is set.
func NewOutput(w io.Writer, color bool) *Output {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Output{
		w: w,
		styles: Styles{
			Error:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			Good:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
			Info:   r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
			Strong: r.NewStyle().Bold(true),
			Mark:   r.NewStyle().Foreground(lipgloss.Color("3")).Underline(true),
		},
	}
}

// Styles returns the rendering styles.
func (o *Output) Styles() Styles { return o.styles }

// Write writes p atomically with respect to other Output writes.
func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

// WriteString writes s atomically.
func (o *Output) WriteString(s string) error {
	_, err := o.Write([]byte(s))
	return err
}

// Printf formats and writes atomically.
func (o *Output) Printf(format string, args ...any) error {
	return o.WriteString(fmt.Sprintf(format, args...))
}

// ColorEnabled resolves a --color choice of auto, always or never for f.
func ColorEnabled(choice string, f *os.File) (bool, error) {
	switch strings.ToLower(choice) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return f != nil && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color choice %q (want auto, always or never)", choice)
	}
}
