package scheme

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Ambient reports the environment's dark/light preference
type Ambient interface {
	PrefersDark() bool
}

// StaticAmbient is a fixed ambient signal
type StaticAmbient bool

func (a StaticAmbient) PrefersDark() bool {
	return bool(a)
}

// TerminalAmbient asks the terminal for its background color. When stdout
// is not a terminal it reports Fallback.
type TerminalAmbient struct {
	Out      *os.File
	Fallback bool
}

func (a TerminalAmbient) PrefersDark() bool {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return a.Fallback
	}
	return lipgloss.HasDarkBackground()
}

// ParseAmbient turns a configured override into an Ambient. An empty or
// "auto" value returns detect.
func ParseAmbient(s string, detect Ambient) (Ambient, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return detect, nil
	case "dark":
		return StaticAmbient(true), nil
	case "light":
		return StaticAmbient(false), nil
	}
	return nil, fmt.Errorf("invalid ambient value %q (must be: auto, dark, light)", s)
}
