// Package ui renders terminal output styled for the effective color scheme.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/prlink/internal/models"
)

// Palette is the set of colors used for one scheme
type Palette struct {
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}

var (
	darkPalette = Palette{
		Accent:  lipgloss.Color("#58A6FF"),
		Success: lipgloss.Color("#3FB950"),
		Warning: lipgloss.Color("#D29922"),
		Error:   lipgloss.Color("#F85149"),
		Muted:   lipgloss.Color("#8B949E"),
	}
	lightPalette = Palette{
		Accent:  lipgloss.Color("#0969DA"),
		Success: lipgloss.Color("#1A7F37"),
		Warning: lipgloss.Color("#9A6700"),
		Error:   lipgloss.Color("#CF222E"),
		Muted:   lipgloss.Color("#57606A"),
	}
)

// Theme holds the lipgloss styles for one scheme
type Theme struct {
	Scheme  models.Scheme
	Title   lipgloss.Style
	Result  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Box     lipgloss.Style
}

// NewTheme builds the styles for s
func NewTheme(s models.Scheme) Theme {
	p := lightPalette
	if s == models.SchemeDark {
		p = darkPalette
	}

	return Theme{
		Scheme:  s,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Result:  lipgloss.NewStyle().Foreground(p.Accent).Underline(true),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Error:   lipgloss.NewStyle().Foreground(p.Error),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
	}
}

// FormTheme returns the interactive form theme matching s
func FormTheme(s models.Scheme) *huh.Theme {
	if s == models.SchemeDark {
		return huh.ThemeDracula()
	}
	return huh.ThemeBase()
}

// Printer writes styled lines. Out receives results, Err receives
// notifications so piped output stays clean.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Theme Theme
}

// NewPrinter returns a Printer for the given scheme
func NewPrinter(out, errOut io.Writer, s models.Scheme) *Printer {
	return &Printer{Out: out, Err: errOut, Theme: NewTheme(s)}
}

// Title prints a heading
func (p *Printer) Title(text string) {
	fmt.Fprintln(p.Out, p.Theme.Title.Render(text))
}

// Result prints a derived URL on its own line
func (p *Printer) Result(u string) {
	fmt.Fprintln(p.Out, p.Theme.Result.Render(u))
}

// Info prints secondary text to the notification stream
func (p *Printer) Info(text string) {
	fmt.Fprintln(p.Err, p.Theme.Muted.Render(text))
}

// Success prints a transient success notification
func (p *Printer) Success(text string) {
	fmt.Fprintf(p.Err, "%s %s\n", p.Theme.Success.Render("✓"), p.Theme.Success.Render(text))
}

// Warning prints a warning notification
func (p *Printer) Warning(text string) {
	fmt.Fprintf(p.Err, "%s %s\n", p.Theme.Warning.Render("⚠"), p.Theme.Warning.Render(text))
}

// Error prints an error notification
func (p *Printer) Error(text string) {
	fmt.Fprintf(p.Err, "%s %s\n", p.Theme.Error.Render("✗"), p.Theme.Error.Render(text))
}

// Box prints content framed under a title
func (p *Printer) Box(title, content string) {
	fmt.Fprintln(p.Out, p.Theme.Box.Render(p.Theme.Title.Render(title)+"\n"+content))
}
