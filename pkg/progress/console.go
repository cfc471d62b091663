package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var categoryStyles = map[Category]lipgloss.Style{
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Match:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	Missing: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	Extra:   lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	Fatal: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("160")),
}

// Console writes one line per entry with a fixed-width category tag.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewConsole returns a console sink on w. Colour is enabled only when w is a
// terminal.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w, color: isTerminal(w)}
}

// SetColor forces colour on or off.
func (c *Console) SetColor(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = on
}

// Emit writes e as a single line.
func (c *Console) Emit(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", c.tag(e.Category), e.Message)
}

func (c *Console) tag(cat Category) string {
	label := fmt.Sprintf("%-7s", strings.ToUpper(string(cat)))
	if !c.color {
		return "[" + label + "]"
	}
	style, ok := categoryStyles[cat]
	if !ok {
		return "[" + label + "]"
	}
	return style.Render("[" + label + "]")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
