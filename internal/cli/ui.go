package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/butterfly/pkg/butterfly"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary, selection
	colorGreen  = lipgloss.Color("35")  // success, cache hits
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands, even parents
	colorOrange = lipgloss.Color("209") // odd parents
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // headers
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleEven and StyleOdd mark the two parents of a butterfly node.
	StyleEven = lipgloss.NewStyle().Foreground(colorBlue)
	StyleOdd  = lipgloss.NewStyle().Foreground(colorOrange)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
)

// statusIcon pairs a glyph with its color.
type statusIcon struct {
	glyph string
	style lipgloss.Style
}

var (
	iconSuccess = statusIcon{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	iconError   = statusIcon{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	iconWarning = statusIcon{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	iconInfo    = statusIcon{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// statusOut receives status lines. Command payloads (JSON, tables, TOML)
// go to cmd.OutOrStdout instead.
var statusOut io.Writer = os.Stdout

func printStatus(icon statusIcon, msg string) {
	fmt.Fprintln(statusOut, icon.style.Render(icon.glyph)+" "+msg)
}

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	printStatus(iconSuccess, fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	printStatus(iconError, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	printStatus(iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	printStatus(iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted detail line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printGraphSummary prints the size of g on one line, followed by whether
// it came from the cache.
func printGraphSummary(g *butterfly.Graph, cached bool) {
	fmt.Fprintln(statusOut, "  "+graphSummary(g, cached))
}

func graphSummary(g *butterfly.Graph, cached bool) string {
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d inputs", g.Size())),
		StyleDim.Render(fmt.Sprintf("%d stages", g.Stages())),
		StyleDim.Render(fmt.Sprintf("%d nodes", g.NodeCount())),
		StyleDim.Render(fmt.Sprintf("%d edges", g.EdgeCount())),
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	return strings.Join(parts, sep)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(statusOut)
}
