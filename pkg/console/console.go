// Package console prints run progress to the terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/headliner/pkg/report"
)

// Level represents the console verbosity level
type Level int

const (
	// LevelQuiet shows only errors, warnings and the final summary
	LevelQuiet Level = iota
	// LevelNormal shows standard progress (default)
	LevelNormal
	// LevelVerbose also shows locator and navigation details
	LevelVerbose
	// LevelDebug shows everything
	LevelDebug
)

// Verbosities lists the accepted verbosity names.
var Verbosities = []string{"quiet", "normal", "verbose", "debug"}

// ParseLevel converts a verbosity name to a Level. Unknown names map to LevelNormal.
func ParseLevel(level string) Level {
	switch level {
	case "quiet":
		return LevelQuiet
	case "verbose":
		return LevelVerbose
	case "debug":
		return LevelDebug
	default:
		return LevelNormal
	}
}

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	amber      = lipgloss.Color("#FFD580")
	mutedGray  = lipgloss.Color("#6B7280")
	alertRed   = lipgloss.Color("#FF6B6B")
)

type styles struct {
	header  lipgloss.Style
	step    lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:  r.NewStyle().Foreground(salmonPink).Bold(true),
		step:    r.NewStyle().Foreground(salmonPink),
		info:    r.NewStyle(),
		success: r.NewStyle().Foreground(mintGreen).Bold(true),
		warning: r.NewStyle().Foreground(amber),
		err:     r.NewStyle().Foreground(alertRed).Bold(true),
		detail:  r.NewStyle().Foreground(mutedGray),
	}
}

// Logger writes styled progress lines for a single run.
type Logger struct {
	level     Level
	writer    io.Writer
	styles    styles
	stepCount int
}

// New creates a console logger writing to stdout.
func New(level Level) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a console logger writing to w. Colors are only
// emitted when w is a terminal.
func NewWithWriter(level Level, w io.Writer) *Logger {
	return &Logger{
		level:  level,
		writer: w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

func (l *Logger) println(style lipgloss.Style, text string) {
	fmt.Fprintln(l.writer, style.Render(text))
}

// Header prints a prominent header message
func (l *Logger) Header(message string) {
	if l.level < LevelNormal {
		return
	}
	rule := strings.Repeat("=", 60)
	l.println(l.styles.header, rule)
	l.println(l.styles.header, "  "+message)
	l.println(l.styles.header, rule)
}

// Step prints a numbered step
func (l *Logger) Step(message string) {
	if l.level < LevelNormal {
		return
	}
	l.stepCount++
	l.println(l.styles.step, fmt.Sprintf("[%d] %s", l.stepCount, message))
}

// Infof prints an informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= LevelNormal {
		l.println(l.styles.info, fmt.Sprintf(format, args...))
	}
}

// Successf prints a success message with checkmark
func (l *Logger) Successf(format string, args ...interface{}) {
	if l.level >= LevelNormal {
		l.println(l.styles.success, "✓ "+fmt.Sprintf(format, args...))
	}
}

// Warningf prints a warning; shown at every level.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.println(l.styles.warning, "⚠ Warning: "+fmt.Sprintf(format, args...))
}

// Errorf prints an error; shown at every level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.println(l.styles.err, "Error: "+fmt.Sprintf(format, args...))
}

// Verbosef prints detailed information (verbose and debug only)
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if l.level >= LevelVerbose {
		l.println(l.styles.detail, "→ "+fmt.Sprintf(format, args...))
	}
}

// Debugf prints debug information (debug only)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		l.println(l.styles.detail, "[DEBUG] "+fmt.Sprintf(format, args...))
	}
}

// Summary prints the final run summary. A failure is shown by status only;
// the caller reports the error itself.
func (l *Logger) Summary(summary *report.Summary) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(l.writer)
	l.println(l.styles.header, rule)
	l.println(l.styles.header, "  RUN SUMMARY")
	l.println(l.styles.header, rule)

	fmt.Fprint(l.writer, "  Status: ")
	switch summary.Status {
	case report.StatusSuccess:
		l.println(l.styles.success, "✓ SAVED")
	case report.StatusUnchanged:
		l.println(l.styles.info, "UNCHANGED")
	case report.StatusDryRun:
		l.println(l.styles.warning, "DRY RUN")
	case report.StatusFailed:
		l.println(l.styles.err, "✗ FAILED")
	default:
		fmt.Fprintln(l.writer, summary.Status)
	}

	fmt.Fprintf(l.writer, "  Run: #%d\n", summary.RunNumber)
	fmt.Fprintf(l.writer, "  Duration: %s\n", summary.Duration.Round(time.Second))

	if summary.Before != "" || summary.After != "" {
		fmt.Fprintf(l.writer, "  Headline: %q -> %q\n", summary.Before, summary.After)
	}

	if l.level >= LevelVerbose && len(summary.Locators) > 0 {
		names := make([]string, 0, len(summary.Locators))
		for name := range summary.Locators {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			l.println(l.styles.detail, fmt.Sprintf("    %s: %s", name, summary.Locators[name]))
		}
	}

	l.println(l.styles.header, rule)
}
