package terminal

import (
	"fmt"
	"os"
	"strings"
)

// Style represents a log message style.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
	StylePhase   Style = "phase"
)

// tag renders the "[review]" prefix with the inner label colored.
func tag(inner string) string {
	return fmt.Sprintf("%s[%s%sreview%s%s]%s",
		Color(Dim), Color(Reset), Color(inner), Color(Reset), Color(Dim), Color(Reset))
}

// Logger provides styled logging to stderr.
type Logger struct {
	isTTY   bool
	verbose bool
}

// NewLogger creates a new logger.
func NewLogger(verbose bool) *Logger {
	return &Logger{
		isTTY:   IsStderrTTY(),
		verbose: verbose,
	}
}

// Log prints a styled log message to stderr.
func (l *Logger) Log(msg string, style Style) {
	styleColor := Cyan
	switch style {
	case StyleInfo:
		styleColor = Cyan
	case StyleSuccess:
		styleColor = Green
	case StyleWarning:
		styleColor = Yellow
	case StyleError:
		styleColor = Red
	case StyleDim:
		styleColor = Dim
	case StylePhase:
		styleColor = Magenta + Bold
	}

	// Clear any spinner remnants if TTY
	if l.isTTY {
		fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", 100)+"\r")
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", tag(styleColor), msg)
}

// Logf prints a formatted styled log message to stderr.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

// Debugf prints a dim message only when verbose mode is on.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.Log(fmt.Sprintf(format, args...), StyleDim)
}
