package terminal

import (
	"fmt"
	"strings"
	"time"
)

// MaxReportWidth is the maximum width for rendered reports.
const MaxReportWidth = 90

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs / 60)
	return fmt.Sprintf("%dm %.1fs", mins, secs-float64(mins*60))
}

// Ruler returns a dim horizontal rule string.
func Ruler(width int, char string) string {
	return fmt.Sprintf("%s%s%s", Color(Dim), strings.Repeat(char, width), Color(Reset))
}

// ReportWidth returns the report width clamped to MaxReportWidth.
func ReportWidth() int {
	w := Width()
	if w > MaxReportWidth {
		return MaxReportWidth
	}
	return w
}

// WrapText wraps text to width with the given indent on every line.
func WrapText(text string, width int, indent string) string {
	if width <= len(indent) {
		return indent + text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	var line strings.Builder
	line.WriteString(indent)
	lineWidth := len(indent)

	for i, word := range words {
		switch {
		case i == 0:
			line.WriteString(word)
			lineWidth += len(word)
		case lineWidth+1+len(word) > width:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(indent)
			line.WriteString(word)
			lineWidth = len(indent) + len(word)
		default:
			line.WriteString(" ")
			line.WriteString(word)
			lineWidth += 1 + len(word)
		}
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}
