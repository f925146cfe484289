package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
	"github.com/richhaase/agentic-review-orchestrator/internal/session"
	"github.com/richhaase/agentic-review-orchestrator/internal/terminal"
)

// stdinPrompter asks clarification questions on stderr and reads
// answers from stdin. An empty line or EOF cancels the review.
type stdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ session.QuestionPrompter = (*stdinPrompter)(nil)

func newStdinPrompter() *stdinPrompter {
	return &stdinPrompter{in: bufio.NewReader(os.Stdin), out: os.Stderr}
}

func (p *stdinPrompter) Ask(q domain.Question) (string, error) {
	fmt.Fprintln(p.out)
	for i, opt := range q.Options {
		fmt.Fprintf(p.out, "  %s%d)%s %s\n",
			terminal.Color(terminal.Dim), i+1, terminal.Color(terminal.Reset), opt)
	}
	fmt.Fprint(p.out, formatPrompt(q.Message, "(empty to cancel):"))

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		// EOF without input means the user is done
		return "", nil
	}

	return interpretAnswer(line, q.Options), nil
}

// interpretAnswer trims the raw input line and maps a numeric choice
// onto the corresponding option. Anything else passes through as a
// free-form answer.
func interpretAnswer(line string, options []string) string {
	answer := strings.TrimSpace(line)
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return answer
}

// formatPrompt creates a colored prompt string for user input.
func formatPrompt(question, hint string) string {
	return fmt.Sprintf("%s?%s %s %s%s%s ",
		terminal.Color(terminal.Cyan), terminal.Color(terminal.Reset),
		question,
		terminal.Color(terminal.Dim), hint, terminal.Color(terminal.Reset))
}
