package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
	"github.com/richhaase/agentic-review-orchestrator/internal/terminal"
)

func TestInterpretAnswer_NumericChoiceSelectsOption(t *testing.T) {
	options := []string{"code", "design", "plan"}

	if got := interpretAnswer("2\n", options); got != "design" {
		t.Errorf("expected 'design', got %q", got)
	}
	if got := interpretAnswer("  1  \n", options); got != "code" {
		t.Errorf("expected 'code', got %q", got)
	}
}

func TestInterpretAnswer_OutOfRangeNumberPassesThrough(t *testing.T) {
	options := []string{"code", "design"}

	if got := interpretAnswer("7\n", options); got != "7" {
		t.Errorf("expected literal '7', got %q", got)
	}
	if got := interpretAnswer("0\n", options); got != "0" {
		t.Errorf("expected literal '0', got %q", got)
	}
}

func TestInterpretAnswer_FreeFormAnswer(t *testing.T) {
	if got := interpretAnswer("src/auth/\n", nil); got != "src/auth/" {
		t.Errorf("expected 'src/auth/', got %q", got)
	}
	if got := interpretAnswer("\n", []string{"code"}); got != "" {
		t.Errorf("expected empty answer for blank line, got %q", got)
	}
}

func TestStdinPrompter_RendersOptionsAndReadsAnswer(t *testing.T) {
	terminal.WithColorsDisabled(func() {
		var out bytes.Buffer
		p := &stdinPrompter{
			in:  bufio.NewReader(strings.NewReader("1\n")),
			out: &out,
		}

		answer, err := p.Ask(domain.Question{
			Key:     domain.QuestionType,
			Message: "Select a review type.",
			Options: []string{"code", "design"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if answer != "code" {
			t.Errorf("expected 'code', got %q", answer)
		}
		if !strings.Contains(out.String(), "1) code") {
			t.Errorf("options not rendered: %q", out.String())
		}
		if !strings.Contains(out.String(), "Select a review type.") {
			t.Errorf("question not rendered: %q", out.String())
		}
	})
}

func TestStdinPrompter_EOFCancels(t *testing.T) {
	var out bytes.Buffer
	p := &stdinPrompter{
		in:  bufio.NewReader(strings.NewReader("")),
		out: &out,
	}

	answer, err := p.Ask(domain.Question{Key: domain.QuestionTarget, Message: "Specify a target."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "" {
		t.Errorf("expected empty answer on EOF, got %q", answer)
	}
}
