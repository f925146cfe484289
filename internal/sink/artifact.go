// Package sink persists and presents final review results.
package sink

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// Presenter hands a persisted result artifact to an external
// presentation collaborator. The sink never renders findings to the
// user itself in interactive mode.
type Presenter interface {
	Present(ctx context.Context, artifactPath string) error
}

// Metadata is the session metadata serialized into the artifact front
// matter.
type Metadata struct {
	ReviewType    string    `yaml:"review_type"`
	Engine        string    `yaml:"engine"`
	TargetFiles   []string  `yaml:"target_files"`
	ReferenceDocs []string  `yaml:"reference_docs"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// ArtifactName returns the unique per-session artifact file name.
func ArtifactName(ts time.Time) string {
	return fmt.Sprintf("review-result-%s.md", ts.Format("20060102-150405"))
}

// WriteArtifact serializes the final result into a uniquely-named
// markdown file under tempDir and returns its path. An empty tempDir
// falls back to the system temp directory.
func WriteArtifact(tempDir string, result *domain.ReviewResult, meta Metadata) (string, error) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	front, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode artifact front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n\n")
	b.WriteString(RenderFindings(result.Findings))

	path := filepath.Join(tempDir, ArtifactName(meta.Timestamp))
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return "", fmt.Errorf("failed to write result artifact: %w", err)
	}
	return path, nil
}

// RenderFindings renders findings in the fixed three-section format
// with trailing summary counts.
func RenderFindings(findings []domain.Finding) string {
	var b strings.Builder

	titles := map[domain.Severity]string{
		domain.SeverityCritical:    "## Critical",
		domain.SeverityQuality:     "## Quality",
		domain.SeverityImprovement: "## Improvement",
	}

	for _, sev := range domain.Severities {
		b.WriteString(titles[sev])
		b.WriteString("\n\n")
		for _, f := range domain.FilterBySeverity(findings, sev) {
			fmt.Fprintf(&b, "### %s\n", f.Title)
			if f.Location != "" {
				fmt.Fprintf(&b, "Location: %s\n", f.Location)
			}
			if f.Description != "" {
				fmt.Fprintf(&b, "Description: %s\n", f.Description)
			}
			if f.SuggestedFix != "" {
				fmt.Fprintf(&b, "Fix: %s\n", f.SuggestedFix)
			}
			b.WriteString("\n")
		}
	}

	counts := domain.CountBySeverity(findings)
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "Critical: %d\n", counts[domain.SeverityCritical])
	fmt.Fprintf(&b, "Quality: %d\n", counts[domain.SeverityQuality])
	fmt.Fprintf(&b, "Improvement: %d\n", counts[domain.SeverityImprovement])

	return b.String()
}

// CommandPresenter invokes an external presentation command with the
// artifact path as its final argument.
type CommandPresenter struct {
	Command string
}

var _ Presenter = (*CommandPresenter)(nil)

// Present hands the artifact off. An empty command is a no-op: the
// artifact path is still surfaced to the caller.
func (p *CommandPresenter) Present(ctx context.Context, artifactPath string) error {
	parts := strings.Fields(p.Command)
	if len(parts) == 0 {
		return nil
	}

	// #nosec G204 - the presenter command comes from project config.
	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], artifactPath)...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("presenter command failed: %w", err)
	}
	return nil
}
