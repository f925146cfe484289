// Package reference gathers supporting documents for a review.
package reference

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// RuleAdvisor looks up rule documents applicable to a review kind.
type RuleAdvisor interface {
	// RuleDocs returns project-relative paths of matching rule
	// documents in relevance order.
	RuleDocs(ctx context.Context, kind domain.ReviewKind) ([]string, error)

	// CriteriaDoc returns the advisor-reported review-criteria document
	// path, or "" when the advisor does not know one.
	CriteriaDoc(ctx context.Context) (string, error)
}

// SpecAdvisor looks up specification documents related to the review
// targets.
type SpecAdvisor interface {
	SpecDocs(ctx context.Context, kind domain.ReviewKind, targets []string) ([]string, error)
}

// AdvisorConfigFile is the fixed project-relative artifact whose
// presence signals that the advisor subsystem is installed.
const AdvisorConfigFile = "config.yaml"

// AdvisorAvailable reports whether the advisor subsystem is installed
// under advisorDir (relative to root).
func AdvisorAvailable(root, advisorDir string) bool {
	_, err := os.Stat(filepath.Join(root, advisorDir, AdvisorConfigFile))
	return err == nil
}

// ScriptAdvisor queries the advisor subsystem's lookup script. It
// implements both RuleAdvisor and SpecAdvisor.
type ScriptAdvisor struct {
	// Root is the project root the advisor runs in.
	Root string
	// Dir is the advisor directory relative to Root.
	Dir string
}

var (
	_ RuleAdvisor = (*ScriptAdvisor)(nil)
	_ SpecAdvisor = (*ScriptAdvisor)(nil)
)

// NewScriptAdvisor creates an advisor adapter for the given directory.
func NewScriptAdvisor(root, dir string) *ScriptAdvisor {
	return &ScriptAdvisor{Root: root, Dir: dir}
}

// RuleDocs queries the advisor for rule documents matching kind.
func (a *ScriptAdvisor) RuleDocs(ctx context.Context, kind domain.ReviewKind) ([]string, error) {
	return a.query(ctx, "--role", "rule", "--type", string(kind))
}

// SpecDocs queries the advisor for spec documents related to targets.
func (a *ScriptAdvisor) SpecDocs(ctx context.Context, kind domain.ReviewKind, targets []string) ([]string, error) {
	args := append([]string{"--role", "spec", "--type", string(kind)}, targets...)
	return a.query(ctx, args...)
}

// CriteriaDoc asks the advisor for the review-criteria document.
func (a *ScriptAdvisor) CriteriaDoc(ctx context.Context) (string, error) {
	paths, err := a.query(ctx, "--role", "criteria")
	if err != nil || len(paths) == 0 {
		return "", err
	}
	return paths[0], nil
}

// query runs the advisor lookup script and parses newline-separated
// paths from stdout. Lookup failures degrade to an empty result: the
// collector treats missing references as skippable, never fatal.
func (a *ScriptAdvisor) query(ctx context.Context, args ...string) ([]string, error) {
	script := filepath.Join(a.Root, a.Dir, "scripts", "find_references.py")
	if _, err := os.Stat(script); err != nil {
		return nil, nil
	}

	// #nosec G204 - the script path derives from project config.
	cmd := exec.CommandContext(ctx, "python3", append([]string{script}, args...)...)
	cmd.Dir = a.Root
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &bytes.Buffer{}
	cmd.Stdout = stdout

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}
