package reference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// stubRuleAdvisor returns canned rule docs and criteria.
type stubRuleAdvisor struct {
	rules    []string
	criteria string
}

func (s *stubRuleAdvisor) RuleDocs(_ context.Context, _ domain.ReviewKind) ([]string, error) {
	return s.rules, nil
}

func (s *stubRuleAdvisor) CriteriaDoc(_ context.Context) (string, error) {
	return s.criteria, nil
}

type stubSpecAdvisor struct {
	specs []string
}

func (s *stubSpecAdvisor) SpecDocs(_ context.Context, _ domain.ReviewKind, _ []string) ([]string, error) {
	return s.specs, nil
}

func writeFile(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("doc"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestCollectGenericBypassesAdvisors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, filepath.Join(".claude", "review", "criteria.md"))

	c := &Collector{
		Root:              root,
		Rules:             &stubRuleAdvisor{rules: []string{"rules/design.md"}},
		Specs:             &stubSpecAdvisor{specs: []string{"specs/auth/design/api.md"}},
		AdvisorAvailable:  true,
		SavedCriteriaPath: filepath.Join(".claude", "review", "criteria.md"),
	}

	set := c.Collect(context.Background(), domain.KindGeneric, []string{"CLAUDE.md"})
	if !set.IsEmpty() {
		t.Errorf("generic review must have empty rule/spec lists, got %+v", set)
	}
	if set.CriteriaDoc == "" {
		t.Error("expected criteria doc for generic review")
	}
}

func TestCollectWithAdvisorsMergesAndDedupes(t *testing.T) {
	c := &Collector{
		Root: t.TempDir(),
		Rules: &stubRuleAdvisor{
			rules: []string{"rules/code.md", "rules/security.md", "rules/code.md"},
		},
		Specs:            &stubSpecAdvisor{specs: []string{"specs/auth/design/api.md"}},
		AdvisorAvailable: true,
	}

	set := c.Collect(context.Background(), domain.KindCode, []string{"src/auth.go"})
	if len(set.Rules) != 2 {
		t.Errorf("rules = %v, want 2 de-duplicated entries", set.Rules)
	}
	if set.Rules[0] != "rules/code.md" || set.Rules[1] != "rules/security.md" {
		t.Errorf("order not preserved: %v", set.Rules)
	}
	if len(set.Specs) != 1 {
		t.Errorf("specs = %v, want 1 entry", set.Specs)
	}
}

func TestCollectWithoutAdvisorSearchesDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, filepath.Join("rules", "code-style.md"))
	writeFile(t, root, filepath.Join("rules", "design-principles.md"))
	writeFile(t, root, filepath.Join("docs", "rules", "code-security.md"))

	c := &Collector{Root: root, AdvisorAvailable: false}

	set := c.Collect(context.Background(), domain.KindCode, []string{"src/"})
	if len(set.Rules) != 2 {
		t.Fatalf("rules = %v, want the 2 code rule docs", set.Rules)
	}
	for _, r := range set.Rules {
		if filepath.Base(r) == "design-principles.md" {
			t.Errorf("design doc matched for code kind: %v", set.Rules)
		}
	}
}

func TestCollectMissingDirectoriesNeverFails(t *testing.T) {
	c := &Collector{Root: t.TempDir(), AdvisorAvailable: false}

	set := c.Collect(context.Background(), domain.KindPlan, nil)
	if !set.IsEmpty() {
		t.Errorf("expected empty set, got %+v", set)
	}
}

func TestResolveCriteriaOrder(t *testing.T) {
	root := t.TempDir()
	advisorDoc := writeFile(t, root, filepath.Join("docs", "advisor-criteria.md"))
	saved := writeFile(t, root, filepath.Join(".claude", "review", "criteria.md"))
	bundled := writeFile(t, root, filepath.Join("bundled", "criteria.md"))

	tests := []struct {
		name      string
		collector Collector
		want      string
	}{
		{
			name: "advisor path wins",
			collector: Collector{
				Root:                root,
				Rules:               &stubRuleAdvisor{criteria: advisorDoc},
				AdvisorAvailable:    true,
				SavedCriteriaPath:   saved,
				BundledCriteriaPath: bundled,
			},
			want: advisorDoc,
		},
		{
			name: "saved path when advisor silent",
			collector: Collector{
				Root:                root,
				Rules:               &stubRuleAdvisor{},
				AdvisorAvailable:    true,
				SavedCriteriaPath:   saved,
				BundledCriteriaPath: bundled,
			},
			want: saved,
		},
		{
			name: "bundled as last resort",
			collector: Collector{
				Root:                root,
				AdvisorAvailable:    false,
				SavedCriteriaPath:   filepath.Join(root, "missing.md"),
				BundledCriteriaPath: bundled,
			},
			want: bundled,
		},
		{
			name: "empty when nothing exists",
			collector: Collector{
				Root:                root,
				AdvisorAvailable:    false,
				SavedCriteriaPath:   filepath.Join(root, "missing.md"),
				BundledCriteriaPath: filepath.Join(root, "also-missing.md"),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.collector.resolveCriteria(context.Background())
			if got != tt.want {
				t.Errorf("resolveCriteria() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdvisorAvailable(t *testing.T) {
	root := t.TempDir()
	if AdvisorAvailable(root, filepath.Join(".claude", "doc-advisor")) {
		t.Error("advisor reported available without config artifact")
	}

	writeFile(t, root, filepath.Join(".claude", "doc-advisor", "config.yaml"))
	if !AdvisorAvailable(root, filepath.Join(".claude", "doc-advisor")) {
		t.Error("advisor reported unavailable despite config artifact")
	}
}
