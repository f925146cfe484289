package reference

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// ruleSearchDirs are scanned for rule documents when the advisor
// subsystem is absent.
var ruleSearchDirs = []string{"rules", filepath.Join("docs", "rules")}

// Collector gathers the ReferenceSet for a review. Collection is
// best-effort throughout: a missing document is skipped, never an
// error.
type Collector struct {
	Root  string
	Rules RuleAdvisor
	Specs SpecAdvisor
	// AdvisorAvailable is resolved once per session and threaded here
	// rather than re-probed.
	AdvisorAvailable bool
	// SavedCriteriaPath is the project-local criteria location checked
	// after the advisor-reported one.
	SavedCriteriaPath string
	// BundledCriteriaPath is the last-resort criteria document shipped
	// with the orchestrator.
	BundledCriteriaPath string
}

// Collect gathers references for the given kind and targets.
//
// For generic reviews the advisory subsystem is bypassed intentionally
// and only the criteria document location is returned. Otherwise the
// advisors are queried when available; without them a best-effort
// directory search runs instead.
func (c *Collector) Collect(ctx context.Context, kind domain.ReviewKind, targets []string) domain.ReferenceSet {
	set := domain.ReferenceSet{}

	if kind == domain.KindGeneric {
		set.CriteriaDoc = c.resolveCriteria(ctx)
		return set
	}

	if c.AdvisorAvailable && c.Rules != nil {
		if docs, err := c.Rules.RuleDocs(ctx, kind); err == nil {
			set.Rules = dedupe(docs)
		}
		if c.Specs != nil {
			if docs, err := c.Specs.SpecDocs(ctx, kind, targets); err == nil {
				set.Specs = dedupe(docs)
			}
		}
	} else {
		set.Rules = c.searchRuleDocs(kind)
	}

	set.CriteriaDoc = c.resolveCriteria(ctx)
	return set
}

// searchRuleDocs scans the conventional rule directories for markdown
// documents mentioning the review kind. Missing directories and files
// are silently skipped.
func (c *Collector) searchRuleDocs(kind domain.ReviewKind) []string {
	var found []string
	for _, dir := range ruleSearchDirs {
		entries, err := os.ReadDir(filepath.Join(c.Root, dir))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			if strings.Contains(strings.ToLower(entry.Name()), string(kind)) {
				found = append(found, filepath.Join(dir, entry.Name()))
			}
		}
	}
	sort.Strings(found)
	return dedupe(found)
}

// resolveCriteria resolves the review-criteria document location.
// Order: advisor-reported path, saved project-local path, bundled
// default. First existing match wins; "" when none exist.
func (c *Collector) resolveCriteria(ctx context.Context) string {
	if c.AdvisorAvailable && c.Rules != nil {
		if path, err := c.Rules.CriteriaDoc(ctx); err == nil && path != "" {
			if c.exists(path) {
				return path
			}
		}
	}
	if c.SavedCriteriaPath != "" && c.exists(c.SavedCriteriaPath) {
		return c.SavedCriteriaPath
	}
	if c.BundledCriteriaPath != "" && c.exists(c.BundledCriteriaPath) {
		return c.BundledCriteriaPath
	}
	return ""
}

func (c *Collector) exists(path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Root, path)
	}
	_, err := os.Stat(path)
	return err == nil
}

// dedupe removes duplicate paths preserving first-seen order.
func dedupe(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
