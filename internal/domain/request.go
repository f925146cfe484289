// Package domain provides core types for the review orchestrator.
package domain

import "fmt"

// ReviewKind identifies the category of artifact under review. It
// determines which criteria apply and how references are collected.
type ReviewKind string

const (
	KindRequirement ReviewKind = "requirement"
	KindDesign      ReviewKind = "design"
	KindCode        ReviewKind = "code"
	KindPlan        ReviewKind = "plan"
	KindGeneric     ReviewKind = "generic"
)

// ParseReviewKind converts a string to a ReviewKind.
// An empty string is valid and returns "" (kind not yet known).
func ParseReviewKind(s string) (ReviewKind, error) {
	switch ReviewKind(s) {
	case KindRequirement, KindDesign, KindCode, KindPlan, KindGeneric, "":
		return ReviewKind(s), nil
	default:
		return "", fmt.Errorf("unknown review kind %q, supported: requirement, design, code, plan, generic", s)
	}
}

// EnginePreference expresses which review engine the caller asked for.
type EnginePreference int

const (
	// PreferUnspecified lets the selector probe for the primary engine.
	PreferUnspecified EnginePreference = iota
	// PreferPrimary explicitly requests the primary engine.
	PreferPrimary
	// PreferFallback explicitly requests the fallback engine and skips
	// the primary probe entirely.
	PreferFallback
)

// ReviewRequest is the fully-specified review job handed to a session.
// It is immutable once resolved; the invoking workflow owns it.
type ReviewRequest struct {
	Kind       ReviewKind
	Targets    []string
	Preference EnginePreference
	AutoFix    bool
}
