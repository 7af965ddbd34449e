// Package planner turns a resolved release set into a concrete mutation plan
// for the workspace manifests. Planning is pure computation: validation and
// version arithmetic all happen before anything is allowed to touch disk, so
// a plan either exists in full or not at all.
package planner

import (
	"github.com/monover/monover/internal/workspace"
)

// Bump is one workspace version change.
type Bump struct {
	// Workspace is the workspace being released.
	Workspace *workspace.Workspace

	// From is the version the bump was computed from.
	From string

	// To is the version the workspace moves to.
	To string
}

// Rewrite is one cross-reference range update in a dependent's manifest,
// keeping an internal dependency range pointing at the bumped workspace.
type Rewrite struct {
	// Dependent is the workspace whose manifest holds the range.
	Dependent *workspace.Workspace

	// Kind is the dependency map the range lives in.
	Kind string

	// Target is the bumped workspace the range refers to.
	Target *workspace.Workspace

	// From and To are the range before and after the rewrite.
	From string
	To   string
}

// SkippedRange is a pinning range left untouched because rewriting it would
// change its meaning, such as a compound range carrying an upper bound.
type SkippedRange struct {
	// Dependent is the workspace whose manifest holds the range.
	Dependent *workspace.Workspace

	// Kind is the dependency map the range lives in.
	Kind string

	// Target is the bumped workspace the range refers to.
	Target *workspace.Workspace

	// Range is the untouched range expression.
	Range string
}

// ReleasePlan is the full set of manifest mutations one apply performs.
type ReleasePlan struct {
	Bumps    []Bump
	Rewrites []Rewrite

	// Skipped lists pinning ranges the plan refuses to rewrite. They are
	// surfaced as warnings rather than silently reshaped.
	Skipped []SkippedRange

	// Prerelease marks a plan whose bumps are prerelease cuts: applying it
	// freezes each workspace's stable base instead of clearing it.
	Prerelease bool
}

// IsEmpty reports whether the plan changes nothing.
func (p *ReleasePlan) IsEmpty() bool {
	return len(p.Bumps) == 0
}

// Touched returns every workspace whose manifest the plan modifies, in name
// order with no duplicates.
func (p *ReleasePlan) Touched() []*workspace.Workspace {
	seen := make(map[*workspace.Workspace]struct{})
	var out []*workspace.Workspace
	add := func(w *workspace.Workspace) {
		if _, ok := seen[w]; !ok {
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	for _, b := range p.Bumps {
		add(b.Workspace)
	}
	for _, r := range p.Rewrites {
		add(r.Dependent)
	}
	sortWorkspaces(out)
	return out
}
