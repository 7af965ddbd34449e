// Package release holds the central working set of the release machinery:
// the per-workspace decision map, the dependency propagation rules that grow
// it, and the relevancy rules that shrink it.
package release

import (
	"fmt"
	"sort"
	"strings"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/workspace"
)

// Releases maps each workspace to its recorded decision. A workspace has at
// most one decision at a time; absence means it is not part of the release
// set at all.
type Releases map[*workspace.Workspace]decision.Decision

// Copy returns a shallow copy of the map.
func (r Releases) Copy() Releases {
	out := make(Releases, len(r))
	for w, d := range r {
		out[w] = d
	}
	return out
}

// SortedWorkspaces returns the keys in name order for deterministic
// iteration.
func (r Releases) SortedWorkspaces() []*workspace.Workspace {
	out := make([]*workspace.Workspace, 0, len(r))
	for w := range r {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Undecided returns the workspaces whose entry is still Undecided, in name
// order.
func (r Releases) Undecided() []*workspace.Workspace {
	var out []*workspace.Workspace
	for _, w := range r.SortedWorkspaces() {
		if r[w].Kind == decision.Undecided {
			out = append(out, w)
		}
	}
	return out
}

// Problem is one workspace-level validation failure.
type Problem struct {
	Workspace string
	Reason    string
}

// ValidationError aggregates every validation failure across the release set
// so a user sees all problems in one pass rather than one at a time.
type ValidationError struct {
	Problems []Problem
}

// Add records a validation failure for a workspace.
func (e *ValidationError) Add(w *workspace.Workspace, reason string) {
	e.Problems = append(e.Problems, Problem{Workspace: w.Name(), Reason: reason})
}

// Err returns the error value, or nil when no problems were recorded.
func (e *ValidationError) Err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Error lists every problem.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, fmt.Sprintf("%s: %s", p.Workspace, p.Reason))
	}
	return fmt.Sprintf("%d release decisions are invalid:\n  %s", len(e.Problems), strings.Join(lines, "\n  "))
}

// Is makes errors.Is(err, decision.ErrInvalidVersion) match aggregated
// validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == decision.ErrInvalidVersion
}
