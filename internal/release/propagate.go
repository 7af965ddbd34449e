package release

import (
	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/workspace"
)

// UndecidedDependents performs one propagation pass: every workspace that is
// absent from releases but depends, through a workspace-pinned range, on an
// entry whose decision is not Decline needs a decision of its own and is
// returned in name order.
//
// One pass only implicates direct dependents. Callers that need the full
// closure iterate to a fixed point (see CollectUndecided): a second-order
// dependent only becomes implicated once its first-order ancestor has been
// added.
func UndecidedDependents(p workspace.Project, releases Releases) []*workspace.Workspace {
	var out []*workspace.Workspace
	for _, w := range p.Workspaces() {
		if _, ok := releases[w]; ok {
			continue
		}
		for _, dep := range workspace.LocalDependencies(p, w) {
			d, ok := releases[dep]
			if ok && d.Kind != decision.Decline {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

// CollectUndecided grows releases to its fixed point, adding every
// transitively implicated dependent with an Undecided entry. The loop is
// bounded by the workspace count: each iteration either adds at least one
// workspace or terminates.
func CollectUndecided(p workspace.Project, releases Releases) {
	for range p.Workspaces() {
		added := UndecidedDependents(p, releases)
		if len(added) == 0 {
			return
		}
		for _, w := range added {
			releases[w] = decision.New(decision.Undecided)
		}
	}
}

// Relevant recomputes which entries of releases still matter given the
// release roots: an entry is kept when its workspace is itself a root, or
// when it transitively depends on a kept entry whose decision is not Decline.
// Dependents implicated by an ancestor that has since been un-released are
// forgotten.
//
// The result is a fresh map built from scratch on every call rather than an
// incremental update of the input; the release sets involved are small
// enough that recomputation keeps the logic simpler than invalidation would
// be.
func Relevant(p workspace.Project, roots []*workspace.Workspace, releases Releases) Releases {
	out := make(Releases)
	for _, root := range roots {
		if d, ok := releases[root]; ok {
			out[root] = d
		}
	}

	for range p.Workspaces() {
		changed := false
		for _, w := range p.Workspaces() {
			if _, ok := out[w]; ok {
				continue
			}
			d, ok := releases[w]
			if !ok {
				continue
			}
			for _, dep := range workspace.LocalDependencies(p, w) {
				kept, ok := out[dep]
				if ok && kept.Kind != decision.Decline {
					out[w] = d
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	return out
}
