package release

import (
	"testing"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/workspace"
)

// chainProject builds A <- B <- C: B depends on A, C depends on B.
func chainProject() (*workspace.FakeProject, *workspace.Workspace, *workspace.Workspace, *workspace.Workspace) {
	a := workspace.NewFakeWorkspace("pkg-a", "1.0.0", "packages/pkg-a")
	b := workspace.NewFakeWorkspace("pkg-b", "1.0.0", "packages/pkg-b")
	c := workspace.NewFakeWorkspace("pkg-c", "1.0.0", "packages/pkg-c")
	b.Manifest.SetDependency(workspace.DepRegular, "pkg-a", "workspace:^1.0.0")
	c.Manifest.SetDependency(workspace.DepRegular, "pkg-b", "workspace:^1.0.0")
	return workspace.NewFakeProject("/repo", a, b, c), a, b, c
}

func TestUndecidedDependents_FixedPoint(t *testing.T) {
	p, a, b, c := chainProject()

	releases := Releases{a: decision.New(decision.Minor)}

	// First pass: only the direct dependent is implicated.
	added := UndecidedDependents(p, releases)
	if len(added) != 1 || added[0] != b {
		t.Fatalf("first pass added %v, want [pkg-b]", names(added))
	}
	releases[b] = decision.New(decision.Undecided)

	// Second pass: the second-order dependent shows up.
	added = UndecidedDependents(p, releases)
	if len(added) != 1 || added[0] != c {
		t.Fatalf("second pass added %v, want [pkg-c]", names(added))
	}
	releases[c] = decision.New(decision.Undecided)

	// Third pass: fixed point reached.
	if added = UndecidedDependents(p, releases); len(added) != 0 {
		t.Errorf("third pass added %v, want none", names(added))
	}
}

func TestUndecidedDependents_DeclineDoesNotPropagate(t *testing.T) {
	p, a, _, _ := chainProject()

	releases := Releases{a: decision.New(decision.Decline)}

	if added := UndecidedDependents(p, releases); len(added) != 0 {
		t.Errorf("declined workspace implicated dependents: %v", names(added))
	}
}

func TestCollectUndecided(t *testing.T) {
	p, a, b, c := chainProject()

	releases := Releases{a: decision.New(decision.Minor)}
	CollectUndecided(p, releases)

	if len(releases) != 3 {
		t.Fatalf("releases has %d entries, want 3", len(releases))
	}
	for _, w := range []*workspace.Workspace{b, c} {
		d, ok := releases[w]
		if !ok {
			t.Errorf("%s missing from releases", w.Name())
			continue
		}
		if d.Kind != decision.Undecided {
			t.Errorf("%s decision = %s, want undecided", w.Name(), d)
		}
	}
}

func TestCollectUndecided_AlreadyDecidedUntouched(t *testing.T) {
	p, a, b, _ := chainProject()

	releases := Releases{
		a: decision.New(decision.Minor),
		b: decision.New(decision.Patch),
	}
	CollectUndecided(p, releases)

	if d := releases[b]; d.Kind != decision.Patch {
		t.Errorf("existing decision for pkg-b was overwritten: %s", d)
	}
}

func TestRelevant_DropsOrphanedDependents(t *testing.T) {
	p, a, b, _ := chainProject()

	// B was decided while A was being released; A's decision has since been
	// dropped, so B is no longer reachable from any root decision.
	releases := Releases{b: decision.New(decision.Patch)}
	roots := []*workspace.Workspace{a}

	relevant := Relevant(p, roots, releases)
	if len(relevant) != 0 {
		t.Errorf("orphaned dependent kept: %v", names(relevant.SortedWorkspaces()))
	}
}

func TestRelevant_KeepsReachableChain(t *testing.T) {
	p, a, b, c := chainProject()

	releases := Releases{
		a: decision.New(decision.Minor),
		b: decision.New(decision.Patch),
		c: decision.New(decision.Patch),
	}
	roots := []*workspace.Workspace{a}

	relevant := Relevant(p, roots, releases)
	if len(relevant) != 3 {
		t.Errorf("relevant has %d entries, want 3: %v", len(relevant), names(relevant.SortedWorkspaces()))
	}
}

func TestRelevant_RootIsAlwaysKept(t *testing.T) {
	p, a, b, _ := chainProject()

	// B is itself a release root, so it survives even though A is gone.
	releases := Releases{b: decision.New(decision.Patch)}
	roots := []*workspace.Workspace{a, b}

	relevant := Relevant(p, roots, releases)
	if d, ok := relevant[b]; !ok || d.Kind != decision.Patch {
		t.Error("release root was dropped by relevancy pruning")
	}
}

func TestRelevant_DeclineBlocksReachability(t *testing.T) {
	p, a, b, c := chainProject()

	releases := Releases{
		a: decision.New(decision.Minor),
		b: decision.New(decision.Decline),
		c: decision.New(decision.Patch),
	}
	roots := []*workspace.Workspace{a}

	relevant := Relevant(p, roots, releases)
	if _, ok := relevant[b]; !ok {
		t.Error("direct dependent with a decline decision should stay relevant")
	}
	if _, ok := relevant[c]; ok {
		t.Error("dependent behind a declined workspace should be dropped")
	}
}

func TestUndecidedHelper(t *testing.T) {
	_, a, b, _ := chainProject()

	releases := Releases{
		a: decision.New(decision.Minor),
		b: decision.New(decision.Undecided),
	}

	undecided := releases.Undecided()
	if len(undecided) != 1 || undecided[0] != b {
		t.Errorf("Undecided = %v, want [pkg-b]", names(undecided))
	}
}

func names(ws []*workspace.Workspace) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Name())
	}
	return out
}
