package engine

import (
	"fmt"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/release"
	"github.com/monover/monover/internal/versionfile"
	"github.com/monover/monover/internal/workspace"
)

// Status reports the pending release state without changing anything: the
// VCS context, the touched workspaces, and how far decision coverage has
// come.
func (e *Engine) Status(req StatusRequest) (*StatusResult, error) {
	ctx, err := e.openProject(req.CWD)
	if err != nil {
		return nil, err
	}

	vf, err := versionfile.Open(ctx.project, e.git, ctx.store, ctx.settings)
	if err != nil {
		return nil, err
	}

	branch, err := e.git.CurrentBranch(vf.Root)
	if err != nil {
		return nil, err
	}

	// Project what a check would require, without saving anything.
	working := vf.Releases.Copy()
	for _, w := range vf.ReleaseRoots {
		if _, ok := working[w]; !ok {
			working[w] = decision.New(decision.Undecided)
		}
	}
	release.CollectUndecided(ctx.project, working)

	result := &StatusResult{
		Branch:       branch,
		Base:         vf.Base,
		ChangedFiles: vf.ChangedFiles,
		ReleaseRoots: workspaceNames(vf.ReleaseRoots),
		Decided:      decidedMap(working),
	}
	for _, w := range working.Undecided() {
		result.Undecided = append(result.Undecided, w.Name())
	}

	e.reporter.Info(fmt.Sprintf("%d workspaces touched, %d decided, %d undecided",
		len(result.ReleaseRoots), len(result.Decided), len(result.Undecided)))
	return result, nil
}

// workspaceNames maps workspaces to their names, preserving order.
func workspaceNames(ws []*workspace.Workspace) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Name())
	}
	return out
}

// decidedMap flattens the decided entries of a release set for reporting.
func decidedMap(releases release.Releases) map[string]string {
	out := make(map[string]string)
	for _, w := range releases.SortedWorkspaces() {
		d := releases[w]
		if d.Kind != decision.Undecided {
			out[w.Name()] = d.String()
		}
	}
	return out
}
