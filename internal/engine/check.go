package engine

import (
	"fmt"
	"strings"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/release"
	"github.com/monover/monover/internal/versionfile"
)

// Check validates the pending release state: every workspace touched since
// the base ref, and every dependent implicated by a decided workspace, must
// carry a decision. In interactive mode missing decisions are prompted for;
// otherwise they fail the check. Decisions that survive the relevancy prune
// are saved back as a single consolidated record.
func (e *Engine) Check(req CheckRequest) (*CheckResult, error) {
	ctx, err := e.openProject(req.CWD)
	if err != nil {
		return nil, err
	}

	vf, err := versionfile.Open(ctx.project, e.git, ctx.store, ctx.settings)
	if err != nil {
		return nil, err
	}

	// Touched workspaces without a decision enter the set as undecided.
	for _, w := range vf.ReleaseRoots {
		if _, ok := vf.Releases[w]; !ok {
			vf.Releases[w] = decision.New(decision.Undecided)
		}
	}
	release.CollectUndecided(ctx.project, vf.Releases)

	if req.Interactive {
		ok, err := e.resolver.Resolve(vf)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	if undecided := vf.Releases.Undecided(); len(undecided) > 0 {
		names := make([]string, 0, len(undecided))
		for _, w := range undecided {
			names = append(names, w.Name())
		}
		e.reporter.Warning(fmt.Sprintf("%d workspaces need a release decision: %s",
			len(names), strings.Join(names, ", ")))
		return &CheckResult{
			ReleaseRoots: workspaceNames(vf.ReleaseRoots),
			Decided:      decidedMap(vf.Releases),
			Undecided:    names,
		}, fmt.Errorf("%w: %s", ErrUndecided, strings.Join(names, ", "))
	}

	// Decisions whose trigger has disappeared from the diff are forgotten.
	vf.Releases = release.Relevant(ctx.project, vf.ReleaseRoots, vf.Releases)

	if err := vf.SaveAll(); err != nil {
		return nil, err
	}

	e.reporter.Info(fmt.Sprintf("%d release decisions are in place", len(vf.Releases)))
	return &CheckResult{
		ReleaseRoots: workspaceNames(vf.ReleaseRoots),
		Decided:      decidedMap(vf.Releases),
		Saved:        true,
	}, nil
}
