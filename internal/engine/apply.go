package engine

import (
	"fmt"
	"strings"

	"github.com/monover/monover/internal/planner"
	"github.com/monover/monover/internal/release"
	"github.com/monover/monover/internal/versionfile"
	"github.com/monover/monover/internal/workspace"
)

// Apply executes the recorded release decisions: workspace versions are
// bumped, internal dependency ranges pointing at bumped workspaces are
// rewritten, and the consumed records are cleared. Validation runs across
// the whole scope before any manifest is touched, so a failing apply leaves
// the working tree exactly as it found it.
//
// In prerelease mode the records survive the apply: the cut is a preview of
// the eventual release, and the stable base each workspace started from is
// frozen in its manifest so repeated cuts keep counting from the same
// version.
func (e *Engine) Apply(req ApplyRequest) (*ApplyResult, error) {
	ctx, err := e.openProject(req.CWD)
	if err != nil {
		return nil, err
	}

	template := ""
	if req.Prerelease {
		template = req.PrereleaseTemplate
		if template == "" {
			template = ctx.settings.PrereleaseTemplate
		}
	}

	releases, err := versionfile.Resolve(ctx.project, ctx.store, versionfile.ResolveOptions{
		PrereleaseTemplate: template,
	})
	if err != nil {
		return nil, err
	}

	scoped, err := e.scopeReleases(ctx, req, releases)
	if err != nil {
		return nil, err
	}

	result := &ApplyResult{DryRun: req.DryRun}

	// Undecided entries cannot be applied; they stay recorded for a later
	// check to resolve.
	for _, w := range scoped.Undecided() {
		result.Skipped = append(result.Skipped, w.Name())
		delete(scoped, w)
	}
	if len(result.Skipped) > 0 {
		e.reporter.Warning(fmt.Sprintf("skipping undecided workspaces: %s",
			strings.Join(result.Skipped, ", ")))
	}

	plan, err := planner.Build(ctx.project, scoped, planner.Options{
		Prerelease:         req.Prerelease,
		PrereleaseTemplate: template,
	})
	if err != nil {
		return nil, err
	}
	if plan.IsEmpty() {
		e.reporter.Warning("no releases to apply")
		return result, nil
	}

	for _, s := range plan.Skipped {
		e.reporter.Warning(fmt.Sprintf("leaving %s range %q on %s untouched: it cannot be rewritten without changing its meaning",
			s.Target.Name(), s.Range, s.Dependent.Name()))
	}

	for _, b := range plan.Bumps {
		e.reporter.Release(b.Workspace.Name(), b.From, b.To)
		result.Bumps = append(result.Bumps, AppliedBump{
			Workspace: b.Workspace.Name(), From: b.From, To: b.To,
		})
	}
	if len(plan.Rewrites) > 0 {
		e.reporter.Separator()
	}
	for _, r := range plan.Rewrites {
		e.reporter.Rewrite(r.Dependent.Name(), r.Kind, r.Target.Name(), r.From, r.To)
		result.Rewrites = append(result.Rewrites, AppliedRewrite{
			Dependent: r.Dependent.Name(), Kind: r.Kind, Target: r.Target.Name(),
			From: r.From, To: r.To,
		})
	}

	if req.DryRun {
		return result, nil
	}

	if err := e.execute(plan); err != nil {
		return nil, err
	}

	if !req.Prerelease {
		if err := e.consumeRecords(ctx, plan); err != nil {
			return nil, err
		}
	}

	if err := e.installer.Install(ctx.project.Root(), ctx.settings.InstallCommand); err != nil {
		return nil, err
	}

	return result, nil
}

// scopeReleases narrows the release set to the requested scope: by default
// the workspace owning the working directory, with --recursive its
// transitive dependents too, and with --all the entire set.
func (e *Engine) scopeReleases(ctx *projectContext, req ApplyRequest, releases release.Releases) (release.Releases, error) {
	if req.All {
		return releases, nil
	}

	current, err := ctx.currentWorkspace(req.CWD)
	if err != nil {
		return nil, err
	}

	keep := map[*workspace.Workspace]struct{}{current: {}}
	if req.Recursive {
		queue := []*workspace.Workspace{current}
		for len(queue) > 0 {
			w := queue[0]
			queue = queue[1:]
			for _, dep := range ctx.project.DependentsOf(w) {
				if _, ok := keep[dep]; !ok {
					keep[dep] = struct{}{}
					queue = append(queue, dep)
				}
			}
		}
	}

	scoped := make(release.Releases)
	for w, d := range releases {
		if _, ok := keep[w]; ok {
			scoped[w] = d
		}
	}
	return scoped, nil
}

// execute mutates the manifests named by the plan and writes each touched
// one exactly once.
func (e *Engine) execute(plan *planner.ReleasePlan) error {
	for _, b := range plan.Bumps {
		m := b.Workspace.Manifest
		m.SetVersion(b.To)
		if plan.Prerelease {
			if m.StableVersion == "" {
				m.SetStableVersion(b.From)
			}
		} else {
			m.ClearStableVersion()
		}
	}
	for _, r := range plan.Rewrites {
		r.Dependent.Manifest.SetDependency(r.Kind, r.Target.Name(), r.To)
	}

	for _, w := range plan.Touched() {
		data, err := w.Manifest.Encode()
		if err != nil {
			return fmt.Errorf("workspace %s: %w", w.Name(), err)
		}
		if err := e.fs.AtomicWrite(w.ManifestPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write manifest for %s: %w", w.Name(), err)
		}
	}
	return nil
}

// consumeRecords drops the applied decisions from the record store. Declined
// entries stay put; the relevancy prune of the next check forgets the ones
// whose trigger has shipped.
func (e *Engine) consumeRecords(ctx *projectContext, plan *planner.ReleasePlan) error {
	remaining, sources, err := ctx.store.Load(ctx.project)
	if err != nil {
		return err
	}
	applied := make(map[*workspace.Workspace]struct{}, len(plan.Bumps))
	for _, b := range plan.Bumps {
		applied[b.Workspace] = struct{}{}
	}
	for w := range remaining {
		if _, ok := applied[w]; ok {
			delete(remaining, w)
		}
	}

	// When nothing is left the folder is swept outright, taking any stray
	// record files along with the tracked sources.
	if len(remaining) == 0 {
		return ctx.store.Clear()
	}

	_, err = ctx.store.Save(remaining, sources)
	return err
}
