package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/release"
	"github.com/monover/monover/internal/workspace"
)

// Options configures plan construction.
type Options struct {
	// Prerelease marks the plan as a prerelease cut.
	Prerelease bool

	// PrereleaseTemplate is the prerelease identifier pattern handed to the
	// decision model.
	PrereleaseTemplate string
}

// Build computes the release plan for every bumping decision in releases.
// Undecided and declined entries contribute nothing. Validation failures are
// aggregated across all workspaces and returned as a single
// release.ValidationError; no partial plan is ever returned alongside one.
func Build(p workspace.Project, releases release.Releases, opts Options) (*ReleasePlan, error) {
	template := opts.PrereleaseTemplate
	if template == "" {
		template = decision.DefaultPrereleaseTemplate
	}

	verr := &release.ValidationError{}
	next := make(map[*workspace.Workspace]string)
	plan := &ReleasePlan{Prerelease: opts.Prerelease}

	for _, w := range releases.SortedWorkspaces() {
		d := releases[w]
		if !d.Bumps() {
			continue
		}

		currentStr := w.CurrentVersion()
		if currentStr == "" {
			verr.Add(w, "manifest declares no version")
			continue
		}
		current, err := semver.StrictNewVersion(currentStr)
		if err != nil {
			verr.Add(w, fmt.Sprintf("current version %q is malformed", currentStr))
			continue
		}

		to, err := decision.Next(current, d, template)
		if err != nil {
			verr.Add(w, err.Error())
			continue
		}

		next[w] = to.String()
		plan.Bumps = append(plan.Bumps, Bump{
			Workspace: w,
			From:      currentStr,
			To:        to.String(),
		})
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	for _, w := range p.Workspaces() {
		for _, kind := range workspace.DependencyKinds {
			for name, rng := range w.Manifest.Dependencies(kind) {
				target, ok := p.ByName(name)
				if !ok {
					continue
				}
				to, ok := next[target]
				if !ok || !workspace.PinsWorkspace(rng, target) {
					continue
				}
				rewritten, ok := RewriteRange(rng, to)
				if !ok {
					plan.Skipped = append(plan.Skipped, SkippedRange{
						Dependent: w,
						Kind:      kind,
						Target:    target,
						Range:     rng,
					})
					continue
				}
				if rewritten == rng {
					continue
				}
				plan.Rewrites = append(plan.Rewrites, Rewrite{
					Dependent: w,
					Kind:      kind,
					Target:    target,
					From:      rng,
					To:        rewritten,
				})
			}
		}
	}
	sortRewrites(plan.Rewrites)
	sortSkipped(plan.Skipped)

	return plan, nil
}

// rangeOperators lists the range operators preserved across a rewrite,
// longest first so ">=" is not mistaken for "=".
var rangeOperators = []string{">=", "^", "~", "="}

// RewriteRange replaces the version inside a dependency range with the new
// one, preserving the workspace: protocol and the range operator. Bare
// workspace aliases (workspace:*, workspace:^, workspace:~) track the local
// workspace by definition and come back unchanged.
//
// Only a single operator followed by a full version can be retargeted
// without changing the range's meaning. Anything else, compound ranges like
// ">=1.0.0 <2.0.0" or wildcard forms like "1.x", comes back unchanged with
// ok false so the caller can surface it instead of reshaping it.
func RewriteRange(rng, version string) (rewritten string, ok bool) {
	inner := rng
	protocol := ""
	if strings.HasPrefix(inner, workspace.WorkspaceRangePrefix) {
		protocol = workspace.WorkspaceRangePrefix
		inner = inner[len(protocol):]
	}

	switch inner {
	case "*", "^", "~":
		return rng, true
	}

	operator := ""
	for _, op := range rangeOperators {
		if strings.HasPrefix(inner, op) {
			operator = op
			inner = inner[len(op):]
			break
		}
	}

	if _, err := semver.StrictNewVersion(inner); err != nil {
		return rng, false
	}

	return protocol + operator + version, true
}

func sortWorkspaces(ws []*workspace.Workspace) {
	sort.Slice(ws, func(i, j int) bool {
		return ws[i].Name() < ws[j].Name()
	})
}

func sortRewrites(rs []Rewrite) {
	sort.Slice(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.Dependent.Name() != b.Dependent.Name() {
			return a.Dependent.Name() < b.Dependent.Name()
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Target.Name() < b.Target.Name()
	})
}

func sortSkipped(ss []SkippedRange) {
	sort.Slice(ss, func(i, j int) bool {
		a, b := ss[i], ss[j]
		if a.Dependent.Name() != b.Dependent.Name() {
			return a.Dependent.Name() < b.Dependent.Name()
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Target.Name() < b.Target.Name()
	})
}
