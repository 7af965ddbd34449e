package engine

import (
	"fmt"
	"sort"

	"github.com/monover/monover/internal/workspace"
)

// Defer records a release decision without applying it. It targets the
// named workspaces, or the workspace owning the working directory when none
// are named, and consolidates the record store around the updated set.
func (e *Engine) Defer(req DeferRequest) (*DeferResult, error) {
	ctx, err := e.openProject(req.CWD)
	if err != nil {
		return nil, err
	}

	var targets []*workspace.Workspace
	if len(req.Workspaces) == 0 {
		current, err := ctx.currentWorkspace(req.CWD)
		if err != nil {
			return nil, err
		}
		targets = append(targets, current)
	} else {
		for _, name := range req.Workspaces {
			w, ok := ctx.project.ByName(name)
			if !ok {
				return nil, fmt.Errorf("no workspace named %q", name)
			}
			targets = append(targets, w)
		}
	}

	releases, sources, err := ctx.store.Load(ctx.project)
	if err != nil {
		return nil, err
	}

	result := &DeferResult{}
	for _, w := range targets {
		releases[w] = req.Decision
		result.Workspaces = append(result.Workspaces, w.Name())
	}
	sort.Strings(result.Workspaces)

	if _, err := ctx.store.Save(releases, sources); err != nil {
		return nil, err
	}

	for _, name := range result.Workspaces {
		e.reporter.Info(fmt.Sprintf("%s: %s", name, req.Decision))
	}
	return result, nil
}
