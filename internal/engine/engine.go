// Package engine provides the core business logic for monover operations.
//
// The engine package acts as the orchestration layer between CLI commands
// and the lower-level release machinery. It coordinates project discovery,
// the version record store, decision propagation, and plan execution.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Check: Validates and resolves pending release decisions
//   - Apply: Executes resolved decisions against workspace manifests
//   - Defer: Records a decision for later application
//   - Status: Reports the pending release state
package engine

import (
	"fmt"
	"path/filepath"

	"github.com/monover/monover/internal/config"
	"github.com/monover/monover/internal/fsops"
	"github.com/monover/monover/internal/gitx"
	"github.com/monover/monover/internal/hash"
	"github.com/monover/monover/internal/installer"
	"github.com/monover/monover/internal/report"
	"github.com/monover/monover/internal/resolver"
	"github.com/monover/monover/internal/versionfile"
	"github.com/monover/monover/internal/workspace"
)

// Engine orchestrates all monover operations.
// It is the main API surface called by the CLI.
type Engine struct {
	git       gitx.GitRepo
	fs        fsops.FS
	hasher    hash.Hasher
	reporter  report.Reporter
	resolver  resolver.Resolver
	installer installer.Installer
}

// New creates a new Engine with the given dependencies.
func New(
	git gitx.GitRepo,
	fs fsops.FS,
	hasher hash.Hasher,
	reporter report.Reporter,
	res resolver.Resolver,
	inst installer.Installer,
) *Engine {
	return &Engine{
		git:       git,
		fs:        fs,
		hasher:    hasher,
		reporter:  reporter,
		resolver:  res,
		installer: inst,
	}
}

// projectContext bundles the per-invocation collaborators derived from the
// working directory.
type projectContext struct {
	project  *workspace.FileProject
	settings *config.Settings
	store    *versionfile.Store
}

// openProject locates the workspace project containing cwd and loads its
// settings and record store.
func (e *Engine) openProject(cwd string) (*projectContext, error) {
	root, err := workspace.FindProjectRoot(e.fs, cwd)
	if err != nil {
		return nil, err
	}

	project, err := workspace.LoadProject(e.fs, root)
	if err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(e.fs, root)
	if err != nil {
		return nil, err
	}

	store := versionfile.NewStore(e.fs, e.hasher, settings.VersionsDir(root))
	return &projectContext{project: project, settings: settings, store: store}, nil
}

// currentWorkspace returns the workspace owning cwd.
func (ctx *projectContext) currentWorkspace(cwd string) (*workspace.Workspace, error) {
	rel, err := filepath.Rel(ctx.project.Root(), cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s in project: %w", cwd, err)
	}
	w := ctx.project.OwnerOf(filepath.ToSlash(rel))
	if w == nil {
		return nil, fmt.Errorf("%s is not inside any workspace", cwd)
	}
	return w, nil
}
