package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/monover/monover/internal/fsops"
)

// ErrNoProject indicates no workspace project was found for a directory.
var ErrNoProject = errors.New("no workspace project found")

// ManifestFileName is the per-package manifest file.
const ManifestFileName = "package.json"

// WorkspaceRangePrefix marks dependency ranges that always resolve to the
// local workspace regardless of the encoded version.
const WorkspaceRangePrefix = "workspace:"

// Project is a read-mostly query surface over the workspace graph.
type Project interface {
	// Root returns the absolute project root directory.
	Root() string

	// Workspaces returns all workspaces in a stable name order.
	Workspaces() []*Workspace

	// ByName returns the workspace with the given package name.
	ByName(name string) (*Workspace, bool)

	// OwnerOf returns the deepest workspace containing the given
	// root-relative path, or nil when none does.
	OwnerOf(relPath string) *Workspace

	// DependentsOf returns the workspaces that depend on w through a range
	// pinning the workspace-local version, in a stable name order.
	DependentsOf(w *Workspace) []*Workspace
}

// PinsWorkspace reports whether a dependency range resolves to the local
// workspace: either it uses the workspace: protocol, or it is a plain semver
// range satisfied by the workspace's current version.
func PinsWorkspace(rng string, target *Workspace) bool {
	if strings.HasPrefix(rng, WorkspaceRangePrefix) {
		return true
	}
	if target.Manifest.Version == "" {
		return false
	}
	constraint, err := semver.NewConstraint(rng)
	if err != nil {
		return false
	}
	version, err := semver.StrictNewVersion(target.Manifest.Version)
	if err != nil {
		return false
	}
	return constraint.Check(version)
}

// LocalDependencies returns the workspaces w depends on through ranges that
// pin the workspace-local version, in a stable name order.
func LocalDependencies(p Project, w *Workspace) []*Workspace {
	seen := make(map[string]*Workspace)
	for _, kind := range DependencyKinds {
		for name, rng := range w.Manifest.Dependencies(kind) {
			target, ok := p.ByName(name)
			if !ok || target == w {
				continue
			}
			if PinsWorkspace(rng, target) {
				seen[name] = target
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Workspace, 0, len(names))
	for _, name := range names {
		out = append(out, seen[name])
	}
	return out
}

// FileProject implements Project by reading manifests from disk.
type FileProject struct {
	root       string
	workspaces []*Workspace
	byName     map[string]*Workspace
}

// FindProjectRoot walks up from dir looking for a manifest that declares
// workspaces. Returns ErrNoProject when none is found.
func FindProjectRoot(fs fsops.FS, dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		manifestPath := filepath.Join(current, ManifestFileName)
		exists, err := fs.Exists(manifestPath)
		if err != nil {
			return "", fmt.Errorf("failed to check manifest: %w", err)
		}
		if exists {
			data, err := fs.ReadFile(manifestPath)
			if err != nil {
				return "", fmt.Errorf("failed to read manifest: %w", err)
			}
			manifest, err := ParseManifest(data)
			if err != nil {
				return "", fmt.Errorf("failed to parse %s: %w", manifestPath, err)
			}
			if len(manifest.WorkspaceGlobs) > 0 {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w: searched upward from %s", ErrNoProject, dir)
		}
		current = parent
	}
}

// LoadProject reads the root manifest, expands its workspace globs, and
// parses every member manifest.
func LoadProject(fs fsops.FS, root string) (*FileProject, error) {
	p := &FileProject{
		root:   root,
		byName: make(map[string]*Workspace),
	}

	rootWorkspace, err := loadWorkspace(fs, root, root)
	if err != nil {
		return nil, err
	}
	if len(rootWorkspace.Manifest.WorkspaceGlobs) == 0 {
		return nil, fmt.Errorf("%w: %s declares no workspaces", ErrNoProject, rootWorkspace.ManifestPath)
	}
	p.add(rootWorkspace)

	for _, glob := range rootWorkspace.Manifest.WorkspaceGlobs {
		matches, err := fs.Glob(filepath.Join(root, filepath.FromSlash(glob)))
		if err != nil {
			return nil, fmt.Errorf("failed to expand workspace glob %q: %w", glob, err)
		}
		for _, dir := range matches {
			manifestPath := filepath.Join(dir, ManifestFileName)
			exists, err := fs.Exists(manifestPath)
			if err != nil {
				return nil, fmt.Errorf("failed to check manifest: %w", err)
			}
			if !exists {
				continue
			}
			w, err := loadWorkspace(fs, root, dir)
			if err != nil {
				return nil, err
			}
			if existing, ok := p.byName[w.Name()]; ok {
				return nil, fmt.Errorf("duplicate workspace name %q in %s and %s", w.Name(), existing.Dir, w.Dir)
			}
			p.add(w)
		}
	}

	sort.Slice(p.workspaces, func(i, j int) bool {
		return p.workspaces[i].Name() < p.workspaces[j].Name()
	})
	return p, nil
}

func loadWorkspace(fs fsops.FS, root, dir string) (*Workspace, error) {
	manifestPath := filepath.Join(dir, ManifestFileName)
	data, err := fs.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("manifest %s declares no name", manifestPath)
	}

	relPath, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to compute workspace path: %w", err)
	}

	return &Workspace{
		Dir:          dir,
		RelPath:      filepath.ToSlash(relPath),
		ManifestPath: manifestPath,
		Manifest:     manifest,
	}, nil
}

func (p *FileProject) add(w *Workspace) {
	p.workspaces = append(p.workspaces, w)
	p.byName[w.Name()] = w
}

// Root returns the absolute project root directory.
func (p *FileProject) Root() string {
	return p.root
}

// Workspaces returns all workspaces in name order.
func (p *FileProject) Workspaces() []*Workspace {
	return p.workspaces
}

// ByName returns the workspace with the given package name.
func (p *FileProject) ByName(name string) (*Workspace, bool) {
	w, ok := p.byName[name]
	return w, ok
}

// OwnerOf returns the deepest workspace containing the given root-relative
// path.
func (p *FileProject) OwnerOf(relPath string) *Workspace {
	return ownerOf(p.workspaces, relPath)
}

// DependentsOf returns the workspaces depending on w through a pinned range.
func (p *FileProject) DependentsOf(w *Workspace) []*Workspace {
	return dependentsOf(p, w)
}

// ownerOf finds the workspace with the longest RelPath prefix of relPath.
func ownerOf(workspaces []*Workspace, relPath string) *Workspace {
	relPath = filepath.ToSlash(relPath)

	var best *Workspace
	bestLen := -1
	for _, w := range workspaces {
		switch {
		case w.RelPath == ".":
			if bestLen < 0 {
				best, bestLen = w, 0
			}
		case relPath == w.RelPath || strings.HasPrefix(relPath, w.RelPath+"/"):
			if len(w.RelPath) > bestLen {
				best, bestLen = w, len(w.RelPath)
			}
		}
	}
	return best
}

// dependentsOf is shared between the file-backed and fake projects.
func dependentsOf(p Project, target *Workspace) []*Workspace {
	var out []*Workspace
	for _, w := range p.Workspaces() {
		if w == target {
			continue
		}
		for _, kind := range DependencyKinds {
			rng, ok := w.Manifest.Dependencies(kind)[target.Name()]
			if ok && PinsWorkspace(rng, target) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

// FakeProject implements Project with an in-memory workspace set for testing.
type FakeProject struct {
	RootDir    string
	workspaces []*Workspace
	byName     map[string]*Workspace
}

// NewFakeWorkspace creates an in-memory workspace for testing.
func NewFakeWorkspace(name, version, relPath string) *Workspace {
	return &Workspace{
		Dir:          "/fake/" + relPath,
		RelPath:      relPath,
		ManifestPath: "/fake/" + relPath + "/" + ManifestFileName,
		Manifest:     NewManifest(name, version),
	}
}

// NewFakeProject creates a FakeProject containing the given workspaces.
func NewFakeProject(root string, workspaces ...*Workspace) *FakeProject {
	p := &FakeProject{
		RootDir: root,
		byName:  make(map[string]*Workspace),
	}
	for _, w := range workspaces {
		p.Add(w)
	}
	return p
}

// Add inserts a workspace, keeping name order.
func (p *FakeProject) Add(w *Workspace) {
	p.workspaces = append(p.workspaces, w)
	p.byName[w.Name()] = w
	sort.Slice(p.workspaces, func(i, j int) bool {
		return p.workspaces[i].Name() < p.workspaces[j].Name()
	})
}

// Root returns the configured root directory.
func (p *FakeProject) Root() string {
	return p.RootDir
}

// Workspaces returns all workspaces in name order.
func (p *FakeProject) Workspaces() []*Workspace {
	return p.workspaces
}

// ByName returns the workspace with the given package name.
func (p *FakeProject) ByName(name string) (*Workspace, bool) {
	w, ok := p.byName[name]
	return w, ok
}

// OwnerOf returns the deepest workspace containing the given root-relative
// path.
func (p *FakeProject) OwnerOf(relPath string) *Workspace {
	return ownerOf(p.workspaces, relPath)
}

// DependentsOf returns the workspaces depending on w through a pinned range.
func (p *FakeProject) DependentsOf(w *Workspace) []*Workspace {
	return dependentsOf(p, w)
}
