// Package workspace models the packages of a multi-package project and the
// dependency graph between them.
//
// A workspace is one package with its own manifest (package.json). The
// Project interface is a read-mostly query surface over the workspace set;
// the release machinery depends on it rather than on any owned copy of the
// graph, so it can never drift from the host project's notion of the
// workspace set.
package workspace

import (
	"encoding/json"
	"fmt"
)

// Dependency map names as they appear in a manifest. Any of them can pin a
// workspace-local version and therefore participates in propagation and
// cross-reference rewriting.
const (
	DepRegular  = "dependencies"
	DepDev      = "devDependencies"
	DepPeer     = "peerDependencies"
	DepOptional = "optionalDependencies"
)

// DependencyKinds lists the manifest dependency maps in a stable order.
var DependencyKinds = []string{DepRegular, DepDev, DepPeer, DepOptional}

// Locator identifies a workspace by name and reference. The reference is the
// declared version at load time, or "unknown" when the manifest declares
// none.
type Locator struct {
	Name      string
	Reference string
}

// String returns the locator in name@reference form.
func (l Locator) String() string {
	return l.Name + "@" + l.Reference
}

// Manifest is the parsed package.json of one workspace. The raw document is
// retained so fields monover does not model survive a rewrite; note that
// encoding normalizes key order.
type Manifest struct {
	// Name is the package name.
	Name string

	// Version is the declared version, or empty when the manifest declares
	// none.
	Version string

	// StableVersion is the frozen pre-prerelease version, set only while a
	// prerelease cut is outstanding.
	StableVersion string

	// Private marks packages that are never published.
	Private bool

	// WorkspaceGlobs lists the member globs of a project root manifest.
	WorkspaceGlobs []string

	raw  map[string]any
	deps map[string]map[string]string
}

// NewManifest creates a manifest from scratch, used by tests and fakes.
func NewManifest(name, version string) *Manifest {
	m := &Manifest{
		Name:    name,
		Version: version,
		raw:     map[string]any{"name": name},
		deps:    make(map[string]map[string]string),
	}
	if version != "" {
		m.raw["version"] = version
	}
	return m
}

// ParseManifest parses a package.json document.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m := &Manifest{
		raw:  raw,
		deps: make(map[string]map[string]string),
	}

	m.Name, _ = raw["name"].(string)
	m.Version, _ = raw["version"].(string)
	m.StableVersion, _ = raw["stableVersion"].(string)
	m.Private, _ = raw["private"].(bool)
	m.WorkspaceGlobs = parseWorkspaceGlobs(raw["workspaces"])

	for _, kind := range DependencyKinds {
		entries, ok := raw[kind].(map[string]any)
		if !ok {
			continue
		}
		deps := make(map[string]string, len(entries))
		for name, rng := range entries {
			s, ok := rng.(string)
			if !ok {
				return nil, fmt.Errorf("manifest %q: %s entry %q is not a string", m.Name, kind, name)
			}
			deps[name] = s
		}
		m.deps[kind] = deps
	}

	return m, nil
}

// parseWorkspaceGlobs accepts both the array form and the {packages: [...]}
// object form of the workspaces field.
func parseWorkspaceGlobs(field any) []string {
	var items []any
	switch v := field.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["packages"].([]any)
	default:
		return nil
	}

	globs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			globs = append(globs, s)
		}
	}
	return globs
}

// Encode serializes the manifest back to JSON, including every field of the
// original document.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m.raw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Dependencies returns the dependency map of the given kind, or nil.
func (m *Manifest) Dependencies(kind string) map[string]string {
	return m.deps[kind]
}

// SetVersion updates the declared version.
func (m *Manifest) SetVersion(version string) {
	m.Version = version
	m.raw["version"] = version
}

// SetStableVersion freezes the pre-prerelease version.
func (m *Manifest) SetStableVersion(version string) {
	m.StableVersion = version
	m.raw["stableVersion"] = version
}

// ClearStableVersion drops the frozen version once a real release lands.
func (m *Manifest) ClearStableVersion() {
	m.StableVersion = ""
	delete(m.raw, "stableVersion")
}

// SetDependency updates one dependency range.
func (m *Manifest) SetDependency(kind, name, rng string) {
	if m.deps[kind] == nil {
		m.deps[kind] = make(map[string]string)
	}
	m.deps[kind][name] = rng

	entries, ok := m.raw[kind].(map[string]any)
	if !ok {
		entries = make(map[string]any)
		m.raw[kind] = entries
	}
	entries[name] = rng
}

// Workspace is one package in the project.
type Workspace struct {
	// Dir is the absolute path of the workspace directory.
	Dir string

	// RelPath is the path relative to the project root, "." for the root
	// workspace.
	RelPath string

	// ManifestPath is the absolute path of the workspace manifest.
	ManifestPath string

	// Manifest is the parsed manifest, mutated in place by the applier.
	Manifest *Manifest
}

// Name returns the package name.
func (w *Workspace) Name() string {
	return w.Manifest.Name
}

// Locator returns the identifying locator of the workspace.
func (w *Workspace) Locator() Locator {
	ref := w.Manifest.Version
	if ref == "" {
		ref = "unknown"
	}
	return Locator{Name: w.Manifest.Name, Reference: ref}
}

// CurrentVersion returns the version release computations start from: the
// frozen stable version while a prerelease cut is outstanding, otherwise the
// declared version. Empty when the manifest declares no version.
func (w *Workspace) CurrentVersion() string {
	if w.Manifest.StableVersion != "" {
		return w.Manifest.StableVersion
	}
	return w.Manifest.Version
}
