// Package versionfile persists pending release decisions as small on-disk
// intent records.
//
// Each record is an individual YAML file under the configured versions
// folder, so concurrent branches each contribute independent records that
// merge without conflicts in a shared file. Records are named after a
// truncated hash of their content: a no-op save is byte-stable, and a
// changed decision set produces a new record that supersedes the old one.
package versionfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/monover/monover/internal/config"
	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/fsops"
	"github.com/monover/monover/internal/gitx"
	"github.com/monover/monover/internal/hash"
	"github.com/monover/monover/internal/release"
	"github.com/monover/monover/internal/workspace"
)

// ErrCorruptVersionFile indicates an intent record that fails to parse or
// resolve. The whole load fails rather than silently dropping the record,
// since proceeding on a partial release set could apply an inconsistent
// subset.
var ErrCorruptVersionFile = errors.New("corrupt version file")

// recordExtension is the suffix of intent-record files.
const recordExtension = ".yml"

// Store reads and writes intent records under one versions folder.
type Store struct {
	fs     fsops.FS
	hasher hash.Hasher
	dir    string
}

// NewStore creates a Store over the given absolute versions folder.
func NewStore(fs fsops.FS, hasher hash.Hasher, dir string) *Store {
	return &Store{fs: fs, hasher: hasher, dir: dir}
}

// Dir returns the absolute versions folder.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads every record under the folder and merges them into one release
// set. A missing folder means no prior intents. Returns the merged set along
// with the paths of the records it came from.
func (s *Store) Load(p workspace.Project) (release.Releases, []string, error) {
	exists, err := s.fs.Exists(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check versions folder: %w", err)
	}
	if !exists {
		return make(release.Releases), nil, nil
	}

	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read versions folder: %w", err)
	}

	merged := make(release.Releases)
	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExtension) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read record %s: %w", path, err)
		}
		releases, err := decodeRecord(p, data)
		if err != nil {
			return nil, nil, fmt.Errorf("record %s: %w", path, err)
		}
		for w, d := range releases {
			if existing, ok := merged[w]; ok {
				merged[w] = mergeDecision(existing, d)
			} else {
				merged[w] = d
			}
		}
		sources = append(sources, path)
	}
	sort.Strings(sources)

	return merged, sources, nil
}

// Save persists releases as a single record superseding the given source
// records, and returns the new source list. Saving an unchanged set rewrites
// identical bytes to the same path; saving an empty set just deletes the old
// records.
func (s *Store) Save(releases release.Releases, sources []string) ([]string, error) {
	var target string

	if len(releases) > 0 {
		data, err := encodeRecord(releases)
		if err != nil {
			return nil, err
		}
		name := s.hasher.HashBytes(data)
		if len(name) > hash.RecordNameLength {
			name = name[:hash.RecordNameLength]
		}
		target = filepath.Join(s.dir, name+recordExtension)
		if err := s.fs.AtomicWrite(target, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}

	for _, source := range sources {
		if source == target {
			continue
		}
		if err := s.fs.Remove(source); err != nil {
			return nil, fmt.Errorf("failed to delete superseded record: %w", err)
		}
	}

	if target == "" {
		return nil, nil
	}
	return []string{target}, nil
}

// Clear deletes every record. Called once decisions have been durably
// applied to manifests; never under dry-run or prerelease mode.
func (s *Store) Clear() error {
	exists, err := s.fs.Exists(s.dir)
	if err != nil {
		return fmt.Errorf("failed to check versions folder: %w", err)
	}
	if !exists {
		return nil
	}

	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read versions folder: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExtension) {
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
	}
	return nil
}

// ResolveOptions controls how recorded decisions are resolved into the
// working release set.
type ResolveOptions struct {
	// PrereleaseTemplate, when non-empty, switches on prerelease mode: every
	// bumping decision is pushed through the decision model immediately and
	// fed back as an explicit version, so repeated prerelease runs resolve
	// against the same stable base instead of re-incrementing each time.
	PrereleaseTemplate string
}

// Resolve loads and merges every record into the final release set.
func Resolve(p workspace.Project, s *Store, opts ResolveOptions) (release.Releases, error) {
	releases, _, err := s.Load(p)
	if err != nil {
		return nil, err
	}
	if opts.PrereleaseTemplate == "" {
		return releases, nil
	}

	verr := &release.ValidationError{}
	for _, w := range releases.SortedWorkspaces() {
		d := releases[w]
		if !d.Bumps() {
			continue
		}

		stableStr := w.CurrentVersion()
		if stableStr == "" {
			verr.Add(w, "manifest declares no version")
			continue
		}
		stable, err := semver.StrictNewVersion(stableStr)
		if err != nil {
			verr.Add(w, fmt.Sprintf("current version %q is malformed", stableStr))
			continue
		}
		actual := stable
		if w.Manifest.Version != "" && w.Manifest.Version != stableStr {
			if v, err := semver.StrictNewVersion(w.Manifest.Version); err == nil {
				actual = v
			}
		}

		var next *semver.Version
		if d.Kind == decision.Prerelease {
			// The counter continues from the published prerelease version.
			next, err = decision.Next(actual, d, opts.PrereleaseTemplate)
		} else {
			next, err = decision.Next(stable, d, opts.PrereleaseTemplate)
			if err == nil {
				next, err = decision.ApplyPrerelease(next, actual, opts.PrereleaseTemplate)
			}
		}
		if err != nil {
			verr.Add(w, err.Error())
			continue
		}

		releases[w] = decision.NewExplicit(next.String())
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	return releases, nil
}

// VersionFile is the aggregate release state of one invocation: the VCS
// context, the changed files, the workspaces directly touched by them, and
// the merged pending decisions.
type VersionFile struct {
	// Root is the VCS repository root.
	Root string

	// Base is the resolved merge base the diff ran against, empty when no
	// base ref resolved.
	Base string

	// ChangedFiles lists the project-relative paths changed since Base.
	ChangedFiles []string

	// ReleaseRoots are the workspaces directly touched by a change.
	ReleaseRoots []*workspace.Workspace

	// Releases is the in-memory working decision set.
	Releases release.Releases

	project workspace.Project
	store   *Store
	sources []string
}

// Open constructs the version file for the current invocation: it locates
// the VCS root, diffs against the configured base refs, derives the release
// roots, and merges all existing records. Fails with gitx.ErrNotInRepo when
// the project is not inside a git repository.
func Open(p workspace.Project, git gitx.GitRepo, s *Store, settings *config.Settings) (*VersionFile, error) {
	root, err := git.Root(p.Root())
	if err != nil {
		return nil, err
	}

	base, err := git.MergeBase(root, settings.BaseRefs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base ref: %w", err)
	}

	changed, err := git.ChangedFiles(root, base)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files: %w", err)
	}
	// Git emits repo-relative paths; anything absolute or escaping the
	// repository means the diff output is not trustworthy.
	for _, path := range changed {
		if err := s.fs.ValidateRelPath(path); err != nil {
			return nil, fmt.Errorf("failed to validate changed path: %w", err)
		}
	}
	changed = projectRelative(root, p.Root(), changed)

	roots := deriveReleaseRoots(p, changed, s.dir)

	releases, sources, err := s.Load(p)
	if err != nil {
		return nil, err
	}

	return &VersionFile{
		Root:         root,
		Base:         base,
		ChangedFiles: changed,
		ReleaseRoots: roots,
		Releases:     releases,
		project:      p,
		store:        s,
		sources:      sources,
	}, nil
}

// projectRelative rebases repo-relative paths onto the project root,
// dropping paths outside the project.
func projectRelative(repoRoot, projectRoot string, paths []string) []string {
	prefix, err := filepath.Rel(repoRoot, projectRoot)
	if err != nil || prefix == "." {
		return paths
	}
	prefix = filepath.ToSlash(prefix) + "/"

	var out []string
	for _, p := range paths {
		if strings.HasPrefix(p, prefix) {
			out = append(out, strings.TrimPrefix(p, prefix))
		}
	}
	return out
}

// deriveReleaseRoots maps changed files to the workspaces owning them.
// Changes under the versions folder itself do not implicate a workspace.
func deriveReleaseRoots(p workspace.Project, changed []string, versionsDir string) []*workspace.Workspace {
	versionsRel, err := filepath.Rel(p.Root(), versionsDir)
	if err != nil {
		versionsRel = ""
	}
	versionsRel = filepath.ToSlash(versionsRel)

	seen := make(map[*workspace.Workspace]struct{})
	var roots []*workspace.Workspace
	for _, path := range changed {
		if versionsRel != "" && (path == versionsRel || strings.HasPrefix(path, versionsRel+"/")) {
			continue
		}
		w := p.OwnerOf(path)
		if w == nil {
			continue
		}
		if _, ok := seen[w]; !ok {
			seen[w] = struct{}{}
			roots = append(roots, w)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return roots[i].Name() < roots[j].Name()
	})
	return roots
}

// Project returns the workspace project this version file was opened for.
func (vf *VersionFile) Project() workspace.Project {
	return vf.project
}

// SaveAll persists the in-memory release set as a single record, superseding
// the records it was merged from.
func (vf *VersionFile) SaveAll() error {
	sources, err := vf.store.Save(vf.Releases, vf.sources)
	if err != nil {
		return err
	}
	vf.sources = sources
	return nil
}
