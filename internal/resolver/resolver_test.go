package resolver

import (
	"path/filepath"
	"testing"

	"github.com/monover/monover/internal/config"
	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/fsops"
	"github.com/monover/monover/internal/gitx"
	"github.com/monover/monover/internal/hash"
	"github.com/monover/monover/internal/versionfile"
	"github.com/monover/monover/internal/workspace"
)

func openFixture(t *testing.T, p workspace.Project) *versionfile.VersionFile {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "versions")
	store := versionfile.NewStore(fsops.NewRealFS(), hash.NewSHA256Hasher(), dir)
	vf, err := versionfile.Open(p, gitx.NewFakeGitRepo(p.Root()), store, config.DefaultSettings())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return vf
}

func TestScriptedResolverDecidesAndPropagates(t *testing.T) {
	lib := workspace.NewFakeWorkspace("lib", "1.0.0", "packages/lib")
	app := workspace.NewFakeWorkspace("app", "1.0.0", "packages/app")
	app.Manifest.SetDependency(workspace.DepRegular, "lib", "workspace:^1.0.0")
	p := workspace.NewFakeProject("/fake", lib, app)

	vf := openFixture(t, p)
	vf.Releases[lib] = decision.New(decision.Undecided)

	r := &ScriptedResolver{
		Decisions: map[string]decision.Decision{"lib": decision.New(decision.Minor)},
		Default:   decision.New(decision.Patch),
	}
	ok, err := r.Resolve(vf)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !ok {
		t.Fatal("expected confirmation")
	}

	if vf.Releases[lib].Kind != decision.Minor {
		t.Errorf("lib = %v, want Minor", vf.Releases[lib])
	}
	// Deciding lib implicates app, which picks up the default.
	if vf.Releases[app].Kind != decision.Patch {
		t.Errorf("app = %v, want Patch", vf.Releases[app])
	}
}

func TestScriptedResolverReject(t *testing.T) {
	lib := workspace.NewFakeWorkspace("lib", "1.0.0", "packages/lib")
	p := workspace.NewFakeProject("/fake", lib)

	vf := openFixture(t, p)
	vf.Releases[lib] = decision.New(decision.Undecided)

	r := &ScriptedResolver{Default: decision.New(decision.Patch), Reject: true}
	ok, err := r.Resolve(vf)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ok {
		t.Error("rejected resolution reported as confirmed")
	}
}

func TestScriptedResolverWithoutPolicy(t *testing.T) {
	lib := workspace.NewFakeWorkspace("lib", "1.0.0", "packages/lib")
	p := workspace.NewFakeProject("/fake", lib)

	vf := openFixture(t, p)
	vf.Releases[lib] = decision.New(decision.Undecided)

	r := &ScriptedResolver{}
	if _, err := r.Resolve(vf); err == nil {
		t.Error("expected error when no decision can be made")
	}
}
