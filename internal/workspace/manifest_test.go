package workspace

import (
	"encoding/json"
	"testing"
)

func TestParseManifest(t *testing.T) {
	data := []byte(`{
  "name": "pkg-a",
  "version": "1.2.3",
  "private": true,
  "dependencies": {"left-pad": "^1.3.0", "pkg-b": "workspace:^1.0.0"},
  "devDependencies": {"jest": "^29.0.0"}
}`)

	m, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest returned error: %v", err)
	}

	if m.Name != "pkg-a" {
		t.Errorf("Name = %q, want pkg-a", m.Name)
	}
	if m.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", m.Version)
	}
	if !m.Private {
		t.Error("Private = false, want true")
	}
	if got := m.Dependencies(DepRegular)["pkg-b"]; got != "workspace:^1.0.0" {
		t.Errorf("dependencies[pkg-b] = %q", got)
	}
	if got := m.Dependencies(DepDev)["jest"]; got != "^29.0.0" {
		t.Errorf("devDependencies[jest] = %q", got)
	}
}

func TestParseManifest_WorkspaceGlobs(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"array form", `{"name": "root", "workspaces": ["packages/*"]}`, []string{"packages/*"}},
		{"object form", `{"name": "root", "workspaces": {"packages": ["apps/*", "libs/*"]}}`, []string{"apps/*", "libs/*"}},
		{"absent", `{"name": "root"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseManifest returned error: %v", err)
			}
			if len(m.WorkspaceGlobs) != len(tt.want) {
				t.Fatalf("WorkspaceGlobs = %v, want %v", m.WorkspaceGlobs, tt.want)
			}
			for i := range tt.want {
				if m.WorkspaceGlobs[i] != tt.want[i] {
					t.Errorf("WorkspaceGlobs[%d] = %q, want %q", i, m.WorkspaceGlobs[i], tt.want[i])
				}
			}
		})
	}
}

func TestEncode_PreservesUnknownFields(t *testing.T) {
	data := []byte(`{"name": "pkg-a", "version": "1.0.0", "license": "MIT", "scripts": {"build": "tsc"}}`)

	m, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest returned error: %v", err)
	}
	m.SetVersion("1.1.0")

	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if decoded["version"] != "1.1.0" {
		t.Errorf("version = %v, want 1.1.0", decoded["version"])
	}
	if decoded["license"] != "MIT" {
		t.Errorf("license field was lost: %v", decoded["license"])
	}
	if _, ok := decoded["scripts"].(map[string]any); !ok {
		t.Error("scripts field was lost")
	}
}

func TestSetDependency_UpdatesRawDocument(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name": "pkg-b", "version": "1.0.0", "dependencies": {"pkg-a": "workspace:^1.0.0"}}`))
	if err != nil {
		t.Fatalf("ParseManifest returned error: %v", err)
	}

	m.SetDependency(DepRegular, "pkg-a", "workspace:^1.1.0")

	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	var decoded struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if decoded.Dependencies["pkg-a"] != "workspace:^1.1.0" {
		t.Errorf("dependencies[pkg-a] = %q, want workspace:^1.1.0", decoded.Dependencies["pkg-a"])
	}
}

func TestStableVersionLifecycle(t *testing.T) {
	m := NewManifest("pkg-a", "1.1.0-rc.0")
	m.SetStableVersion("1.0.0")

	w := &Workspace{Manifest: m}
	if got := w.CurrentVersion(); got != "1.0.0" {
		t.Errorf("CurrentVersion = %q, want the frozen stable version", got)
	}

	m.ClearStableVersion()
	if got := w.CurrentVersion(); got != "1.1.0-rc.0" {
		t.Errorf("CurrentVersion = %q, want the declared version", got)
	}

	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if _, ok := decoded["stableVersion"]; ok {
		t.Error("stableVersion survived ClearStableVersion")
	}
}

func TestLocator(t *testing.T) {
	w := NewFakeWorkspace("pkg-a", "1.0.0", "packages/pkg-a")
	if got := w.Locator().String(); got != "pkg-a@1.0.0" {
		t.Errorf("Locator = %q, want pkg-a@1.0.0", got)
	}

	unversioned := NewFakeWorkspace("root", "", ".")
	if got := unversioned.Locator().String(); got != "root@unknown" {
		t.Errorf("Locator = %q, want root@unknown", got)
	}
}
