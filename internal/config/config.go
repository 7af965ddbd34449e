// Package config manages monover settings.
//
// Settings live in an optional .monover.yaml at the project root and can be
// overridden per-invocation through environment variables:
//   - MONOVER_VERSIONS_FOLDER: folder holding intent records
//   - MONOVER_BASE_REF: single base ref to diff against
//   - MONOVER_PRERELEASE: prerelease identifier template
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/monover/monover/internal/fsops"
)

// SettingsFileName is the optional per-project settings file.
const SettingsFileName = ".monover.yaml"

// Settings contains the per-project configuration.
type Settings struct {
	// VersionsFolder is the folder holding intent records, relative to the
	// project root.
	VersionsFolder string `yaml:"versionsFolder"`

	// BaseRefs are tried in order when resolving the merge base for the
	// changed-files diff.
	BaseRefs []string `yaml:"baseRefs"`

	// PrereleaseTemplate is the prerelease identifier template; %n is the
	// counter.
	PrereleaseTemplate string `yaml:"prereleaseTemplate"`

	// InstallCommand is run in the project root after a non-dry-run apply to
	// reconcile lockfile state.
	InstallCommand []string `yaml:"installCommand"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		VersionsFolder:     filepath.Join(".monover", "versions"),
		BaseRefs:           []string{"master", "main"},
		PrereleaseTemplate: "rc.%n",
		InstallCommand:     []string{"yarn", "install"},
	}
}

// LoadSettings reads the project settings file if present, layers it over the
// defaults, and applies environment overrides.
func LoadSettings(fs fsops.FS, projectRoot string) (*Settings, error) {
	settings := DefaultSettings()

	path := filepath.Join(projectRoot, SettingsFileName)
	exists, err := fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check settings file: %w", err)
	}
	if exists {
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", SettingsFileName, err)
		}
	}

	applyEnvOverrides(settings)

	if err := validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("MONOVER_VERSIONS_FOLDER"); v != "" {
		s.VersionsFolder = v
	}
	if v := os.Getenv("MONOVER_BASE_REF"); v != "" {
		s.BaseRefs = []string{v}
	}
	if v := os.Getenv("MONOVER_PRERELEASE"); v != "" {
		s.PrereleaseTemplate = v
	}
}

func validate(s *Settings) error {
	if s.VersionsFolder == "" {
		return fmt.Errorf("versionsFolder must not be empty")
	}
	if filepath.IsAbs(s.VersionsFolder) {
		return fmt.Errorf("versionsFolder must be relative to the project root, got %q", s.VersionsFolder)
	}
	if len(s.BaseRefs) == 0 {
		return fmt.Errorf("baseRefs must not be empty")
	}
	if !strings.Contains(s.PrereleaseTemplate, "%n") {
		return fmt.Errorf("prereleaseTemplate %q is missing the %%n counter", s.PrereleaseTemplate)
	}
	return nil
}

// VersionsDir returns the absolute path of the intent-record folder.
func (s *Settings) VersionsDir(projectRoot string) string {
	return filepath.Join(projectRoot, s.VersionsFolder)
}
