package cli

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/monover/monover/internal/clock"
	"github.com/monover/monover/internal/engine"
	"github.com/monover/monover/internal/fsops"
	"github.com/monover/monover/internal/gitx"
	"github.com/monover/monover/internal/hash"
	"github.com/monover/monover/internal/installer"
	"github.com/monover/monover/internal/report"
	"github.com/monover/monover/internal/resolver"
)

// newEngine creates a new engine with real implementations of all
// dependencies. The reporter follows the --json flag.
func newEngine() *engine.Engine {
	var reporter report.Reporter
	if jsonOutput {
		reporter = report.NewJSONReporter(os.Stdout, &clock.RealClock{})
	} else {
		reporter = report.NewConsoleReporter(os.Stdout)
	}

	return engine.New(
		gitx.NewRealGitRepo(),
		fsops.NewRealFS(),
		hash.NewSHA256Hasher(),
		reporter,
		resolver.NewHuhResolver(),
		installer.NewExecInstaller(),
	)
}

// sortedKeys returns the keys of a string map in order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
