package versionfile

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/release"
	"github.com/monover/monover/internal/workspace"
)

// recordData is the YAML shape of one intent record. Concrete decisions go in
// the releases map, refusals and deferrals in their own lists, so a record
// round-trips into exactly the Releases entries it encoded.
type recordData struct {
	Releases  map[string]string `yaml:"releases,omitempty"`
	Declined  []string          `yaml:"declined,omitempty"`
	Undecided []string          `yaml:"undecided,omitempty"`
}

// decodeRecord parses a record and resolves its names against the project.
func decodeRecord(p workspace.Project, data []byte) (release.Releases, error) {
	var rec recordData
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptVersionFile, err)
	}

	out := make(release.Releases)

	resolve := func(name string) (*workspace.Workspace, error) {
		w, ok := p.ByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: record references unknown workspace %q", ErrCorruptVersionFile, name)
		}
		return w, nil
	}

	for name, value := range rec.Releases {
		w, err := resolve(name)
		if err != nil {
			return nil, err
		}
		d, err := decision.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("%w: workspace %q: %v", ErrCorruptVersionFile, name, err)
		}
		out[w] = d
	}
	for _, name := range rec.Declined {
		w, err := resolve(name)
		if err != nil {
			return nil, err
		}
		out[w] = decision.New(decision.Decline)
	}
	for _, name := range rec.Undecided {
		w, err := resolve(name)
		if err != nil {
			return nil, err
		}
		out[w] = decision.New(decision.Undecided)
	}

	return out, nil
}

// encodeRecord serializes a release set into canonical record bytes. The
// yaml encoder emits map keys sorted and the lists are sorted here, so equal
// release sets always produce identical bytes.
func encodeRecord(releases release.Releases) ([]byte, error) {
	rec := recordData{}
	for _, w := range releases.SortedWorkspaces() {
		d := releases[w]
		switch d.Kind {
		case decision.Undecided:
			rec.Undecided = append(rec.Undecided, w.Name())
		case decision.Decline:
			rec.Declined = append(rec.Declined, w.Name())
		default:
			if rec.Releases == nil {
				rec.Releases = make(map[string]string)
			}
			rec.Releases[w.Name()] = d.String()
		}
	}
	sort.Strings(rec.Declined)
	sort.Strings(rec.Undecided)

	data, err := yaml.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// mergePrecedence orders decisions for conflict resolution when independent
// records cover the same workspace.
var mergePrecedence = map[decision.Kind]int{
	decision.Undecided:  0,
	decision.Decline:    1,
	decision.Prerelease: 2,
	decision.Patch:      3,
	decision.Minor:      4,
	decision.Major:      5,
	decision.Explicit:   6,
}

// mergeDecision keeps the more aggressive of two decisions for the same
// workspace. Between two explicit versions the semantically greater one wins;
// validity is checked later by the decision model.
func mergeDecision(a, b decision.Decision) decision.Decision {
	pa, pb := mergePrecedence[a.Kind], mergePrecedence[b.Kind]
	switch {
	case pa > pb:
		return a
	case pb > pa:
		return b
	case a.Kind == decision.Explicit && explicitGreater(b.Version, a.Version):
		return b
	default:
		return a
	}
}

// explicitGreater reports whether explicit version x is greater than y.
// Records that reach the Explicit kind already parsed once, but a corrupt
// value falls back to string order rather than dropping the entry.
func explicitGreater(x, y string) bool {
	vx, errx := semver.StrictNewVersion(x)
	vy, erry := semver.StrictNewVersion(y)
	if errx != nil || erry != nil {
		return x > y
	}
	return vx.GreaterThan(vy)
}
