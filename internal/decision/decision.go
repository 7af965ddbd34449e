// Package decision models the per-workspace release decision: what kind of
// version bump, if any, a workspace should receive when releases are applied.
package decision

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion indicates an explicit version that does not parse as
// strict semver or does not move the workspace forward.
var ErrInvalidVersion = errors.New("invalid version")

// ErrUndecidable indicates an attempt to compute a next version from a
// decision that does not produce one.
var ErrUndecidable = errors.New("decision does not produce a version")

// DefaultPrereleaseTemplate is the prerelease identifier pattern used when
// none is configured. The %n placeholder is replaced with a counter.
const DefaultPrereleaseTemplate = "rc.%n"

// Kind classifies a release decision.
type Kind int

const (
	// Undecided marks a workspace that needs a decision before releases can
	// be applied.
	Undecided Kind = iota

	// Decline records that the workspace deliberately skips this release.
	Decline

	// Patch bumps the patch component.
	Patch

	// Minor bumps the minor component.
	Minor

	// Major bumps the major component.
	Major

	// Prerelease cuts or advances a prerelease of the next patch version.
	Prerelease

	// Explicit sets an exact version carried in Decision.Version.
	Explicit
)

// Decision is one workspace's recorded release intent.
type Decision struct {
	Kind Kind

	// Version is set only for Explicit decisions.
	Version string
}

// New returns a decision of the given non-explicit kind.
func New(kind Kind) Decision {
	return Decision{Kind: kind}
}

// NewExplicit returns a decision pinning an exact version.
func NewExplicit(version string) Decision {
	return Decision{Kind: Explicit, Version: version}
}

// Parse converts a recorded decision string back into a Decision. Anything
// that is not a known keyword must parse as a strict semver version.
func Parse(s string) (Decision, error) {
	switch s {
	case "undecided":
		return New(Undecided), nil
	case "decline":
		return New(Decline), nil
	case "patch":
		return New(Patch), nil
	case "minor":
		return New(Minor), nil
	case "major":
		return New(Major), nil
	case "prerelease":
		return New(Prerelease), nil
	}
	if _, err := semver.StrictNewVersion(s); err != nil {
		return Decision{}, fmt.Errorf("%w: %q is neither a decision keyword nor a semver version", ErrInvalidVersion, s)
	}
	return NewExplicit(s), nil
}

// String returns the recorded form of the decision, the inverse of Parse.
func (d Decision) String() string {
	switch d.Kind {
	case Undecided:
		return "undecided"
	case Decline:
		return "decline"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	case Prerelease:
		return "prerelease"
	case Explicit:
		return d.Version
	}
	return "undecided"
}

// IsDecided reports whether the decision resolves the workspace, either with
// a bump or an explicit decline.
func (d Decision) IsDecided() bool {
	return d.Kind != Undecided
}

// Bumps reports whether applying the decision changes the workspace version.
func (d Decision) Bumps() bool {
	switch d.Kind {
	case Patch, Minor, Major, Prerelease, Explicit:
		return true
	}
	return false
}

// Next computes the version a workspace moves to when the decision is
// applied against its current version. Undecided and Decline decisions have
// no next version and return ErrUndecidable.
func Next(current *semver.Version, d Decision, prereleaseTemplate string) (*semver.Version, error) {
	switch d.Kind {
	case Patch:
		v := current.IncPatch()
		return &v, nil
	case Minor:
		v := current.IncMinor()
		return &v, nil
	case Major:
		v := current.IncMajor()
		return &v, nil
	case Prerelease:
		base := current
		if current.Prerelease() == "" {
			v := current.IncPatch()
			base = &v
		} else {
			v, err := current.SetPrerelease("")
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidVersion, err)
			}
			base = &v
		}
		return ApplyPrerelease(base, current, prereleaseTemplate)
	case Explicit:
		v, err := semver.StrictNewVersion(d.Version)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidVersion, err)
		}
		if !v.GreaterThan(current) {
			return nil, fmt.Errorf("%w: %s does not advance past current version %s", ErrInvalidVersion, v, current)
		}
		return v, nil
	}
	return nil, ErrUndecidable
}

// ApplyPrerelease stamps the template's prerelease identifier onto next,
// continuing the counter from current when current is a prerelease of the
// same base version with a matching identifier, and starting at zero
// otherwise.
func ApplyPrerelease(next, current *semver.Version, template string) (*semver.Version, error) {
	idx := strings.Index(template, "%n")
	if idx < 0 {
		return nil, fmt.Errorf("%w: prerelease template %q has no %%n placeholder", ErrInvalidVersion, template)
	}
	prefix, suffix := template[:idx], template[idx+2:]

	n := 0
	if current != nil && current.Prerelease() != "" && sameBase(next, current) {
		pre := current.Prerelease()
		if strings.HasPrefix(pre, prefix) && strings.HasSuffix(pre, suffix) {
			mid := strings.TrimSuffix(strings.TrimPrefix(pre, prefix), suffix)
			if k, err := strconv.Atoi(mid); err == nil && k >= 0 {
				n = k + 1
			}
		}
	}

	v, err := next.SetPrerelease(prefix + strconv.Itoa(n) + suffix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVersion, err)
	}
	return &v, nil
}

func sameBase(a, b *semver.Version) bool {
	return a.Major() == b.Major() && a.Minor() == b.Minor() && a.Patch() == b.Patch()
}
