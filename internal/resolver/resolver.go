// Package resolver fills in undecided release entries. The interactive
// implementation walks the user through every undecided workspace; the
// scripted one applies a fixed policy and backs tests and automation.
package resolver

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/release"
	"github.com/monover/monover/internal/versionfile"
)

// Resolver decides the undecided entries of a version file in place. It
// returns false when the user walked away without committing to the
// decisions.
type Resolver interface {
	Resolve(vf *versionfile.VersionFile) (bool, error)
}

// HuhResolver prompts for each undecided workspace with a terminal form.
type HuhResolver struct{}

// NewHuhResolver creates a HuhResolver.
func NewHuhResolver() *HuhResolver {
	return &HuhResolver{}
}

// Resolve prompts for a decision per undecided workspace. Deciding one
// workspace can implicate its dependents, so the loop re-propagates after
// every round until nothing is left undecided, then asks for confirmation.
func (r *HuhResolver) Resolve(vf *versionfile.VersionFile) (bool, error) {
	p := vf.Project()

	for {
		release.CollectUndecided(p, vf.Releases)
		undecided := vf.Releases.Undecided()
		if len(undecided) == 0 {
			break
		}

		for _, w := range undecided {
			choice := "patch"
			form := huh.NewForm(huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("Release strategy for %s (%s)", w.Name(), w.CurrentVersion())).
					Options(
						huh.NewOption("patch", "patch"),
						huh.NewOption("minor", "minor"),
						huh.NewOption("major", "major"),
						huh.NewOption("prerelease", "prerelease"),
						huh.NewOption("decline", "decline"),
					).
					Value(&choice),
			))
			if err := form.Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return false, nil
				}
				return false, fmt.Errorf("failed to prompt for decision: %w", err)
			}

			d, err := decision.Parse(choice)
			if err != nil {
				return false, err
			}
			vf.Releases[w] = d
		}
	}

	confirmed := true
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Save %d release decisions?", len(vf.Releases))).
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to confirm decisions: %w", err)
	}
	return confirmed, nil
}

// ScriptedResolver applies a fixed decision policy without prompting.
type ScriptedResolver struct {
	// Decisions maps workspace names to their decision.
	Decisions map[string]decision.Decision

	// Default is applied to undecided workspaces with no mapped decision.
	Default decision.Decision

	// Reject simulates a user walking away without confirming.
	Reject bool
}

// Resolve assigns the scripted decisions, re-propagating between rounds the
// same way the interactive resolver does.
func (r *ScriptedResolver) Resolve(vf *versionfile.VersionFile) (bool, error) {
	p := vf.Project()

	for {
		release.CollectUndecided(p, vf.Releases)
		undecided := vf.Releases.Undecided()
		if len(undecided) == 0 {
			break
		}
		for _, w := range undecided {
			d, ok := r.Decisions[w.Name()]
			if !ok {
				d = r.Default
			}
			if d.Kind == decision.Undecided {
				// Policy cannot decide this workspace; bail out rather than
				// loop forever.
				return false, fmt.Errorf("no scripted decision for workspace %q", w.Name())
			}
			vf.Releases[w] = d
		}
	}

	return !r.Reject, nil
}
