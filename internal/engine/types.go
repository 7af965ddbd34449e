package engine

import "github.com/monover/monover/internal/decision"

// CheckRequest represents a request to validate pending release decisions.
type CheckRequest struct {
	// CWD is the current working directory
	CWD string

	// Interactive prompts for missing decisions instead of failing on them
	Interactive bool
}

// CheckResult represents the outcome of a check.
type CheckResult struct {
	// ReleaseRoots are the workspaces directly touched since the base ref
	ReleaseRoots []string

	// Decided maps each decided workspace to its recorded decision
	Decided map[string]string

	// Undecided lists the workspaces still needing a decision
	Undecided []string

	// Saved indicates the record set was rewritten on disk
	Saved bool
}

// ApplyRequest represents a request to apply resolved release decisions.
type ApplyRequest struct {
	// CWD is the current working directory (selects the default scope)
	CWD string

	// DryRun reports the plan without touching any manifest
	DryRun bool

	// Prerelease cuts prerelease versions and preserves the records
	Prerelease bool

	// PrereleaseTemplate overrides the configured prerelease identifier
	// pattern; empty means use the configured one
	PrereleaseTemplate string

	// Recursive extends the scope to transitive dependents of the current
	// workspace
	Recursive bool

	// All applies every pending decision regardless of the current workspace
	All bool
}

// AppliedBump describes one executed (or planned, under dry-run) version
// change.
type AppliedBump struct {
	Workspace string
	From      string
	To        string
}

// AppliedRewrite describes one executed (or planned) range update.
type AppliedRewrite struct {
	Dependent string
	Kind      string
	Target    string
	From      string
	To        string
}

// ApplyResult represents the outcome of an apply.
type ApplyResult struct {
	Bumps    []AppliedBump
	Rewrites []AppliedRewrite

	// Skipped lists in-scope workspaces dropped because they were still
	// undecided
	Skipped []string

	// DryRun echoes whether the plan was executed
	DryRun bool
}

// DeferRequest represents a request to record a release decision.
type DeferRequest struct {
	// CWD is the current working directory
	CWD string

	// Workspaces names the target workspaces; empty means the workspace
	// owning CWD
	Workspaces []string

	// Decision is the decision to record
	Decision decision.Decision
}

// DeferResult represents the outcome of a defer.
type DeferResult struct {
	// Workspaces lists the workspaces the decision was recorded for
	Workspaces []string
}

// StatusRequest represents a request for the pending release state.
type StatusRequest struct {
	// CWD is the current working directory
	CWD string
}

// StatusResult represents the pending release state.
type StatusResult struct {
	// Branch is the checked-out branch, empty on a detached HEAD
	Branch string

	// Base is the merge base the diff ran against
	Base string

	// ChangedFiles lists the project-relative changed paths
	ChangedFiles []string

	// ReleaseRoots are the workspaces directly touched by a change
	ReleaseRoots []string

	// Decided maps each decided workspace to its recorded decision
	Decided map[string]string

	// Undecided lists the workspaces still needing a decision
	Undecided []string
}
