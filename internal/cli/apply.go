package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/engine"
)

var (
	applyDryRun     bool
	applyPrerelease string
	applyRecursive  bool
	applyAll        bool
)

var applyCmd = &cobra.Command{
	Use:     "apply",
	Short:   "Apply recorded release decisions",
	GroupID: "release-lifecycle",
	Long: `Bump the version of every workspace with a recorded release decision,
rewrite the internal dependency ranges that track them, and clear the
consumed records.

By default only the workspace containing the current directory is applied;
--recursive extends the scope to its transitive dependents and --all applies
everything. With --prerelease the bump produces a prerelease cut and the
records are kept for the eventual real release.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		req := engine.ApplyRequest{
			CWD:       cwd,
			DryRun:    applyDryRun,
			Recursive: applyRecursive,
			All:       applyAll,
		}
		if cmd.Flags().Changed("prerelease") {
			req.Prerelease = true
			req.PrereleaseTemplate = applyPrerelease
		}

		result, err := eng.Apply(req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.DryRun {
			PrintWarning("dry run: no files were modified")
		} else if len(result.Bumps) > 0 {
			PrintSuccess(fmt.Sprintf("released %d workspaces", len(result.Bumps)))
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false,
		"Report the plan without modifying any file")
	applyCmd.Flags().StringVar(&applyPrerelease, "prerelease", "",
		"Cut prerelease versions using the given identifier template")
	applyCmd.Flags().Lookup("prerelease").NoOptDefVal = decision.DefaultPrereleaseTemplate
	applyCmd.Flags().BoolVarP(&applyRecursive, "recursive", "R", false,
		"Also apply the transitive dependents of the current workspace")
	applyCmd.Flags().BoolVar(&applyAll, "all", false,
		"Apply every recorded decision regardless of the current workspace")
}
