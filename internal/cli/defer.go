package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monover/monover/internal/decision"
	"github.com/monover/monover/internal/engine"
)

var deferWorkspaces []string

var deferCmd = &cobra.Command{
	Use:     "defer <strategy>",
	Short:   "Record a release decision for later",
	GroupID: "release-lifecycle",
	Long: `Record a release decision without applying it. The strategy is one of
patch, minor, major, prerelease, decline, or an exact semver version.

The decision targets the workspace containing the current directory, or the
workspaces named with --workspace.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := decision.Parse(args[0])
		if err != nil {
			return err
		}

		eng := newEngine()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		result, err := eng.Defer(engine.DeferRequest{
			CWD:        cwd,
			Workspaces: deferWorkspaces,
			Decision:   d,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("recorded %s for %d workspaces", d, len(result.Workspaces)))
		return nil
	},
}

func init() {
	deferCmd.Flags().StringSliceVarP(&deferWorkspaces, "workspace", "w", nil,
		"Target workspace name (repeatable)")
}
