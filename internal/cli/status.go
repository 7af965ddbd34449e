package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monover/monover/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the pending release state",
	GroupID: "release-lifecycle",
	Long: `Display the workspaces changed since the base ref, the recorded release
decisions, and the workspaces that still need one. Nothing is modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		result, err := eng.Status(engine.StatusRequest{CWD: cwd})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintLabelValue("Branch", result.Branch)
		PrintLabelValue("Base", result.Base)
		PrintLabelValue("Changed files", fmt.Sprintf("%d", len(result.ChangedFiles)))

		if len(result.ReleaseRoots) > 0 {
			fmt.Println("\nTouched workspaces:")
			PrintList(result.ReleaseRoots, 1)
		}
		if len(result.Decided) > 0 {
			fmt.Println("\nDecided:")
			for _, name := range sortedKeys(result.Decided) {
				PrintLabelValue(name, result.Decided[name])
			}
		}
		if len(result.Undecided) > 0 {
			fmt.Println()
			PrintWarning(fmt.Sprintf("%d workspaces need a decision", len(result.Undecided)))
			PrintList(result.Undecided, 1)
		}
		return nil
	},
}
