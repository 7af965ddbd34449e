package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monover/monover/internal/engine"
)

var checkInteractive bool

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Validate pending release decisions",
	GroupID: "release-lifecycle",
	Long: `Verify that every workspace changed since the base ref, and every
workspace implicated through the dependency graph, carries a release
decision. With --interactive, missing decisions are prompted for and saved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		result, err := eng.Check(engine.CheckRequest{
			CWD:         cwd,
			Interactive: checkInteractive,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("%d release decisions in place", len(result.Decided)))
		for _, name := range sortedKeys(result.Decided) {
			PrintLabelValue(name, result.Decided[name])
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&checkInteractive, "interactive", "i", false,
		"Prompt for missing release decisions")
}
