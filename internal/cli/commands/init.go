// nexusflow init — scaffold a new nexusflow.yaml in the target directory.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f9-o/nexusflow/internal/core/config"
	"github.com/f9-o/nexusflow/pkg/pprint"
)

func NewInitCmd() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new nexusflow.yaml in the current (or specified) directory",
		Example: `  nexusflow init
  nexusflow init --path ./my-project`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetPath == "" {
				targetPath = "."
			}
			outFile := filepath.Join(targetPath, config.FileName)
			if _, err := os.Stat(outFile); err == nil {
				return fmt.Errorf("%s already exists at %s — delete it first to reinitialise", config.FileName, outFile)
			}

			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("create dir %q: %w", targetPath, err)
			}
			if err := os.WriteFile(outFile, []byte(config.DefaultConfigTemplate), 0644); err != nil {
				return fmt.Errorf("write %s: %w", config.FileName, err)
			}

			pprint.Success("Created %s", outFile)
			pprint.Info("Run `nexusflow check` to verify the flow.")
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", ".", "Target directory for nexusflow.yaml")
	return cmd
}
