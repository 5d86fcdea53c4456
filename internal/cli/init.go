package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drewcassidy/yaclog/internal/changelog"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new changelog file",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if _, err := os.Stat(cfg.Path); err == nil {
		question := fmt.Sprintf("Changelog file %s already exists. Would you like to overwrite it?", cfg.Path)
		if err := confirm(cmd, question); err != nil {
			return err
		}
		if err := os.Remove(cfg.Path); err != nil {
			return fmt.Errorf("removing existing changelog: %w", err)
		}
	}

	if err := changelog.New(cfg.Path).Write(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created new changelog file at %s\n", cfg.Path)
	return nil
}
