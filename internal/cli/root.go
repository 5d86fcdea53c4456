// Package cli implements the yaclog command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drewcassidy/yaclog/internal/config"
)

// cfg holds the merged configuration, loaded before any command runs.
// Persistent flags override it in place.
var cfg *config.Config

var (
	flagPath string
	flagYes  bool
)

var rootCmd = &cobra.Command{
	Use:   "yaclog",
	Short: "Manipulate markdown changelog files",
	Long: `yaclog reads, modifies, and writes markdown changelog files in the
Keep a Changelog style, keeping them the single source of truth for
version history.`,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if flagPath != "" {
			cfg.Path = flagPath
		}
		if flagYes {
			cfg.SkipConfirmations = true
		}

		// every command except init operates on an existing file
		for c := cmd; c != nil; c = c.Parent() {
			switch c.Name() {
			case "init", "version", "help", "completion":
				return nil
			}
		}
		if _, err := os.Stat(cfg.Path); err != nil {
			return fmt.Errorf("changelog file %s does not exist, create it by running `yaclog init`", cfg.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPath, "path", "", "Location of the changelog file (default CHANGELOG.md)")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to all confirmation prompts")
}

// Execute runs the root command and prints any resulting error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errAborted) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if errors.Is(err, errAborted) {
		fmt.Fprintln(os.Stderr, "Aborted!")
	}
	return err
}

// ExitCode maps an error from Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, errAborted) {
		return ExitAborted
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}
	return ExitFailure
}

// UsageError reports invalid command arguments, such as a version or tag
// name that does not exist in the changelog.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}
