package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drewcassidy/yaclog/internal/changelog"
)

var (
	showAll      bool
	showMarkdown bool
)

var showCmd = &cobra.Command{
	Use:   "show [VERSIONS...]",
	Short: "Show changes from the changelog file",
	Long: `Show the changes for VERSIONS.

VERSIONS is a list of versions to print. If not given, the most recent
version is used.`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show the entire changelog")
	showCmd.Flags().BoolVarP(&showMarkdown, "markdown", "m", false, "Print with markdown heading prefixes")
}

func runShow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if showAll {
		data, err := os.ReadFile(cfg.Path)
		if err != nil {
			return fmt.Errorf("reading changelog file: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}

	c, err := changelog.Read(cfg.Path)
	if err != nil {
		return err
	}

	var versions []*changelog.VersionEntry
	if len(args) > 0 {
		for _, name := range args {
			matched := false
			for _, v := range c.Versions {
				if v.Name == name {
					versions = append(versions, v)
					matched = true
				}
			}
			if !matched {
				return &UsageError{Message: fmt.Sprintf("version %q not found in changelog", name)}
			}
		}
	} else {
		if len(c.Versions) == 0 {
			return &UsageError{Message: "changelog has no versions"}
		}
		versions = c.Versions[:1]
	}

	out := cmd.OutOrStdout()
	opts := changelog.FormatOptions{
		Markdown: showMarkdown,
		Color:    !cfg.Plain && changelog.IsTerminal(out),
	}
	for _, v := range versions {
		if err := changelog.FormatVersion(v, out, opts); err != nil {
			return err
		}
	}
	return nil
}
