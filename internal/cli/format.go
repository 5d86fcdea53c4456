package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drewcassidy/yaclog/internal/changelog"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Reformat the changelog file",
	Long: `Reformat the changelog file in place, normalizing heading styles,
spacing, and the link table. The document's content is unchanged.`,
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	c, err := changelog.Read(cfg.Path)
	if err != nil {
		return err
	}
	if err := c.Write(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reformatted changelog file at %s\n", cfg.Path)
	return nil
}
