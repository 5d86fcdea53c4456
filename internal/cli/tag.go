package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drewcassidy/yaclog/internal/changelog"
)

var (
	tagAdd    bool
	tagDelete bool
)

var tagCmd = &cobra.Command{
	Use:   "tag TAG [VERSION]",
	Short: "Modify version tags",
	Long: `Modify TAG on VERSION.

VERSION is the name of a version to add tags to. If not given, the most
recent version is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.Flags().BoolVarP(&tagAdd, "add", "a", false, "Add the tag (the default)")
	tagCmd.Flags().BoolVarP(&tagDelete, "delete", "d", false, "Delete the tag")
	tagCmd.MarkFlagsMutuallyExclusive("add", "delete")
}

func runTag(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	c, err := changelog.Read(cfg.Path)
	if err != nil {
		return err
	}

	var version *changelog.VersionEntry
	if len(args) > 1 {
		version = findVersion(c, args[1])
		if version == nil {
			return &UsageError{Message: fmt.Sprintf("version %q not found in changelog", args[1])}
		}
	} else {
		if len(c.Versions) == 0 {
			return &UsageError{Message: "changelog has no versions"}
		}
		version = c.Versions[0]
	}

	if tagDelete {
		if err := version.RemoveTag(args[0]); err != nil {
			return &UsageError{Message: err.Error()}
		}
	} else {
		version.AddTag(args[0])
	}

	return c.Write()
}

// findVersion returns the first version with the exact given name, or nil.
func findVersion(c *changelog.Changelog, name string) *changelog.VersionEntry {
	for _, v := range c.Versions {
		if v.Name == name {
			return v
		}
	}
	return nil
}
