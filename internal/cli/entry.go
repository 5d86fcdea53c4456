package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drewcassidy/yaclog/internal/changelog"
)

var (
	entryBullets    []string
	entryParagraphs []string
)

var entryCmd = &cobra.Command{
	Use:   "entry [SECTION] [VERSION]",
	Short: "Add entries to the changelog",
	Long: `Add entries to SECTION in VERSION.

SECTION is the name of the section to append to. If not given, entries
will be uncategorized.

VERSION is the name of the version to append to. If not given, the most
recent unreleased version will be used, or a new 'Unreleased' version
will be added if the most recent version has been released.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runEntry,
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.Flags().StringArrayVarP(&entryBullets, "bullet", "b", nil,
		"Bullet points to add. When multiple bullet points are provided, additional points are added as sub-points.")
	entryCmd.Flags().StringArrayVarP(&entryParagraphs, "paragraph", "p", nil, "Paragraphs to add")
}

func runEntry(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	c, err := changelog.Read(cfg.Path)
	if err != nil {
		return err
	}

	section := ""
	if len(args) > 0 {
		section = changelog.TitleCase(args[0])
	}

	var version *changelog.VersionEntry
	if len(args) > 1 {
		version = findVersion(c, args[1])
		if version == nil {
			return &UsageError{Message: fmt.Sprintf("version %q not found in changelog", args[1])}
		}
	} else {
		for _, v := range c.Versions {
			if strings.EqualFold(v.Name, changelog.DefaultVersionName) {
				version = v
				break
			}
		}
		if version == nil {
			version = c.AddVersion(0, changelog.NewVersionEntry())
		}
	}

	if _, ok := version.Sections.Get(section); !ok {
		version.Sections.Set(section, []string{})
	}

	for _, p := range entryParagraphs {
		version.AddEntry(p, section)
	}
	if len(entryBullets) > 0 {
		version.AddEntry(joinBullets(entryBullets), section)
	}

	return c.Write()
}

// joinBullets combines bullet points into a single list entry, nesting every
// point after the first as an indented sub-point. Points without a list
// marker get a "- " prefix.
func joinBullets(bullets []string) string {
	var b strings.Builder
	for _, bullet := range bullets {
		bullet = strings.TrimSpace(bullet)
		if bullet == "" {
			continue
		}
		if !strings.ContainsRune("-+*", rune(bullet[0])) {
			bullet = "- " + bullet
		}
		if b.Len() > 0 {
			b.WriteString("\n    ")
		}
		b.WriteString(bullet)
	}
	return b.String()
}
