package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/drewcassidy/yaclog/internal/changelog"
	"github.com/drewcassidy/yaclog/internal/git"
	"github.com/drewcassidy/yaclog/internal/manifest"
	"github.com/drewcassidy/yaclog/internal/version"
)

var (
	releaseVersion string
	releaseMajor   bool
	releaseMinor   bool
	releasePatch   bool
	releaseAlpha   bool
	releaseBeta    bool
	releaseRC      bool
	releaseFull    bool
	releaseCommit  bool
	releaseCargo   bool
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Release versions",
	Long: `Release versions in the changelog and increment their version numbers.

The most recent version is renamed, either to an explicit version number
given with --version or by incrementing the version number of the last
released version, and stamped with today's date.`,
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.Flags().StringVarP(&releaseVersion, "version", "v", "", "The new version number to use")
	releaseCmd.Flags().BoolVarP(&releaseMajor, "major", "M", false, "Increment major version number")
	releaseCmd.Flags().BoolVarP(&releaseMinor, "minor", "m", false, "Increment minor version number")
	releaseCmd.Flags().BoolVarP(&releasePatch, "patch", "p", false, "Increment patch number")
	releaseCmd.Flags().BoolVarP(&releaseAlpha, "alpha", "a", false, "Increment alpha version number")
	releaseCmd.Flags().BoolVarP(&releaseBeta, "beta", "b", false, "Increment beta version number")
	releaseCmd.Flags().BoolVarP(&releaseRC, "rc", "r", false, "Increment release candidate version number")
	releaseCmd.Flags().BoolVarP(&releaseFull, "full", "f", false, "Clear the prerelease field, making a full release")
	releaseCmd.Flags().BoolVarP(&releaseCommit, "commit", "c", false, "Create a git commit tagged with the new version number")
	releaseCmd.Flags().BoolVarP(&releaseCargo, "cargo", "C", false, "Update the version number in Cargo.toml as well")
	releaseCmd.MarkFlagsMutuallyExclusive("version", "major", "minor", "patch", "alpha", "beta", "rc", "full")
}

func runRelease(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	c, err := changelog.Read(cfg.Path)
	if err != nil {
		return err
	}
	if len(c.Versions) == 0 {
		return &UsageError{Message: "changelog has no versions to release"}
	}

	cur := c.Versions[0]
	oldName := cur.Name

	newName, err := releaseName(c)
	if err != nil {
		return err
	}

	if newName != "" {
		if cur.Released() {
			question := fmt.Sprintf("Rename release version %q to %q?", cur.Name, newName)
			if err := confirm(cmd, question); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		cur.Name = newName
		cur.Date = &date

		if err := c.Write(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Renamed version %q to %q.\n", oldName, cur.Name)
	}

	if releaseCargo {
		if err := updateManifest(out, cur); err != nil {
			return err
		}
	}

	if releaseCommit {
		if err := commitRelease(cmd, cur); err != nil {
			return err
		}
	}

	return nil
}

// releaseName computes the new name for the most recent version, or "" when
// no rename was requested. Increments apply to the version number of the
// newest version that is not named "Unreleased".
func releaseName(c *changelog.Changelog) (string, error) {
	if releaseVersion != "" {
		return releaseVersion, nil
	}

	var base *changelog.VersionEntry
	for _, v := range c.Versions {
		if !strings.EqualFold(v.Name, changelog.DefaultVersionName) {
			base = v
			break
		}
	}

	segment, kind := -1, ""
	switch {
	case releaseMajor:
		segment = version.Major
	case releaseMinor:
		segment = version.Minor
	case releasePatch:
		segment = version.Patch
	case releaseAlpha:
		kind = version.Alpha
	case releaseBeta:
		kind = version.Beta
	case releaseRC:
		kind = version.RC
	case releaseFull:
		// kind stays "", clearing the prerelease field
	default:
		return "", nil
	}

	if base == nil {
		return "", &UsageError{Message: "changelog has no version to increment from"}
	}

	if segment >= 0 {
		return version.IncrementRelease(base.Name, segment)
	}
	return version.IncrementPrerelease(base.Name, kind)
}

// updateManifest writes the released version number into the Cargo.toml
// manifest named in the configuration.
func updateManifest(out io.Writer, cur *changelog.VersionEntry) error {
	sv := cur.Semver()
	if sv == nil {
		return &UsageError{Message: fmt.Sprintf("version %q has no version number to write to %s", cur.Name, cfg.Manifest)}
	}
	if err := manifest.SetVersion(cfg.Manifest, sv.String()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated version in %s to %s.\n", cfg.Manifest, sv)
	return nil
}

// commitRelease stages the changelog (and manifest, with --cargo), commits
// any staged changes, and creates an annotated tag named after the version.
func commitRelease(cmd *cobra.Command, cur *changelog.VersionEntry) error {
	out := cmd.OutOrStdout()

	repo, err := git.Open("")
	if err != nil {
		return fmt.Errorf("not a git repository: %w", err)
	}

	if err := repo.Stage(cfg.Path); err != nil {
		return err
	}
	if releaseCargo {
		if err := repo.Stage(cfg.Manifest); err != nil {
			return err
		}
	}

	staged, untracked, err := repo.Changes()
	if err != nil {
		return err
	}

	versionType := ""
	if !cur.Released() {
		versionType = "non-release "
	}

	action := "Create tag"
	if staged > 0 {
		action = "Commit and create tag"
	}

	warning := ""
	if untracked > 0 {
		plural := ""
		if untracked > 1 {
			plural = "s"
		}
		warning = color.New(color.FgRed, color.Bold).Sprintf(
			" You have %d untracked file%s that will not be included.", untracked, plural)
	}

	question := fmt.Sprintf("%s for %sversion %s?%s", action, versionType, cur.Name, warning)
	if err := confirm(cmd, question); err != nil {
		return err
	}

	if staged > 0 {
		hash, err := repo.Commit(fmt.Sprintf("Version %s\n\n%s", cur.Name, cur.Body(true)))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created commit %s\n", hash)
	}

	if err := repo.Tag(cur.Name, cur.Body(false)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created tag %q.\n", cur.Name)
	return nil
}
