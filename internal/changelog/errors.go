package changelog

import (
	"fmt"
	"strings"
)

// VersionNotFoundError is returned when no version matches a requested name.
type VersionNotFoundError struct {
	Name              string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("version %q not found (changelog is empty)", e.Name)
	}
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Name, strings.Join(e.AvailableVersions, ", "))
}

// TagNotFoundError is returned when removing a tag a version does not carry.
type TagNotFoundError struct {
	Tag     string
	Version string
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("tag %q not found in version %q", e.Tag, e.Version)
}

// NoVersionError is returned when CurrentVersion finds nothing. Empty is set
// when the changelog has no versions at all; otherwise Filter names the
// release filter that matched no version.
type NoVersionError struct {
	Filter ReleaseFilter
	Empty  bool
}

func (e *NoVersionError) Error() string {
	switch {
	case e.Empty:
		return "changelog has no versions"
	case e.Filter == ReleasedOnly:
		return "changelog has no released versions"
	case e.Filter == UnreleasedOnly:
		return "changelog has no unreleased versions"
	default:
		return "changelog has no current version"
	}
}
