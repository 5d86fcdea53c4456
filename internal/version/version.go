// Package version analyzes and manipulates semantic version numbers
// embedded in free-form version names, such as "1.2.0", "v1.2.0-rc.1", or
// "My Release 2.0.0". The changelog model treats version names as opaque
// strings and delegates all version-number semantics to this package.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Prerelease kinds accepted by IncrementPrerelease, in ascending order of
// maturity. The empty string clears the prerelease field (a full release).
const (
	Alpha = "alpha"
	Beta  = "beta"
	RC    = "rc"
)

// Release segment indexes accepted by IncrementRelease.
const (
	Major = 0
	Minor = 1
	Patch = 2
)

var versionRegex = regexp.MustCompile(
	`\d+\.\d+\.\d+(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?`)

// Extract finds a semantic version number inside a string that may contain
// other text. It returns the parsed version and the span of its substring,
// or (nil, -1, -1) when the string contains no version number.
func Extract(s string) (*semver.Version, int, int) {
	loc := versionRegex.FindStringIndex(s)
	if loc == nil {
		return nil, -1, -1
	}
	v, err := semver.NewVersion(s[loc[0]:loc[1]])
	if err != nil {
		return nil, -1, -1
	}
	return v, loc[0], loc[1]
}

// IsRelease reports whether s contains a released version number: one that
// is present and carries no prerelease segment.
func IsRelease(s string) bool {
	v, _, _ := Extract(s)
	return v != nil && v.Prerelease() == ""
}

// IncrementRelease increments one segment of the release number found in s,
// zeroing the segments after it and clearing any prerelease field, and
// returns s with the version substring replaced in place. Incrementing the
// patch segment of a prerelease version finalizes it instead of bumping
// (1.2.0-rc.1 becomes 1.2.0).
func IncrementRelease(s string, segment int) (string, error) {
	v, start, end := Extract(s)
	if v == nil {
		return "", fmt.Errorf("no version number found in %q", s)
	}

	var next semver.Version
	switch segment {
	case Major:
		next = v.IncMajor()
	case Minor:
		next = v.IncMinor()
	case Patch:
		next = v.IncPatch()
	default:
		return "", fmt.Errorf("unknown release segment %d", segment)
	}

	return s[:start] + next.String() + s[end:], nil
}

// IncrementPrerelease sets or increments the prerelease field of the version
// found in s and returns s with the version substring replaced in place.
// kind is one of Alpha, Beta, or RC; passing "" clears the prerelease field,
// turning a prerelease into a full release. A matching existing prerelease
// has its counter incremented; anything else is replaced by "<kind>.1".
func IncrementPrerelease(s string, kind string) (string, error) {
	v, start, end := Extract(s)
	if v == nil {
		return "", fmt.Errorf("no version number found in %q", s)
	}

	pre := ""
	switch kind {
	case "":
		// full release, clear the prerelease field
	case Alpha, Beta, RC:
		pre = kind + ".1"
		if n, ok := prereleaseCounter(v.Prerelease(), kind); ok {
			pre = fmt.Sprintf("%s.%d", kind, n+1)
		}
	default:
		return "", fmt.Errorf("unknown prerelease kind %q", kind)
	}

	next, err := v.SetPrerelease(pre)
	if err != nil {
		return "", fmt.Errorf("setting prerelease %q: %w", pre, err)
	}

	return s[:start] + next.String() + s[end:], nil
}

// prereleaseCounter returns the numeric counter of a prerelease field of the
// form "<kind>.<n>", or false when the field has a different kind or shape.
func prereleaseCounter(pre, kind string) (int, bool) {
	rest, found := strings.CutPrefix(pre, kind+".")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
