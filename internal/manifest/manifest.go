// Package manifest updates the version field of a Cargo.toml package
// manifest. The file is validated by decoding it as TOML, but the edit
// itself is a line-level replacement so comments, ordering, and formatting
// survive the rewrite.
package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	tableRegex   = regexp.MustCompile(`^\s*\[([^\]]+)\]`)
	versionRegex = regexp.MustCompile(`^(\s*version\s*=\s*)("[^"]*"|'[^']*')(.*)$`)
)

// cargoManifest is the subset of Cargo.toml the version edit cares about.
type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// Version returns the package version declared in the manifest at path.
func Version(path string) (string, error) {
	var m cargoManifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return "", fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Package.Version == "" {
		return "", fmt.Errorf("manifest %s has no package.version field", path)
	}
	return m.Package.Version, nil
}

// SetVersion rewrites the version field in the [package] table of the
// manifest at path, preserving the file's formatting and the field's quote
// style. It fails if the file is not valid TOML or has no version field.
func SetVersion(path string, version string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	table := ""
	replaced := false

	for i, line := range lines {
		if match := tableRegex.FindStringSubmatch(line); match != nil {
			table = match[1]
			continue
		}
		if table != "package" || replaced {
			continue
		}
		if match := versionRegex.FindStringSubmatch(line); match != nil {
			quote := match[2][:1]
			lines[i] = match[1] + quote + version + quote + match[3]
			replaced = true
		}
	}

	if !replaced {
		return fmt.Errorf("manifest %s has no package.version field", path)
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
