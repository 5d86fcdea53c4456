package changelog

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/Masterminds/semver/v3"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/drewcassidy/yaclog/internal/version"
)

// DefaultPreamble is the preamble used for newly created changelog files.
const DefaultPreamble = "# Changelog\n\nAll notable changes to this project will be documented in this file"

// DefaultVersionName is the name given to versions created without one.
const DefaultVersionName = "Unreleased"

var bracketNameRegex = regexp.MustCompile(`^\[(.*)]$`)

// VersionEntry is a single version in a changelog, holding the changes made
// since the previous version.
type VersionEntry struct {
	// Name is the version's name. Before link resolution this may still be
	// a bracketed reference token like "[1.0.0]".
	Name string

	// Date is when the version was released, or nil for an unreleased or
	// undated version. Only the calendar date is significant.
	Date *time.Time

	// Tags are free-form labels on the version header, stored uppercase in
	// order of appearance. Duplicates are allowed.
	Tags []string

	// Link is the version's URL, or "" when the version has none.
	Link string

	// LinkID is an explicit reference-link id from a "[name][id]" header,
	// or "". It is cleared once resolved against the link table.
	LinkID string

	// LineNo is the zero-based line the version header was read from. It is
	// diagnostic only and not kept accurate across mutations. Zero means
	// the entry was not read from a file.
	LineNo int

	// Sections maps section titles to their entries, in insertion order.
	// Uncategorized entries live under the empty string key, which always
	// exists.
	Sections *orderedmap.OrderedMap[string, []string]
}

// NewVersionEntry returns an empty unreleased version entry with the
// uncategorized section already present.
func NewVersionEntry() *VersionEntry {
	v := &VersionEntry{
		Name:     DefaultVersionName,
		Sections: orderedmap.New[string, []string](),
	}
	v.Sections.Set("", []string{})
	return v
}

// AddEntry appends a change entry to the given section, creating the section
// if needed. Section names are normalized to title case, so "added" and
// "Added" refer to the same section. Entries are never merged.
func (v *VersionEntry) AddEntry(contents string, section string) {
	section = TitleCase(section)
	entries, _ := v.Sections.Get(section)
	v.Sections.Set(section, append(entries, contents))
}

// AddTag appends a tag to the version, normalized to uppercase.
func (v *VersionEntry) AddTag(tag string) {
	v.Tags = append(v.Tags, strings.ToUpper(tag))
}

// RemoveTag removes the first occurrence of a tag (case-insensitive).
// The tag list is left unchanged if the tag is absent.
func (v *VersionEntry) RemoveTag(tag string) error {
	tag = strings.ToUpper(tag)
	for i, t := range v.Tags {
		if t == tag {
			v.Tags = append(v.Tags[:i], v.Tags[i+1:]...)
			return nil
		}
	}
	return &TagNotFoundError{Tag: tag, Version: v.Name}
}

// Released reports whether the version's name contains a released semantic
// version number, with no prerelease segment.
func (v *VersionEntry) Released() bool {
	return version.IsRelease(v.Name)
}

// Semver returns the semantic version number found in the version's name,
// or nil if none is found.
func (v *VersionEntry) Semver() *semver.Version {
	sv, _, _ := version.Extract(v.Name)
	return sv
}

// Header renders the version's header line. With md set the line carries the
// "## " heading prefix and the name is bracketed when the version has a link.
func (v *VersionEntry) Header(md bool) string {
	var segments []string

	if v.Link != "" && md {
		segments = append(segments, "["+v.Name+"]")
	} else {
		segments = append(segments, v.Name)
	}

	if v.Date != nil || len(v.Tags) > 0 {
		segments = append(segments, "-")
	}
	if v.Date != nil {
		segments = append(segments, v.Date.Format("2006-01-02"))
	}
	for _, tag := range v.Tags {
		segments = append(segments, "["+strings.ToUpper(tag)+"]")
	}

	title := strings.Join(segments, " ")
	if md {
		return "## " + title
	}
	return title
}

// Body renders the version's change entries, without the header line.
// Section titles become "### " headings with md set, or bare uppercase
// titles otherwise.
func (v *VersionEntry) Body(md bool) string {
	var segments []string

	for pair := v.Sections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != "" {
			if md {
				segments = append(segments, "### "+TitleCase(pair.Key))
			} else {
				segments = append(segments, strings.ToUpper(pair.Key))
			}
		}
		segments = append(segments, pair.Value...)
	}

	return Join(segments)
}

// Text renders the version's header and body together.
func (v *VersionEntry) Text(md bool) string {
	contents := v.Header(md)
	if body := v.Body(md); body != "" {
		contents += "\n\n" + body
	}
	return contents
}

func (v *VersionEntry) String() string {
	return v.Header(false)
}

// Changelog is a markdown changelog document: a preamble, an ordered list of
// versions (newest first by convention), and a table of link definitions.
type Changelog struct {
	// Path is the changelog's location on disk. It is not part of the
	// logical document.
	Path string

	// Preamble is any text before the first version header, including the
	// title. It is written back verbatim.
	Preamble string

	// Versions are the changelog's version entries. Order is caller
	// controlled; nothing is sorted automatically.
	Versions []*VersionEntry

	// Links maps lowercase reference-link ids to URLs, in the order the
	// definitions appear in the file.
	Links *orderedmap.OrderedMap[string, string]
}

// New returns an empty changelog with the default preamble, bound to path.
func New(path string) *Changelog {
	return &Changelog{
		Path:     path,
		Preamble: DefaultPreamble,
		Links:    orderedmap.New[string, string](),
	}
}

// Read parses a markdown changelog file from disk.
func Read(path string) (*Changelog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}

	c := New(path)
	c.ReadText(string(data))
	return c, nil
}

// ReadText parses changelog text, replacing the document's contents.
func (c *Changelog) ReadText(text string) {
	tokens, links := Tokenize(text)

	section := ""
	var versions []*VersionEntry
	var preamble []string

	for _, token := range tokens {
		text := token.Text()

		switch {
		case token.Kind == "h2":
			// start of a version
			versions = append(versions, ParseVersionHeader(text, token.LineNo))
			section = ""

		case len(versions) == 0:
			// no version header seen yet, this belongs to the preamble
			preamble = append(preamble, text)

		case token.Kind == "h3":
			// start of a section within the current version
			section = strings.TrimSpace(strings.Trim(text, "#"))
			current := versions[len(versions)-1]
			if _, ok := current.Sections.Get(section); !ok {
				current.Sections.Set(section, []string{})
			}

		default:
			// change entry
			current := versions[len(versions)-1]
			entries, _ := current.Sections.Get(section)
			current.Sections.Set(section, append(entries, text))
		}
	}

	resolveLinks(versions, links)

	c.Preamble = Join(preamble)
	c.Versions = versions
	c.Links = links
}

// resolveLinks matches parsed versions against the link table. A version
// named "[X]" claims the table entry for "x" and drops its brackets; a
// version with an explicit link id resolves through that id instead. The
// table itself is left intact so several versions may share one definition;
// the written table is re-derived in Render.
func resolveLinks(versions []*VersionEntry, links *orderedmap.OrderedMap[string, string]) {
	for _, v := range versions {
		if m := bracketNameRegex.FindStringSubmatch(v.Name); m != nil {
			if url, ok := links.Get(strings.ToLower(m[1])); ok {
				v.Link = url
				v.LinkID = ""
				v.Name = m[1]
			}
		} else if v.LinkID != "" {
			if url, ok := links.Get(v.LinkID); ok {
				v.Link = url
			}
		}
	}
}

// Render serializes the changelog to markdown text. The output is a fixed
// point: rendering, re-reading, and rendering again yields identical text.
func (c *Changelog) Render() string {
	var segments []string

	if c.Preamble != "" {
		segments = append(segments, c.Preamble)
	}

	// re-derive the link table: parsed definitions first, then links
	// claimed by versions keyed by their lowercased name
	linkRows := orderedmap.New[string, string]()
	if c.Links != nil {
		for pair := c.Links.Oldest(); pair != nil; pair = pair.Next() {
			linkRows.Set(pair.Key, pair.Value)
		}
	}

	for _, v := range c.Versions {
		if v.Link != "" {
			linkRows.Set(strings.ToLower(v.Name), v.Link)
		}
		segments = append(segments, v.Text(true)+"\n")
	}

	for pair := linkRows.Oldest(); pair != nil; pair = pair.Next() {
		segments = append(segments, fmt.Sprintf("[%s]: %s", pair.Key, pair.Value))
	}

	return Join(segments)
}

// Write serializes the changelog to its own path.
func (c *Changelog) Write() error {
	return c.WriteFile(c.Path)
}

// WriteFile serializes the changelog to the given path, replacing the file
// contents in a single write.
func (c *Changelog) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(c.Render()), 0o644); err != nil {
		return fmt.Errorf("writing changelog file: %w", err)
	}
	return nil
}

// AddVersion inserts a version entry at the given index (0 is the newest
// position) and returns it. Names are not required to be unique.
func (c *Changelog) AddVersion(index int, v *VersionEntry) *VersionEntry {
	if index < 0 {
		index = 0
	}
	if index > len(c.Versions) {
		index = len(c.Versions)
	}
	c.Versions = append(c.Versions, nil)
	copy(c.Versions[index+1:], c.Versions[index:])
	c.Versions[index] = v
	return v
}

// ReleaseFilter selects versions by release status in CurrentVersion.
type ReleaseFilter int

const (
	// AnyVersion matches every version.
	AnyVersion ReleaseFilter = iota
	// ReleasedOnly matches versions whose name carries a released version
	// number.
	ReleasedOnly
	// UnreleasedOnly matches versions that are not released.
	UnreleasedOnly
)

// CurrentVersion returns the first version matching the filter. When none
// match and createIfMissing is set, a fresh version named defaultName is
// inserted at the front and returned; otherwise a NoVersionError is
// returned, distinguishing an empty changelog from a filter mismatch.
func (c *Changelog) CurrentVersion(filter ReleaseFilter, createIfMissing bool, defaultName string) (*VersionEntry, error) {
	for _, v := range c.Versions {
		if filter == AnyVersion || (filter == ReleasedOnly) == v.Released() {
			return v, nil
		}
	}

	if createIfMissing {
		v := NewVersionEntry()
		if defaultName != "" {
			v.Name = defaultName
		}
		return c.AddVersion(0, v), nil
	}

	if len(c.Versions) == 0 {
		return nil, &NoVersionError{Empty: true}
	}
	return nil, &NoVersionError{Filter: filter}
}

// GetVersion returns the first version whose name contains name as a
// substring, which allows abbreviated lookups. An empty name matches the
// most recent version.
func (c *Changelog) GetVersion(name string) (*VersionEntry, error) {
	for _, v := range c.Versions {
		if strings.Contains(v.Name, name) {
			return v, nil
		}
	}
	return nil, &VersionNotFoundError{Name: name, AvailableVersions: c.ListVersions()}
}

// ListVersions returns the names of all versions in document order.
func (c *Changelog) ListVersions() []string {
	names := make([]string, len(c.Versions))
	for i, v := range c.Versions {
		names[i] = v.Name
	}
	return names
}

// TitleCase uppercases the first letter of every word and lowercases the
// rest, so "added" and "bullet points" become "Added" and "Bullet Points".
// It is the normal form for section titles.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
