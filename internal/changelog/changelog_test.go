package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logSegments is a changelog full of things that might trip up the parser,
// joined into a document by blank lines.
var logSegments = []string{
	"# Changelog",

	"This changelog is for testing the parser, and has many things in it that might trip it up.",

	"## [Tests]", // 2

	"- bullet point with no section",

	"### Bullet Points", // 4

	"- bullet point dash\n" +
		"* bullet point star\n" +
		"+ bullet point plus\n" +
		"  - sub point 1\n" +
		"  - sub point 2\n" +
		"  - sub point 3",

	"### Blocks ##", // 6

	"#### This is an H4",
	"##### This is an H5",
	"###### This is an H6",

	"- this is a bullet point\nit spans many lines",

	"This is\na paragraph\nit spans many lines",

	"```python\nthis is some example code\nit spans many lines\n```",

	"> this is a block quote\nit spans many lines",

	"[FullVersion] - 1969-07-20 [TAG1] [TAG2]\n-----", // 14
	"## Long Version Name",                            // 15

	"[fullVersion]: http://endless.horse\n[id]: http://www.koalastothemax.com",
}

var logText = strings.Join(logSegments, "\n\n")

// fixtureChangelog builds the document logText describes, the way a caller
// constructing it in memory would.
func fixtureChangelog() *Changelog {
	c := New("")
	c.Preamble = "# Changelog\n\n" +
		"This changelog is for testing the parser, and has many things in it that might trip it up."
	c.Links.Set("id", "http://www.koalastothemax.com")

	v0 := NewVersionEntry()
	v0.Name = "[Tests]"
	v0.Sections.Set("", []string{"- bullet point with no section"})
	v0.Sections.Set("Bullet Points", []string{
		"- bullet point dash",
		"* bullet point star",
		"+ bullet point plus\n  - sub point 1\n  - sub point 2\n  - sub point 3",
	})
	v0.Sections.Set("Blocks", []string{
		"#### This is an H4",
		"##### This is an H5",
		"###### This is an H6",
		"- this is a bullet point\nit spans many lines",
		"This is\na paragraph\nit spans many lines",
		"```python\nthis is some example code\nit spans many lines\n```",
		"> this is a block quote\nit spans many lines",
	})

	v1 := NewVersionEntry()
	v1.Name = "FullVersion"
	v1.Link = "http://endless.horse"
	v1.Tags = []string{"TAG1", "TAG2"}
	v1.Date = date("1969-07-20")

	v2 := NewVersionEntry()
	v2.Name = "Long Version Name"

	c.Versions = []*VersionEntry{v0, v1, v2}
	return c
}

// splitSegments splits rendered text into blocks the way logSegments is
// organized, normalizing extra blank lines.
func splitSegments(text string) []string {
	var segments []string
	for _, s := range strings.Split(text, "\n\n") {
		s = strings.TrimLeft(s, "\n")
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changelog.md")
	require.NoError(t, os.WriteFile(path, []byte(logText), 0o644))

	c, err := Read(path)
	require.NoError(t, err)
	want := fixtureChangelog()

	t.Run("path", func(t *testing.T) {
		assert.Equal(t, path, c.Path)
	})

	t.Run("preamble", func(t *testing.T) {
		assert.Equal(t, want.Preamble, c.Preamble)
	})

	t.Run("links", func(t *testing.T) {
		// the table keeps definitions claimed by versions
		url, ok := c.Links.Get("fullversion")
		require.True(t, ok)
		assert.Equal(t, "http://endless.horse", url)

		url, ok = c.Links.Get("id")
		require.True(t, ok)
		assert.Equal(t, "http://www.koalastothemax.com", url)
	})

	t.Run("versions", func(t *testing.T) {
		require.Len(t, c.Versions, len(want.Versions))
		for i := range want.Versions {
			assert.Equal(t, want.Versions[i].Name, c.Versions[i].Name, "version %d", i)
			assert.Equal(t, want.Versions[i].Link, c.Versions[i].Link, "version %d", i)
			assert.Equal(t, want.Versions[i].Date, c.Versions[i].Date, "version %d", i)
			assert.Equal(t, want.Versions[i].Tags, c.Versions[i].Tags, "version %d", i)
		}
	})

	t.Run("entries", func(t *testing.T) {
		got, wantSections := c.Versions[0].Sections, want.Versions[0].Sections
		require.Equal(t, wantSections.Len(), got.Len())

		wantPair := wantSections.Oldest()
		for pair := got.Oldest(); pair != nil; pair = pair.Next() {
			assert.Equal(t, wantPair.Key, pair.Key)
			assert.Equal(t, wantPair.Value, pair.Value)
			wantPair = wantPair.Next()
		}
	})
}

func TestRender(t *testing.T) {
	segments := splitSegments(fixtureChangelog().Render())
	require.Len(t, segments, 18)

	t.Run("preamble", func(t *testing.T) {
		assert.Equal(t, logSegments[0:2], segments[0:2])
	})

	t.Run("versions", func(t *testing.T) {
		assert.Equal(t, "## [Tests]", segments[2])
		assert.Equal(t, "## [FullVersion] - 1969-07-20 [TAG1] [TAG2]", segments[14])
		assert.Equal(t, "## Long Version Name", segments[15])
	})

	t.Run("entries", func(t *testing.T) {
		assert.Equal(t, logSegments[3], segments[3])
		assert.Equal(t, "### Bullet Points", segments[4])
		assert.Equal(t, logSegments[5], segments[5])
		assert.Equal(t, "### Blocks", segments[6])
		assert.Equal(t, logSegments[7:14], segments[7:14])
	})

	t.Run("links", func(t *testing.T) {
		assert.ElementsMatch(t, []string{
			"[fullversion]: http://endless.horse",
			"[id]: http://www.koalastothemax.com",
		}, segments[16:18])
	})
}

// Rendering is a fixed point: reading rendered output and rendering again
// yields identical text.
func TestRenderRoundTrip(t *testing.T) {
	first := fixtureChangelog().Render()

	c := New("")
	c.ReadText(first)
	assert.Equal(t, first, c.Render())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changelog.md")

	c := fixtureChangelog()
	c.Path = path
	require.NoError(t, c.Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Render(), string(data))
}

func TestNew(t *testing.T) {
	c := New("CHANGELOG.md")
	assert.Equal(t, "CHANGELOG.md", c.Path)
	assert.Equal(t, DefaultPreamble, c.Preamble)
	assert.Empty(t, c.Versions)
	assert.Equal(t, DefaultPreamble, c.Render())
}

func TestVersionEntry_Header(t *testing.T) {
	tests := map[string]struct {
		build    func() *VersionEntry
		markdown string
		plain    string
	}{
		"bare name": {
			build: func() *VersionEntry {
				v := NewVersionEntry()
				v.Name = "1.0.0"
				return v
			},
			markdown: "## 1.0.0",
			plain:    "1.0.0",
		},
		"date and tags": {
			build: func() *VersionEntry {
				v := NewVersionEntry()
				v.Name = "1.0.0"
				v.Date = date("1969-07-20")
				v.Tags = []string{"YANKED"}
				return v
			},
			markdown: "## 1.0.0 - 1969-07-20 [YANKED]",
			plain:    "1.0.0 - 1969-07-20 [YANKED]",
		},
		"linked name brackets only in markdown": {
			build: func() *VersionEntry {
				v := NewVersionEntry()
				v.Name = "1.0.0"
				v.Link = "http://endless.horse"
				return v
			},
			markdown: "## [1.0.0]",
			plain:    "1.0.0",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			v := tc.build()
			assert.Equal(t, tc.markdown, v.Header(true))
			assert.Equal(t, tc.plain, v.Header(false))
		})
	}
}

func TestVersionEntry_Body(t *testing.T) {
	v := NewVersionEntry()
	v.AddEntry("- uncategorized", "")
	v.AddEntry("- added thing", "added")

	assert.Equal(t, "- uncategorized\n\n### Added\n\n- added thing", v.Body(true))
	assert.Equal(t, "- uncategorized\n\nADDED\n\n- added thing", v.Body(false))
}

func TestVersionEntry_AddEntry(t *testing.T) {
	v := NewVersionEntry()
	v.AddEntry("- one", "added")
	v.AddEntry("- two", "Added")
	v.AddEntry("- three", "")

	entries, ok := v.Sections.Get("Added")
	require.True(t, ok)
	assert.Equal(t, []string{"- one", "- two"}, entries)

	entries, ok = v.Sections.Get("")
	require.True(t, ok)
	assert.Equal(t, []string{"- three"}, entries)
}

func TestVersionEntry_Tags(t *testing.T) {
	v := NewVersionEntry()
	v.AddTag("yanked")
	assert.Equal(t, []string{"YANKED"}, v.Tags)

	v.AddTag("HOTFIX")
	require.NoError(t, v.RemoveTag("yanked"))
	assert.Equal(t, []string{"HOTFIX"}, v.Tags)

	err := v.RemoveTag("missing")
	var tagErr *TagNotFoundError
	require.ErrorAs(t, err, &tagErr)
	assert.Equal(t, "MISSING", tagErr.Tag)
	assert.Equal(t, []string{"HOTFIX"}, v.Tags)
}

func TestVersionEntry_Released(t *testing.T) {
	tests := map[string]struct {
		version  string
		released bool
	}{
		"release":     {version: "1.0.0", released: true},
		"prerelease":  {version: "1.0.0-rc.1", released: false},
		"unreleased":  {version: "Unreleased", released: false},
		"named":       {version: "My Release 2.0.0", released: true},
		"no number":   {version: "Tests", released: false},
		"with v":      {version: "v3.2.1", released: true},
		"date header": {version: "2020-05-30", released: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			v := NewVersionEntry()
			v.Name = tc.version
			assert.Equal(t, tc.released, v.Released())
		})
	}
}

func TestChangelog_AddVersion(t *testing.T) {
	c := New("")
	v1 := NewVersionEntry()
	v1.Name = "1.0.0"
	c.AddVersion(0, v1)

	v2 := NewVersionEntry()
	c.AddVersion(0, v2)
	assert.Equal(t, []string{"Unreleased", "1.0.0"}, c.ListVersions())

	v3 := NewVersionEntry()
	v3.Name = "0.9.0"
	c.AddVersion(99, v3) // clamped to the end
	assert.Equal(t, []string{"Unreleased", "1.0.0", "0.9.0"}, c.ListVersions())
}

func TestChangelog_CurrentVersion(t *testing.T) {
	c := New("")

	t.Run("empty changelog", func(t *testing.T) {
		_, err := c.CurrentVersion(AnyVersion, false, "")
		var noVersion *NoVersionError
		require.ErrorAs(t, err, &noVersion)
		assert.True(t, noVersion.Empty)
	})

	released := NewVersionEntry()
	released.Name = "1.0.0"
	c.AddVersion(0, released)

	t.Run("filter mismatch", func(t *testing.T) {
		_, err := c.CurrentVersion(UnreleasedOnly, false, "")
		var noVersion *NoVersionError
		require.ErrorAs(t, err, &noVersion)
		assert.False(t, noVersion.Empty)
		assert.Equal(t, UnreleasedOnly, noVersion.Filter)
	})

	t.Run("create if missing inserts at front", func(t *testing.T) {
		v, err := c.CurrentVersion(UnreleasedOnly, true, DefaultVersionName)
		require.NoError(t, err)
		assert.Equal(t, DefaultVersionName, v.Name)
		assert.Same(t, v, c.Versions[0])
	})

	t.Run("released only skips unreleased", func(t *testing.T) {
		v, err := c.CurrentVersion(ReleasedOnly, false, "")
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", v.Name)
	})

	t.Run("any version returns newest", func(t *testing.T) {
		v, err := c.CurrentVersion(AnyVersion, false, "")
		require.NoError(t, err)
		assert.Same(t, c.Versions[0], v)
	})
}

func TestChangelog_GetVersion(t *testing.T) {
	c := New("")
	for _, name := range []string{"Unreleased", "1.1.0", "1.0.0"} {
		v := NewVersionEntry()
		v.Name = name
		c.AddVersion(len(c.Versions), v)
	}

	t.Run("substring match", func(t *testing.T) {
		v, err := c.GetVersion("1.1")
		require.NoError(t, err)
		assert.Equal(t, "1.1.0", v.Name)
	})

	t.Run("empty matches newest", func(t *testing.T) {
		v, err := c.GetVersion("")
		require.NoError(t, err)
		assert.Equal(t, "Unreleased", v.Name)
	})

	t.Run("not found lists versions", func(t *testing.T) {
		_, err := c.GetVersion("2.0")
		var notFound *VersionNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []string{"Unreleased", "1.1.0", "1.0.0"}, notFound.AvailableVersions)
	})
}

func TestTitleCase(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"lower":       {in: "added", want: "Added"},
		"upper":       {in: "ADDED", want: "Added"},
		"two words":   {in: "bullet points", want: "Bullet Points"},
		"empty":       {in: "", want: ""},
		"punctuation": {in: "it's here", want: "It'S Here"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, TitleCase(tc.in))
		})
	}
}
