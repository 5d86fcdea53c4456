package changelog

import (
	"regexp"
	"strings"
	"time"
)

// headerGrammarRegex matches a version heading of the form
//
//	## <name-or-link> [- ] [YYYY-MM-DD] [TAG]...
//
// The name is non-greedy so the optional dash, date, and tag groups claim
// their text first; when they cannot all match, the name absorbs the whole
// heading and the entry falls back to a literal name.
var headerGrammarRegex = regexp.MustCompile(
	`^##\s+(.*?)(?:\s+-)?(?:\s+(\d{4}-\d{2}-\d{2}))?((?:\s+\[[^\]]*?\])*)\s*$`)

var tagTokenRegex = regexp.MustCompile(`\[([^\]]*?)\]`)

// ParseVersionHeader parses a "## " heading line into a version entry,
// populating the name, link, link id, date, and tags. The grammar is strict:
// if the date token is not a real calendar date, or trailing text mixes tag
// and non-tag tokens, the whole heading is kept verbatim as a literal name
// with no date, tags, or link.
func ParseVersionHeader(header string, lineNo int) *VersionEntry {
	m := headerGrammarRegex.FindStringSubmatch(header)
	if m == nil {
		return literalVersionEntry(header, lineNo)
	}

	v := NewVersionEntry()
	v.LineNo = lineNo
	v.Name, v.Link, v.LinkID = StripLink(m[1])

	if m[2] != "" {
		date, err := time.Parse("2006-01-02", m[2])
		if err != nil {
			// date-shaped but not a real calendar date
			return literalVersionEntry(header, lineNo)
		}
		v.Date = &date
	}

	if m[3] != "" {
		for _, tag := range tagTokenRegex.FindAllStringSubmatch(m[3], -1) {
			v.Tags = append(v.Tags, strings.ToUpper(tag[1]))
		}
	}

	return v
}

// literalVersionEntry builds the fallback entry for a heading that failed
// strict grammar matching: the trimmed heading text becomes the name.
func literalVersionEntry(header string, lineNo int) *VersionEntry {
	v := NewVersionEntry()
	v.Name = strings.TrimSpace(strings.TrimLeft(header, "#"))
	v.LineNo = lineNo
	return v
}
