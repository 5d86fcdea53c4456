package changelog

import (
	"fmt"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// blockState tracks the kind of block the tokenizer currently has open.
// Exactly one block is open at a time; blank lines, link definitions, and
// headings all close it.
type blockState int

const (
	stateNone blockState = iota
	stateParagraph
	stateListItem
	stateCode
)

var (
	codeFenceRegex = regexp.MustCompile("^```")
	headingRegex   = regexp.MustCompile(`^(#{1,6})\s+([^#]+?)(?:\s+#+)?\s*$`)
	listItemRegex  = regexp.MustCompile(`^(?:[-+*] |\d+\. )`)
	numberedRegex  = regexp.MustCompile(`^\d+\. `)
	bulletRegex    = regexp.MustCompile(`^[-+*] `)
	linkDefRegex   = regexp.MustCompile(`^\[(\S*)]:\s*(.*)`)
	refLinkRegex   = regexp.MustCompile(`^\[(.*?)]\[(.*?)]$`)
	litLinkRegex   = regexp.MustCompile(`^\[(.*?)]\((.*?)\)$`)
	setextH1Regex  = regexp.MustCompile(`^=+[ \t]*$`)
	setextH2Regex  = regexp.MustCompile(`^-+[ \t]*$`)
)

// Token is a single tokenized block of markdown, one or more lines of text.
type Token struct {
	// LineNo is the zero-based line the block starts on in the input.
	LineNo int
	// Lines holds the raw lines making up the block, without newlines.
	Lines []string
	// Kind is one of "h1".."h6", "p", "li", or "code".
	Kind string
}

func (t Token) String() string {
	return fmt.Sprintf("%s: %v", t.Kind, t.Lines)
}

// Text returns the token's lines joined back into a block of text.
func (t Token) Text() string {
	return strings.Join(t.Lines, "\n")
}

// Tokenize splits markdown text into a flat sequence of block tokens plus a
// table of reference link definitions. Only top-level structure is
// recognized: headings, top-level list items, code fences, link definitions,
// and paragraphs. Indented sub-bullets and other continuation lines are kept
// as part of their parent block. Tokenize is a pure function of its input.
func Tokenize(text string) ([]Token, *orderedmap.OrderedMap[string, string]) {
	lines := strings.Split(text, "\n")
	convertSetextHeadings(lines)

	var tokens []Token
	links := orderedmap.New[string, string]()
	state := stateNone

	for lineNo, line := range lines {
		switch {
		case state == stateCode:
			// inside a fence every line is verbatim content, including the
			// closing fence line itself
			last := &tokens[len(tokens)-1]
			last.Lines = append(last.Lines, line)
			if codeFenceRegex.MatchString(line) {
				state = stateNone
			}

		case codeFenceRegex.MatchString(line):
			tokens = append(tokens, Token{LineNo: lineNo, Lines: []string{line}, Kind: "code"})
			state = stateCode

		case listItemRegex.MatchString(line):
			tokens = append(tokens, Token{LineNo: lineNo, Lines: []string{line}, Kind: "li"})
			state = stateListItem

		case headingRegex.MatchString(line):
			m := headingRegex.FindStringSubmatch(line)
			kind := fmt.Sprintf("h%d", len(m[1]))
			tokens = append(tokens, Token{LineNo: lineNo, Lines: []string{line}, Kind: kind})
			state = stateNone

		case linkDefRegex.MatchString(line):
			m := linkDefRegex.FindStringSubmatch(line)
			links.Set(strings.ToLower(m[1]), m[2])
			state = stateNone

		case strings.TrimSpace(line) == "":
			state = stateNone

		case state == stateParagraph || state == stateListItem:
			last := &tokens[len(tokens)-1]
			last.Lines = append(last.Lines, line)

		default:
			tokens = append(tokens, Token{LineNo: lineNo, Lines: []string{line}, Kind: "p"})
			state = stateParagraph
		}
	}

	return tokens, links
}

// convertSetextHeadings rewrites setext-style headings (a text line
// underlined with "=" or "-") into ATX form in place. The underline is
// replaced with a blank line so token line numbers stay aligned with the
// original input.
func convertSetextHeadings(lines []string) {
	for i := 2; i+1 < len(lines); i++ {
		if lines[i-1] == "" {
			continue
		}
		switch {
		case setextH1Regex.MatchString(lines[i]):
			lines[i-1] = "# " + lines[i-1]
			lines[i] = ""
		case setextH2Regex.MatchString(lines[i]):
			lines[i-1] = "## " + lines[i-1]
			lines[i] = ""
		}
	}
}

// StripLink parses and removes a markdown link from the input string.
// Inline links ("[name](url)") yield the url, reference links ("[name][id]")
// yield the lowercased id. Anything else is returned verbatim as the name.
func StripLink(text string) (name, link, linkID string) {
	if m := litLinkRegex.FindStringSubmatch(text); m != nil {
		return m[1], m[2], ""
	}
	if m := refLinkRegex.FindStringSubmatch(text); m != nil {
		return m[1], "", strings.ToLower(m[2])
	}
	return text, "", ""
}

// Join combines markdown segments into one document, inserting a blank line
// between segments except between two list items of the same marker family
// (both bulleted or both numbered), which keeps lists compact.
func Join(segments []string) string {
	var parts []string
	last := ""
	for _, segment := range segments {
		sameBullets := bulletRegex.MatchString(segment) && bulletRegex.MatchString(last)
		sameNumbers := numberedRegex.MatchString(segment) && numberedRegex.MatchString(last)
		if !sameBullets && !sameNumbers {
			parts = append(parts, "")
		}
		parts = append(parts, segment)
		last = segment
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
