package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// FormatOptions controls terminal output of version entries.
type FormatOptions struct {
	// Markdown keeps the "## " and "### " heading prefixes in the output.
	Markdown bool
	// Color styles headers and section titles with ANSI colors.
	Color bool
}

var (
	prefixColor  = color.New(color.FgHiBlack)
	headerColor  = color.New(color.FgBlue, color.Bold)
	sectionColor = color.New(color.FgCyan, color.Bold)
)

// IsTerminal reports whether the writer is an interactive terminal, used to
// decide whether colored output is appropriate.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// FormatVersion writes a version's header and body to the writer, styled
// according to opts.
func FormatVersion(v *VersionEntry, w io.Writer, opts FormatOptions) error {
	text := formatHeader(v, opts)
	if body := formatBody(v, opts); body != "" {
		text += "\n\n" + body
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func formatHeader(v *VersionEntry, opts FormatOptions) string {
	prefix := ""
	if opts.Markdown {
		prefix = "## "
	}

	// strip the markdown prefix the model renders and restyle the title
	title := strings.TrimPrefix(v.Header(opts.Markdown), prefix)

	if opts.Color {
		prefix = prefixColor.Sprint(prefix)
		title = headerColor.Sprint(title)
	}
	return prefix + title
}

func formatBody(v *VersionEntry, opts FormatOptions) string {
	var segments []string

	for pair := v.Sections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != "" {
			prefix, title := "", strings.ToUpper(pair.Key)
			if opts.Markdown {
				prefix, title = "### ", TitleCase(pair.Key)
			}
			if opts.Color {
				prefix = prefixColor.Sprint(prefix)
				title = sectionColor.Sprint(title)
			}
			segments = append(segments, prefix+title)
		}
		segments = append(segments, pair.Value...)
	}

	return Join(segments)
}
