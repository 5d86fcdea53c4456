// Package changelog parses, mutates, and serializes markdown changelog
// files. A changelog is modeled as a preamble, an ordered list of version
// entries (newest first), and a table of reference-style link definitions.
//
// Parsing is deliberately lenient: a version header that does not match the
// strict header grammar degrades to a literal name rather than failing, and
// serialization is a fixed point over its own output (writing, re-reading,
// and writing again produces identical text).
package changelog
