package normalize

import (
	"html"
	"regexp"
	"strings"
)

var (
	lineBreakRegex = regexp.MustCompile(`(?i)<br\s*/?>`)
	paraEndRegex   = regexp.MustCompile(`(?i)</p>`)
	paraStartRegex = regexp.MustCompile(`(?i)<p(?:\s[^>]*)?>`)
	linkRegex      = regexp.MustCompile(`(?is)<a\s[^>]*>(.*?)</a>`)
	tagRegex       = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	newlinesRegex  = regexp.MustCompile(`\n{3,}`)
)

// MarkupToText converts embedded article markup to plain text.
//
// Link text extraction runs before the generic tag strip, otherwise the
// label would be discarded along with its anchor tags. The function is
// idempotent on text that contains no markup delimiters.
func MarkupToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	s = lineBreakRegex.ReplaceAllString(s, "\n")
	s = paraEndRegex.ReplaceAllString(s, "\n\n")
	s = paraStartRegex.ReplaceAllString(s, "")
	s = linkRegex.ReplaceAllString(s, "$1")
	s = tagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = newlinesRegex.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Normalizer bundles the metadata filter and the markup converter for
// consumption by the diff parser.
type Normalizer struct {
	filter *MetadataFilter
}

// New creates a Normalizer from the given config
func New(cfg Config) (*Normalizer, error) {
	filter, err := NewMetadataFilter(cfg)
	if err != nil {
		return nil, err
	}
	return &Normalizer{filter: filter}, nil
}

// IsMetadata reports whether a line is metadata noise
func (n *Normalizer) IsMetadata(line string) bool {
	return n.filter.IsMetadata(line)
}

// Clean converts a line's markup to plain text
func (n *Normalizer) Clean(line string) string {
	return MarkupToText(line)
}
