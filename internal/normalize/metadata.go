package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultLabelPatterns are the bibliographic field labels embedded by the
// legal-text exporter at the top of each article. They carry no substantive
// legal content and are stripped from diffs. Matched case-insensitively,
// anchored at line start, in order.
var DefaultLabelPatterns = []string{
	`nature\s*:`,
	`[ée]tat\s*:`,
	`type\s*:`,
	`statut\s*:`,
	`date de d[ée]but\s*:`,
	`date de fin\s*:`,
	`identifiant\s*:`,
	`ancien identifiant\s*:`,
	`nor\s*:`,
	`eli\s*:`,
	`cid\s*:`,
	`liens relatifs\s*:`,
	`r[ée]f[ée]rences?\s*:`,
}

// DefaultIdentifierPattern matches a line that is exactly a bare Légifrance
// identifier token: a four-letter prefix family (LEGI, JORF, KALI, CNIL),
// an optional four-letter kind (ARTI, TEXT, SCTA...), then twelve digits.
const DefaultIdentifierPattern = `^(?:LEGI|JORF|KALI|CNIL)(?:[A-Z]{4})?[0-9]{12}$`

// Config holds the pattern set of a MetadataFilter. It is injected at
// construction so tests can supply alternate jurisdictions.
type Config struct {
	LabelPatterns     []string
	IdentifierPattern string
}

// DefaultConfig returns the built-in pattern set
func DefaultConfig() Config {
	return Config{
		LabelPatterns:     DefaultLabelPatterns,
		IdentifierPattern: DefaultIdentifierPattern,
	}
}

// MetadataFilter classifies single diff lines as metadata noise.
// It is pure and stateless: each line is evaluated on its own.
type MetadataFilter struct {
	labels     []*regexp.Regexp
	identifier *regexp.Regexp
}

// NewMetadataFilter compiles a filter from the given config
func NewMetadataFilter(cfg Config) (*MetadataFilter, error) {
	labels := make([]*regexp.Regexp, 0, len(cfg.LabelPatterns))
	for _, pattern := range cfg.LabelPatterns {
		re, err := regexp.Compile(`(?i)^` + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid label pattern %q: %w", pattern, err)
		}
		labels = append(labels, re)
	}

	identifier, err := regexp.Compile(cfg.IdentifierPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid identifier pattern: %w", err)
	}

	return &MetadataFilter{
		labels:     labels,
		identifier: identifier,
	}, nil
}

// IsMetadata reports whether a single line of diff content is metadata
// noise to be dropped. Blank lines are never metadata.
func (f *MetadataFilter) IsMetadata(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	for _, re := range f.labels {
		if re.MatchString(trimmed) {
			return true
		}
	}

	return f.identifier.MatchString(trimmed)
}
