// Package diffparse segments a raw unified diff stream into ordered
// per-file change records, normalizing line content on the way.
package diffparse

import (
	"strings"

	"github.com/benbel/evolution-du-droit/internal/domain"
	"github.com/benbel/evolution-du-droit/internal/normalize"
)

const fileHeaderMarker = "diff --git"

// Options controls optional parser output
type Options struct {
	// IncludeUnchanged keeps context lines in the output. Off by
	// default to bound storage; context lines are then discarded
	// entirely, not even counted.
	IncludeUnchanged bool
}

// Parser turns raw unified diff text into file change records.
// It never fails on malformed input: unrecognized lines are ignored
// and a diff without file headers yields an empty record list.
type Parser struct {
	norm *normalize.Normalizer
}

// New creates a parser using the given normalizer
func New(norm *normalize.Normalizer) *Parser {
	return &Parser{norm: norm}
}

// Parse scans the diff line by line, maintaining a current-file
// accumulator that is flushed on each file header and at end of input.
// Records appear in the order their headers appear in the stream.
// Statuses are annotated afterwards from the supplied list, defaulting
// to modified for paths absent from it.
func (p *Parser) Parse(raw string, statuses []domain.FileStatus, opts Options) []domain.FileChangeRecord {
	records := []domain.FileChangeRecord{}

	var current *domain.FileChangeRecord
	flush := func() {
		if current != nil {
			records = append(records, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, fileHeaderMarker):
			flush()
			current = &domain.FileChangeRecord{
				Filename: destinationPath(line),
				Diff:     []domain.DiffLine{},
			}
			current.ArticleLabel = domain.ArticleLabel(current.Filename)

		case current == nil:
			// Preamble before the first header is not content.

		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// File header lines, not content.

		case strings.HasPrefix(line, "@@"), strings.HasPrefix(line, "\\"):
			// Hunk ranges and no-newline markers are structural.

		case strings.HasPrefix(line, "+"):
			p.appendLine(current, domain.LineAdd, line[1:])

		case strings.HasPrefix(line, "-"):
			p.appendLine(current, domain.LineDel, line[1:])

		case opts.IncludeUnchanged && strings.HasPrefix(line, " "):
			p.appendLine(current, domain.LineUnchanged, line[1:])
		}
	}
	flush()

	annotateStatuses(records, statuses)
	return records
}

// appendLine filters, normalizes and accumulates one content line
func (p *Parser) appendLine(rec *domain.FileChangeRecord, lineType, content string) {
	if p.norm.IsMetadata(content) {
		return
	}
	rec.Diff = append(rec.Diff, domain.DiffLine{
		Type:    lineType,
		Content: p.norm.Clean(content),
	})
	switch lineType {
	case domain.LineAdd:
		rec.Additions++
	case domain.LineDel:
		rec.Deletions++
	}
}

// destinationPath extracts the file path from the destination side of a
// "diff --git a/... b/..." header line.
func destinationPath(header string) string {
	if idx := strings.LastIndex(header, " b/"); idx >= 0 {
		return header[idx+len(" b/"):]
	}
	return ""
}

func annotateStatuses(records []domain.FileChangeRecord, statuses []domain.FileStatus) {
	byPath := make(map[string]string, len(statuses))
	for _, s := range statuses {
		byPath[s.Filename] = s.Status
	}
	for i := range records {
		if status, ok := byPath[records[i].Filename]; ok && status != "" {
			records[i].Status = status
		} else {
			records[i].Status = domain.StatusModified
		}
	}
}
