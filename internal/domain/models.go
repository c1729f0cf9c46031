package domain

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Change status values for a file touched by a commit
const (
	StatusAdded    = "added"
	StatusDeleted  = "deleted"
	StatusModified = "modified"
)

// Diff line types
const (
	LineAdd       = "add"
	LineDel       = "del"
	LineUnchanged = "unchanged"
)

// ShortSHALength is the number of hex characters kept for commit identifiers
const ShortSHALength = 12

// MessageLimit bounds the stored first-line commit message
const MessageLimit = 300

// DateLayout is the calendar-day precision used for all dates
const DateLayout = "2006-01-02"

// Repository represents a tracked legal code repository
type Repository struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`

	// Path is the local clone directory, empty for remote-only repositories
	Path string `json:"-"`
}

// Commit represents one entry of a repository's commit index
type Commit struct {
	SHA       string `json:"sha"`
	FullSHA   string `json:"fullSha,omitempty"`
	Date      string `json:"date"`
	Message   string `json:"message"`
	FileCount int    `json:"fileCount,omitempty"`
}

// FileStatus maps a changed path to its change status
type FileStatus struct {
	Filename string
	Status   string
}

// DiffLine is a single normalized line of a file's diff
type DiffLine struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// FileChangeRecord describes everything that changed in one file (one article)
type FileChangeRecord struct {
	Filename     string     `json:"filename"`
	ArticleLabel string     `json:"articleLabel"`
	Status       string     `json:"status"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	Diff         []DiffLine `json:"diff"`
}

// DetailStats aggregates counters over a commit's file records
type DetailStats struct {
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	FilesChanged int `json:"filesChanged"`
}

// CommitDetail is the persisted, normalized record of one commit.
// It is the unit of caching: written once, never overwritten.
type CommitDetail struct {
	SHA     string             `json:"sha"`
	FullSHA string             `json:"fullSha,omitempty"`
	Date    string             `json:"date"`
	Message string             `json:"message"`
	Files   []FileChangeRecord `json:"files"`
	Stats   DetailStats        `json:"stats"`
}

// CommitMeta is commit metadata reported by a retrieval source
type CommitMeta struct {
	Message   string
	Date      string
	Additions int
	Deletions int
	FileCount int
}

// FetchResult is the shared output contract of both retrieval strategies
type FetchResult struct {
	Diff     string
	Statuses []FileStatus
	Meta     CommitMeta
}

// NewCommitDetail assembles a detail record, computing aggregate stats
// from the file records. Parsed sums are authoritative over any counts
// reported by a retrieval source.
func NewCommitDetail(commit Commit, files []FileChangeRecord) *CommitDetail {
	detail := &CommitDetail{
		SHA:     commit.SHA,
		FullSHA: commit.FullSHA,
		Date:    commit.Date,
		Message: commit.Message,
		Files:   files,
	}
	if detail.Files == nil {
		detail.Files = []FileChangeRecord{}
	}
	for _, f := range detail.Files {
		detail.Stats.Additions += f.Additions
		detail.Stats.Deletions += f.Deletions
	}
	detail.Stats.FilesChanged = len(detail.Files)
	return detail
}

// ShortSHA truncates a full commit identifier to the short form
func ShortSHA(sha string) string {
	if len(sha) > ShortSHALength {
		return sha[:ShortSHALength]
	}
	return sha
}

// FirstLine returns the first line of a commit message, bounded at MessageLimit
func FirstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		message = message[:idx]
	}
	message = strings.TrimSpace(message)
	if len(message) > MessageLimit {
		cut := MessageLimit
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}
		message = message[:cut]
	}
	return message
}

// ArticleLabel derives a human-readable article label from a file path:
// base name with the extension stripped and underscores turned into spaces.
func ArticleLabel(filename string) string {
	if filename == "" {
		return ""
	}
	base := path.Base(filename)
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}

// FormatDisplayName formats a repository name for display
func FormatDisplayName(name string) string {
	display := strings.ReplaceAll(name, "_", " ")
	if display == "" {
		return display
	}
	r, size := utf8.DecodeRuneInString(display)
	return string(unicode.ToUpper(r)) + display[size:]
}
