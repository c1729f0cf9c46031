package domain

import "context"

// Retriever fetches the raw diff, per-file statuses and commit metadata
// for one commit. Local and remote strategies share this contract and
// feed the same parser.
type Retriever interface {
	// Name returns the strategy name
	Name() string
	// Fetch retrieves the raw material for one commit
	Fetch(ctx context.Context, repo Repository, commit Commit) (*FetchResult, error)
}

// HistoryReader enumerates the ordered commit list of a repository
type HistoryReader interface {
	// Commits returns commits ordered by date descending,
	// ties broken by enumeration order
	Commits(ctx context.Context, repo Repository) ([]Commit, error)
}

// DetailStore persists computed commit detail records.
// Existence of a record is the sole cache-hit signal.
type DetailStore interface {
	// HasDetail reports whether a detail record is already persisted
	HasDetail(repo, sha string) bool
	// WriteDetail persists a detail record atomically; it never
	// overwrites an existing record
	WriteDetail(repo string, detail *CommitDetail) error
	// ReadDetail loads a persisted detail record
	ReadDetail(repo, sha string) (*CommitDetail, error)
}
