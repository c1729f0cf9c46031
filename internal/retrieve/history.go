package retrieve

import (
	"context"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/benbel/evolution-du-droit/internal/domain"
	"github.com/benbel/evolution-du-droit/internal/utils"
)

// LocalHistory enumerates a repository's commits from its on-disk clone
type LocalHistory struct {
	logger *utils.Logger
}

var _ domain.HistoryReader = (*LocalHistory)(nil)

// NewLocalHistory creates a local history reader
func NewLocalHistory(logger *utils.Logger) *LocalHistory {
	return &LocalHistory{logger: logger.WithComponent("history")}
}

// Commits walks the full log of the clone and returns commits ordered
// by date descending, ties broken by original enumeration order.
// Messages are reduced to their bounded first line.
func (h *LocalHistory) Commits(ctx context.Context, repo domain.Repository) ([]domain.Commit, error) {
	r, err := git.PlainOpen(repo.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", repo.Path, err)
	}

	iter, err := r.Log(&git.LogOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", repo.Name, err)
	}
	defer iter.Close()

	var commits []domain.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		full := c.Hash.String()
		commits = append(commits, domain.Commit{
			SHA:     domain.ShortSHA(full),
			FullSHA: full,
			Date:    c.Author.When.Format(domain.DateLayout),
			Message: domain.FirstLine(c.Message),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", repo.Name, err)
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Date > commits[j].Date
	})

	h.logger.Debug().Str("repo", repo.Name).Int("commits", len(commits)).Msg("Enumerated history")
	return commits, nil
}
