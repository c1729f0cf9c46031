// Package repos discovers legal code repositories in the codes directory.
package repos

import (
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"

	"github.com/benbel/evolution-du-droit/internal/domain"
	"github.com/benbel/evolution-du-droit/internal/utils"
)

// Scanner lists on-disk clones under a codes directory
type Scanner struct {
	dir    string
	logger *utils.Logger
}

// NewScanner creates a scanner over the given directory
func NewScanner(dir string, logger *utils.Logger) *Scanner {
	return &Scanner{
		dir:    dir,
		logger: logger.WithComponent("repos"),
	}
}

// Discover returns the repositories found in the codes directory, in
// name order. A subdirectory counts only if it opens as a git
// repository; anything else is skipped with a debug log.
func (s *Scanner) Discover() ([]domain.Repository, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	repos := []domain.Repository{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if _, err := git.PlainOpen(path); err != nil {
			s.logger.Debug().Str("dir", entry.Name()).Msg("Not a git repository, skipping")
			continue
		}
		repos = append(repos, domain.Repository{
			Name:        entry.Name(),
			DisplayName: domain.FormatDisplayName(entry.Name()),
			Path:        path,
		})
	}

	return repos, nil
}
