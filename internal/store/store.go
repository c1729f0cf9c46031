// Package store persists the generated data set: the repository index,
// per-repository commit indexes, and gzip-compressed per-commit detail
// records. Existence of a detail file is the sole cache-hit signal.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/benbel/evolution-du-droit/internal/domain"
	"github.com/benbel/evolution-du-droit/internal/utils"
)

const (
	repoIndexFile = "repos.json"
	commitsDir    = "commits"
	detailsDir    = "details"
	detailExt     = ".json.gz"
)

// Store writes and reads the persisted data layout under a base directory
type Store struct {
	dataDir string
}

var _ domain.DetailStore = (*Store)(nil)

// New creates a store rooted at dataDir
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// EnsureLayout creates the data directory skeleton
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{
		s.dataDir,
		filepath.Join(s.dataDir, commitsDir),
		filepath.Join(s.dataDir, detailsDir),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// WriteRepoIndex persists the repository index
func (s *Store) WriteRepoIndex(repos []domain.Repository) error {
	if repos == nil {
		repos = []domain.Repository{}
	}
	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(filepath.Join(s.dataDir, repoIndexFile), data)
}

// ReadRepoIndex loads a previously persisted repository index.
// A missing index yields an empty list.
func (s *Store) ReadRepoIndex() ([]domain.Repository, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, repoIndexFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var repos []domain.Repository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("corrupt repo index: %w", err)
	}
	return repos, nil
}

// WriteCommits persists a repository's commit index
func (s *Store) WriteCommits(repo string, commits []domain.Commit) error {
	if commits == nil {
		commits = []domain.Commit{}
	}
	data, err := json.Marshal(commits)
	if err != nil {
		return err
	}
	return atomicWrite(filepath.Join(s.dataDir, commitsDir, repo+".json"), data)
}

// ReadCommits loads a previously persisted commit index
func (s *Store) ReadCommits(repo string) ([]domain.Commit, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, commitsDir, repo+".json"))
	if os.IsNotExist(err) {
		return nil, domain.ErrNoHistory
	}
	if err != nil {
		return nil, err
	}
	var commits []domain.Commit
	if err := json.Unmarshal(data, &commits); err != nil {
		return nil, fmt.Errorf("corrupt commit index for %s: %w", repo, err)
	}
	return commits, nil
}

// DetailPath returns the persisted location of a detail record
func (s *Store) DetailPath(repo, sha string) string {
	return filepath.Join(s.dataDir, detailsDir, repo, sha+detailExt)
}

// HasDetail reports whether a detail record is already persisted
func (s *Store) HasDetail(repo, sha string) bool {
	_, err := os.Stat(s.DetailPath(repo, sha))
	return err == nil
}

// WriteDetail persists one detail record, gzip-compressed, written to a
// temporary file and renamed into place. An already-persisted record is
// left untouched: details are immutable once written.
func (s *Store) WriteDetail(repo string, detail *domain.CommitDetail) error {
	path := s.DetailPath(repo, detail.SHA)
	if s.HasDetail(repo, detail.SHA) {
		return nil
	}

	if err := utils.EnsureDir(path); err != nil {
		return err
	}

	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+detail.SHA+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	gz := gzip.NewWriter(tmp)
	if _, err := gz.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// atomicWrite writes data to a temporary file in the target directory
// and renames it into place, so readers never observe a partial file.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadDetail loads and decompresses a persisted detail record
func (s *Store) ReadDetail(repo, sha string) (*domain.CommitDetail, error) {
	f, err := os.Open(s.DetailPath(repo, sha))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("corrupt detail for %s@%s: %w", repo, sha, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, err
	}

	var detail domain.CommitDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("corrupt detail for %s@%s: %w", repo, sha, err)
	}
	return &detail, nil
}
