package retrieve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/benbel/evolution-du-droit/internal/domain"
	"github.com/benbel/evolution-du-droit/internal/utils"
)

// Runner executes the version-control tool against an on-disk clone.
// Injected so tests can substitute canned output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// GitRunner runs the git binary with a per-invocation timeout
type GitRunner struct {
	Timeout time.Duration
}

// NewGitRunner creates a runner with the given per-call timeout
func NewGitRunner(timeout time.Duration) *GitRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GitRunner{Timeout: timeout}
}

// Run invokes git in dir and returns trimmed stdout. A timeout or a
// missing binary is a hard failure; a non-zero exit is surfaced as an
// *exec.ExitError so callers can decide whether to degrade.
func (r *GitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("git %s: %w", args[0], domain.ErrTimeout)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", domain.ErrGitUnavailable
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

// LocalRetriever fetches commit material from an on-disk clone via the
// git CLI. Hard failures (timeout, missing binary, unexpected exit) are
// returned as errors; a commit that genuinely produces no output yields
// an empty-but-valid result.
type LocalRetriever struct {
	runner Runner
	logger *utils.Logger
}

// NewLocalRetriever creates a local retriever
func NewLocalRetriever(runner Runner, logger *utils.Logger) *LocalRetriever {
	return &LocalRetriever{
		runner: runner,
		logger: logger.WithComponent("retrieve.local"),
	}
}

// Name returns the strategy name
func (r *LocalRetriever) Name() string { return "local" }

var _ domain.Retriever = (*LocalRetriever)(nil)

// Fetch queries message, author date, name-status listing and the
// unified diff of the commit against its first parent.
func (r *LocalRetriever) Fetch(ctx context.Context, repo domain.Repository, commit domain.Commit) (*domain.FetchResult, error) {
	sha := commit.SHA
	if commit.FullSHA != "" {
		sha = commit.FullSHA
	}

	message, err := r.runner.Run(ctx, repo.Path, "log", "-1", "--format=%s", sha)
	if err != nil {
		return nil, domain.NewFetchError(repo.Name, sha, 0, err)
	}

	dateRaw, err := r.runner.Run(ctx, repo.Path, "log", "-1", "--format=%aI", sha)
	if err != nil {
		return nil, domain.NewFetchError(repo.Name, sha, 0, err)
	}

	nameStatus, err := r.runner.Run(ctx, repo.Path, "diff-tree", "--no-commit-id", "-r", "--name-status", sha)
	if err != nil {
		return nil, domain.NewFetchError(repo.Name, sha, 0, err)
	}

	diff, err := r.runner.Run(ctx, repo.Path, "diff", sha+"^.."+sha, "--")
	if err != nil {
		// A commit without a first parent makes the range invalid and
		// git exits non-zero; that is an empty diff, not a failure.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Debug().Str("sha", sha).Msg("No parent diff, treating as empty")
			diff = ""
		} else {
			return nil, domain.NewFetchError(repo.Name, sha, 0, err)
		}
	}

	statuses := ParseNameStatus(nameStatus)

	return &domain.FetchResult{
		Diff:     diff,
		Statuses: statuses,
		Meta: domain.CommitMeta{
			Message:   domain.FirstLine(message),
			Date:      calendarDay(dateRaw),
			FileCount: len(statuses),
		},
	}, nil
}

// ParseNameStatus parses `git diff-tree --name-status` output into a
// status list. Unknown status codes map to modified.
func ParseNameStatus(output string) []domain.FileStatus {
	statuses := []domain.FileStatus{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		statuses = append(statuses, domain.FileStatus{
			Filename: parts[1],
			Status:   statusFromCode(parts[0]),
		})
	}
	return statuses
}

func statusFromCode(code string) string {
	switch {
	case strings.HasPrefix(code, "A"):
		return domain.StatusAdded
	case strings.HasPrefix(code, "D"):
		return domain.StatusDeleted
	default:
		return domain.StatusModified
	}
}

// calendarDay truncates an ISO-8601 timestamp to its date part
func calendarDay(iso string) string {
	if idx := strings.IndexByte(iso, 'T'); idx >= 0 {
		return iso[:idx]
	}
	return iso
}
