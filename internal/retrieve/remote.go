package retrieve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/benbel/evolution-du-droit/internal/domain"
	"github.com/benbel/evolution-du-droit/internal/utils"
)

// RemoteOptions contains options for creating a RemoteRetriever
type RemoteOptions struct {
	// Owner is the hosting account the repositories are mirrored under
	Owner string
	// Token is an optional API token
	Token string
	// BaseURL overrides the API endpoint (for tests and self-hosted mirrors)
	BaseURL string
	// MaxRetries bounds the retry loop for transient failures
	MaxRetries int
	// RequestDelay is the fixed pause between successive API calls
	RequestDelay time.Duration
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// DefaultRemoteOptions returns default remote options
func DefaultRemoteOptions() RemoteOptions {
	return RemoteOptions{
		MaxRetries:   3,
		RequestDelay: 500 * time.Millisecond,
		Timeout:      30 * time.Second,
	}
}

// RemoteRetriever fetches commit material from the hosting API: one
// call for commit metadata, one for the raw unified diff. Both go
// through the same parser as the local strategy; the API diff carries
// no per-file status listing, so the status list is empty.
type RemoteRetriever struct {
	client  *github.Client
	owner   string
	retrier *Retrier
	delay   time.Duration
	logger  *utils.Logger
}

var _ domain.Retriever = (*RemoteRetriever)(nil)

// NewRemoteRetriever creates a remote retriever
func NewRemoteRetriever(opts RemoteOptions, logger *utils.Logger) (*RemoteRetriever, error) {
	if opts.Owner == "" {
		return nil, fmt.Errorf("remote owner is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = opts.Timeout
	}

	client := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		client.BaseURL = base
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      opts.MaxRetries,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	})

	return &RemoteRetriever{
		client:  client,
		owner:   opts.Owner,
		retrier: retrier,
		delay:   opts.RequestDelay,
		logger:  logger.WithComponent("retrieve.remote"),
	}, nil
}

// Name returns the strategy name
func (r *RemoteRetriever) Name() string { return "remote" }

// Fetch issues the metadata and raw-diff requests for one commit
func (r *RemoteRetriever) Fetch(ctx context.Context, repo domain.Repository, commit domain.Commit) (*domain.FetchResult, error) {
	sha := commit.SHA
	if commit.FullSHA != "" {
		sha = commit.FullSHA
	}

	meta, err := RetryWithValue(ctx, r.retrier, func() (domain.CommitMeta, error) {
		rc, _, err := r.client.Repositories.GetCommit(ctx, r.owner, repo.Name, sha, nil)
		if err != nil {
			return domain.CommitMeta{}, r.wrapAPIError(repo.Name, sha, err)
		}
		return metaFromCommit(rc), nil
	})
	if err != nil {
		return nil, err
	}
	r.pace()

	diff, err := RetryWithValue(ctx, r.retrier, func() (string, error) {
		raw, _, err := r.client.Repositories.GetCommitRaw(ctx, r.owner, repo.Name, sha,
			github.RawOptions{Type: github.Diff})
		if err != nil {
			return "", r.wrapAPIError(repo.Name, sha, err)
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	r.pace()

	return &domain.FetchResult{
		Diff:     diff,
		Statuses: []domain.FileStatus{},
		Meta:     meta,
	}, nil
}

// pace inserts the fixed inter-request delay to respect rate limits
func (r *RemoteRetriever) pace() {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
}

// wrapAPIError classifies hosting API errors: not-found is terminal and
// never retried, listed status codes are retryable, network-level
// failures are treated as transient.
func (r *RemoteRetriever) wrapAPIError(repo, sha string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		code := ghErr.Response.StatusCode
		if code == http.StatusNotFound {
			return fmt.Errorf("%s@%s: %w", repo, sha, domain.ErrCommitNotFound)
		}
		fetchErr := domain.NewFetchError(repo, sha, code, err)
		if domain.ShouldRetryStatus(code) {
			return &domain.RetryableError{Err: fetchErr}
		}
		return fetchErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.RetryableError{Err: domain.NewFetchError(repo, sha, http.StatusTooManyRequests, err)}
	}

	return &domain.RetryableError{Err: domain.NewFetchError(repo, sha, 0, err)}
}

func metaFromCommit(rc *github.RepositoryCommit) domain.CommitMeta {
	meta := domain.CommitMeta{}
	if rc == nil {
		return meta
	}
	if c := rc.GetCommit(); c != nil {
		meta.Message = domain.FirstLine(c.GetMessage())
		if author := c.GetAuthor(); author != nil {
			meta.Date = author.GetDate().Format(domain.DateLayout)
		}
	}
	if stats := rc.GetStats(); stats != nil {
		meta.Additions = stats.GetAdditions()
		meta.Deletions = stats.GetDeletions()
	}
	meta.FileCount = len(rc.Files)
	return meta
}
