// Package app drives the generation run: repository iteration, strategy
// selection, incremental caching and failure isolation.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/schollz/progressbar/v3"

	"github.com/benbel/evolution-du-droit/internal/config"
	"github.com/benbel/evolution-du-droit/internal/diffparse"
	"github.com/benbel/evolution-du-droit/internal/domain"
	"github.com/benbel/evolution-du-droit/internal/normalize"
	"github.com/benbel/evolution-du-droit/internal/repos"
	"github.com/benbel/evolution-du-droit/internal/retrieve"
	"github.com/benbel/evolution-du-droit/internal/store"
	"github.com/benbel/evolution-du-droit/internal/utils"
)

// Orchestrator coordinates the full generation run. Repositories and
// commits are processed strictly sequentially; a per-commit failure is
// logged and counted, never fatal.
type Orchestrator struct {
	cfg      *config.Config
	logger   *utils.Logger
	store    *store.Store
	scanner  *repos.Scanner
	parser   *diffparse.Parser
	local    domain.Retriever
	remote   domain.Retriever
	history  domain.HistoryReader
	progress bool
}

// Options contains options for creating an Orchestrator. Retriever and
// history overrides are for tests; unset fields get real implementations.
type Options struct {
	Config   *config.Config
	Logger   *utils.Logger
	Local    domain.Retriever
	Remote   domain.Retriever
	History  domain.HistoryReader
	Progress bool
}

// New creates an orchestrator from configuration
func New(opts Options) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	}

	norm, err := normalize.New(cfg.Normalize.FilterConfig())
	if err != nil {
		return nil, fmt.Errorf("invalid normalizer config: %w", err)
	}

	dataDir := utils.ExpandPath(cfg.Data.Directory)
	codesDir := utils.ExpandPath(cfg.Codes.Directory)

	o := &Orchestrator{
		cfg:      cfg,
		logger:   logger.WithComponent("app"),
		store:    store.New(dataDir),
		scanner:  repos.NewScanner(codesDir, logger),
		parser:   diffparse.New(norm),
		local:    opts.Local,
		remote:   opts.Remote,
		history:  opts.History,
		progress: opts.Progress,
	}

	if o.local == nil {
		runner := retrieve.NewGitRunner(cfg.Local.GitTimeout)
		o.local = retrieve.NewLocalRetriever(runner, logger)
	}
	if o.remote == nil && cfg.Remote.Enabled() {
		remote, err := retrieve.NewRemoteRetriever(retrieve.RemoteOptions{
			Owner:        cfg.Remote.Owner,
			Token:        cfg.Remote.Token,
			BaseURL:      cfg.Remote.BaseURL,
			MaxRetries:   cfg.Remote.MaxRetries,
			RequestDelay: cfg.Remote.RequestDelay,
			Timeout:      cfg.Remote.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		o.remote = remote
	}
	if o.history == nil {
		o.history = retrieve.NewLocalHistory(logger)
	}

	return o, nil
}

// Run executes the full generation pass and returns aggregate stats
func (o *Orchestrator) Run(ctx context.Context) (RunStats, error) {
	stats := RunStats{}

	if err := o.store.EnsureLayout(); err != nil {
		return stats, fmt.Errorf("prepare data directory: %w", err)
	}

	repoList, err := o.discoverRepositories()
	if err != nil {
		return stats, err
	}

	o.logger.Info().Int("repositories", len(repoList)).Msg("Starting generation run")

	if err := o.store.WriteRepoIndex(repoList); err != nil {
		return stats, fmt.Errorf("write repository index: %w", err)
	}

	for _, repo := range repoList {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		repoStats := o.processRepository(ctx, repo)
		stats.Merge(repoStats)
	}

	o.logger.Info().
		Int("repositories", stats.Repositories).
		Int("commits_seen", stats.CommitsSeen).
		Int("generated", stats.Generated).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("Generation run completed")

	return stats, nil
}

// discoverRepositories merges locally discovered clones with repositories
// known only from a previous run's index. Local entries win; remote-only
// entries keep an empty path so strategy selection falls through to the
// hosting API.
func (o *Orchestrator) discoverRepositories() ([]domain.Repository, error) {
	local, err := o.scanner.Discover()
	if err != nil {
		return nil, fmt.Errorf("scan codes directory: %w", err)
	}

	known := make(map[string]bool, len(local))
	for _, r := range local {
		known[r.Name] = true
	}

	indexed, err := o.store.ReadRepoIndex()
	if err != nil {
		o.logger.Warn().Err(err).Msg("Ignoring unreadable repository index")
		indexed = nil
	}

	merged := append([]domain.Repository{}, local...)
	for _, r := range indexed {
		if !known[r.Name] {
			merged = append(merged, domain.Repository{
				Name:        r.Name,
				DisplayName: r.DisplayName,
			})
		}
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged, nil
}

// processRepository runs the pipeline over one repository. Strategy is
// selected once: local when a clone is present, otherwise remote; the
// two are never mixed within a run.
func (o *Orchestrator) processRepository(ctx context.Context, repo domain.Repository) RunStats {
	stats := RunStats{}
	log := o.logger.WithRepo(repo.Name)

	retriever := o.selectRetriever(repo)
	if retriever == nil {
		log.Warn().Msg("No local clone and no remote configured, skipping repository")
		return stats
	}

	commits, err := o.commitList(ctx, repo)
	if err != nil {
		log.Warn().Err(err).Msg("No commit history available, skipping repository")
		return stats
	}

	stats.Repositories = 1

	limit := o.cfg.Generate.RecentLimit
	if limit > 0 && limit < len(commits) {
		commits = commits[:limit]
	}

	log.Info().
		Str("strategy", retriever.Name()).
		Int("commits", len(commits)).
		Msg("Processing repository")

	var bar *progressbar.ProgressBar
	if o.progress {
		bar = utils.NewProgressBar(len(commits), utils.DescGenerating)
	}
	advance := func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	for _, commit := range commits {
		if ctx.Err() != nil {
			return stats
		}
		stats.CommitsSeen++

		if o.store.HasDetail(repo.Name, commit.SHA) {
			stats.Skipped++
			advance()
			continue
		}

		if err := o.generateDetail(ctx, retriever, repo, commit); err != nil {
			if errors.Is(err, domain.ErrCommitNotFound) {
				log.WithCommit(commit.SHA).Debug().Msg("Commit not mirrored upstream")
			} else {
				log.WithCommit(commit.SHA).Error().Err(err).Msg("Failed to generate detail")
			}
			stats.Failed++
		} else {
			stats.Generated++
		}
		advance()
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return stats
}

// selectRetriever picks the strategy for a repository, decided once
func (o *Orchestrator) selectRetriever(repo domain.Repository) domain.Retriever {
	if repo.Path != "" {
		return o.local
	}
	return o.remote
}

// commitList obtains the ordered commit list: from the clone when one
// is available (refreshing the persisted index), otherwise from the
// previously persisted index.
func (o *Orchestrator) commitList(ctx context.Context, repo domain.Repository) ([]domain.Commit, error) {
	if repo.Path != "" {
		commits, err := o.history.Commits(ctx, repo)
		if err != nil {
			return nil, err
		}
		if err := o.store.WriteCommits(repo.Name, commits); err != nil {
			return nil, fmt.Errorf("write commit index: %w", err)
		}
		return commits, nil
	}
	return o.store.ReadCommits(repo.Name)
}

// generateDetail does the expensive work for one uncached commit:
// fetch, parse, assemble, persist.
func (o *Orchestrator) generateDetail(ctx context.Context, retriever domain.Retriever, repo domain.Repository, commit domain.Commit) error {
	result, err := retriever.Fetch(ctx, repo, commit)
	if err != nil {
		return err
	}

	files := o.parser.Parse(result.Diff, result.Statuses, diffparse.Options{
		IncludeUnchanged: o.cfg.Generate.IncludeUnchanged,
	})

	// Source metadata wins over the index entry when present.
	if result.Meta.Message != "" {
		commit.Message = result.Meta.Message
	}
	if result.Meta.Date != "" {
		commit.Date = result.Meta.Date
	}

	detail := domain.NewCommitDetail(commit, files)

	if err := o.store.WriteDetail(repo.Name, detail); err != nil {
		return fmt.Errorf("persist detail: %w", err)
	}
	return nil
}
