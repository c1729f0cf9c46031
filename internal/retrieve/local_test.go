package retrieve

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbel/evolution-du-droit/internal/domain"
	"github.com/benbel/evolution-du-droit/internal/utils"
)

// fakeRunner serves canned output keyed on the git subcommand, with the
// two log queries told apart by their format flag
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func runKey(args []string) string {
	if args[0] == "log" {
		return args[2]
	}
	return args[0]
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	key := runKey(args)
	f.calls = append(f.calls, strings.Join(args, " "))
	if err, ok := f.errs[key]; ok && err != nil {
		return "", err
	}
	return f.outputs[key], nil
}

func testRepo() domain.Repository {
	return domain.Repository{Name: "code_civil", Path: "/tmp/codes/code_civil"}
}

func testCommit() domain.Commit {
	return domain.Commit{
		SHA:     "a1b2c3d4e5f6",
		FullSHA: "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2",
	}
}

// TestLocalRetriever_Fetch tests assembly of a full fetch result from
// the four git queries
func TestLocalRetriever_Fetch(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"--format=%s":  "Mise à jour de l'article 1101\n\ncorps du message ignoré",
		"--format=%aI": "2024-03-15T14:30:00+01:00",
		"diff-tree":    "M\tcode_civil/article_1101.md\nA\tcode_civil/article_1102.md",
		"diff":         "diff --git a/code_civil/article_1101.md b/code_civil/article_1101.md\n+nouveau texte",
	}}
	retriever := NewLocalRetriever(runner, utils.NewDefaultLogger())

	result, err := retriever.Fetch(context.Background(), testRepo(), testCommit())
	require.NoError(t, err)

	assert.Equal(t, "Mise à jour de l'article 1101", result.Meta.Message)
	assert.Equal(t, "2024-03-15", result.Meta.Date)
	assert.Equal(t, 2, result.Meta.FileCount)
	require.Len(t, result.Statuses, 2)
	assert.Equal(t, domain.StatusModified, result.Statuses[0].Status)
	assert.Equal(t, domain.StatusAdded, result.Statuses[1].Status)
	assert.Contains(t, result.Diff, "diff --git")

	// Full SHA is preferred for git addressing when available.
	require.Len(t, runner.calls, 4)
	for _, call := range runner.calls {
		assert.Contains(t, call, testCommit().FullSHA)
	}
}

// TestLocalRetriever_Fetch_RootCommit tests that a failed parent-range
// diff degrades to an empty diff instead of failing the commit
func TestLocalRetriever_Fetch_RootCommit(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string]string{
			"--format=%s": "Import initial",
			"diff-tree":   "A\tcode_civil/article_1101.md",
		},
		errs: map[string]error{"diff": &exec.ExitError{}},
	}
	retriever := NewLocalRetriever(runner, utils.NewDefaultLogger())

	result, err := retriever.Fetch(context.Background(), testRepo(), testCommit())
	require.NoError(t, err)
	assert.Empty(t, result.Diff)
	assert.Equal(t, "Import initial", result.Meta.Message)
	require.Len(t, result.Statuses, 1)
	assert.Equal(t, domain.StatusAdded, result.Statuses[0].Status)
}

// TestLocalRetriever_Fetch_HardFailures tests that timeouts and a
// missing binary are surfaced, not degraded
func TestLocalRetriever_Fetch_HardFailures(t *testing.T) {
	tests := []struct {
		name     string
		errs     map[string]error
		sentinel error
	}{
		{
			name:     "timeout on log",
			errs:     map[string]error{"--format=%s": domain.ErrTimeout},
			sentinel: domain.ErrTimeout,
		},
		{
			name:     "git binary missing",
			errs:     map[string]error{"--format=%s": domain.ErrGitUnavailable},
			sentinel: domain.ErrGitUnavailable,
		},
		{
			name:     "diff fails for another reason",
			errs:     map[string]error{"diff": domain.ErrTimeout},
			sentinel: domain.ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{
				outputs: map[string]string{"--format=%s": "message"},
				errs:    tt.errs,
			}
			retriever := NewLocalRetriever(runner, utils.NewDefaultLogger())

			_, err := retriever.Fetch(context.Background(), testRepo(), testCommit())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var fetchErr *domain.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, "code_civil", fetchErr.Repo)
		})
	}
}

// TestParseNameStatus tests name-status parsing
func TestParseNameStatus(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []domain.FileStatus
	}{
		{
			name:   "empty output",
			output: "",
			want:   []domain.FileStatus{},
		},
		{
			name:   "standard codes",
			output: "A\tun.md\nD\tdeux.md\nM\ttrois.md",
			want: []domain.FileStatus{
				{Filename: "un.md", Status: domain.StatusAdded},
				{Filename: "deux.md", Status: domain.StatusDeleted},
				{Filename: "trois.md", Status: domain.StatusModified},
			},
		},
		{
			name:   "rename and unknown codes map to modified",
			output: "R100\tquatre.md\nT\tcinq.md",
			want: []domain.FileStatus{
				{Filename: "quatre.md", Status: domain.StatusModified},
				{Filename: "cinq.md", Status: domain.StatusModified},
			},
		},
		{
			name:   "blank and malformed lines skipped",
			output: "\nM\tsix.md\nsans-tabulation\n",
			want: []domain.FileStatus{
				{Filename: "six.md", Status: domain.StatusModified},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNameStatus(tt.output))
		})
	}
}

// TestCalendarDay tests ISO timestamp truncation
func TestCalendarDay(t *testing.T) {
	assert.Equal(t, "2024-03-15", calendarDay("2024-03-15T14:30:00+01:00"))
	assert.Equal(t, "2024-03-15", calendarDay("2024-03-15"))
	assert.Equal(t, "", calendarDay(""))
}
