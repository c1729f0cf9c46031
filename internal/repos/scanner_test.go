package repos

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbel/evolution-du-droit/internal/utils"
)

func initRepoDir(t *testing.T, base, name string) string {
	t.Helper()
	dir := filepath.Join(base, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

// TestScanner_Discover tests repository discovery with non-clone entries skipped
func TestScanner_Discover(t *testing.T) {
	base := t.TempDir()
	initRepoDir(t, base, "code_civil")
	initRepoDir(t, base, "code_penal")

	// Neither a plain directory nor a stray file is a repository.
	require.NoError(t, os.MkdirAll(filepath.Join(base, "notes"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "README.md"), []byte("liste des codes"), 0644))

	scanner := NewScanner(base, utils.NewDefaultLogger())
	repos, err := scanner.Discover()
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, "code_civil", repos[0].Name)
	assert.Equal(t, "Code civil", repos[0].DisplayName)
	assert.Equal(t, filepath.Join(base, "code_civil"), repos[0].Path)
	assert.Equal(t, "code_penal", repos[1].Name)
	assert.Equal(t, "Code penal", repos[1].DisplayName)
}

// TestScanner_Discover_MissingDir tests that an absent codes directory
// yields an empty result, not an error
func TestScanner_Discover_MissingDir(t *testing.T) {
	scanner := NewScanner(filepath.Join(t.TempDir(), "absent"), utils.NewDefaultLogger())
	repos, err := scanner.Discover()
	require.NoError(t, err)
	assert.Empty(t, repos)
}

// TestScanner_Discover_EmptyDir tests scanning a directory with no entries
func TestScanner_Discover_EmptyDir(t *testing.T) {
	scanner := NewScanner(t.TempDir(), utils.NewDefaultLogger())
	repos, err := scanner.Discover()
	require.NoError(t, err)
	assert.NotNil(t, repos)
	assert.Empty(t, repos)
}
