package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewCommitDetail tests stat aggregation over the file records
func TestNewCommitDetail(t *testing.T) {
	commit := Commit{
		SHA:     "a1b2c3d4e5f6",
		FullSHA: "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2",
		Date:    "2024-03-15",
		Message: "Mise à jour",
	}
	files := []FileChangeRecord{
		{Filename: "un.md", Additions: 3, Deletions: 1},
		{Filename: "deux.md", Additions: 0, Deletions: 4},
	}

	detail := NewCommitDetail(commit, files)

	assert.Equal(t, "a1b2c3d4e5f6", detail.SHA)
	assert.Equal(t, commit.FullSHA, detail.FullSHA)
	assert.Equal(t, "2024-03-15", detail.Date)
	assert.Equal(t, "Mise à jour", detail.Message)
	assert.Equal(t, 3, detail.Stats.Additions)
	assert.Equal(t, 5, detail.Stats.Deletions)
	assert.Equal(t, 2, detail.Stats.FilesChanged)
}

// TestNewCommitDetail_NilFiles tests that an empty commit still has a
// non-nil file list
func TestNewCommitDetail_NilFiles(t *testing.T) {
	detail := NewCommitDetail(Commit{SHA: "a1b2c3d4e5f6"}, nil)

	require.NotNil(t, detail.Files)
	assert.Empty(t, detail.Files)
	assert.Equal(t, DetailStats{}, detail.Stats)
}

// TestShortSHA tests commit identifier truncation
func TestShortSHA(t *testing.T) {
	assert.Equal(t, "a1b2c3d4e5f6", ShortSHA("a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"))
	assert.Equal(t, "abc", ShortSHA("abc"))
	assert.Equal(t, "", ShortSHA(""))
	assert.Len(t, ShortSHA(strings.Repeat("f", 40)), ShortSHALength)
}

// TestFirstLine tests message reduction
func TestFirstLine(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "single line unchanged",
			message: "Mise à jour de l'article 1101",
			want:    "Mise à jour de l'article 1101",
		},
		{
			name:    "body dropped",
			message: "Sujet\n\nCorps du message\nsur deux lignes",
			want:    "Sujet",
		},
		{
			name:    "surrounding whitespace trimmed",
			message: "  Sujet  \nCorps",
			want:    "Sujet",
		},
		{
			name:    "empty message",
			message: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstLine(tt.message))
		})
	}
}

// TestFirstLine_Bounded tests truncation at the message limit without
// splitting a multi-byte character
func TestFirstLine_Bounded(t *testing.T) {
	long := strings.Repeat("a", MessageLimit+100)
	assert.Len(t, FirstLine(long), MessageLimit)

	// An accented rune straddling the limit must not be cut in half.
	accented := strings.Repeat("a", MessageLimit-1) + "é suite"
	got := FirstLine(accented)
	assert.True(t, len(got) <= MessageLimit)
	assert.Equal(t, strings.Repeat("a", MessageLimit-1), got)
}

// TestArticleLabel tests label derivation from file paths
func TestArticleLabel(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"code_civil/article_1101.md", "article 1101"},
		{"article_liminaire.md", "article liminaire"},
		{"livre_i/titre_iii/article_1101-1.md", "article 1101-1"},
		{"sans_extension", "sans extension"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ArticleLabel(tt.filename))
		})
	}
}

// TestFormatDisplayName tests repository display names
func TestFormatDisplayName(t *testing.T) {
	assert.Equal(t, "Code civil", FormatDisplayName("code_civil"))
	assert.Equal(t, "Code de la route", FormatDisplayName("code_de_la_route"))
	assert.Equal(t, "Déontologie", FormatDisplayName("déontologie"))
	assert.Equal(t, "", FormatDisplayName(""))
}
