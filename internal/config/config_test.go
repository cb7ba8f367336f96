package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zotero2wxr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, []string{"Title", "Item Type", "Author"}, cfg.CSV.RequiredColumns)
	assert.Equal(t, "Publication Title", cfg.Columns.Publication)
	assert.Equal(t, "Abstract Note", cfg.Columns.Abstract)
	assert.Equal(t, "publications", cfg.Output.PostType)
	assert.Equal(t, "wpcf-pub-", cfg.Output.MetaPrefix)
	assert.Equal(t, 1, cfg.Output.FirstID())
	assert.Equal(t, SectionElement, cfg.Output.SectionStyle)
	assert.True(t, cfg.Mapping.SplitSubtitleEnabled())
	assert.True(t, cfg.Mapping.DedupeTitlesEnabled())
	assert.Contains(t, cfg.Mapping.SmallWords, "of")
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	path := createTempConfigFile(t, `
csv:
  delimiter: tab
columns:
  title: "Item Title"
mapping:
  small_words: [of, the]
  split_subtitle: false
  type_aliases:
    magazineArticle: journalArticle
output:
  id_base: 0
  section_style: comment
  author_tags:
    - match: Juengst
      name: Eric Juengst
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tab", cfg.CSV.Delimiter)
	assert.Equal(t, "Item Title", cfg.Columns.Title)
	assert.Equal(t, []string{"Item Title", "Item Type", "Author"}, cfg.CSV.RequiredColumns)
	assert.Equal(t, []string{"of", "the"}, cfg.Mapping.SmallWords)
	assert.False(t, cfg.Mapping.SplitSubtitleEnabled())
	assert.True(t, cfg.Mapping.DedupeTitlesEnabled())
	assert.Equal(t, "journalArticle", cfg.Mapping.TypeAliases["magazineArticle"])
	assert.Equal(t, 0, cfg.Output.FirstID())
	assert.Equal(t, SectionComment, cfg.Output.SectionStyle)
	require.Len(t, cfg.Output.AuthorTags, 1)
	assert.Equal(t, "Eric Juengst", cfg.Output.AuthorTags[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"delimiter", "csv:\n  delimiter: '::'\n", ErrInvalidDelimiter},
		{"required column", "csv:\n  required_columns: ['Title', ' ']\n", ErrEmptyRequiredColumn},
		{"id base", "output:\n  id_base: -1\n", ErrInvalidIDBase},
		{"section style", "output:\n  section_style: nested\n", ErrInvalidSectionStyle},
		{"log level", "logging:\n  level: trace\n", ErrInvalidLogLevel},
		{"author tag", "output:\n  author_tags:\n    - match: Smith\n", ErrInvalidAuthorTag},
		{"alias", "mapping:\n  type_aliases:\n    magazineArticle: magazine\n", ErrUnknownAliasedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("csv: [unterminated"))
	require.Error(t, err)
}

func TestDelimiterRune(t *testing.T) {
	tests := map[string]rune{
		"":          ',',
		",":         ',',
		"tab":       '\t',
		"\\t":       '\t',
		"semicolon": ';',
		"PIPE":      '|',
		"#":         '#',
	}
	for in, want := range tests {
		got, err := DelimiterRune(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := DelimiterRune("\"")
	assert.ErrorIs(t, err, ErrInvalidDelimiter)
}
