package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goto/fulltext/core/fulltext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
log_level: debug
db:
  host: db.internal
  port: 3307
  name: library
search:
  default_size: 5
models:
  authors:
    table: authors
    fields:
      name: full_name
      bio: bio
  articles:
    table: articles
    fields:
      title: title
      body: body_text
    search_fields:
      - title
      - body
    relations:
      author:
        model: authors
        column: author_id
`

func testModels() map[string]fulltext.Definition {
	return map[string]fulltext.Definition{
		"authors": {
			Table:  "authors",
			Fields: map[string]string{"name": "full_name"},
		},
		"articles": {
			Table:        "articles",
			Fields:       map[string]string{"title": "title", "body": "body_text"},
			SearchFields: []string{"title"},
			Relations: map[string]fulltext.RelationDefinition{
				"author": {Model: "authors", Column: "author_id"},
			},
		},
	}
}

func execute(t *testing.T, cfg *Config, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := New(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSQLCommand(t *testing.T) {
	cfg := &Config{Models: testModels()}

	t.Run("should print the search query", func(t *testing.T) {
		out, err := execute(t, cfg, "sql", "articles", "hobbits")
		require.NoError(t, err)
		assert.Contains(t, out, "SELECT `articles`.* FROM `articles` WHERE MATCH(`articles`.`title`) AGAINST (?)")
		assert.Contains(t, out, `"hobbits"`)
	})

	t.Run("should print the count query with joins", func(t *testing.T) {
		out, err := execute(t, cfg, "sql", "articles", "+tolkien", "-f", "title,author__name", "--count")
		require.NoError(t, err)
		assert.Contains(t, out, "SELECT COUNT(*) FROM `articles` JOIN `authors` ON `authors`.`id` = `articles`.`author_id` "+
			"WHERE (MATCH(`articles`.`title`) AGAINST (? IN BOOLEAN MODE) OR MATCH(`authors`.`full_name`) AGAINST (? IN BOOLEAN MODE))")
	})

	t.Run("should honor an explicit mode", func(t *testing.T) {
		out, err := execute(t, cfg, "sql", "articles", "+tolkien", "--mode", "natural_language")
		require.NoError(t, err)
		assert.Contains(t, out, "AGAINST (? IN NATURAL LANGUAGE MODE)")
	})

	t.Run("should reject an unknown mode", func(t *testing.T) {
		_, err := execute(t, cfg, "sql", "articles", "hobbits", "--mode", "fuzzy")
		assert.ErrorIs(t, err, fulltext.ErrUnknownMode)
	})

	t.Run("should reject an unknown model", func(t *testing.T) {
		_, err := execute(t, cfg, "sql", "books", "hobbits")
		assert.EqualError(t, err, `no such model: "books"`)
	})

	t.Run("should fail without models", func(t *testing.T) {
		_, err := execute(t, &Config{}, "sql", "articles", "hobbits")
		assert.ErrorIs(t, err, ErrNoModels)
	})
}

func TestModelsCommand(t *testing.T) {
	out, err := execute(t, &Config{Models: testModels()}, "models")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "TABLE", "SEARCH", "FIELDS", "RELATIONS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"articles", "articles", "title", "author"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"authors", "authors"}, strings.Fields(lines[2]))
}

func TestSearchCommandOutputFlag(t *testing.T) {
	_, err := execute(t, &Config{Models: testModels()}, "search", "articles", "hobbits", "-o", "xml")
	assert.EqualError(t, err, `error value "xml" not recognized, only support "table json"`)
}

func TestPrintTable(t *testing.T) {
	var out bytes.Buffer
	printTable(&out, [][]string{
		{"ID", "TITLE"},
		{"1", "Hobbits"},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"ID", "TITLE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "Hobbits"}, strings.Fields(lines[1]))
}

func TestConfigFromFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fulltext.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	t.Run("should load the file given by the config flag", func(t *testing.T) {
		var cfg Config
		require.NoError(t, LoadConfigFromFlag(path, &cfg))

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "db.internal", cfg.DB.Host)
		assert.Equal(t, 3307, cfg.DB.Port)
		assert.Equal(t, "library", cfg.DB.Name)
		assert.Equal(t, 5, cfg.Search.DefaultSize)
		assert.Equal(t, []string{"title", "body"}, cfg.Models["articles"].SearchFields)
		assert.Equal(t, "author_id", cfg.Models["articles"].Relations["author"].Column)

		_, err := cfg.Registry()
		assert.NoError(t, err)
	})

	t.Run("should search models of the config flag", func(t *testing.T) {
		out, err := execute(t, &Config{}, "sql", "articles", "hobbits", "-c", path)
		require.NoError(t, err)
		assert.Contains(t, out, "MATCH(`articles`.`title`, `articles`.`body_text`) AGAINST (?)")
	})
}

func TestConfigMixedCaseNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fulltext.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
models:
  Authors:
    table: authors
    fields:
      fullName: full_name
  Articles:
    table: articles
    fields:
      bodyText: body_text
    search_fields: [bodyText]
    relations:
      mainAuthor:
        model: Authors
        column: author_id
`), 0o600))

	out, err := execute(t, &Config{}, "sql", "Articles", "hobbits", "-c", path, "-f", "bodyText,mainAuthor__fullName")
	require.NoError(t, err)
	assert.Contains(t, out, "MATCH(`articles`.`body_text`) AGAINST (?) OR MATCH(`authors`.`full_name`) AGAINST (?)")

	out, err = execute(t, &Config{}, "sql", "articles", "hobbits", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "WHERE MATCH(`articles`.`body_text`) AGAINST (?)")
}

func TestRowsReport(t *testing.T) {
	report := rowsReport([]map[string]interface{}{
		{"title": "Towel Day", "id": int64(3)},
		{"title": "Hobbits", "id": int64(1), "author.name": nil},
	})

	assert.Equal(t, [][]string{
		{"author.name", "id", "title"},
		{"", "3", "Towel Day"},
		{"", "1", "Hobbits"},
	}, report)
}
