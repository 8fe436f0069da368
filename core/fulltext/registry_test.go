package fulltext_test

import (
	"errors"
	"testing"

	"github.com/goto/fulltext/core/fulltext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinitions() map[string]fulltext.Definition {
	return map[string]fulltext.Definition{
		"articles": {
			Table:        "articles",
			Fields:       map[string]string{"title": "title", "body": "body"},
			SearchFields: []string{"title", "body", "author__name"},
			Relations: map[string]fulltext.RelationDefinition{
				"author": {Model: "authors", Column: "author_id"},
			},
		},
		"authors": {
			Table:        "authors",
			Fields:       map[string]string{"name": "name"},
			SearchFields: []string{"name"},
		},
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("should link relations and build managers", func(t *testing.T) {
		r, err := fulltext.NewRegistry(testDefinitions())
		require.NoError(t, err)

		assert.Equal(t, []string{"articles", "authors"}, r.Names())

		articles, err := r.Model("articles")
		require.NoError(t, err)
		authors, err := r.Model("authors")
		require.NoError(t, err)
		assert.Same(t, authors, articles.Relations["author"].Model)

		mgr, err := r.Manager("articles")
		require.NoError(t, err)
		assert.Equal(t, []string{"title", "body", "author__name"}, mgr.Fields())

		s, err := mgr.Search("golang")
		require.NoError(t, err)
		assert.Equal(t, []string{"author"}, s.Related())
	})

	t.Run("should return model not found error", func(t *testing.T) {
		r, err := fulltext.NewRegistry(testDefinitions())
		require.NoError(t, err)

		_, err = r.Manager("comments")
		assert.EqualError(t, err, `no such model: "comments"`)
		_, err = r.Model("comments")
		assert.True(t, errors.As(err, &fulltext.ModelNotFoundError{}))
	})

	t.Run("should fail when relation targets unknown model", func(t *testing.T) {
		defs := testDefinitions()
		delete(defs, "authors")

		_, err := fulltext.NewRegistry(defs)
		assert.EqualError(t, err, `model "articles" relation "author": no such model: "authors"`)
	})

	t.Run("should fail on invalid search field", func(t *testing.T) {
		defs := testDefinitions()
		def := defs["authors"]
		def.SearchFields = []string{"email"}
		defs["authors"] = def

		_, err := fulltext.NewRegistry(defs)
		assert.EqualError(t, err, `model "authors" search field "email": model "authors" has no field named "email"`)
	})

	t.Run("should fail validation on missing table", func(t *testing.T) {
		_, err := fulltext.NewRegistry(map[string]fulltext.Definition{
			"notes": {Fields: map[string]string{"content": "content"}},
		})
		assert.EqualError(t, err, `invalid model "notes": table is required`)
	})

	t.Run("should fail validation on incomplete relation", func(t *testing.T) {
		_, err := fulltext.NewRegistry(map[string]fulltext.Definition{
			"notes": {
				Table:     "notes",
				Fields:    map[string]string{"content": "content"},
				Relations: map[string]fulltext.RelationDefinition{"owner": {Model: "users"}},
			},
		})
		assert.EqualError(t, err, `invalid model "notes": column is required`)
	})
}
