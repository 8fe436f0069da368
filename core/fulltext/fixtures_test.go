package fulltext_test

import "github.com/goto/fulltext/core/fulltext"

// newTestModels returns articles -> authors -> publishers, where articles
// reference authors twice (author and nullable editor).
func newTestModels() (articles, authors, publishers *fulltext.Model) {
	publishers = &fulltext.Model{
		Name:   "publisher",
		Table:  "publishers",
		Fields: map[string]string{"name": "name"},
	}
	authors = &fulltext.Model{
		Name:   "author",
		Table:  "authors",
		Fields: map[string]string{"name": "full_name", "bio": "bio"},
		Relations: map[string]fulltext.Relation{
			"publisher": {Model: publishers, Column: "publisher_id", Nullable: true},
		},
	}
	articles = &fulltext.Model{
		Name:   "article",
		Table:  "articles",
		Fields: map[string]string{"title": "title", "body": "body_text"},
		Relations: map[string]fulltext.Relation{
			"author": {Model: authors, Column: "author_id"},
			"editor": {Model: authors, Column: "editor_id", References: "id", Nullable: true},
		},
	}
	return articles, authors, publishers
}
