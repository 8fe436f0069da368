package fulltext

import (
	"strings"
)

const (
	// LookupSep separates relation names from the field name in a lookup
	// path, e.g. author__name
	LookupSep = "__"

	defaultReferencedColumn = "id"
)

// Model describes a table that can be searched. Fields maps field names to
// column names, Relations maps relation names to the related model.
type Model struct {
	Name      string
	Table     string
	Fields    map[string]string
	Relations map[string]Relation
}

// Relation is a foreign key from the owning model to Model.
type Relation struct {
	Model *Model
	// Column holds the foreign key column on the owning table
	Column string
	// References holds the referenced column on the related table, "id" when empty
	References string
	// Nullable relations are joined with LEFT JOIN, others with INNER JOIN
	Nullable bool
}

func (r Relation) referencedColumn() string {
	if r.References == "" {
		return defaultReferencedColumn
	}
	return r.References
}

// Lookup is a resolved lookup path.
type Lookup struct {
	// Relations holds the relation names walked before reaching the field
	Relations []string
	Field     string
	Column    string
	// Model owns Column
	Model *Model

	chain []Relation
}

// Related reports whether the lookup crosses at least one relation
func (l Lookup) Related() bool {
	return len(l.Relations) > 0
}

func (m *Model) Column(field string) (string, error) {
	if field == "" {
		return "", ErrEmptyField
	}
	column, ok := m.Fields[field]
	if !ok {
		return "", FieldNotFoundError{Model: m.displayName(), Field: field}
	}
	if column == "" {
		column = field
	}
	return column, nil
}

func (m *Model) Relation(name string) (Relation, error) {
	rel, ok := m.Relations[name]
	if !ok || rel.Model == nil {
		return Relation{}, RelationNotFoundError{Model: m.displayName(), Relation: name}
	}
	return rel, nil
}

// Lookup resolves a path such as "title" or "author__publisher__name".
func (m *Model) Lookup(path string) (Lookup, error) {
	if m == nil {
		return Lookup{}, ErrNilModel
	}

	parts := strings.Split(path, LookupSep)
	for _, p := range parts {
		if p == "" {
			return Lookup{}, ErrEmptyField
		}
	}

	current := m
	lookup := Lookup{}
	for _, name := range parts[:len(parts)-1] {
		rel, err := current.Relation(name)
		if err != nil {
			return Lookup{}, err
		}
		lookup.Relations = append(lookup.Relations, name)
		lookup.chain = append(lookup.chain, rel)
		current = rel.Model
	}

	field := parts[len(parts)-1]
	column, err := current.Column(field)
	if err != nil {
		return Lookup{}, err
	}

	lookup.Field = field
	lookup.Column = column
	lookup.Model = current
	return lookup, nil
}

func (m *Model) displayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Table
}

// QuoteName quotes a MySQL identifier. Names already quoted are returned as
// is when every backtick inside them is escaped.
func QuoteName(name string) string {
	if isQuoted(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func isQuoted(name string) bool {
	if len(name) < 2 || !strings.HasPrefix(name, "`") || !strings.HasSuffix(name, "`") {
		return false
	}
	inner := name[1 : len(name)-1]
	return !strings.Contains(strings.ReplaceAll(inner, "``", ""), "`")
}

func qualify(table, column string) string {
	return QuoteName(table) + "." + QuoteName(column)
}
