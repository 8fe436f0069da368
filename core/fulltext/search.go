package fulltext

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Manager runs full-text searches over one model. Fields given on
// construction are searched whenever a call does not name its own.
type Manager struct {
	model  *Model
	fields []string
}

func NewManager(model *Model, fields ...string) *Manager {
	return &Manager{
		model:  model,
		fields: fields,
	}
}

func (m *Manager) Model() *Model {
	return m.model
}

// Fields returns the default search fields
func (m *Manager) Fields() []string {
	return append([]string(nil), m.fields...)
}

type searchOptions struct {
	fields []string
	mode   Mode
}

type SearchOption func(*searchOptions)

// WithFields overrides the manager's default search fields
func WithFields(fields ...string) SearchOption {
	return func(o *searchOptions) {
		o.fields = fields
	}
}

// WithMode forces a search mode. ModeDefault lets the query decide.
func WithMode(mode Mode) SearchOption {
	return func(o *searchOptions) {
		o.mode = mode
	}
}

// Search builds a full-text search for query. When no mode is given and
// the query holds boolean operators the search runs in boolean mode.
func (m *Manager) Search(query string, opts ...SearchOption) (*Search, error) {
	if m == nil || m.model == nil {
		return nil, ErrNilModel
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	o := searchOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.mode.Validate(); err != nil {
		return nil, err
	}

	fields := o.fields
	if len(fields) == 0 {
		fields = m.fields
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	s := &Search{
		model: m.model,
		query: query,
		mode:  ResolveMode(o.mode, query),
		joins: newJoinSet(m.model.Table),
	}

	seen := map[string]bool{}
	groups := map[string]int{}
	for _, field := range fields {
		lookup, err := m.model.Lookup(field)
		if err != nil {
			return nil, fmt.Errorf("resolve search field %q: %w", field, err)
		}

		ref := s.joins.resolve(lookup)
		column := qualify(ref, lookup.Column)
		if seen[column] {
			continue
		}
		seen[column] = true

		idx, ok := groups[ref]
		if !ok {
			idx = len(s.groups)
			groups[ref] = idx
			s.groups = append(s.groups, columnGroup{ref: ref})
		}
		s.groups[idx].columns = append(s.groups[idx].columns, column)
	}

	return s, nil
}

// columnGroup holds the searched columns of one table reference. MySQL
// only accepts columns of a single table inside one MATCH().
type columnGroup struct {
	ref     string
	columns []string
}

// Search is a resolved full-text search ready to be spliced into a query.
type Search struct {
	model  *Model
	query  string
	mode   Mode
	groups []columnGroup
	joins  *joinSet
}

func (s *Search) Query() string {
	return s.query
}

// Mode returns the mode the search runs in after detection
func (s *Search) Mode() Mode {
	return s.mode
}

// Columns returns the quoted columns handed to MATCH()
func (s *Search) Columns() []string {
	var columns []string
	for _, g := range s.groups {
		columns = append(columns, g.columns...)
	}
	return columns
}

// Related returns the relation paths joined into the query
func (s *Search) Related() []string {
	paths := make([]string, 0, len(s.joins.items))
	for _, j := range s.joins.items {
		paths = append(paths, j.path)
	}
	return paths
}

// Matches returns one MATCH per searched table, in field order
func (s *Search) Matches() []Match {
	matches := make([]Match, 0, len(s.groups))
	for _, g := range s.groups {
		matches = append(matches, Match{
			Columns: append([]string(nil), g.columns...),
			Query:   s.query,
			Mode:    s.mode,
		})
	}
	return matches
}

// Predicate returns the MATCH of a single table search, or the matches of
// every searched table joined with OR.
func (s *Search) Predicate() sq.Sqlizer {
	matches := s.Matches()
	if len(matches) == 1 {
		return matches[0]
	}

	or := make(sq.Or, 0, len(matches))
	for _, m := range matches {
		or = append(or, m)
	}
	return or
}

// Apply adds the joins needed by related fields and the MATCH predicate to
// builder. The builder must select from the model's table under its own name.
func (s *Search) Apply(builder sq.SelectBuilder) sq.SelectBuilder {
	for _, j := range s.joins.items {
		if j.nullable {
			builder = builder.LeftJoin(j.clause())
		} else {
			builder = builder.Join(j.clause())
		}
	}
	return builder.Where(s.Predicate())
}

// Select returns a builder selecting columns, or every column of the model
// table when none are given. Fields of joined relations are selected too,
// aliased as "relation.field" to be scanned into nested structs.
func (s *Search) Select(columns ...string) sq.SelectBuilder {
	if len(columns) == 0 {
		columns = []string{QuoteName(s.model.Table) + ".*"}
	}
	columns = append(columns, s.relatedColumns()...)

	return s.Apply(sq.Select(columns...).From(QuoteName(s.model.Table)))
}

// Count returns a COUNT(*) builder keeping every join of the search, so a
// MATCH over related columns still finds its tables.
func (s *Search) Count() sq.SelectBuilder {
	return s.Apply(sq.Select("COUNT(*)").From(QuoteName(s.model.Table)))
}

func (s *Search) relatedColumns() []string {
	var columns []string
	for _, j := range s.joins.items {
		fields := make([]string, 0, len(j.model.Fields))
		for field := range j.model.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		prefix := strings.ReplaceAll(j.path, LookupSep, ".")
		for _, field := range fields {
			column, err := j.model.Column(field)
			if err != nil {
				continue
			}
			columns = append(columns, fmt.Sprintf("%s AS %s", qualify(j.ref(), column), QuoteName(prefix+"."+field)))
		}
	}
	return columns
}

type join struct {
	path     string
	model    *Model
	table    string
	alias    string
	on       string
	nullable bool
}

// ref is the name the joined table is referenced by
func (j join) ref() string {
	if j.alias != "" {
		return j.alias
	}
	return j.table
}

func (j join) clause() string {
	if j.alias != "" {
		return fmt.Sprintf("%s AS %s ON %s", QuoteName(j.table), QuoteName(j.alias), j.on)
	}
	return fmt.Sprintf("%s ON %s", QuoteName(j.table), j.on)
}

type joinSet struct {
	base   string
	items  []join
	byPath map[string]int
	tables map[string]bool
}

func newJoinSet(base string) *joinSet {
	return &joinSet{
		base:   base,
		byPath: map[string]int{},
		tables: map[string]bool{base: true},
	}
}

// resolve joins every relation of the lookup not joined yet and returns the
// reference of the table owning the looked up column.
func (js *joinSet) resolve(l Lookup) string {
	ref := js.base
	nullable := false
	for i, rel := range l.chain {
		path := strings.Join(l.Relations[:i+1], LookupSep)
		if idx, ok := js.byPath[path]; ok {
			ref = js.items[idx].ref()
			nullable = js.items[idx].nullable
			continue
		}

		// a child of an outer join has to be outer joined too
		nullable = nullable || rel.Nullable
		j := join{
			path:     path,
			model:    rel.Model,
			table:    rel.Model.Table,
			nullable: nullable,
		}
		if js.tables[j.table] {
			j.alias = fmt.Sprintf("T%d", len(js.items)+2)
		}
		j.on = fmt.Sprintf("%s = %s", qualify(j.ref(), rel.referencedColumn()), qualify(ref, rel.Column))

		js.tables[j.table] = true
		js.byPath[path] = len(js.items)
		js.items = append(js.items, j)
		ref = j.ref()
	}
	return ref
}
