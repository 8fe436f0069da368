package fulltext

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var _ sq.Sqlizer = Match{}

// Match is a MATCH(...) AGAINST(...) predicate. Columns must already be
// quoted identifiers, the query is always passed as a bound argument.
type Match struct {
	Columns []string
	Query   string
	Mode    Mode
}

// ToSql implements squirrel.Sqlizer
func (m Match) ToSql() (string, []interface{}, error) {
	if len(m.Columns) == 0 {
		return "", nil, ErrNoColumns
	}
	if err := m.Mode.Validate(); err != nil {
		return "", nil, err
	}

	var s strings.Builder
	s.WriteString("MATCH(")
	s.WriteString(strings.Join(m.Columns, ", "))
	s.WriteString(") AGAINST (?")
	if modifier := m.Mode.Modifier(); modifier != "" {
		s.WriteString(" ")
		s.WriteString(modifier)
	}
	s.WriteString(")")

	return s.String(), []interface{}{m.Query}, nil
}
