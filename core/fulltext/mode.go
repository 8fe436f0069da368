package fulltext

import (
	"fmt"
	"strings"
)

const (
	// ModeDefault renders no modifier, leaving the engine on its default
	// natural language search.
	ModeDefault                           Mode = ""
	ModeNaturalLanguage                   Mode = "NATURAL LANGUAGE"
	ModeBoolean                           Mode = "BOOLEAN"
	ModeNaturalLanguageWithQueryExpansion Mode = "NATURAL LANGUAGE WITH QUERY EXPANSION"
	ModeQueryExpansion                    Mode = "QUERY EXPANSION"
)

// booleanOperators are the characters which make a query a boolean mode query.
// The at-sign is deliberately absent so e-mail addresses stay in natural mode.
const booleanOperators = `+-><()*"`

// AllSupportedModes holds a list of all supported search modes
var AllSupportedModes = []Mode{
	ModeDefault,
	ModeNaturalLanguage,
	ModeBoolean,
	ModeNaturalLanguageWithQueryExpansion,
	ModeQueryExpansion,
}

// Mode is a MySQL full-text search modifier
type Mode string

// String cast Mode to string
func (m Mode) String() string {
	return string(m)
}

// IsValid will validate whether the mode is one of the supported modes
func (m Mode) IsValid() bool {
	switch m {
	case ModeDefault, ModeNaturalLanguage, ModeBoolean,
		ModeNaturalLanguageWithQueryExpansion, ModeQueryExpansion:
		return true
	}
	return false
}

func (m Mode) Validate() error {
	if !m.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
	}
	return nil
}

// Modifier returns the search modifier placed after the query inside AGAINST().
func (m Mode) Modifier() string {
	switch m {
	case ModeNaturalLanguage, ModeBoolean:
		return "IN " + string(m) + " MODE"
	case ModeNaturalLanguageWithQueryExpansion:
		return "IN NATURAL LANGUAGE MODE WITH QUERY EXPANSION"
	case ModeQueryExpansion:
		return "WITH QUERY EXPANSION"
	}
	return ""
}

// DetectMode returns ModeBoolean when the query carries any boolean
// operator, otherwise ModeDefault.
func DetectMode(query string) Mode {
	if strings.ContainsAny(query, booleanOperators) {
		return ModeBoolean
	}
	return ModeDefault
}

// ResolveMode keeps an explicit mode and falls back to DetectMode otherwise.
func ResolveMode(mode Mode, query string) Mode {
	if mode != ModeDefault {
		return mode
	}
	return DetectMode(query)
}

// ParseMode converts a user supplied mode name into a Mode.
// Empty and "auto" both yield ModeDefault which defers to DetectMode.
func ParseMode(s string) (Mode, error) {
	normalized := strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(s, "_", " "))), " ")
	switch normalized {
	case "", "AUTO":
		return ModeDefault, nil
	case "NATURAL", "NATURAL LANGUAGE", "IN NATURAL LANGUAGE MODE":
		return ModeNaturalLanguage, nil
	case "BOOLEAN", "IN BOOLEAN MODE":
		return ModeBoolean, nil
	case "NATURAL LANGUAGE WITH QUERY EXPANSION", "NATURAL WITH QUERY EXPANSION",
		"IN NATURAL LANGUAGE MODE WITH QUERY EXPANSION":
		return ModeNaturalLanguageWithQueryExpansion, nil
	case "QUERY EXPANSION", "EXPANSION", "WITH QUERY EXPANSION":
		return ModeQueryExpansion, nil
	}
	return ModeDefault, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
