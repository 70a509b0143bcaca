package sql

import (
	"fmt"
)

// PlaceholderFormat renders the positional marker for a parameter. The
// position is 1-based and assigned by first appearance of the name, so
// numbered styles ($1, @p1) reuse the same marker for repeated names.
type PlaceholderFormat func(position int) string

// QuestionMark is the MySQL/SQLite placeholder style. Every occurrence gets
// its own marker and its own slot in the bind-value list.
func QuestionMark(int) string { return "?" }

// DollarNumber is the PostgreSQL placeholder style.
func DollarNumber(position int) string { return fmt.Sprintf("$%d", position) }

// AtPNumber is the SQL Server placeholder style.
func AtPNumber(position int) string { return fmt.Sprintf("@p%d", position) }

// PlaceholderStyle selects how positional markers are rendered and how bind
// values are ordered: per occurrence for ?, per first appearance for the
// numbered styles (which reuse markers for repeated names).
type PlaceholderStyle int

const (
	StyleQuestion PlaceholderStyle = iota
	StyleDollar
	StyleAtP
)

func (s PlaceholderStyle) format() PlaceholderFormat {
	switch s {
	case StyleDollar:
		return DollarNumber
	case StyleAtP:
		return AtPNumber
	default:
		return QuestionMark
	}
}

func (s PlaceholderStyle) numbered() bool {
	return s != StyleQuestion
}

// BindingError reports a named placeholder with no supplied value. It is
// always fatal to the execution attempt.
type BindingError struct {
	Name string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("no value supplied for parameter :%s", e.Name)
}

// RewriteResult is the outcome of rewriting named placeholders to
// positional markers.
type RewriteResult struct {
	SQL string
	// Names holds one entry per marker occurrence, in source order.
	Names []string
	// Positions holds the byte offset of each marker in the rewritten SQL,
	// parallel to Names.
	Positions []int
}

// RewritePositional replaces every :name occurrence with the marker produced
// by format. Positions for numbered styles are assigned by first appearance
// of the name. Replacement text is shorter than the matched token, so edits
// are applied in reverse offset order; a forward replace-first-occurrence
// strategy corrupts later offsets when a name repeats or is a prefix of
// another name.
func RewritePositional(sqlQuery string, format PlaceholderFormat) RewriteResult {
	tokens := ExtractNamedParameters(sqlQuery)
	if len(tokens) == 0 {
		return RewriteResult{SQL: sqlQuery}
	}

	positionOf := make(map[string]int)
	next := 1
	markers := make([]string, len(tokens))
	for i, tok := range tokens {
		pos, ok := positionOf[tok.Name]
		if !ok {
			pos = next
			positionOf[tok.Name] = pos
			next++
		}
		markers[i] = format(pos)
	}

	out := []byte(sqlQuery)
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		out = append(out[:tok.Start], append([]byte(markers[i]), out[tok.End:]...)...)
	}

	// Recompute marker offsets in the rewritten text with a forward pass.
	result := RewriteResult{
		SQL:       string(out),
		Names:     make([]string, len(tokens)),
		Positions: make([]int, len(tokens)),
	}
	shift := 0
	for i, tok := range tokens {
		result.Names[i] = tok.Name
		result.Positions[i] = tok.Start + shift
		shift += len(markers[i]) - (tok.End - tok.Start)
	}

	return result
}

// BindNamedParameters rewrites :name placeholders to ? markers and returns
// the positional SQL plus bind values ordered by occurrence. Repeated names
// repeat their value so left-to-right binding stays correct. A placeholder
// with no entry in values yields a BindingError naming the parameter;
// supplied values that no placeholder references are ignored.
func BindNamedParameters(sqlQuery string, values map[string]any) (string, []any, error) {
	tokens := ExtractNamedParameters(sqlQuery)

	ordered := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		v, ok := values[tok.Name]
		if !ok {
			return "", nil, &BindingError{Name: tok.Name}
		}
		ordered = append(ordered, v)
	}

	// Highest offset first, so earlier offsets stay valid as the text shrinks.
	out := []byte(sqlQuery)
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		out = append(out[:tok.Start], append([]byte{'?'}, out[tok.End:]...)...)
	}

	return string(out), ordered, nil
}

// BindForStyle is BindNamedParameters generalized over placeholder styles.
// For numbered styles a repeated name keeps its first marker and binds its
// value once; for the ? style every occurrence binds its own value.
func BindForStyle(sqlQuery string, values map[string]any, style PlaceholderStyle) (string, []any, error) {
	tokens := ExtractNamedParameters(sqlQuery)
	for _, tok := range tokens {
		if _, ok := values[tok.Name]; !ok {
			return "", nil, &BindingError{Name: tok.Name}
		}
	}

	if !style.numbered() {
		return BindNamedParameters(sqlQuery, values)
	}

	rw := RewritePositional(sqlQuery, style.format())

	seen := make(map[string]bool)
	var ordered []any
	for _, name := range rw.Names {
		if seen[name] {
			continue
		}
		seen[name] = true
		ordered = append(ordered, values[name])
	}

	return rw.SQL, ordered, nil
}
