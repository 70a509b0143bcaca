// Package sql implements the SQL structure mapper: named-parameter
// extraction and positional binding, structured-query-to-SQL generation,
// and reverse engineering of SELECT statements into editable structures.
package sql

// ParameterToken is one occurrence of a :name placeholder in SQL text.
// Start is the byte offset of the leading colon; End is the offset just past
// the last identifier byte, so sql[Start:End] is the full ":name" token.
type ParameterToken struct {
	Name  string
	Start int
	End   int
}

// Lexical modes for the placeholder scan. A colon only introduces a
// parameter in normal mode.
const (
	lexNormal = iota
	lexSingleQuote
	lexDoubleQuote
	lexLineComment
	lexBlockComment
)

// ExtractNamedParameters scans SQL text left to right and returns every
// :name placeholder occurrence in source order, including repeated uses of
// the same name. Occurrences inside single-quoted string literals,
// double-quoted identifiers, -- line comments, and /* */ block comments are
// skipped. PostgreSQL :: casts are not parameter introducers.
func ExtractNamedParameters(sqlQuery string) []ParameterToken {
	var tokens []ParameterToken

	mode := lexNormal
	i := 0
	n := len(sqlQuery)

	for i < n {
		c := sqlQuery[i]

		switch mode {
		case lexNormal:
			switch {
			case c == '\'':
				mode = lexSingleQuote
			case c == '"':
				mode = lexDoubleQuote
			case c == '-' && i+1 < n && sqlQuery[i+1] == '-':
				mode = lexLineComment
				i++
			case c == '/' && i+1 < n && sqlQuery[i+1] == '*':
				mode = lexBlockComment
				i++
			case c == ':':
				if i+1 < n && sqlQuery[i+1] == ':' {
					// :: cast, not a parameter
					i++
					break
				}
				if i+1 < n && isIdentifierStart(sqlQuery[i+1]) {
					end := i + 1
					for end < n && isIdentifierChar(sqlQuery[end]) {
						end++
					}
					tokens = append(tokens, ParameterToken{
						Name:  sqlQuery[i+1 : end],
						Start: i,
						End:   end,
					})
					i = end
					continue
				}
			}
		case lexSingleQuote:
			if c == '\'' {
				if i+1 < n && sqlQuery[i+1] == '\'' {
					// '' escape stays inside the literal
					i++
				} else {
					mode = lexNormal
				}
			}
		case lexDoubleQuote:
			if c == '"' {
				mode = lexNormal
			}
		case lexLineComment:
			if c == '\n' {
				mode = lexNormal
			}
		case lexBlockComment:
			if c == '*' && i+1 < n && sqlQuery[i+1] == '/' {
				mode = lexNormal
				i++
			}
		}

		i++
	}

	return tokens
}

// DetectParameterNames returns the distinct parameter names in the SQL,
// ordered by first appearance. Used for metadata display; binding goes
// through BindNamedParameters.
func DetectParameterNames(sqlQuery string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, tok := range ExtractNamedParameters(sqlQuery) {
		if !seen[tok.Name] {
			seen[tok.Name] = true
			names = append(names, tok.Name)
		}
	}

	return names
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b == '_'
}

func isIdentifierChar(b byte) bool {
	return isIdentifierStart(b) || (b >= '0' && b <= '9')
}
