package sql

import (
	"errors"
	"strings"
)

// ErrMultipleStatements indicates the query contains multiple SQL
// statements; only single statements are permitted on the execution path.
var ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

// ValidationResult contains the normalized SQL and any validation error.
type ValidationResult struct {
	NormalizedSQL string
	Error         error
}

// ValidateAndNormalize strips the trailing semicolon and rejects stacked
// statements. After normalization any semicolon left outside string
// literals, quoted identifiers, and comments means a second statement.
func ValidateAndNormalize(sqlQuery string) ValidationResult {
	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return ValidationResult{NormalizedSQL: sqlQuery}
	}

	normalized := stripTrailingSemicolon(sqlQuery)

	if hasTopLevelSemicolon(normalized) {
		return ValidationResult{Error: ErrMultipleStatements}
	}

	return ValidationResult{NormalizedSQL: normalized}
}

// hasTopLevelSemicolon reports a semicolon outside strings, quoted
// identifiers, and comments, using the same lexical modes as the parameter
// scan. A semicolon inside a comment is not a statement separator.
func hasTopLevelSemicolon(sqlQuery string) bool {
	mode := lexNormal
	i := 0
	n := len(sqlQuery)

	for i < n {
		c := sqlQuery[i]

		switch mode {
		case lexNormal:
			switch {
			case c == ';':
				return true
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
			}
		case lexSingleQuote:
			if c == '\'' {
				if i+1 < n && sqlQuery[i+1] == '\'' {
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

	return false
}

// stripTrailingSemicolon removes one trailing semicolon and surrounding
// whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}
