package sql

import (
	"reflect"
	"testing"
)

func TestExtractNamedParameters(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected []ParameterToken
	}{
		{
			name:     "no parameters",
			sql:      "SELECT * FROM users",
			expected: nil,
		},
		{
			name: "single parameter",
			sql:  "SELECT * FROM users WHERE id = :userId",
			expected: []ParameterToken{
				{Name: "userId", Start: 31, End: 38},
			},
		},
		{
			name: "repeated parameter keeps every occurrence",
			sql:  "SELECT * FROM t WHERE a = :id OR b = :id",
			expected: []ParameterToken{
				{Name: "id", Start: 26, End: 29},
				{Name: "id", Start: 37, End: 40},
			},
		},
		{
			name: "parameter inside string literal skipped",
			sql:  "SELECT ':userId' as literal, name FROM users WHERE id = :userId",
			expected: []ParameterToken{
				{Name: "userId", Start: 56, End: 63},
			},
		},
		{
			name: "parameter inside line comment skipped",
			sql:  "SELECT * FROM t -- :fake\nWHERE id = :real",
			expected: []ParameterToken{
				{Name: "real", Start: 36, End: 41},
			},
		},
		{
			name: "parameter inside block comment skipped",
			sql:  "SELECT * FROM t /* :fake */ WHERE id = :real",
			expected: []ParameterToken{
				{Name: "real", Start: 39, End: 44},
			},
		},
		{
			name: "parameter inside double-quoted identifier skipped",
			sql:  `SELECT ":fake" FROM t WHERE id = :real`,
			expected: []ParameterToken{
				{Name: "real", Start: 33, End: 38},
			},
		},
		{
			name: "escaped quote stays inside the literal",
			sql:  "SELECT 'it''s :fake' FROM t WHERE id = :real",
			expected: []ParameterToken{
				{Name: "real", Start: 39, End: 44},
			},
		},
		{
			name:     "postgres cast is not a parameter",
			sql:      "SELECT amount::numeric FROM t",
			expected: nil,
		},
		{
			name:     "standalone colon is not a parameter",
			sql:      "SELECT * FROM t WHERE x = ': '",
			expected: nil,
		},
		{
			name: "underscore start and digits",
			sql:  "SELECT * FROM t WHERE a = :_p1 AND b = :p_2",
			expected: []ParameterToken{
				{Name: "_p1", Start: 26, End: 30},
				{Name: "p_2", Start: 39, End: 43},
			},
		},
		{
			name:     "colon followed by digit is not a parameter",
			sql:      "SELECT * FROM t WHERE x = ARRAY[1:2]",
			expected: nil,
		},
		{
			name: "unterminated block comment swallows the rest",
			sql:  "SELECT * FROM t /* :fake WHERE id = :alsoFake",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractNamedParameters(tt.sql)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestExtractNamedParameters_TokenBounds(t *testing.T) {
	sql := "WHERE id = :userId"
	tokens := ExtractNamedParameters(sql)
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if got := sql[tokens[0].Start:tokens[0].End]; got != ":userId" {
		t.Errorf("token bounds select %q, want %q", got, ":userId")
	}
}

func TestDetectParameterNames(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected []string
	}{
		{
			name:     "no parameters",
			sql:      "SELECT * FROM users",
			expected: nil,
		},
		{
			name:     "duplicates merged in first-appearance order",
			sql:      "SELECT * FROM t WHERE a = :b OR c = :a OR d = :b",
			expected: []string{"b", "a"},
		},
		{
			name:     "prefix names stay distinct",
			sql:      "SELECT * FROM t WHERE a = :id AND b = :identifier",
			expected: []string{"id", "identifier"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectParameterNames(tt.sql)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}
