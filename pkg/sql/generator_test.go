package sql

import (
	"reflect"
	"strings"
	"testing"

	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/models"
)

func intPtr(v int) *int { return &v }

func TestGenerate_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		structure *models.QueryStructure
		expected  string
	}{
		{
			name: "single column single table",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
				FromTables:    []models.FromTable{{TableName: "users"}},
			},
			expected: "SELECT id FROM users",
		},
		{
			name: "aggregate with alias",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{
					{ColumnName: "*", AggregateFunction: "count", Alias: "total"},
				},
				FromTables: []models.FromTable{{TableName: "users"}},
			},
			expected: "SELECT COUNT(*) AS total FROM users",
		},
		{
			name: "inner join with on condition",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{TableName: "u", ColumnName: "id"}},
				FromTables:    []models.FromTable{{TableName: "users", Alias: "u"}},
				Joins: []models.JoinClause{{
					JoinType:  models.JoinInner,
					TableName: "profiles",
					Alias:     "p",
					Conditions: []models.JoinCondition{{
						LeftTable: "u", LeftColumn: "id",
						Operator:   "=",
						RightTable: "p", RightColumn: "user_id",
					}},
				}},
			},
			expected: "SELECT u.id FROM users AS u INNER JOIN profiles AS p ON u.id = p.user_id",
		},
		{
			name: "multiple from tables comma joined",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "*"}},
				FromTables: []models.FromTable{
					{TableName: "a"},
					{TableName: "b", Alias: "bb"},
				},
			},
			expected: "SELECT * FROM a, b AS bb",
		},
		{
			name: "distinct select",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "city"}},
				FromTables:    []models.FromTable{{TableName: "users"}},
				Distinct:      true,
			},
			expected: "SELECT DISTINCT city FROM users",
		},
		{
			name: "per-column distinct folds into statement distinct",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "city", Distinct: true}},
				FromTables:    []models.FromTable{{TableName: "users"}},
			},
			expected: "SELECT DISTINCT city FROM users",
		},
		{
			name: "where with literal and parameter",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
				FromTables:    []models.FromTable{{TableName: "users"}},
				WhereConditions: []models.WhereCondition{
					{ColumnName: "status", Operator: "=", Value: "active"},
					{ColumnName: "id", Operator: "=", Value: ":userId", LogicalOperator: "OR"},
				},
			},
			expected: "SELECT id FROM users WHERE status = 'active' OR id = :userId",
		},
		{
			name: "in and between and null checks",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
				FromTables:    []models.FromTable{{TableName: "orders"}},
				WhereConditions: []models.WhereCondition{
					{ColumnName: "status", Operator: "IN", Values: []string{"new", "paid"}},
					{ColumnName: "total", Operator: "BETWEEN", MinValue: "10", MaxValue: "100"},
					{ColumnName: "deleted_at", Operator: "IS NULL"},
				},
			},
			expected: "SELECT id FROM orders WHERE status IN ('new', 'paid') AND total BETWEEN '10' AND '100' AND deleted_at IS NULL",
		},
		{
			name: "legacy two-element values form of between",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
				FromTables:    []models.FromTable{{TableName: "orders"}},
				WhereConditions: []models.WhereCondition{
					{ColumnName: "total", Operator: "BETWEEN", Values: []string{"10", "100"}},
				},
			},
			expected: "SELECT id FROM orders WHERE total BETWEEN '10' AND '100'",
		},
		{
			name: "between with parameter bounds passes them through",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
				FromTables:    []models.FromTable{{TableName: "orders"}},
				WhereConditions: []models.WhereCondition{
					{ColumnName: "total", Operator: "BETWEEN", MinValue: ":min", MaxValue: ":max"},
				},
			},
			expected: "SELECT id FROM orders WHERE total BETWEEN :min AND :max",
		},
		{
			name: "negated condition",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
				FromTables:    []models.FromTable{{TableName: "users"}},
				WhereConditions: []models.WhereCondition{
					{ColumnName: "name", Operator: "like", Negated: true, Value: "admin%"},
				},
			},
			expected: "SELECT id FROM users WHERE NOT name LIKE 'admin%'",
		},
		{
			name: "group having order limit offset",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{
					{TableName: "o", ColumnName: "status"},
					{TableName: "o", ColumnName: "id", AggregateFunction: "COUNT", Alias: "n"},
				},
				FromTables:     []models.FromTable{{TableName: "orders", Alias: "o"}},
				GroupByColumns: []models.GroupByColumn{{TableName: "o", ColumnName: "status"}},
				HavingConditions: []models.WhereCondition{
					{ColumnName: "COUNT(o.id)", Operator: ">", Value: "5"},
				},
				OrderByColumns: []models.OrderByColumn{
					{TableName: "o", ColumnName: "status", Direction: models.SortDesc},
				},
				Limit:  intPtr(10),
				Offset: intPtr(20),
			},
			expected: "SELECT o.status, COUNT(o.id) AS n FROM orders AS o GROUP BY o.status HAVING COUNT(o.id) > '5' ORDER BY o.status DESC LIMIT 10 OFFSET 20",
		},
		{
			name: "offset without positive limit is dropped",
			structure: &models.QueryStructure{
				SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
				FromTables:    []models.FromTable{{TableName: "users"}},
				Offset:        intPtr(20),
			},
			expected: "SELECT id FROM users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generated, errs := Generate(tt.structure, false)
			if len(errs) > 0 {
				t.Fatalf("unexpected validation errors: %v", errs)
			}
			if generated.SQL != tt.expected {
				t.Errorf("got  %q\nwant %q", generated.SQL, tt.expected)
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	structure := &models.QueryStructure{
		SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
		FromTables:    []models.FromTable{{TableName: "users"}},
		WhereConditions: []models.WhereCondition{
			{ColumnName: "id", Operator: "=", Value: ":id"},
		},
	}

	first, errs := Generate(structure, true)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for i := 0; i < 10; i++ {
		again, _ := Generate(structure, true)
		if again.SQL != first.SQL {
			t.Fatalf("generation is not deterministic: %q vs %q", again.SQL, first.SQL)
		}
	}
}

func TestGenerate_ClauseOrder(t *testing.T) {
	structure := &models.QueryStructure{
		SelectColumns: []models.SelectColumn{{TableName: "o", ColumnName: "status"}},
		FromTables:    []models.FromTable{{TableName: "orders", Alias: "o"}},
		Joins: []models.JoinClause{{
			JoinType:  models.JoinLeft,
			TableName: "users",
			Alias:     "u",
			Conditions: []models.JoinCondition{
				{LeftTable: "o", LeftColumn: "user_id", Operator: "=", RightTable: "u", RightColumn: "id"},
			},
		}},
		WhereConditions:  []models.WhereCondition{{ColumnName: "status", Operator: "=", Value: "new"}},
		GroupByColumns:   []models.GroupByColumn{{TableName: "o", ColumnName: "status"}},
		HavingConditions: []models.WhereCondition{{ColumnName: "COUNT(o.id)", Operator: ">", Value: "1"}},
		OrderByColumns:   []models.OrderByColumn{{TableName: "o", ColumnName: "status", Direction: models.SortAsc}},
		Limit:            intPtr(5),
		Offset:           intPtr(10),
	}

	generated, errs := Generate(structure, false)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	keywords := []string{"SELECT", "FROM", "LEFT JOIN", "WHERE", "GROUP BY", "HAVING", "ORDER BY", "LIMIT", "OFFSET"}
	last := -1
	for _, kw := range keywords {
		idx := strings.Index(generated.SQL, kw)
		if idx < 0 {
			t.Fatalf("keyword %q missing from %q", kw, generated.SQL)
		}
		if idx < last {
			t.Errorf("keyword %q out of order in %q", kw, generated.SQL)
		}
		last = idx
	}
}

func TestGenerate_PrettyFormat(t *testing.T) {
	structure := &models.QueryStructure{
		SelectColumns:   []models.SelectColumn{{ColumnName: "id"}},
		FromTables:      []models.FromTable{{TableName: "users"}},
		WhereConditions: []models.WhereCondition{{ColumnName: "id", Operator: "=", Value: "1"}},
	}

	generated, errs := Generate(structure, true)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if generated.SQL != "SELECT id\nFROM users\nWHERE id = '1'" {
		t.Errorf("unexpected pretty output %q", generated.SQL)
	}
}

func TestGenerate_ValidationCollectsAllErrors(t *testing.T) {
	_, errs := Generate(&models.QueryStructure{}, false)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}

	_, errs = Generate(&models.QueryStructure{
		SelectColumns: []models.SelectColumn{{ColumnName: ""}, {ColumnName: "ok"}},
		FromTables:    []models.FromTable{{TableName: "  "}},
	}, false)
	if len(errs) != 2 {
		t.Fatalf("expected blank-name errors for column 1 and table 1, got %v", errs)
	}
	if !strings.Contains(errs[0], "select column 1") {
		t.Errorf("unexpected error %q", errs[0])
	}
	if !strings.Contains(errs[1], "from table 1") {
		t.Errorf("unexpected error %q", errs[1])
	}
}

func TestGenerate_ParameterDetection(t *testing.T) {
	structure := &models.QueryStructure{
		SelectColumns: []models.SelectColumn{{ColumnName: "id"}},
		FromTables:    []models.FromTable{{TableName: "users"}},
		WhereConditions: []models.WhereCondition{
			{ColumnName: "name", Operator: "=", Value: ":name"},
			{ColumnName: "age", Operator: "BETWEEN", MinValue: ":minAge", MaxValue: ":maxAge"},
		},
	}

	generated, errs := Generate(structure, false)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	expected := map[string]string{"name": "string", "minAge": "string", "maxAge": "string"}
	if !reflect.DeepEqual(generated.Parameters, expected) {
		t.Errorf("parameters: got %v, want %v", generated.Parameters, expected)
	}
}
