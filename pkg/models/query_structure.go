package models

// JoinType identifies the flavor of a JOIN clause.
type JoinType string

const (
	JoinInner     JoinType = "INNER"
	JoinLeft      JoinType = "LEFT"
	JoinRight     JoinType = "RIGHT"
	JoinFullOuter JoinType = "FULL OUTER"
)

// SortDirection is the ORDER BY direction for a single column.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// QueryStructure is the UI-editable representation of a single SELECT
// statement. It is built fresh per request (by the UI or by reverse
// engineering existing SQL) and treated as immutable once handed to the
// generator. It is never persisted by this package; callers own it
// exclusively.
type QueryStructure struct {
	SelectColumns    []SelectColumn   `json:"select_columns"`
	FromTables       []FromTable      `json:"from_tables"`
	Joins            []JoinClause     `json:"joins,omitempty"`
	WhereConditions  []WhereCondition `json:"where_conditions,omitempty"`
	GroupByColumns   []GroupByColumn  `json:"group_by_columns,omitempty"`
	HavingConditions []WhereCondition `json:"having_conditions,omitempty"`
	OrderByColumns   []OrderByColumn  `json:"order_by_columns,omitempty"`
	Distinct         bool             `json:"distinct,omitempty"`
	Limit            *int             `json:"limit,omitempty"`
	Offset           *int             `json:"offset,omitempty"`
}

// SelectColumn is one item of the SELECT list. ColumnName may be "*".
// AggregateFunction is one of COUNT/SUM/AVG/MIN/MAX or free text; when set,
// the column is rendered inside the function call. The per-column Distinct
// flag renders DISTINCT inside the aggregate.
type SelectColumn struct {
	TableName         string `json:"table_name,omitempty"`
	ColumnName        string `json:"column_name"`
	Alias             string `json:"alias,omitempty"`
	AggregateFunction string `json:"aggregate_function,omitempty"`
	Distinct          bool   `json:"distinct,omitempty"`
}

// FromTable is one entry of the FROM clause.
type FromTable struct {
	TableName string `json:"table_name"`
	Alias     string `json:"alias,omitempty"`
}

// JoinClause is one JOIN with its ON conditions, which are ANDed together.
type JoinClause struct {
	JoinType   JoinType        `json:"join_type"`
	TableName  string          `json:"table_name"`
	Alias      string          `json:"alias,omitempty"`
	Conditions []JoinCondition `json:"conditions,omitempty"`
}

// JoinCondition is a single column-to-column comparison in an ON clause.
// Both sides are column references, never literals.
type JoinCondition struct {
	LeftTable   string `json:"left_table,omitempty"`
	LeftColumn  string `json:"left_column"`
	Operator    string `json:"operator"`
	RightTable  string `json:"right_table,omitempty"`
	RightColumn string `json:"right_column"`
}

// WhereCondition is one atomic predicate of a WHERE or HAVING clause.
//
// LogicalOperator (AND/OR) describes how this condition relates to the
// previous one and is empty on the first condition. Exactly one value form is
// populated depending on Operator: Value for single-operand operators (the
// value may be a :name placeholder), Values for IN (and the legacy
// two-element BETWEEN form), MinValue/MaxValue for BETWEEN. IS NULL and
// IS NOT NULL carry no value at all.
type WhereCondition struct {
	TableName       string   `json:"table_name,omitempty"`
	ColumnName      string   `json:"column_name"`
	Operator        string   `json:"operator"`
	Negated         bool     `json:"negated,omitempty"`
	LogicalOperator string   `json:"logical_operator,omitempty"`
	Value           string   `json:"value,omitempty"`
	Values          []string `json:"values,omitempty"`
	MinValue        string   `json:"min_value,omitempty"`
	MaxValue        string   `json:"max_value,omitempty"`
}

// GroupByColumn is one GROUP BY expression.
type GroupByColumn struct {
	TableName  string `json:"table_name,omitempty"`
	ColumnName string `json:"column_name"`
}

// OrderByColumn is one ORDER BY expression with its direction.
type OrderByColumn struct {
	TableName  string        `json:"table_name,omitempty"`
	ColumnName string        `json:"column_name"`
	Direction  SortDirection `json:"direction"`
}
