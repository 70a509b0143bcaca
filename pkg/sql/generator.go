package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/models"
)

// GeneratedSQL is the successful output of Generate: the rendered statement
// and the named parameters detected in it, mapped to an inferred type.
// The type map is display metadata only; binding goes through
// BindNamedParameters.
type GeneratedSQL struct {
	SQL        string
	Parameters map[string]string
}

// Generate renders a QueryStructure into SQL text. On validation failure it
// returns the complete list of human-readable violations and no SQL; the
// list is never truncated to the first error.
//
// Literal values are embedded as quoted text without escaping embedded
// quotes. That is acceptable only because values originate from structured
// UI input; anything untrusted must go through named parameters and
// BindNamedParameters instead.
func Generate(s *models.QueryStructure, pretty bool) (*GeneratedSQL, []string) {
	if errs := validateStructure(s); len(errs) > 0 {
		return nil, errs
	}

	sep := " "
	if pretty {
		sep = "\n"
	}

	var b strings.Builder

	b.WriteString("SELECT ")
	if selectDistinct(s) {
		b.WriteString("DISTINCT ")
	}
	for i, col := range s.SelectColumns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(renderSelectColumn(col))
	}

	b.WriteString(sep)
	b.WriteString("FROM ")
	for i, tbl := range s.FromTables {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(renderTable(tbl.TableName, tbl.Alias))
	}

	for _, join := range s.Joins {
		b.WriteString(sep)
		b.WriteString(string(join.JoinType))
		b.WriteString(" JOIN ")
		b.WriteString(renderTable(join.TableName, join.Alias))
		if len(join.Conditions) > 0 {
			b.WriteString(" ON ")
			for i, cond := range join.Conditions {
				if i > 0 {
					b.WriteString(" AND ")
				}
				b.WriteString(renderJoinCondition(cond))
			}
		}
	}

	if len(s.WhereConditions) > 0 {
		b.WriteString(sep)
		b.WriteString("WHERE ")
		b.WriteString(renderConditions(s.WhereConditions))
	}

	if len(s.GroupByColumns) > 0 {
		b.WriteString(sep)
		b.WriteString("GROUP BY ")
		for i, col := range s.GroupByColumns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(qualifiedColumn(col.TableName, col.ColumnName))
		}
	}

	if len(s.HavingConditions) > 0 {
		b.WriteString(sep)
		b.WriteString("HAVING ")
		b.WriteString(renderConditions(s.HavingConditions))
	}

	if len(s.OrderByColumns) > 0 {
		b.WriteString(sep)
		b.WriteString("ORDER BY ")
		for i, col := range s.OrderByColumns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(qualifiedColumn(col.TableName, col.ColumnName))
			if col.Direction != "" {
				b.WriteString(" ")
				b.WriteString(string(col.Direction))
			}
		}
	}

	if s.Limit != nil && *s.Limit > 0 {
		b.WriteString(sep)
		b.WriteString("LIMIT ")
		b.WriteString(strconv.Itoa(*s.Limit))
		if s.Offset != nil && *s.Offset > 0 {
			b.WriteString(" OFFSET ")
			b.WriteString(strconv.Itoa(*s.Offset))
		}
	}

	generated := b.String()

	params := make(map[string]string)
	for _, name := range DetectParameterNames(generated) {
		params[name] = "string"
	}

	return &GeneratedSQL{SQL: generated, Parameters: params}, nil
}

// validateStructure collects every structural defect instead of stopping at
// the first, so the UI can surface all of them at once.
func validateStructure(s *models.QueryStructure) []string {
	var errs []string

	if len(s.SelectColumns) == 0 {
		errs = append(errs, "at least one select column is required")
	}
	if len(s.FromTables) == 0 {
		errs = append(errs, "at least one from table is required")
	}
	for i, col := range s.SelectColumns {
		if strings.TrimSpace(col.ColumnName) == "" {
			errs = append(errs, fmt.Sprintf("select column %d has a blank column name", i+1))
		}
	}
	for i, tbl := range s.FromTables {
		if strings.TrimSpace(tbl.TableName) == "" {
			errs = append(errs, fmt.Sprintf("from table %d has a blank table name", i+1))
		}
	}

	return errs
}

// selectDistinct folds the per-column flags into the statement-level one.
func selectDistinct(s *models.QueryStructure) bool {
	if s.Distinct {
		return true
	}
	for _, col := range s.SelectColumns {
		if col.Distinct {
			return true
		}
	}
	return false
}

func renderSelectColumn(col models.SelectColumn) string {
	expr := qualifiedColumn(col.TableName, col.ColumnName)
	if col.AggregateFunction != "" {
		expr = strings.ToUpper(col.AggregateFunction) + "(" + expr + ")"
	}
	if col.Alias != "" {
		expr += " AS " + col.Alias
	}
	return expr
}

func renderTable(name, alias string) string {
	if alias != "" {
		return name + " AS " + alias
	}
	return name
}

func renderJoinCondition(cond models.JoinCondition) string {
	return qualifiedColumn(cond.LeftTable, cond.LeftColumn) +
		" " + cond.Operator + " " +
		qualifiedColumn(cond.RightTable, cond.RightColumn)
}

// renderConditions chains WHERE/HAVING conditions with each condition's own
// logical operator, defaulting to AND when none was recorded.
func renderConditions(conds []models.WhereCondition) string {
	var b strings.Builder

	for i, cond := range conds {
		if i > 0 {
			op := cond.LogicalOperator
			if op == "" {
				op = "AND"
			}
			b.WriteString(" ")
			b.WriteString(strings.ToUpper(op))
			b.WriteString(" ")
		}
		b.WriteString(renderCondition(cond))
	}

	return b.String()
}

func renderCondition(cond models.WhereCondition) string {
	var b strings.Builder

	if cond.Negated {
		b.WriteString("NOT ")
	}
	b.WriteString(qualifiedColumn(cond.TableName, cond.ColumnName))

	op := strings.ToUpper(cond.Operator)
	b.WriteString(" ")
	b.WriteString(op)

	switch op {
	case "IN":
		b.WriteString(" (")
		for i, v := range cond.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("'" + v + "'")
		}
		b.WriteString(")")
	case "BETWEEN":
		min, max := betweenRange(cond)
		b.WriteString(" ")
		b.WriteString(quoteLiteral(min))
		b.WriteString(" AND ")
		b.WriteString(quoteLiteral(max))
	case "IS NULL", "IS NOT NULL":
		// No right-hand value.
	default:
		b.WriteString(" ")
		b.WriteString(quoteLiteral(cond.Value))
	}

	return b.String()
}

// betweenRange prefers MinValue/MaxValue, falling back to the legacy
// two-element Values form.
func betweenRange(cond models.WhereCondition) (string, string) {
	min, max := cond.MinValue, cond.MaxValue
	if min == "" && max == "" && len(cond.Values) >= 2 {
		min, max = cond.Values[0], cond.Values[1]
	}
	return min, max
}

// quoteLiteral single-quotes a literal; :name placeholders pass through
// verbatim so parameter detection still sees them.
func quoteLiteral(v string) string {
	if strings.HasPrefix(v, ":") {
		return v
	}
	return "'" + v + "'"
}

func qualifiedColumn(table, column string) string {
	if table != "" {
		return table + "." + column
	}
	return column
}
