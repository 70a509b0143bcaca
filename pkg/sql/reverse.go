package sql

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/format"
	"github.com/pingcap/tidb/parser/opcode"
	driver "github.com/pingcap/tidb/parser/test_driver"

	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/models"
)

var (
	// ErrEmptySQL is returned when the input is blank.
	ErrEmptySQL = errors.New("SQL query is empty")

	// ErrNotSelect is returned when the input parses but is not a single
	// SELECT statement.
	ErrNotSelect = errors.New("Only SELECT statements are supported for reverse engineering")
)

// ReverseEngineer parses SQL text back into a QueryStructure for interactive
// editing.
//
// Failure semantics are asymmetric on purpose: a grammar-level syntax error
// is NOT an error here — the caller gets a minimal SELECT * shell so the UI
// always has something editable — while blank input and statements that are
// not a single SELECT are rejected explicitly. Any unexpected internal fault
// is wrapped as "Failed to parse SQL: ..." with the underlying message kept
// for diagnostics.
func ReverseEngineer(sqlQuery string) (st *models.QueryStructure, err error) {
	if strings.TrimSpace(sqlQuery) == "" {
		return nil, ErrEmptySQL
	}

	// Stacked statements are "not a single SELECT", same as the
	// parser-level statement count check below.
	normalized := ValidateAndNormalize(sqlQuery)
	if errors.Is(normalized.Error, ErrMultipleStatements) {
		return nil, ErrNotSelect
	}
	if normalized.Error != nil {
		return nil, fmt.Errorf("Failed to parse SQL: %v", normalized.Error)
	}

	// The grammar has no :name placeholder syntax, so rewrite them to ?
	// markers first and map markers back to names by offset afterwards.
	rewritten := RewritePositional(normalized.NormalizedSQL, QuestionMark)

	stmts, _, parseErr := parser.New().Parse(rewritten.SQL, "", "")
	if parseErr != nil {
		return fallbackStructure(), nil
	}
	if len(stmts) != 1 {
		return nil, ErrNotSelect
	}
	sel, ok := stmts[0].(*ast.SelectStmt)
	if !ok {
		return nil, ErrNotSelect
	}

	defer func() {
		if r := recover(); r != nil {
			st = nil
			err = fmt.Errorf("Failed to parse SQL: %v", r)
		}
	}()

	st, convErr := convertSelect(sel, newParamIndex(rewritten))
	if convErr != nil {
		return nil, fmt.Errorf("Failed to parse SQL: %v", convErr)
	}
	return st, nil
}

// fallbackStructure is the editable shell handed out on syntax errors:
// SELECT * from a single table the user fills in.
func fallbackStructure() *models.QueryStructure {
	return &models.QueryStructure{
		SelectColumns: []models.SelectColumn{{ColumnName: "*"}},
		FromTables:    []models.FromTable{{TableName: ""}},
	}
}

// paramIndex maps a ? marker's byte offset in the rewritten SQL back to the
// original :name it replaced.
type paramIndex struct {
	positions []int
	names     []string
}

func newParamIndex(rw RewriteResult) *paramIndex {
	return &paramIndex{positions: rw.Positions, names: rw.Names}
}

func (p *paramIndex) nameAt(offset int) string {
	i := sort.SearchInts(p.positions, offset)
	if i < len(p.positions) && p.positions[i] == offset {
		return p.names[i]
	}
	return "param"
}

func convertSelect(sel *ast.SelectStmt, params *paramIndex) (*models.QueryStructure, error) {
	st := &models.QueryStructure{Distinct: sel.Distinct}

	if sel.Fields != nil {
		for _, field := range sel.Fields.Fields {
			st.SelectColumns = append(st.SelectColumns, convertSelectField(field, params))
		}
	}

	if sel.From != nil {
		walkFrom(sel.From.TableRefs, st)
	}

	if sel.Where != nil {
		conds, err := exprToConditions(sel.Where, params)
		if err != nil {
			return nil, err
		}
		st.WhereConditions = conds
	}

	if sel.GroupBy != nil {
		for _, item := range sel.GroupBy.Items {
			table, column := columnRef(item.Expr)
			st.GroupByColumns = append(st.GroupByColumns, models.GroupByColumn{
				TableName:  table,
				ColumnName: column,
			})
		}
	}

	if sel.Having != nil {
		conds, err := exprToConditions(sel.Having.Expr, params)
		if err != nil {
			return nil, err
		}
		st.HavingConditions = conds
	}

	if sel.OrderBy != nil {
		for _, item := range sel.OrderBy.Items {
			table, column := columnRef(item.Expr)
			direction := models.SortAsc
			if item.Desc {
				direction = models.SortDesc
			}
			st.OrderByColumns = append(st.OrderByColumns, models.OrderByColumn{
				TableName:  table,
				ColumnName: column,
				Direction:  direction,
			})
		}
	}

	if sel.Limit != nil {
		if v, ok := intValue(sel.Limit.Count); ok {
			st.Limit = &v
		}
		if v, ok := intValue(sel.Limit.Offset); ok {
			st.Offset = &v
		}
	}

	return st, nil
}

func convertSelectField(field *ast.SelectField, params *paramIndex) models.SelectColumn {
	if field.WildCard != nil {
		return models.SelectColumn{
			TableName:  field.WildCard.Table.O,
			ColumnName: "*",
		}
	}

	col := models.SelectColumn{Alias: field.AsName.O}

	switch e := field.Expr.(type) {
	case *ast.ColumnNameExpr:
		col.TableName = e.Name.Table.O
		col.ColumnName = e.Name.Name.O
	case *ast.AggregateFuncExpr:
		col.AggregateFunction = strings.ToUpper(e.F)
		col.Distinct = e.Distinct
		col.TableName, col.ColumnName = aggregateArg(e.Args)
	case *ast.FuncCallExpr:
		col.AggregateFunction = strings.ToUpper(e.FnName.O)
		col.TableName, col.ColumnName = aggregateArg(e.Args)
	default:
		col.ColumnName = restoreExpr(e)
	}

	return col
}

// aggregateArg extracts the column reference inside an aggregate call.
// COUNT(*) reaches the grammar as count(1), so a bare literal argument (or
// none at all) maps back to "*".
func aggregateArg(args []ast.ExprNode) (string, string) {
	if len(args) == 0 {
		return "", "*"
	}
	if col, ok := args[0].(*ast.ColumnNameExpr); ok {
		return col.Name.Table.O, col.Name.Name.O
	}
	if _, ok := args[0].(*driver.ValueExpr); ok {
		return "", "*"
	}
	return "", restoreExpr(args[0])
}

// walkFrom flattens the left-deep join tree into ordered FROM tables and
// join clauses. Only plain table sources are supported; derived tables and
// subqueries are skipped. Comma-separated FROM items arrive as cross joins
// without an ON clause and stay plain FROM tables.
func walkFrom(rs ast.ResultSetNode, st *models.QueryStructure) {
	switch n := rs.(type) {
	case *ast.Join:
		walkFrom(n.Left, st)
		if n.Right == nil {
			return
		}
		ts, ok := n.Right.(*ast.TableSource)
		if !ok {
			return
		}
		tn, ok := ts.Source.(*ast.TableName)
		if !ok {
			return
		}
		if n.On == nil {
			st.FromTables = append(st.FromTables, models.FromTable{
				TableName: tn.Name.O,
				Alias:     ts.AsName.O,
			})
			return
		}
		st.Joins = append(st.Joins, models.JoinClause{
			JoinType:   joinTypeOf(n.Tp),
			TableName:  tn.Name.O,
			Alias:      ts.AsName.O,
			Conditions: joinConditions(n.On.Expr),
		})
	case *ast.TableSource:
		if tn, ok := n.Source.(*ast.TableName); ok {
			st.FromTables = append(st.FromTables, models.FromTable{
				TableName: tn.Name.O,
				Alias:     n.AsName.O,
			})
		}
	}
}

// joinTypeOf maps the grammar's join flags; a bare JOIN ... ON arrives as a
// cross join with an ON clause and defaults to INNER. FULL OUTER never
// reaches here because the grammar rejects it, which surfaces as the
// syntax-error fallback.
func joinTypeOf(tp ast.JoinType) models.JoinType {
	switch tp {
	case ast.LeftJoin:
		return models.JoinLeft
	case ast.RightJoin:
		return models.JoinRight
	default:
		return models.JoinInner
	}
}

// joinConditions decomposes an ON predicate into its ANDed atomic
// comparisons. Both sides must be column references; anything else is
// dropped rather than failing the whole parse.
func joinConditions(expr ast.ExprNode) []models.JoinCondition {
	switch e := expr.(type) {
	case *ast.BinaryOperationExpr:
		if e.Op == opcode.LogicAnd {
			return append(joinConditions(e.L), joinConditions(e.R)...)
		}
		left, lok := e.L.(*ast.ColumnNameExpr)
		right, rok := e.R.(*ast.ColumnNameExpr)
		if !lok || !rok {
			return nil
		}
		return []models.JoinCondition{{
			LeftTable:   left.Name.Table.O,
			LeftColumn:  left.Name.Name.O,
			Operator:    comparisonOp(e.Op),
			RightTable:  right.Name.Table.O,
			RightColumn: right.Name.Name.O,
		}}
	case *ast.ParenthesesExpr:
		return joinConditions(e.Expr)
	default:
		return nil
	}
}

// exprToConditions decomposes a compound boolean expression into the flat
// ordered condition list the UI edits. OR has lower precedence than AND, and
// each condition after the first records the connective that attached it to
// the previous one. The AND inside a BETWEEN range is part of the range
// expression in the tree, so it can never be mistaken for a connective.
func exprToConditions(expr ast.ExprNode, params *paramIndex) ([]models.WhereCondition, error) {
	switch e := expr.(type) {
	case *ast.BinaryOperationExpr:
		switch e.Op {
		case opcode.LogicAnd, opcode.LogicOr:
			left, err := exprToConditions(e.L, params)
			if err != nil {
				return nil, err
			}
			right, err := exprToConditions(e.R, params)
			if err != nil {
				return nil, err
			}
			if len(right) > 0 {
				right[0].LogicalOperator = logicalOp(e.Op)
			}
			return append(left, right...), nil
		default:
			table, column := columnRef(e.L)
			return []models.WhereCondition{{
				TableName:  table,
				ColumnName: column,
				Operator:   comparisonOp(e.Op),
				Value:      valueText(e.R, params),
			}}, nil
		}

	case *ast.PatternInExpr:
		table, column := columnRef(e.Expr)
		cond := models.WhereCondition{
			TableName:  table,
			ColumnName: column,
			Operator:   "IN",
			Negated:    e.Not,
		}
		for _, item := range e.List {
			cond.Values = append(cond.Values, valueText(item, params))
		}
		return []models.WhereCondition{cond}, nil

	case *ast.PatternLikeOrIlikeExpr:
		table, column := columnRef(e.Expr)
		return []models.WhereCondition{{
			TableName:  table,
			ColumnName: column,
			Operator:   "LIKE",
			Negated:    e.Not,
			Value:      valueText(e.Pattern, params),
		}}, nil

	case *ast.BetweenExpr:
		table, column := columnRef(e.Expr)
		return []models.WhereCondition{{
			TableName:  table,
			ColumnName: column,
			Operator:   "BETWEEN",
			Negated:    e.Not,
			MinValue:   valueText(e.Left, params),
			MaxValue:   valueText(e.Right, params),
		}}, nil

	case *ast.IsNullExpr:
		table, column := columnRef(e.Expr)
		op := "IS NULL"
		if e.Not {
			op = "IS NOT NULL"
		}
		return []models.WhereCondition{{
			TableName:  table,
			ColumnName: column,
			Operator:   op,
		}}, nil

	case *ast.UnaryOperationExpr:
		if e.Op == opcode.Not {
			conds, err := exprToConditions(e.V, params)
			if err != nil {
				return nil, err
			}
			if len(conds) == 1 {
				conds[0].Negated = !conds[0].Negated
			}
			return conds, nil
		}
		return nil, fmt.Errorf("unsupported condition %q", restoreExpr(e))

	case *ast.ParenthesesExpr:
		return exprToConditions(e.Expr, params)

	default:
		return nil, fmt.Errorf("unsupported condition %q", restoreExpr(e))
	}
}

func logicalOp(op opcode.Op) string {
	if op == opcode.LogicOr {
		return "OR"
	}
	return "AND"
}

func comparisonOp(op opcode.Op) string {
	switch op {
	case opcode.EQ:
		return "="
	case opcode.NE:
		return "<>"
	case opcode.LT:
		return "<"
	case opcode.GT:
		return ">"
	case opcode.LE:
		return "<="
	case opcode.GE:
		return ">="
	default:
		return op.String()
	}
}

// columnRef resolves an expression to a (table, column) pair, qualifier
// before the last dot. Non-column expressions (aggregate calls in HAVING,
// for instance) keep their rendered text as the column name.
func columnRef(expr ast.ExprNode) (string, string) {
	switch e := expr.(type) {
	case *ast.ColumnNameExpr:
		return e.Name.Table.O, e.Name.Name.O
	case *ast.ParenthesesExpr:
		return columnRef(e.Expr)
	default:
		return "", restoreExpr(expr)
	}
}

// valueText renders the right-hand side of a condition: literals lose their
// surrounding quotes, ? markers map back to their :name form, and column
// references stay qualified.
func valueText(expr ast.ExprNode, params *paramIndex) string {
	switch e := expr.(type) {
	case *driver.ParamMarkerExpr:
		return ":" + params.nameAt(e.Offset)
	case *driver.ValueExpr:
		return datumText(e)
	case *ast.ColumnNameExpr:
		if e.Name.Table.O != "" {
			return e.Name.Table.O + "." + e.Name.Name.O
		}
		return e.Name.Name.O
	case *ast.UnaryOperationExpr:
		if e.Op == opcode.Minus {
			return "-" + valueText(e.V, params)
		}
		return restoreExpr(expr)
	default:
		return restoreExpr(expr)
	}
}

func datumText(v *driver.ValueExpr) string {
	switch v.Kind() {
	case driver.KindInt64:
		return strconv.FormatInt(v.GetInt64(), 10)
	case driver.KindUint64:
		return strconv.FormatUint(v.GetUint64(), 10)
	case driver.KindFloat32, driver.KindFloat64:
		return fmt.Sprintf("%v", v.GetValue())
	case driver.KindString, driver.KindBytes:
		return v.GetString()
	case driver.KindNull:
		return "NULL"
	default:
		return fmt.Sprintf("%v", v.GetValue())
	}
}

func intValue(expr ast.ExprNode) (int, bool) {
	v, ok := expr.(*driver.ValueExpr)
	if !ok {
		return 0, false
	}
	switch v.Kind() {
	case driver.KindInt64:
		return int(v.GetInt64()), true
	case driver.KindUint64:
		return int(v.GetUint64()), true
	default:
		return 0, false
	}
}

func restoreExpr(node ast.Node) string {
	var b strings.Builder
	ctx := format.NewRestoreCtx(format.RestoreStringSingleQuotes|format.RestoreKeyWordUppercase, &b)
	if err := node.Restore(ctx); err != nil {
		return ""
	}
	return b.String()
}
