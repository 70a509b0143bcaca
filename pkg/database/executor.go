// Package database runs prepared positional SQL against a target RDBMS.
// It maps the application's connection types to their Go drivers and
// placeholder styles; everything above it works with named :name
// placeholders and never touches a driver directly.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"

	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/apperrors"
	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/logging"
	mapper "github.com/agwlvssainokuni/sqlapp2-sub001/pkg/sql"
)

// Dialect ties a configured database type to its driver and placeholder
// style.
type Dialect struct {
	Name        string
	DriverName  string
	Placeholder mapper.PlaceholderStyle
}

// DialectFor resolves a configured database type string.
func DialectFor(dbType string) (Dialect, error) {
	switch dbType {
	case "mysql":
		return Dialect{Name: dbType, DriverName: "mysql", Placeholder: mapper.StyleQuestion}, nil
	case "postgresql":
		return Dialect{Name: dbType, DriverName: "pgx", Placeholder: mapper.StyleDollar}, nil
	case "sqlserver":
		return Dialect{Name: dbType, DriverName: "sqlserver", Placeholder: mapper.StyleAtP}, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedRDBMS, dbType)
	}
}

// QueryResult is a fully materialized result set.
type QueryResult struct {
	Columns  []string      `json:"columns"`
	Rows     [][]any       `json:"rows"`
	RowCount int           `json:"row_count"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Executor runs positional SQL over a single database handle.
type Executor struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// Open connects to the configured database. The DSN is never logged
// unsanitized.
func Open(dbType, dsn string, logger *zap.Logger) (*Executor, error) {
	dialect, err := DialectFor(dbType)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection to %s: %w",
			dialect.Name, logging.SanitizeDSN(dsn), err)
	}

	logger.Info("database connection opened",
		zap.String("type", dialect.Name),
		zap.String("dsn", logging.SanitizeDSN(dsn)))

	return &Executor{db: db, dialect: dialect, logger: logger}, nil
}

// Dialect returns the dialect this executor binds with.
func (e *Executor) Dialect() Dialect {
	return e.dialect
}

// Close releases the underlying handle.
func (e *Executor) Close() error {
	return e.db.Close()
}

// Query executes positional SQL with ordered bind values and materializes
// the full result set. Cell values are scanned as driver-native types with
// []byte normalized to string.
func (e *Executor) Query(ctx context.Context, positionalSQL string, args []any) (*QueryResult, error) {
	start := time.Now()

	rows, err := e.db.QueryContext(ctx, positionalSQL, args...)
	if err != nil {
		e.logger.Warn("query failed",
			zap.String("sql", logging.SanitizeQuery(positionalSQL)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &QueryResult{Columns: columns}
	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, cell := range cells {
			if b, ok := cell.([]byte); ok {
				cells[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	result.RowCount = len(result.Rows)
	result.Elapsed = time.Since(start)

	e.logger.Debug("query executed",
		zap.String("sql", logging.SanitizeQuery(positionalSQL)),
		zap.Int("rows", result.RowCount),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}
