package apperrors

import "errors"

var (
	ErrSQLTooLong        = errors.New("SQL text exceeds the configured maximum length")
	ErrInjectionDetected = errors.New("potential SQL injection detected in bind value")
	ErrUnsupportedRDBMS  = errors.New("unsupported database type")
	ErrExecutionNotReady = errors.New("no database connection configured")
)
