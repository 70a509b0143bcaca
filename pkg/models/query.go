package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryParameter describes a single named parameter detected in a query.
// Type defaults to "string" when nothing better can be inferred from the SQL
// text alone.
type QueryParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// Query is a saved SQL query with the metadata the surrounding application
// persists. The mapper itself never stores these; it only fills in SQLQuery
// and Parameters.
type Query struct {
	ID           uuid.UUID        `json:"id"`
	ConnectionID uuid.UUID        `json:"connection_id"`
	Name         string           `json:"name"`
	Description  *string          `json:"description,omitempty"`
	SQLQuery     string           `json:"sql_query"`
	Dialect      string           `json:"dialect"`
	Parameters   []QueryParameter `json:"parameters,omitempty"`
	UsageCount   int              `json:"usage_count"`
	LastUsedAt   *time.Time       `json:"last_used_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
