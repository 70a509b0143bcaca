package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/apperrors"
	mapper "github.com/agwlvssainokuni/sqlapp2-sub001/pkg/sql"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType      string
		driverName  string
		placeholder mapper.PlaceholderStyle
	}{
		{dbType: "mysql", driverName: "mysql", placeholder: mapper.StyleQuestion},
		{dbType: "postgresql", driverName: "pgx", placeholder: mapper.StyleDollar},
		{dbType: "sqlserver", driverName: "sqlserver", placeholder: mapper.StyleAtP},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			dialect, err := DialectFor(tt.dbType)
			require.NoError(t, err)
			assert.Equal(t, tt.dbType, dialect.Name)
			assert.Equal(t, tt.driverName, dialect.DriverName)
			assert.Equal(t, tt.placeholder, dialect.Placeholder)
		})
	}
}

func TestDialectFor_Unsupported(t *testing.T) {
	for _, dbType := range []string{"oracle", "sqlite", ""} {
		_, err := DialectFor(dbType)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedRDBMS, dbType)
	}
}
