// Package services orchestrates the SQL structure mapper: building SQL from
// edited structures, importing raw SQL back into structures, and preparing
// named-parameter SQL for execution.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/apperrors"
	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/config"
	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/database"
	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/logging"
	"github.com/agwlvssainokuni/sqlapp2-sub001/pkg/models"
	mapper "github.com/agwlvssainokuni/sqlapp2-sub001/pkg/sql"
)

// BuildResult is the outcome of building SQL from a structure. Exactly one
// of SQL/Errors is populated: Errors carries the complete list of
// validation violations.
type BuildResult struct {
	SQL        string                  `json:"sql,omitempty"`
	Parameters []models.QueryParameter `json:"parameters,omitempty"`
	Errors     []string                `json:"errors,omitempty"`
}

// PreparedQuery is positional SQL with its ordered bind values, ready for a
// driver.
type PreparedQuery struct {
	SQL  string
	Args []any
}

// QueryService glues the mapper components together for the surrounding
// application. It holds no mutable state; every call works on its own data.
type QueryService struct {
	cfg    config.MapperConfig
	logger *zap.Logger
}

func NewQueryService(cfg config.MapperConfig, logger *zap.Logger) *QueryService {
	return &QueryService{cfg: cfg, logger: logger}
}

// Build renders a structure into SQL and reports the named parameters
// detected in the result. Validation failures come back as the full list of
// violations, never just the first.
func (s *QueryService) Build(structure *models.QueryStructure) *BuildResult {
	generated, errs := mapper.Generate(structure, s.cfg.PrettyGenerate)
	if len(errs) > 0 {
		s.logger.Debug("structure validation failed", zap.Strings("errors", errs))
		return &BuildResult{Errors: errs}
	}

	result := &BuildResult{SQL: generated.SQL}
	for _, name := range mapper.DetectParameterNames(generated.SQL) {
		result.Parameters = append(result.Parameters, models.QueryParameter{
			Name:     name,
			Type:     generated.Parameters[name],
			Required: true,
		})
	}

	return result
}

// BuildQuery assembles a saved-query record from a structure: fresh
// identity, the rendered SQL, and the parameters detected in it.
// Persistence belongs to the surrounding application; the record comes back
// fully populated and ready to store.
func (s *QueryService) BuildQuery(connectionID uuid.UUID, name, dialect string, structure *models.QueryStructure) (*models.Query, error) {
	result := s.Build(structure)
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("invalid query structure: %s", strings.Join(result.Errors, "; "))
	}

	now := time.Now().UTC()
	return &models.Query{
		ID:           uuid.New(),
		ConnectionID: connectionID,
		Name:         name,
		SQLQuery:     result.SQL,
		Dialect:      dialect,
		Parameters:   result.Parameters,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Import reverse-engineers existing SQL into an editable structure,
// applying the configured input-size policy first. The mapper core itself
// enforces no length limit.
func (s *QueryService) Import(sqlText string) (*models.QueryStructure, error) {
	if err := s.checkLength(sqlText); err != nil {
		return nil, err
	}

	structure, err := mapper.ReverseEngineer(sqlText)
	if err != nil {
		s.logger.Debug("reverse engineering rejected input",
			zap.String("sql", logging.SanitizeQuery(sqlText)),
			zap.Error(err))
		return nil, err
	}

	return structure, nil
}

// Prepare normalizes named-parameter SQL and rewrites it for the given
// placeholder style: extraction, injection screening of the supplied
// values, then the positional rewrite.
func (s *QueryService) Prepare(sqlText string, values map[string]any, style mapper.PlaceholderStyle) (*PreparedQuery, error) {
	if err := s.checkLength(sqlText); err != nil {
		return nil, err
	}

	normalized := mapper.ValidateAndNormalize(sqlText)
	if normalized.Error != nil {
		return nil, normalized.Error
	}

	if s.cfg.RejectInjection {
		for _, failure := range mapper.CheckBindValues(values) {
			s.logger.Warn("injection pattern in bind value",
				zap.String("parameter", failure.ParamName),
				zap.String("fingerprint", failure.Fingerprint))
			return nil, fmt.Errorf("%w: parameter %q", apperrors.ErrInjectionDetected, failure.ParamName)
		}
	}

	positional, args, err := mapper.BindForStyle(normalized.NormalizedSQL, values, style)
	if err != nil {
		return nil, err
	}

	return &PreparedQuery{SQL: positional, Args: args}, nil
}

// Execute prepares named-parameter SQL for the executor's dialect and runs
// it.
func (s *QueryService) Execute(ctx context.Context, exec *database.Executor, sqlText string, values map[string]any) (*database.QueryResult, error) {
	if exec == nil {
		return nil, apperrors.ErrExecutionNotReady
	}

	prepared, err := s.Prepare(sqlText, values, exec.Dialect().Placeholder)
	if err != nil {
		return nil, err
	}

	return exec.Query(ctx, prepared.SQL, prepared.Args)
}

func (s *QueryService) checkLength(sqlText string) error {
	if s.cfg.MaxSQLLength > 0 && len(sqlText) > s.cfg.MaxSQLLength {
		return fmt.Errorf("%w: %d bytes, limit %d", apperrors.ErrSQLTooLong, len(sqlText), s.cfg.MaxSQLLength)
	}
	return nil
}
