package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleRepository handles employee roles
type RoleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByName retrieves a role by name
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.EmployeeRole, error) {
	sql, args, err := r.sb.Select("id", "name", "entry_created").
		From("employee_roles").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get role SQL")
		return nil, fmt.Errorf("failed to build get role query: %w", err)
	}

	var role models.EmployeeRole
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&role.ID, &role.Name, &role.EntryCreated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrRoleNotFound, name)
		}
		logger.Error().Err(err).Str("role", name).Msg("Error scanning role row")
		return nil, fmt.Errorf("error retrieving role: %w", err)
	}
	return &role, nil
}

// Ensure creates the named roles that do not exist yet and returns how many were created
func (r *RoleRepository) Ensure(ctx context.Context, names ...string) (int64, error) {
	insert := r.sb.Insert("employee_roles").Columns("name")
	for _, name := range names {
		insert = insert.Values(name)
	}
	sql, args, err := insert.Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building ensure roles SQL")
		return 0, fmt.Errorf("failed to build ensure roles query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing ensure roles query")
		return 0, fmt.Errorf("error creating roles: %w", err)
	}
	return tag.RowsAffected(), nil
}
