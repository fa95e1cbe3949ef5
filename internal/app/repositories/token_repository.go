package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/dberrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenBlacklistRepository handles access tokens invalidated by logout
type TokenBlacklistRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenBlacklistRepository creates a new TokenBlacklistRepository
func NewTokenBlacklistRepository(db *pgxpool.Pool) *TokenBlacklistRepository {
	return &TokenBlacklistRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add blacklists a token. A token already in the blacklist yields ErrResourceAlreadyExists.
func (r *TokenBlacklistRepository) Add(ctx context.Context, token *models.BlacklistedToken) error {
	sql, args, err := r.sb.Insert("token_blacklist").
		Columns("access_token", "iss", "exp").
		Values(token.AccessToken, token.Iss, token.Exp).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building blacklist token SQL")
		return fmt.Errorf("failed to build blacklist token query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "token_blacklist_access_token_key") {
			return fmt.Errorf("%w: Token already invalidated", apperrors.ErrResourceAlreadyExists)
		}
		logger.Error().Err(err).Msg("Error executing blacklist token query")
		return fmt.Errorf("error blacklisting token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the token was invalidated
func (r *TokenBlacklistRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("token_blacklist").Where(squirrel.Eq{"access_token": token}))
	return n > 0, err
}

// DeleteExpired removes tokens that expired before now
func (r *TokenBlacklistRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return deleteExpired(ctx, r.db, r.sb, "token_blacklist", now)
}

// ResetTokenRepository handles password reset codes, at most one per employee
type ResetTokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResetTokenRepository creates a new ResetTokenRepository
func NewResetTokenRepository(db *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert stores the employee's reset code, replacing a previous one
func (r *ResetTokenRepository) Upsert(ctx context.Context, token *models.ResetToken) error {
	sql, args, err := r.sb.Insert("reset_tokens").
		Columns("employee_id", "token", "iss", "exp").
		Values(token.EmployeeID, token.Token, token.Iss, token.Exp).
		Suffix(`ON CONFLICT (employee_id) DO UPDATE SET
			token = EXCLUDED.token,
			iss = EXCLUDED.iss,
			exp = EXCLUDED.exp
		RETURNING id, entry_created`).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert reset token SQL")
		return fmt.Errorf("failed to build upsert reset token query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&token.ID, &token.EntryCreated); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "reset_tokens_token_key") {
			return fmt.Errorf("%w: reset code collision", apperrors.ErrResourceAlreadyExists)
		}
		logger.Error().Err(err).Str("employeeID", token.EmployeeID).Msg("Error executing upsert reset token query")
		return fmt.Errorf("error saving reset token: %w", err)
	}
	return nil
}

// GetByToken retrieves a reset code
func (r *ResetTokenRepository) GetByToken(ctx context.Context, code string) (*models.ResetToken, error) {
	sql, args, err := r.sb.Select("id", "employee_id", "token", "iss", "exp", "entry_created").
		From("reset_tokens").
		Where(squirrel.Eq{"token": code}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get reset token SQL")
		return nil, fmt.Errorf("failed to build get reset token query: %w", err)
	}

	var t models.ResetToken
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.EmployeeID, &t.Token, &t.Iss, &t.Exp, &t.EntryCreated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: The provided reset code is invalid", apperrors.ErrResetCodeInvalid)
		}
		logger.Error().Err(err).Msg("Error scanning reset token row")
		return nil, fmt.Errorf("error retrieving reset token: %w", err)
	}
	return &t, nil
}

// DeleteByEmployeeID removes the employee's reset code
func (r *ResetTokenRepository) DeleteByEmployeeID(ctx context.Context, employeeID string) error {
	sql, args, err := r.sb.Delete("reset_tokens").Where(squirrel.Eq{"employee_id": employeeID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete reset token SQL")
		return fmt.Errorf("failed to build delete reset token query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("employeeID", employeeID).Msg("Error executing delete reset token query")
		return fmt.Errorf("error deleting reset token: %w", err)
	}
	return nil
}

// DeleteExpired removes codes that expired before now
func (r *ResetTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return deleteExpired(ctx, r.db, r.sb, "reset_tokens", now)
}

func deleteExpired(ctx context.Context, q querier, sb squirrel.StatementBuilderType, table string, now time.Time) (int64, error) {
	sql, args, err := sb.Delete(table).Where(squirrel.LtOrEq{"exp": now.Unix()}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building delete expired SQL")
		return 0, fmt.Errorf("failed to build delete expired query: %w", err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error executing delete expired query")
		return 0, fmt.Errorf("error deleting expired rows from %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}
