package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/db"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/dberrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const employeeHoursDateConstraint = "employee_hours_employee_id_date_worked_key"

// EmployeeHoursRepository handles timesheet entries
type EmployeeHoursRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEmployeeHoursRepository creates a new EmployeeHoursRepository
func NewEmployeeHoursRepository(db *pgxpool.Pool) *EmployeeHoursRepository {
	return &EmployeeHoursRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *EmployeeHoursRepository) selectHours() squirrel.SelectBuilder {
	return r.sb.Select("id", "employee_id", "work_hours", "pto_hours", "extra_hours",
		"date_worked", "comment", "last_updated", "entry_created").
		From("employee_hours")
}

func scanEmployeeHours(row rowScanner) (*models.EmployeeHours, error) {
	var h models.EmployeeHours
	if err := row.Scan(&h.ID, &h.EmployeeID, &h.WorkHours, &h.PTOHours, &h.ExtraHours,
		&h.DateWorked, &h.Comment, &h.LastUpdated, &h.EntryCreated); err != nil {
		return nil, err
	}
	return &h, nil
}

// Create inserts a single entry. An existing entry for the same date yields ErrResourceAlreadyExists.
func (r *EmployeeHoursRepository) Create(ctx context.Context, h *models.EmployeeHours) error {
	sql, args, err := r.sb.Insert("employee_hours").
		Columns("employee_id", "work_hours", "pto_hours", "extra_hours", "date_worked", "comment").
		Values(h.EmployeeID, h.WorkHours, h.PTOHours, h.ExtraHours, h.DateWorked, h.Comment).
		Suffix("RETURNING id, last_updated, entry_created").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create employee hours SQL")
		return fmt.Errorf("failed to build create employee hours query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&h.ID, &h.LastUpdated, &h.EntryCreated); err != nil {
		if dberrors.IsDuplicateConstraintError(err, employeeHoursDateConstraint) {
			return fmt.Errorf("%w: Duplicate date entry for %s, please update the existing entry instead",
				apperrors.ErrResourceAlreadyExists, h.DateWorked.Format("2006-01-02"))
		}
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrEmployeeNotFound, h.EmployeeID)
		}
		logger.Error().Err(err).Str("employeeID", h.EmployeeID).Msg("Error executing create employee hours query")
		return fmt.Errorf("error creating employee hours: %w", err)
	}
	return nil
}

// Get retrieves the entry of an employee for a date
func (r *EmployeeHoursRepository) Get(ctx context.Context, employeeID string, date time.Time) (*models.EmployeeHours, error) {
	sql, args, err := r.selectHours().
		Where(squirrel.Eq{"employee_id": employeeID, "date_worked": date}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get employee hours SQL")
		return nil, fmt.Errorf("failed to build get employee hours query: %w", err)
	}

	h, err := scanEmployeeHours(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no time sheet for %s on %s", apperrors.ErrResourceNotFound, employeeID, date.Format("2006-01-02"))
		}
		logger.Error().Err(err).Str("employeeID", employeeID).Msg("Error scanning employee hours row")
		return nil, fmt.Errorf("error retrieving employee hours: %w", err)
	}
	return h, nil
}

// Update rewrites the hours and comment of the entry matching EmployeeID and DateWorked
func (r *EmployeeHoursRepository) Update(ctx context.Context, h *models.EmployeeHours) error {
	sql, args, err := r.sb.Update("employee_hours").
		Set("work_hours", h.WorkHours).
		Set("pto_hours", h.PTOHours).
		Set("extra_hours", h.ExtraHours).
		Set("comment", h.Comment).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"employee_id": h.EmployeeID, "date_worked": h.DateWorked}).
		Suffix("RETURNING last_updated").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update employee hours SQL")
		return fmt.Errorf("failed to build update employee hours query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&h.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: no time sheet for %s on %s", apperrors.ErrResourceNotFound, h.EmployeeID, h.DateWorked.Format("2006-01-02"))
		}
		logger.Error().Err(err).Str("employeeID", h.EmployeeID).Msg("Error executing update employee hours query")
		return fmt.Errorf("error updating employee hours: %w", err)
	}
	return nil
}

// Upsert inserts or updates every entry in one transaction
func (r *EmployeeHoursRepository) Upsert(ctx context.Context, entries []models.EmployeeHours) error {
	if len(entries) == 0 {
		return nil
	}

	insert := r.sb.Insert("employee_hours").
		Columns("employee_id", "work_hours", "pto_hours", "extra_hours", "date_worked", "comment")
	for _, h := range entries {
		insert = insert.Values(h.EmployeeID, h.WorkHours, h.PTOHours, h.ExtraHours, h.DateWorked, h.Comment)
	}
	sql, args, err := insert.Suffix(`ON CONFLICT ON CONSTRAINT ` + employeeHoursDateConstraint + ` DO UPDATE SET
		work_hours = EXCLUDED.work_hours,
		pto_hours = EXCLUDED.pto_hours,
		extra_hours = EXCLUDED.extra_hours,
		comment = EXCLUDED.comment,
		last_updated = NOW()`).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert employee hours SQL")
		return fmt.Errorf("failed to build upsert employee hours query: %w", err)
	}

	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Str("employeeID", entries[0].EmployeeID).Int("entries", len(entries)).Msg("Error executing upsert employee hours query")
		return fmt.Errorf("error saving employee hours: %w", err)
	}
	return nil
}

// Delete removes the entries of an employee for the given dates and returns how many were removed
func (r *EmployeeHoursRepository) Delete(ctx context.Context, employeeID string, dates []time.Time) (int64, error) {
	return r.delete(ctx, squirrel.Eq{"employee_id": employeeID, "date_worked": dates})
}

// DeleteAll removes every entry of an employee
func (r *EmployeeHoursRepository) DeleteAll(ctx context.Context, employeeID string) (int64, error) {
	return r.delete(ctx, squirrel.Eq{"employee_id": employeeID})
}

func (r *EmployeeHoursRepository) delete(ctx context.Context, where squirrel.Eq) (int64, error) {
	sql, args, err := r.sb.Delete("employee_hours").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete employee hours SQL")
		return 0, fmt.Errorf("failed to build delete employee hours query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete employee hours query")
		return 0, fmt.Errorf("error deleting employee hours: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListRange returns an employee's entries between from and to inclusive, ordered by date
func (r *EmployeeHoursRepository) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]models.EmployeeHours, error) {
	sql, args, err := r.selectHours().
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.GtOrEq{"date_worked": from}).
		Where(squirrel.LtOrEq{"date_worked": to}).
		OrderBy("date_worked").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list employee hours SQL")
		return nil, fmt.Errorf("failed to build list employee hours query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("employeeID", employeeID).Msg("Error executing list employee hours query")
		return nil, fmt.Errorf("error listing employee hours: %w", err)
	}
	defer rows.Close()

	entries := []models.EmployeeHours{}
	for rows.Next() {
		h, err := scanEmployeeHours(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning employee hours: %w", err)
		}
		entries = append(entries, *h)
	}
	return entries, rows.Err()
}

// Count returns the number of timesheet entries
func (r *EmployeeHoursRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, r.sb.Select("COUNT(*)").From("employee_hours"))
}

// ExistsForEmployees reports whether any of the employees has timesheet entries
func (r *EmployeeHoursRepository) ExistsForEmployees(ctx context.Context, employeeIDs []string) (bool, error) {
	n, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("employee_hours").Where(squirrel.Eq{"employee_id": employeeIDs}))
	return n > 0, err
}
