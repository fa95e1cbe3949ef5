package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/db"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/dberrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	employeeIDConstraint    = "employees_employee_id_key"
	employeeEmailConstraint = "employee_contact_info_primary_email_key"
)

// EmployeeRepository handles employees and their contact info
type EmployeeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *EmployeeRepository) selectEmployees() squirrel.SelectBuilder {
	return r.sb.Select(
		"e.id", "e.employee_id", "e.first_name", "e.last_name", "e.password_hash",
		"e.role_id", "ro.name", "e.pto_hours_enabled", "e.extra_hours_enabled", "e.is_enabled",
		"e.last_updated", "e.entry_created",
		"c.primary_email", "c.secondary_email",
		"c.enable_primary_email_notifications", "c.enable_secondary_email_notifications",
	).From("employees e").
		Join("employee_roles ro ON ro.id = e.role_id").
		Join("employee_contact_info c ON c.employee_id = e.employee_id")
}

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.FirstName, &e.LastName, &e.PasswordHash,
		&e.RoleID, &e.RoleName, &e.PTOHoursEnabled, &e.ExtraHoursEnabled, &e.IsEnabled,
		&e.LastUpdated, &e.EntryCreated,
		&e.Contact.PrimaryEmail, &e.Contact.SecondaryEmail,
		&e.Contact.EnablePrimaryEmailNotifications, &e.Contact.EnableSecondaryEmailNotifications,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) getOne(ctx context.Context, where squirrel.Sqlizer, lookup string) (*models.Employee, error) {
	sql, args, err := r.selectEmployees().Where(where).Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get employee SQL")
		return nil, fmt.Errorf("failed to build get employee query: %w", err)
	}

	e, err := scanEmployee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrEmployeeNotFound, lookup)
		}
		logger.Error().Err(err).Str("lookup", lookup).Msg("Error scanning employee row")
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}
	return e, nil
}

// GetByEmployeeID retrieves an employee by employee ID
func (r *EmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	return r.getOne(ctx, squirrel.Eq{"e.employee_id": employeeID}, employeeID)
}

// GetByEmail retrieves an employee by primary email
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.getOne(ctx, squirrel.Eq{"c.primary_email": email}, email)
}

// GetByEmployeeIDs retrieves the employees with the given IDs, ordered by employee ID
func (r *EmployeeRepository) GetByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]models.Employee, error) {
	return r.list(ctx, r.selectEmployees().Where(squirrel.Eq{"e.employee_id": employeeIDs}).OrderBy("e.employee_id"))
}

// List returns one page of employees ordered by row ID
func (r *EmployeeRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Employee, error) {
	return r.list(ctx, r.selectEmployees().OrderBy("e.id").Offset(offset).Limit(uint64(limit)))
}

func (r *EmployeeRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]models.Employee, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list employees SQL")
		return nil, fmt.Errorf("failed to build list employees query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list employees query")
		return nil, fmt.Errorf("error listing employees: %w", err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning employee row")
			return nil, fmt.Errorf("error scanning employee: %w", err)
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// Count returns the number of employees
func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, r.sb.Select("COUNT(*)").From("employees"))
}

// NextRowID returns the current maximum row ID plus one, used to build employee IDs
func (r *EmployeeRepository) NextRowID(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COALESCE(MAX(id), 0) + 1").From("employees").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build next employee id query: %w", err)
	}
	var next int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&next); err != nil {
		logger.Error().Err(err).Msg("Error reading next employee row id")
		return 0, fmt.Errorf("error reading next employee id: %w", err)
	}
	return next, nil
}

// HasEnabledRole reports whether an enabled employee holds the named role
func (r *EmployeeRepository) HasEnabledRole(ctx context.Context, roleName string) (bool, error) {
	n, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("employees e").
		Join("employee_roles ro ON ro.id = e.role_id").
		Where(squirrel.Eq{"ro.name": roleName, "e.is_enabled": true}))
	return n > 0, err
}

// Create inserts the employee and its contact info in one transaction
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("employees").
			Columns("employee_id", "first_name", "last_name", "password_hash", "role_id",
				"pto_hours_enabled", "extra_hours_enabled", "is_enabled").
			Values(e.EmployeeID, e.FirstName, e.LastName, e.PasswordHash, e.RoleID,
				e.PTOHoursEnabled, e.ExtraHoursEnabled, e.IsEnabled).
			Suffix("RETURNING id, last_updated, entry_created").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create employee SQL")
			return fmt.Errorf("failed to build create employee query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.LastUpdated, &e.EntryCreated); err != nil {
			return err
		}

		sql, args, err = r.sb.Insert("employee_contact_info").
			Columns("employee_id", "primary_email", "secondary_email",
				"enable_primary_email_notifications", "enable_secondary_email_notifications").
			Values(e.EmployeeID, e.Contact.PrimaryEmail, e.Contact.SecondaryEmail,
				e.Contact.EnablePrimaryEmailNotifications, e.Contact.EnableSecondaryEmailNotifications).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create employee contact SQL")
			return fmt.Errorf("failed to build create employee contact query: %w", err)
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return r.mapWriteError(err, e.EmployeeID, "creating")
	}
	return nil
}

// Update writes every mutable field of the employee and its contact info
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	return r.UpdateMany(ctx, []*models.Employee{e})
}

// UpdateMany updates several employees in one transaction; nothing is written if any update fails
func (r *EmployeeRepository) UpdateMany(ctx context.Context, employees []*models.Employee) error {
	var current string
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, e := range employees {
			current = e.EmployeeID
			if err := r.update(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.mapWriteError(err, current, "updating")
	}
	return nil
}

func (r *EmployeeRepository) update(ctx context.Context, q querier, e *models.Employee) error {
	sql, args, err := r.sb.Update("employees").
		Set("first_name", e.FirstName).
		Set("last_name", e.LastName).
		Set("password_hash", e.PasswordHash).
		Set("role_id", e.RoleID).
		Set("pto_hours_enabled", e.PTOHoursEnabled).
		Set("extra_hours_enabled", e.ExtraHoursEnabled).
		Set("is_enabled", e.IsEnabled).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"employee_id": e.EmployeeID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update employee SQL")
		return fmt.Errorf("failed to build update employee query: %w", err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrEmployeeNotFound, e.EmployeeID)
	}

	sql, args, err = r.sb.Update("employee_contact_info").
		Set("primary_email", e.Contact.PrimaryEmail).
		Set("secondary_email", e.Contact.SecondaryEmail).
		Set("enable_primary_email_notifications", e.Contact.EnablePrimaryEmailNotifications).
		Set("enable_secondary_email_notifications", e.Contact.EnableSecondaryEmailNotifications).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"employee_id": e.EmployeeID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update employee contact SQL")
		return fmt.Errorf("failed to build update employee contact query: %w", err)
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

// UpdatePassword replaces the password hash of an employee
func (r *EmployeeRepository) UpdatePassword(ctx context.Context, employeeID, passwordHash string) error {
	sql, args, err := r.sb.Update("employees").
		Set("password_hash", passwordHash).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"employee_id": employeeID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update password SQL")
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("employeeID", employeeID).Msg("Error executing update password query")
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrEmployeeNotFound, employeeID)
	}
	return nil
}

// Delete removes the employees; contact info and reset tokens cascade
func (r *EmployeeRepository) Delete(ctx context.Context, employeeIDs []string) (int64, error) {
	sql, args, err := r.sb.Delete("employees").Where(squirrel.Eq{"employee_id": employeeIDs}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete employees SQL")
		return 0, fmt.Errorf("failed to build delete employees query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: Cannot remove employees that have timesheet records", apperrors.ErrResourceInUse)
		}
		logger.Error().Err(err).Strs("employeeIDs", employeeIDs).Msg("Error executing delete employees query")
		return 0, fmt.Errorf("error deleting employees: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *EmployeeRepository) mapWriteError(err error, employeeID, action string) error {
	switch {
	case errors.Is(err, apperrors.ErrEmployeeNotFound):
		return err
	case dberrors.IsDuplicateConstraintError(err, employeeIDConstraint):
		return fmt.Errorf("%w: an employee with the ID %s already exists", apperrors.ErrResourceAlreadyExists, employeeID)
	case dberrors.IsDuplicateConstraintError(err, employeeEmailConstraint):
		return fmt.Errorf("%w: the primary email is already used by another employee", apperrors.ErrResourceAlreadyExists)
	case dberrors.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: the employee role does not exist", apperrors.ErrRoleNotFound)
	}
	logger.Error().Err(err).Str("employeeID", employeeID).Msgf("Error %s employee", action)
	return fmt.Errorf("error %s employee: %w", action, err)
}

// count runs a SELECT COUNT(*) query
func count(ctx context.Context, q querier, query squirrel.SelectBuilder) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count SQL")
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error executing count query")
		return 0, fmt.Errorf("error counting rows: %w", err)
	}
	return n, nil
}
