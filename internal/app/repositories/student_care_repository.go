package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/dberrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const careSessionConstraint = "student_care_hours_student_id_care_date_care_type_key"

// StudentCareRepository handles before-care and after-care sessions
type StudentCareRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentCareRepository creates a new StudentCareRepository
func NewStudentCareRepository(db *pgxpool.Pool) *StudentCareRepository {
	return &StudentCareRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var careColumns = []string{
	"id", "student_id", "care_date", "care_type", "check_in_time", "check_out_time",
	"check_in_signature", "check_out_signature", "manually_checked_out", "last_updated", "entry_created",
}

func scanCareHours(row rowScanner) (*models.StudentCareHours, error) {
	var c models.StudentCareHours
	var careType bool
	var checkIn, checkOut pgtype.Time
	err := row.Scan(&c.ID, &c.StudentID, &c.CareDate, &careType, &checkIn, &checkOut,
		&c.CheckInSignature, &c.CheckOutSignature, &c.ManuallyCheckedOut, &c.LastUpdated, &c.EntryCreated)
	if err != nil {
		return nil, err
	}
	c.CareType = carewindow.CareType(careType)
	c.CheckInTime = clockFromPG(checkIn)
	c.CheckOutTime = clockFromPG(checkOut)
	return &c, nil
}

func (r *StudentCareRepository) query(ctx context.Context, query squirrel.SelectBuilder) ([]models.StudentCareHours, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list care records SQL")
		return nil, fmt.Errorf("failed to build list care records query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list care records query")
		return nil, fmt.Errorf("error listing care records: %w", err)
	}
	defer rows.Close()

	records := []models.StudentCareHours{}
	for rows.Next() {
		c, err := scanCareHours(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning care record: %w", err)
		}
		records = append(records, *c)
	}
	return records, rows.Err()
}

// Create inserts a care session. A second session of the same type on the same day yields ErrResourceAlreadyExists.
func (r *StudentCareRepository) Create(ctx context.Context, c *models.StudentCareHours) error {
	sql, args, err := r.sb.Insert("student_care_hours").
		Columns("student_id", "care_date", "care_type", "check_in_time", "check_out_time",
			"check_in_signature", "check_out_signature", "manually_checked_out").
		Values(c.StudentID, c.CareDate, bool(c.CareType), clockToPG(c.CheckInTime), clockToPG(c.CheckOutTime),
			c.CheckInSignature, c.CheckOutSignature, c.ManuallyCheckedOut).
		Suffix("RETURNING id, last_updated, entry_created").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create care record SQL")
		return fmt.Errorf("failed to build create care record query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.LastUpdated, &c.EntryCreated); err != nil {
		if dberrors.IsDuplicateConstraintError(err, careSessionConstraint) {
			return fmt.Errorf("%w: the student is already checked-in for %s-care on %s",
				apperrors.ErrCareState, c.CareType.Label(), c.CareDate.Format("2006-01-02"))
		}
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, c.StudentID)
		}
		logger.Error().Err(err).Str("studentID", c.StudentID).Msg("Error executing create care record query")
		return fmt.Errorf("error creating care record: %w", err)
	}
	return nil
}

// Get retrieves the session of a student for a date and care type
func (r *StudentCareRepository) Get(ctx context.Context, studentID string, date time.Time, careType carewindow.CareType) (*models.StudentCareHours, error) {
	sql, args, err := r.sb.Select(careColumns...).
		From("student_care_hours").
		Where(squirrel.Eq{"student_id": studentID, "care_date": date, "care_type": bool(careType)}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get care record SQL")
		return nil, fmt.Errorf("failed to build get care record query: %w", err)
	}

	c, err := scanCareHours(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no %s-care record for %s", apperrors.ErrResourceNotFound, careType.Label(), studentID)
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error scanning care record row")
		return nil, fmt.Errorf("error retrieving care record: %w", err)
	}
	return c, nil
}

// ListForDate returns both sessions of a student for a date
func (r *StudentCareRepository) ListForDate(ctx context.Context, studentID string, date time.Time) ([]models.StudentCareHours, error) {
	return r.query(ctx, r.sb.Select(careColumns...).
		From("student_care_hours").
		Where(squirrel.Eq{"student_id": studentID, "care_date": date}).
		OrderBy("care_type"))
}

// ListRange returns a student's sessions between from and to inclusive, newest day first
func (r *StudentCareRepository) ListRange(ctx context.Context, studentID string, from, to time.Time) ([]models.StudentCareHours, error) {
	return r.query(ctx, r.sb.Select(careColumns...).
		From("student_care_hours").
		Where(squirrel.Eq{"student_id": studentID}).
		Where(squirrel.GtOrEq{"care_date": from}).
		Where(squirrel.LtOrEq{"care_date": to}).
		OrderBy("care_date DESC", "care_type"))
}

// CheckedInStudentIDs returns which of the students have a session of careType on date
func (r *StudentCareRepository) CheckedInStudentIDs(ctx context.Context, studentIDs []string, date time.Time, careType carewindow.CareType) (map[string]bool, error) {
	sql, args, err := r.sb.Select("student_id").
		From("student_care_hours").
		Where(squirrel.Eq{"student_id": studentIDs, "care_date": date, "care_type": bool(careType)}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building checked-in students SQL")
		return nil, fmt.Errorf("failed to build checked-in students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing checked-in students query")
		return nil, fmt.Errorf("error listing checked-in students: %w", err)
	}
	defer rows.Close()

	checkedIn := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning student id: %w", err)
		}
		checkedIn[id] = true
	}
	return checkedIn, rows.Err()
}

// CheckOut records a manual check-out
func (r *StudentCareRepository) CheckOut(ctx context.Context, c *models.StudentCareHours) error {
	sql, args, err := r.sb.Update("student_care_hours").
		Set("check_out_time", clockToPG(c.CheckOutTime)).
		Set("check_out_signature", c.CheckOutSignature).
		Set("manually_checked_out", true).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING last_updated").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building check-out SQL")
		return fmt.Errorf("failed to build check-out query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: care record %d", apperrors.ErrResourceNotFound, c.ID)
		}
		if dberrors.IsCheckViolation(err, "student_care_hours_check_out_after_check_in") {
			return fmt.Errorf("%w: the check-out time cannot be before the check-in time", apperrors.ErrCareWindow)
		}
		logger.Error().Err(err).Str("studentID", c.StudentID).Msg("Error executing check-out query")
		return fmt.Errorf("error checking out student: %w", err)
	}
	c.ManuallyCheckedOut = true
	return nil
}

// Delete removes a student's sessions of a day; a nil careType removes both
func (r *StudentCareRepository) Delete(ctx context.Context, studentID string, date time.Time, careType *carewindow.CareType) (int64, error) {
	where := squirrel.Eq{"student_id": studentID, "care_date": date}
	if careType != nil {
		where["care_type"] = bool(*careType)
	}
	sql, args, err := r.sb.Delete("student_care_hours").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete care records SQL")
		return 0, fmt.Errorf("failed to build delete care records query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing delete care records query")
		return 0, fmt.Errorf("error deleting care records: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of care sessions
func (r *StudentCareRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, r.sb.Select("COUNT(*)").From("student_care_hours"))
}

// ExistsForStudents reports whether any of the students has care sessions
func (r *StudentCareRepository) ExistsForStudents(ctx context.Context, studentIDs []string) (bool, error) {
	n, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("student_care_hours").Where(squirrel.Eq{"student_id": studentIDs}))
	return n > 0, err
}
