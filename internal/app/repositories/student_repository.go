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

// StudentRepository handles students and their parents' contact info
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// StudentFilter narrows student listings
type StudentFilter struct {
	Grade *string
}

func (f StudentFilter) apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f.Grade != nil {
		q = q.Where(squirrel.Eq{"g.name": *f.Grade})
	}
	return q
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.student_id", "s.first_name", "s.last_name", "s.carpool_number",
		"s.grade_id", "g.name", "s.is_enabled", "s.last_updated", "s.entry_created",
		"c.parent_one_first_name", "c.parent_one_last_name",
		"c.parent_two_first_name", "c.parent_two_last_name",
		"c.primary_email", "c.secondary_email",
		"c.enable_primary_email_notifications", "c.enable_secondary_email_notifications",
	).From("students s").
		Join("student_grades g ON g.id = s.grade_id").
		Join("student_contact_info c ON c.student_id = s.student_id")
}

func scanStudent(row rowScanner) (*models.Student, error) {
	var s models.Student
	c := &s.Contact
	err := row.Scan(
		&s.ID, &s.StudentID, &s.FirstName, &s.LastName, &s.CarpoolNumber,
		&s.GradeID, &s.GradeName, &s.IsEnabled, &s.LastUpdated, &s.EntryCreated,
		&c.ParentOneFirstName, &c.ParentOneLastName,
		&c.ParentTwoFirstName, &c.ParentTwoLastName,
		&c.PrimaryEmail, &c.SecondaryEmail,
		&c.EnablePrimaryEmailNotifications, &c.EnableSecondaryEmailNotifications,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByStudentID retrieves a student by student ID
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	sql, args, err := r.selectStudents().Where(squirrel.Eq{"s.student_id": studentID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, studentID)
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return s, nil
}

// Exists reports whether a student ID is taken
func (r *StudentRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	n, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("students").Where(squirrel.Eq{"student_id": studentID}))
	return n > 0, err
}

// GetByStudentIDs retrieves the students with the given IDs, ordered by student ID
func (r *StudentRepository) GetByStudentIDs(ctx context.Context, studentIDs []string) ([]models.Student, error) {
	return r.list(ctx, r.selectStudents().Where(squirrel.Eq{"s.student_id": studentIDs}).OrderBy("s.student_id"))
}

// List returns one page of students ordered by row ID
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter, offset uint64, limit int) ([]models.Student, error) {
	return r.list(ctx, filter.apply(r.selectStudents()).OrderBy("s.id").Offset(offset).Limit(uint64(limit)))
}

// ListByGrade returns every student of a grade ordered by student ID
func (r *StudentRepository) ListByGrade(ctx context.Context, grade string, enabledOnly bool) ([]models.Student, error) {
	q := r.selectStudents().Where(squirrel.Eq{"g.name": grade})
	if enabledOnly {
		q = q.Where(squirrel.Eq{"s.is_enabled": true})
	}
	return r.list(ctx, q.OrderBy("s.student_id"))
}

func (r *StudentRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]models.Student, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// Count returns the number of students matching filter
func (r *StudentRepository) Count(ctx context.Context, filter StudentFilter) (int64, error) {
	return count(ctx, r.db, filter.apply(r.sb.Select("COUNT(*)").From("students s").
		Join("student_grades g ON g.id = s.grade_id")))
}

// Create inserts the student and its contact info in one transaction
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("students").
			Columns("student_id", "first_name", "last_name", "carpool_number", "grade_id", "is_enabled").
			Values(s.StudentID, s.FirstName, s.LastName, s.CarpoolNumber, s.GradeID, s.IsEnabled).
			Suffix("RETURNING id, last_updated, entry_created").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create student SQL")
			return fmt.Errorf("failed to build create student query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.LastUpdated, &s.EntryCreated); err != nil {
			return err
		}

		c := s.Contact
		sql, args, err = r.sb.Insert("student_contact_info").
			Columns("student_id", "parent_one_first_name", "parent_one_last_name",
				"parent_two_first_name", "parent_two_last_name", "primary_email", "secondary_email",
				"enable_primary_email_notifications", "enable_secondary_email_notifications").
			Values(s.StudentID, c.ParentOneFirstName, c.ParentOneLastName,
				c.ParentTwoFirstName, c.ParentTwoLastName, c.PrimaryEmail, c.SecondaryEmail,
				c.EnablePrimaryEmailNotifications, c.EnableSecondaryEmailNotifications).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create student contact SQL")
			return fmt.Errorf("failed to build create student contact query: %w", err)
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return r.mapWriteError(err, s.StudentID, "creating")
	}
	return nil
}

// Update writes every mutable field of the student and its contact info
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	return r.UpdateMany(ctx, []*models.Student{s})
}

// UpdateMany updates several students in one transaction; nothing is written if any update fails
func (r *StudentRepository) UpdateMany(ctx context.Context, students []*models.Student) error {
	var current string
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, s := range students {
			current = s.StudentID
			if err := r.update(ctx, tx, s); err != nil {
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

func (r *StudentRepository) update(ctx context.Context, q querier, s *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("first_name", s.FirstName).
		Set("last_name", s.LastName).
		Set("carpool_number", s.CarpoolNumber).
		Set("grade_id", s.GradeID).
		Set("is_enabled", s.IsEnabled).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"student_id": s.StudentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, s.StudentID)
	}

	c := s.Contact
	sql, args, err = r.sb.Update("student_contact_info").
		Set("parent_one_first_name", c.ParentOneFirstName).
		Set("parent_one_last_name", c.ParentOneLastName).
		Set("parent_two_first_name", c.ParentTwoFirstName).
		Set("parent_two_last_name", c.ParentTwoLastName).
		Set("primary_email", c.PrimaryEmail).
		Set("secondary_email", c.SecondaryEmail).
		Set("enable_primary_email_notifications", c.EnablePrimaryEmailNotifications).
		Set("enable_secondary_email_notifications", c.EnableSecondaryEmailNotifications).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"student_id": s.StudentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student contact SQL")
		return fmt.Errorf("failed to build update student contact query: %w", err)
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

// Delete removes the students; contact info cascades
func (r *StudentRepository) Delete(ctx context.Context, studentIDs []string) (int64, error) {
	sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"student_id": studentIDs}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete students SQL")
		return 0, fmt.Errorf("failed to build delete students query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: Cannot remove students that have care records", apperrors.ErrResourceInUse)
		}
		logger.Error().Err(err).Strs("studentIDs", studentIDs).Msg("Error executing delete students query")
		return 0, fmt.Errorf("error deleting students: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *StudentRepository) mapWriteError(err error, studentID, action string) error {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return err
	case dberrors.IsDuplicateConstraintError(err, "students_student_id_key"):
		return fmt.Errorf("%w: a student with the ID %s already exists", apperrors.ErrResourceAlreadyExists, studentID)
	case dberrors.IsCheckViolation(err, "students_carpool_number_non_negative"):
		return fmt.Errorf("%w: the carpool number cannot be negative", apperrors.ErrValidationFailed)
	case dberrors.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: the student grade does not exist", apperrors.ErrGradeNotFound)
	}
	logger.Error().Err(err).Str("studentID", studentID).Msgf("Error %s student", action)
	return fmt.Errorf("error %s student: %w", action, err)
}
