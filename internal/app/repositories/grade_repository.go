package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/dberrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GradeRepository handles student grades
type GradeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a grade
func (r *GradeRepository) Create(ctx context.Context, grade *models.StudentGrade) error {
	sql, args, err := r.sb.Insert("student_grades").
		Columns("name").
		Values(grade.Name).
		Suffix("RETURNING id, entry_created").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create grade SQL")
		return fmt.Errorf("failed to build create grade query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&grade.ID, &grade.EntryCreated); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "student_grades_name_key") {
			return fmt.Errorf("%w: the grade %s already exists", apperrors.ErrResourceAlreadyExists, grade.Name)
		}
		logger.Error().Err(err).Str("grade", grade.Name).Msg("Error executing create grade query")
		return fmt.Errorf("error creating grade: %w", err)
	}
	return nil
}

// GetByName retrieves a grade by name
func (r *GradeRepository) GetByName(ctx context.Context, name string) (*models.StudentGrade, error) {
	sql, args, err := r.sb.Select("id", "name", "entry_created").
		From("student_grades").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get grade SQL")
		return nil, fmt.Errorf("failed to build get grade query: %w", err)
	}

	var g models.StudentGrade
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&g.ID, &g.Name, &g.EntryCreated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrGradeNotFound, name)
		}
		logger.Error().Err(err).Str("grade", name).Msg("Error scanning grade row")
		return nil, fmt.Errorf("error retrieving grade: %w", err)
	}
	return &g, nil
}

// List returns every grade ordered by name
func (r *GradeRepository) List(ctx context.Context) ([]models.StudentGrade, error) {
	sql, args, err := r.sb.Select("id", "name", "entry_created").From("student_grades").OrderBy("name").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list grades SQL")
		return nil, fmt.Errorf("failed to build list grades query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list grades query")
		return nil, fmt.Errorf("error listing grades: %w", err)
	}
	defer rows.Close()

	grades := []models.StudentGrade{}
	for rows.Next() {
		var g models.StudentGrade
		if err := rows.Scan(&g.ID, &g.Name, &g.EntryCreated); err != nil {
			return nil, fmt.Errorf("error scanning grade: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// Count returns the number of grades
func (r *GradeRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, r.sb.Select("COUNT(*)").From("student_grades"))
}

// Delete removes a grade. A grade that students still reference yields ErrResourceInUse.
func (r *GradeRepository) Delete(ctx context.Context, name string) error {
	sql, args, err := r.sb.Delete("student_grades").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete grade SQL")
		return fmt.Errorf("failed to build delete grade query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: the grade %s is assigned to students", apperrors.ErrResourceInUse, name)
		}
		logger.Error().Err(err).Str("grade", name).Msg("Error executing delete grade query")
		return fmt.Errorf("error deleting grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrGradeNotFound, name)
	}
	return nil
}
