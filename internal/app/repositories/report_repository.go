package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository runs the read-only queries behind the timesheet and care reports
type ReportRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// TimesheetRows returns the non-empty entries of enabled employees between from and to
// inclusive, ordered by date then employee. excludeEmployeeID is left out of the report.
func (r *ReportRepository) TimesheetRows(ctx context.Context, from, to time.Time, excludeEmployeeID string) ([]models.TimesheetReportRow, error) {
	sql, args, err := r.sb.Select("e.employee_id", "e.first_name", "e.last_name", "h.date_worked",
		"h.work_hours", "h.pto_hours", "h.extra_hours", "h.comment").
		From("employee_hours h").
		Join("employees e ON e.employee_id = h.employee_id").
		Where(squirrel.Eq{"e.is_enabled": true}).
		Where(squirrel.NotEq{"e.employee_id": excludeEmployeeID}).
		Where(squirrel.GtOrEq{"h.date_worked": from}).
		Where(squirrel.LtOrEq{"h.date_worked": to}).
		Where("(h.work_hours + h.pto_hours + h.extra_hours) > 0").
		OrderBy("h.date_worked", "e.employee_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building timesheet report SQL")
		return nil, fmt.Errorf("failed to build timesheet report query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing timesheet report query")
		return nil, fmt.Errorf("error querying timesheet report: %w", err)
	}
	defer rows.Close()

	out := []models.TimesheetReportRow{}
	for rows.Next() {
		var row models.TimesheetReportRow
		if err := rows.Scan(&row.EmployeeID, &row.FirstName, &row.LastName, &row.DateWorked,
			&row.WorkHours, &row.PTOHours, &row.ExtraHours, &row.Comment); err != nil {
			return nil, fmt.Errorf("error scanning timesheet report row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CareRows returns the sessions of enabled students of a grade between from and to
// inclusive, ordered by date, student and care type.
func (r *ReportRepository) CareRows(ctx context.Context, grade string, from, to time.Time) ([]models.CareReportRow, error) {
	columns := []string{"s.student_id", "s.first_name", "s.last_name"}
	for _, c := range careColumns {
		columns = append(columns, "h."+c)
	}
	sql, args, err := r.sb.Select(columns...).
		From("student_care_hours h").
		Join("students s ON s.student_id = h.student_id").
		Join("student_grades g ON g.id = s.grade_id").
		Where(squirrel.Eq{"g.name": grade, "s.is_enabled": true}).
		Where(squirrel.GtOrEq{"h.care_date": from}).
		Where(squirrel.LtOrEq{"h.care_date": to}).
		OrderBy("h.care_date", "s.student_id", "h.care_type").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building care report SQL")
		return nil, fmt.Errorf("failed to build care report query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing care report query")
		return nil, fmt.Errorf("error querying care report: %w", err)
	}
	defer rows.Close()

	out := []models.CareReportRow{}
	for rows.Next() {
		var ref models.StudentRef
		scanner := prefixScanner{row: rows, prefix: []any{&ref.StudentID, &ref.FirstName, &ref.LastName}}
		care, err := scanCareHours(scanner)
		if err != nil {
			return nil, fmt.Errorf("error scanning care report row: %w", err)
		}
		out = append(out, models.CareReportRow{Student: ref, Care: *care})
	}
	return out, rows.Err()
}

// prefixScanner prepends extra destinations to a Scan call.
type prefixScanner struct {
	row    rowScanner
	prefix []any
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.row.Scan(append(append([]any{}, p.prefix...), dest...)...)
}
