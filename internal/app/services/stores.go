package services

import (
	"context"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/repositories"
)

// The interfaces below are the slices of the repositories each service needs.
// They are satisfied by the types in the repositories package.

// EmployeeStore persists employees and their contact info
type EmployeeStore interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	GetByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]models.Employee, error)
	List(ctx context.Context, offset uint64, limit int) ([]models.Employee, error)
	Count(ctx context.Context) (int64, error)
	NextRowID(ctx context.Context) (int64, error)
	Create(ctx context.Context, e *models.Employee) error
	Update(ctx context.Context, e *models.Employee) error
	UpdateMany(ctx context.Context, employees []*models.Employee) error
	UpdatePassword(ctx context.Context, employeeID, passwordHash string) error
	Delete(ctx context.Context, employeeIDs []string) (int64, error)
}

// RoleStore resolves employee roles
type RoleStore interface {
	GetByName(ctx context.Context, name string) (*models.EmployeeRole, error)
}

// EmployeeHoursStore persists timesheet entries
type EmployeeHoursStore interface {
	Create(ctx context.Context, h *models.EmployeeHours) error
	Get(ctx context.Context, employeeID string, date time.Time) (*models.EmployeeHours, error)
	Update(ctx context.Context, h *models.EmployeeHours) error
	Upsert(ctx context.Context, entries []models.EmployeeHours) error
	Delete(ctx context.Context, employeeID string, dates []time.Time) (int64, error)
	DeleteAll(ctx context.Context, employeeID string) (int64, error)
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]models.EmployeeHours, error)
	Count(ctx context.Context) (int64, error)
}

// GradeStore persists student grades
type GradeStore interface {
	Create(ctx context.Context, grade *models.StudentGrade) error
	GetByName(ctx context.Context, name string) (*models.StudentGrade, error)
	List(ctx context.Context) ([]models.StudentGrade, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, name string) error
}

// StudentStore persists students and their parents' contact info
type StudentStore interface {
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	Exists(ctx context.Context, studentID string) (bool, error)
	GetByStudentIDs(ctx context.Context, studentIDs []string) ([]models.Student, error)
	List(ctx context.Context, filter repositories.StudentFilter, offset uint64, limit int) ([]models.Student, error)
	ListByGrade(ctx context.Context, grade string, enabledOnly bool) ([]models.Student, error)
	Count(ctx context.Context, filter repositories.StudentFilter) (int64, error)
	Create(ctx context.Context, s *models.Student) error
	Update(ctx context.Context, s *models.Student) error
	UpdateMany(ctx context.Context, students []*models.Student) error
	Delete(ctx context.Context, studentIDs []string) (int64, error)
}

// CareStore persists care sessions
type CareStore interface {
	Create(ctx context.Context, c *models.StudentCareHours) error
	Get(ctx context.Context, studentID string, date time.Time, careType carewindow.CareType) (*models.StudentCareHours, error)
	ListForDate(ctx context.Context, studentID string, date time.Time) ([]models.StudentCareHours, error)
	ListRange(ctx context.Context, studentID string, from, to time.Time) ([]models.StudentCareHours, error)
	CheckedInStudentIDs(ctx context.Context, studentIDs []string, date time.Time, careType carewindow.CareType) (map[string]bool, error)
	CheckOut(ctx context.Context, c *models.StudentCareHours) error
	Delete(ctx context.Context, studentID string, date time.Time, careType *carewindow.CareType) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ResetTokenStore persists password reset codes
type ResetTokenStore interface {
	Upsert(ctx context.Context, token *models.ResetToken) error
	GetByToken(ctx context.Context, code string) (*models.ResetToken, error)
	DeleteByEmployeeID(ctx context.Context, employeeID string) error
}

// TokenBlacklistStore persists invalidated access tokens
type TokenBlacklistStore interface {
	Add(ctx context.Context, token *models.BlacklistedToken) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// ReportSource runs the report queries
type ReportSource interface {
	TimesheetRows(ctx context.Context, from, to time.Time, excludeEmployeeID string) ([]models.TimesheetReportRow, error)
	CareRows(ctx context.Context, grade string, from, to time.Time) ([]models.CareReportRow, error)
}
