package repositories

import (
	"context"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	EmployeeRepository       *EmployeeRepository
	RoleRepository           *RoleRepository
	EmployeeHoursRepository  *EmployeeHoursRepository
	GradeRepository          *GradeRepository
	StudentRepository        *StudentRepository
	StudentCareRepository    *StudentCareRepository
	ResetTokenRepository     *ResetTokenRepository
	TokenBlacklistRepository *TokenBlacklistRepository
	ReportRepository         *ReportRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		EmployeeRepository:       NewEmployeeRepository(db),
		RoleRepository:           NewRoleRepository(db),
		EmployeeHoursRepository:  NewEmployeeHoursRepository(db),
		GradeRepository:          NewGradeRepository(db),
		StudentRepository:        NewStudentRepository(db),
		StudentCareRepository:    NewStudentCareRepository(db),
		ResetTokenRepository:     NewResetTokenRepository(db),
		TokenBlacklistRepository: NewTokenBlacklistRepository(db),
		ReportRepository:         NewReportRepository(db),
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func clockToPG(c carewindow.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c.Duration() / time.Microsecond), Valid: true}
}

func clockFromPG(t pgtype.Time) carewindow.Clock {
	return carewindow.Clock(t.Microseconds / int64(time.Minute/time.Microsecond))
}
