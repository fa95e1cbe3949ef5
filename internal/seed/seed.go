package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// RoleStore creates and resolves employee roles
type RoleStore interface {
	Ensure(ctx context.Context, names ...string) (int64, error)
	GetByName(ctx context.Context, name string) (*models.EmployeeRole, error)
}

// EmployeeStore creates the default administrator
type EmployeeStore interface {
	HasEnabledRole(ctx context.Context, roleName string) (bool, error)
	Create(ctx context.Context, e *models.Employee) error
}

// Admin describes the default administrator account
type Admin struct {
	EmployeeID string
	FirstName  string
	LastName   string
	Password   string
	Email      string
}

// CreateDefaultData creates the employee roles and, when no enabled administrator exists,
// the default administrator account.
func CreateDefaultData(ctx context.Context, roles RoleStore, employees EmployeeStore, hasher auth.PasswordHasher, admin Admin, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (roles/administrator)...")

	created, err := roles.Ensure(ctx, models.RoleAdministrator, models.RoleEmployee)
	if err != nil {
		return fmt.Errorf("failed to create default roles: %w", err)
	}
	if created > 0 {
		lgr.Info().Int64("created", created).Msg("Default roles created")
	}

	exists, err := employees.HasEnabledRole(ctx, models.RoleAdministrator)
	if err != nil {
		return fmt.Errorf("failed to look up administrators: %w", err)
	}
	if exists {
		lgr.Debug().Msg("An enabled administrator exists, skipping default administrator")
		return nil
	}

	role, err := roles.GetByName(ctx, models.RoleAdministrator)
	if err != nil {
		return fmt.Errorf("failed to resolve administrator role: %w", err)
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash default administrator password: %w", err)
	}

	err = employees.Create(ctx, &models.Employee{
		EmployeeID:        admin.EmployeeID,
		FirstName:         admin.FirstName,
		LastName:          admin.LastName,
		PasswordHash:      hash,
		RoleID:            role.ID,
		RoleName:          role.Name,
		PTOHoursEnabled:   false,
		ExtraHoursEnabled: false,
		IsEnabled:         true,
		Contact:           models.EmployeeContactInfo{PrimaryEmail: admin.Email},
	})
	if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		// The account exists but is disabled or holds another role; leave it to an operator.
		lgr.Warn().Str("employeeID", admin.EmployeeID).Msg("Default administrator ID is taken, no administrator created")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create default administrator: %w", err)
	}

	lgr.Warn().Str("employeeID", admin.EmployeeID).Msg("Default administrator created, change its password")
	return nil
}
