package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// EmployeeService defines the interface for employee account operations
type EmployeeService interface {
	Register(ctx context.Context, req *dto.RegisterEmployeeRequest) (*dto.EmployeeResponse, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, page, size int) (*dto.PaginatedResponse, error)
	Retrieve(ctx context.Context, employeeIDs []string) ([]dto.EmployeeResponse, error)
	Get(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error)
	Update(ctx context.Context, employeeID string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	UpdateMany(ctx context.Context, req *dto.UpdateEmployeesRequest) ([]dto.EmployeeResponse, error)
	Delete(ctx context.Context, employeeIDs []string) (int64, error)
}

// employeeServiceImpl implements EmployeeService
type employeeServiceImpl struct {
	employees EmployeeStore
	roles     RoleStore
	hasher    auth.PasswordHasher
	logger    zerolog.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employees EmployeeStore, roles RoleStore, hasher auth.PasswordHasher, logger zerolog.Logger) EmployeeService {
	return &employeeServiceImpl{
		employees: employees,
		roles:     roles,
		hasher:    hasher,
		logger:    logger,
	}
}

// Register creates an employee account. The employee ID is the first initial and last name
// followed by the next row ID, e.g. jdoe3.
func (s *employeeServiceImpl) Register(ctx context.Context, req *dto.RegisterEmployeeRequest) (*dto.EmployeeResponse, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if !validation.ValidName(firstName) || !validation.ValidName(lastName) {
		return nil, fmt.Errorf("%w: the first and last name must not be empty", apperrors.ErrValidationFailed)
	}
	if !validation.ValidPassword(req.Password) {
		return nil, fmt.Errorf("%w: the password must be at least %d characters", apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}

	contact := models.EmployeeContactInfo{
		PrimaryEmail:                      lowerEmail(req.PrimaryEmail),
		SecondaryEmail:                    lowerOptional(req.SecondaryEmail),
		EnablePrimaryEmailNotifications:   boolOr(req.EnablePrimaryEmailNotifications, true),
		EnableSecondaryEmailNotifications: boolOr(req.EnableSecondaryEmailNotifications, false),
	}
	if err := validateEmployeeContact(contact); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByName(ctx, helpers.NormalizeID(req.Role))
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	next, err := s.employees.NextRowID(ctx)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		EmployeeID:        helpers.BaseID(firstName, lastName) + strconv.FormatInt(next, 10),
		FirstName:         strings.ToLower(firstName),
		LastName:          strings.ToLower(lastName),
		PasswordHash:      hash,
		RoleID:            role.ID,
		RoleName:          role.Name,
		PTOHoursEnabled:   req.PTOHoursEnabled,
		ExtraHoursEnabled: req.ExtraHoursEnabled,
		IsEnabled:         boolOr(req.IsEnabled, true),
		Contact:           contact,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.logger.Info().Str("employeeID", employee.EmployeeID).Str("role", role.Name).Msg("Employee registered")
	resp := dto.FromEmployee(employee)
	return &resp, nil
}

func validateEmployeeContact(c models.EmployeeContactInfo) error {
	if !validation.ValidEmail(c.PrimaryEmail) {
		return fmt.Errorf("%w: the primary email %q is invalid", apperrors.ErrValidationFailed, c.PrimaryEmail)
	}
	if c.SecondaryEmail != nil {
		if !validation.ValidEmail(*c.SecondaryEmail) {
			return fmt.Errorf("%w: the secondary email %q is invalid", apperrors.ErrValidationFailed, *c.SecondaryEmail)
		}
		if *c.SecondaryEmail == c.PrimaryEmail {
			return fmt.Errorf("%w: the secondary email must be different from the primary email", apperrors.ErrValidationFailed)
		}
	}
	return nil
}

// Count returns the number of employees
func (s *employeeServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.employees.Count(ctx)
}

// List returns one page of employees
func (s *employeeServiceImpl) List(ctx context.Context, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	employees, err := s.employees.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.employees.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedResponse{
		Items:      dto.FromEmployees(employees),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// Retrieve returns the employees with the given IDs; any unknown ID fails the whole lookup
func (s *employeeServiceImpl) Retrieve(ctx context.Context, employeeIDs []string) ([]dto.EmployeeResponse, error) {
	employees, err := s.getAll(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}
	return dto.FromEmployees(employees), nil
}

func (s *employeeServiceImpl) getAll(ctx context.Context, employeeIDs []string) ([]models.Employee, error) {
	ids := helpers.NormalizeIDs(employeeIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no employee IDs were provided", apperrors.ErrValidationFailed)
	}
	employees, err := s.employees.GetByEmployeeIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(employees))
	for _, e := range employees {
		found[e.EmployeeID] = true
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return nil, fmt.Errorf("%w: the following employees do not exist: %s", apperrors.ErrEmployeeNotFound, joinIDs(missing))
	}
	return employees, nil
}

// Get returns one employee
func (s *employeeServiceImpl) Get(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(employeeID))
	if err != nil {
		return nil, err
	}
	resp := dto.FromEmployee(employee)
	return &resp, nil
}

// Update applies a partial update to one employee
func (s *employeeServiceImpl) Update(ctx context.Context, employeeID string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(employeeID))
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, employee, req); err != nil {
		return nil, err
	}
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}

	s.logger.Info().Str("employeeID", employee.EmployeeID).Msg("Employee updated")
	resp := dto.FromEmployee(employee)
	return &resp, nil
}

// UpdateMany applies partial updates to several employees; nothing is saved if any update is invalid
func (s *employeeServiceImpl) UpdateMany(ctx context.Context, req *dto.UpdateEmployeesRequest) ([]dto.EmployeeResponse, error) {
	ids := make([]string, 0, len(req.Employees))
	updates := make(map[string]dto.UpdateEmployeeRequest, len(req.Employees))
	for id, update := range req.Employees {
		id = helpers.NormalizeID(id)
		ids = append(ids, id)
		updates[id] = update
	}

	employees, err := s.getAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	changed := make([]*models.Employee, 0, len(employees))
	for i := range employees {
		update := updates[employees[i].EmployeeID]
		if err := s.applyUpdate(ctx, &employees[i], &update); err != nil {
			return nil, fmt.Errorf("%w (employee %s)", err, employees[i].EmployeeID)
		}
		changed = append(changed, &employees[i])
	}
	if err := s.employees.UpdateMany(ctx, changed); err != nil {
		return nil, err
	}

	s.logger.Info().Strs("employeeIDs", ids).Msg("Employees updated")
	return dto.FromEmployees(employees), nil
}

func (s *employeeServiceImpl) applyUpdate(ctx context.Context, e *models.Employee, req *dto.UpdateEmployeeRequest) error {
	if req.IsEmpty() {
		return fmt.Errorf("%w: the update does not change any field", apperrors.ErrValidationFailed)
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if !validation.ValidName(name) {
			return fmt.Errorf("%w: the first name must not be empty", apperrors.ErrValidationFailed)
		}
		e.FirstName = strings.ToLower(name)
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if !validation.ValidName(name) {
			return fmt.Errorf("%w: the last name must not be empty", apperrors.ErrValidationFailed)
		}
		e.LastName = strings.ToLower(name)
	}
	if req.Password != nil {
		if !validation.ValidPassword(*req.Password) {
			return fmt.Errorf("%w: the password must be at least %d characters", apperrors.ErrValidationFailed, validation.PasswordMinLength)
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		e.PasswordHash = hash
	}
	if req.Role != nil {
		role, err := s.roles.GetByName(ctx, helpers.NormalizeID(*req.Role))
		if err != nil {
			return err
		}
		e.RoleID = role.ID
		e.RoleName = role.Name
	}
	if req.PrimaryEmail != nil {
		e.Contact.PrimaryEmail = lowerEmail(*req.PrimaryEmail)
	}
	if req.SecondaryEmail != nil {
		e.Contact.SecondaryEmail = lowerOptional(req.SecondaryEmail)
	}
	e.Contact.EnablePrimaryEmailNotifications = boolOr(req.EnablePrimaryEmailNotifications, e.Contact.EnablePrimaryEmailNotifications)
	e.Contact.EnableSecondaryEmailNotifications = boolOr(req.EnableSecondaryEmailNotifications, e.Contact.EnableSecondaryEmailNotifications)
	e.PTOHoursEnabled = boolOr(req.PTOHoursEnabled, e.PTOHoursEnabled)
	e.ExtraHoursEnabled = boolOr(req.ExtraHoursEnabled, e.ExtraHoursEnabled)
	e.IsEnabled = boolOr(req.IsEnabled, e.IsEnabled)

	return validateEmployeeContact(e.Contact)
}

// Delete removes the employees; any unknown ID fails the whole request
func (s *employeeServiceImpl) Delete(ctx context.Context, employeeIDs []string) (int64, error) {
	employees, err := s.getAll(ctx, employeeIDs)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.EmployeeID)
	}

	removed, err := s.employees.Delete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Strs("employeeIDs", ids).Int64("removed", removed).Msg("Employees removed")
	return removed, nil
}
