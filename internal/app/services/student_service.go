package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/repositories"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// maxStudentIDSuffix bounds the collision counter of generated student IDs.
const maxStudentIDSuffix = 1000

// StudentService defines the interface for student operations
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, grade string, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, studentID string) (*dto.StudentResponse, error)
	Update(ctx context.Context, studentID string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	UpdateMany(ctx context.Context, req *dto.UpdateStudentsRequest) ([]dto.StudentResponse, error)
	Delete(ctx context.Context, studentIDs []string) (int64, error)
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	students StudentStore
	grades   GradeStore
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, grades GradeStore, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{students: students, grades: grades, logger: logger}
}

// Create adds a student. The student ID is the first initial, last name and carpool number,
// with a counter appended on collision: jdoe12, jdoe121, jdoe122.
func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if !validation.ValidName(firstName) || !validation.ValidName(lastName) {
		return nil, fmt.Errorf("%w: the first and last name must not be empty", apperrors.ErrValidationFailed)
	}
	if req.CarpoolNumber < 0 {
		return nil, fmt.Errorf("%w: the carpool number must not be negative", apperrors.ErrValidationFailed)
	}

	contact := models.StudentContactInfo{
		ParentOneFirstName:                strings.ToLower(strings.TrimSpace(req.ParentOneFirstName)),
		ParentOneLastName:                 strings.ToLower(strings.TrimSpace(req.ParentOneLastName)),
		ParentTwoFirstName:                lowerOptional(req.ParentTwoFirstName),
		ParentTwoLastName:                 lowerOptional(req.ParentTwoLastName),
		PrimaryEmail:                      lowerEmail(req.PrimaryEmail),
		SecondaryEmail:                    lowerOptional(req.SecondaryEmail),
		EnablePrimaryEmailNotifications:   boolOr(req.EnablePrimaryEmailNotifications, true),
		EnableSecondaryEmailNotifications: boolOr(req.EnableSecondaryEmailNotifications, false),
	}
	if err := validateStudentContact(contact); err != nil {
		return nil, err
	}

	grade, err := s.grades.GetByName(ctx, helpers.NormalizeID(req.Grade))
	if err != nil {
		return nil, err
	}

	studentID, err := s.generateStudentID(ctx, firstName, lastName, req.CarpoolNumber)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentID:     studentID,
		FirstName:     strings.ToLower(firstName),
		LastName:      strings.ToLower(lastName),
		CarpoolNumber: req.CarpoolNumber,
		GradeID:       grade.ID,
		GradeName:     grade.Name,
		IsEnabled:     boolOr(req.IsEnabled, true),
		Contact:       contact,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", student.StudentID).Str("grade", grade.Name).Msg("Student created")
	resp := dto.FromStudent(student)
	return &resp, nil
}

func (s *studentServiceImpl) generateStudentID(ctx context.Context, firstName, lastName string, carpoolNumber int) (string, error) {
	base := helpers.BaseID(firstName, lastName) + strconv.Itoa(carpoolNumber)
	candidate := base
	for counter := 1; counter <= maxStudentIDSuffix; counter++ {
		exists, err := s.students.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(counter)
	}
	return "", fmt.Errorf("%w: no free student ID starting with %s", apperrors.ErrResourceAlreadyExists, base)
}

func validateStudentContact(c models.StudentContactInfo) error {
	if !validation.ValidName(c.ParentOneFirstName) || !validation.ValidName(c.ParentOneLastName) {
		return fmt.Errorf("%w: the first parent's first and last name must not be empty", apperrors.ErrValidationFailed)
	}
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

// Count returns the number of students
func (s *studentServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.students.Count(ctx, repositories.StudentFilter{})
}

// List returns one page of students, optionally restricted to a grade
func (s *studentServiceImpl) List(ctx context.Context, grade string, page, size int) (*dto.PaginatedResponse, error) {
	var filter repositories.StudentFilter
	if g := helpers.NormalizeID(grade); g != "" {
		filter.Grade = &g
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, err := s.students.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.students.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedResponse{
		Items:      dto.FromStudents(students),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// Get returns one student
func (s *studentServiceImpl) Get(ctx context.Context, studentID string) (*dto.StudentResponse, error) {
	student, err := s.students.GetByStudentID(ctx, helpers.NormalizeID(studentID))
	if err != nil {
		return nil, err
	}
	resp := dto.FromStudent(student)
	return &resp, nil
}

// Update applies a partial update to one student
func (s *studentServiceImpl) Update(ctx context.Context, studentID string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.students.GetByStudentID(ctx, helpers.NormalizeID(studentID))
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, student, req); err != nil {
		return nil, err
	}
	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", student.StudentID).Msg("Student updated")
	resp := dto.FromStudent(student)
	return &resp, nil
}

// UpdateMany applies partial updates to several students; nothing is saved if any update is invalid
func (s *studentServiceImpl) UpdateMany(ctx context.Context, req *dto.UpdateStudentsRequest) ([]dto.StudentResponse, error) {
	ids := make([]string, 0, len(req.Students))
	updates := make(map[string]dto.UpdateStudentRequest, len(req.Students))
	for id, update := range req.Students {
		id = helpers.NormalizeID(id)
		ids = append(ids, id)
		updates[id] = update
	}

	students, err := s.getAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	changed := make([]*models.Student, 0, len(students))
	for i := range students {
		update := updates[students[i].StudentID]
		if err := s.applyUpdate(ctx, &students[i], &update); err != nil {
			return nil, fmt.Errorf("%w (student %s)", err, students[i].StudentID)
		}
		changed = append(changed, &students[i])
	}
	if err := s.students.UpdateMany(ctx, changed); err != nil {
		return nil, err
	}

	s.logger.Info().Strs("studentIDs", ids).Msg("Students updated")
	return dto.FromStudents(students), nil
}

func (s *studentServiceImpl) getAll(ctx context.Context, studentIDs []string) ([]models.Student, error) {
	ids := helpers.NormalizeIDs(studentIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no student IDs were provided", apperrors.ErrValidationFailed)
	}
	students, err := s.students.GetByStudentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(students))
	for _, st := range students {
		found[st.StudentID] = true
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return nil, fmt.Errorf("%w: the following students do not exist: %s", apperrors.ErrStudentNotFound, joinIDs(missing))
	}
	return students, nil
}

func (s *studentServiceImpl) applyUpdate(ctx context.Context, st *models.Student, req *dto.UpdateStudentRequest) error {
	if req.IsEmpty() {
		return fmt.Errorf("%w: the update does not change any field", apperrors.ErrValidationFailed)
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if !validation.ValidName(name) {
			return fmt.Errorf("%w: the first name must not be empty", apperrors.ErrValidationFailed)
		}
		st.FirstName = strings.ToLower(name)
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if !validation.ValidName(name) {
			return fmt.Errorf("%w: the last name must not be empty", apperrors.ErrValidationFailed)
		}
		st.LastName = strings.ToLower(name)
	}
	if req.CarpoolNumber != nil {
		if *req.CarpoolNumber < 0 {
			return fmt.Errorf("%w: the carpool number must not be negative", apperrors.ErrValidationFailed)
		}
		st.CarpoolNumber = *req.CarpoolNumber
	}
	if req.Grade != nil {
		grade, err := s.grades.GetByName(ctx, helpers.NormalizeID(*req.Grade))
		if err != nil {
			return err
		}
		st.GradeID = grade.ID
		st.GradeName = grade.Name
	}

	c := &st.Contact
	if req.ParentOneFirstName != nil {
		c.ParentOneFirstName = strings.ToLower(strings.TrimSpace(*req.ParentOneFirstName))
	}
	if req.ParentOneLastName != nil {
		c.ParentOneLastName = strings.ToLower(strings.TrimSpace(*req.ParentOneLastName))
	}
	if req.ParentTwoFirstName != nil {
		c.ParentTwoFirstName = lowerOptional(req.ParentTwoFirstName)
	}
	if req.ParentTwoLastName != nil {
		c.ParentTwoLastName = lowerOptional(req.ParentTwoLastName)
	}
	if req.PrimaryEmail != nil {
		c.PrimaryEmail = lowerEmail(*req.PrimaryEmail)
	}
	if req.SecondaryEmail != nil {
		c.SecondaryEmail = lowerOptional(req.SecondaryEmail)
	}
	c.EnablePrimaryEmailNotifications = boolOr(req.EnablePrimaryEmailNotifications, c.EnablePrimaryEmailNotifications)
	c.EnableSecondaryEmailNotifications = boolOr(req.EnableSecondaryEmailNotifications, c.EnableSecondaryEmailNotifications)
	st.IsEnabled = boolOr(req.IsEnabled, st.IsEnabled)

	return validateStudentContact(*c)
}

// Delete removes the students; any unknown ID fails the whole request
func (s *studentServiceImpl) Delete(ctx context.Context, studentIDs []string) (int64, error) {
	students, err := s.getAll(ctx, studentIDs)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.StudentID)
	}

	removed, err := s.students.Delete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Strs("studentIDs", ids).Int64("removed", removed).Msg("Students removed")
	return removed, nil
}
