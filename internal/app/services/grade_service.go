package services

import (
	"context"
	"fmt"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// GradeService defines the interface for student grade operations
type GradeService interface {
	Create(ctx context.Context, req *dto.GradeRequest) (*dto.GradeResponse, error)
	List(ctx context.Context) ([]dto.GradeResponse, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, name string) (*dto.GradeResponse, error)
	Delete(ctx context.Context, name string) error
}

// gradeServiceImpl implements GradeService
type gradeServiceImpl struct {
	grades GradeStore
	logger zerolog.Logger
}

// NewGradeService creates a new GradeService
func NewGradeService(grades GradeStore, logger zerolog.Logger) GradeService {
	return &gradeServiceImpl{grades: grades, logger: logger}
}

// Create adds a grade; names are stored lower-cased
func (s *gradeServiceImpl) Create(ctx context.Context, req *dto.GradeRequest) (*dto.GradeResponse, error) {
	name := helpers.NormalizeID(req.Name)
	if !validation.ValidName(name) {
		return nil, fmt.Errorf("%w: the grade name must not be empty", apperrors.ErrValidationFailed)
	}

	grade := &models.StudentGrade{Name: name}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, err
	}
	s.logger.Info().Str("grade", grade.Name).Msg("Grade created")
	return &dto.GradeResponse{Name: grade.Name, EntryCreated: grade.EntryCreated}, nil
}

// List returns every grade
func (s *gradeServiceImpl) List(ctx context.Context) ([]dto.GradeResponse, error) {
	grades, err := s.grades.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromGrades(grades), nil
}

// Count returns the number of grades
func (s *gradeServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.grades.Count(ctx)
}

// Get returns one grade
func (s *gradeServiceImpl) Get(ctx context.Context, name string) (*dto.GradeResponse, error) {
	grade, err := s.grades.GetByName(ctx, helpers.NormalizeID(name))
	if err != nil {
		return nil, err
	}
	return &dto.GradeResponse{Name: grade.Name, EntryCreated: grade.EntryCreated}, nil
}

// Delete removes a grade that no student belongs to
func (s *gradeServiceImpl) Delete(ctx context.Context, name string) error {
	name = helpers.NormalizeID(name)
	if err := s.grades.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.Info().Str("grade", name).Msg("Grade removed")
	return nil
}
