package dto

import (
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
)

// CreateStudentRequest represents a new student record
type CreateStudentRequest struct {
	FirstName                         string  `json:"first_name" binding:"required" example:"Jane"`
	LastName                          string  `json:"last_name" binding:"required" example:"Doe"`
	CarpoolNumber                     int     `json:"carpool_number" binding:"gte=0" example:"12"`
	Grade                             string  `json:"grade" binding:"required" example:"kindergarten"`
	ParentOneFirstName                string  `json:"parent_one_first_name" binding:"required" example:"John"`
	ParentOneLastName                 string  `json:"parent_one_last_name" binding:"required" example:"Doe"`
	ParentTwoFirstName                *string `json:"parent_two_first_name,omitempty"`
	ParentTwoLastName                 *string `json:"parent_two_last_name,omitempty"`
	PrimaryEmail                      string  `json:"primary_email" binding:"required,email" example:"parent@pca.org"`
	SecondaryEmail                    *string `json:"secondary_email,omitempty" binding:"omitempty,email"`
	EnablePrimaryEmailNotifications   *bool   `json:"enable_primary_email_notifications,omitempty"`
	EnableSecondaryEmailNotifications *bool   `json:"enable_secondary_email_notifications,omitempty"`
	IsEnabled                         *bool   `json:"is_enabled,omitempty"`
}

// UpdateStudentRequest is a partial student update; nil fields are left unchanged
type UpdateStudentRequest struct {
	FirstName                         *string `json:"first_name,omitempty"`
	LastName                          *string `json:"last_name,omitempty"`
	CarpoolNumber                     *int    `json:"carpool_number,omitempty" binding:"omitempty,gte=0"`
	Grade                             *string `json:"grade,omitempty"`
	ParentOneFirstName                *string `json:"parent_one_first_name,omitempty"`
	ParentOneLastName                 *string `json:"parent_one_last_name,omitempty"`
	ParentTwoFirstName                *string `json:"parent_two_first_name,omitempty"`
	ParentTwoLastName                 *string `json:"parent_two_last_name,omitempty"`
	PrimaryEmail                      *string `json:"primary_email,omitempty" binding:"omitempty,email"`
	SecondaryEmail                    *string `json:"secondary_email,omitempty" binding:"omitempty,email"`
	EnablePrimaryEmailNotifications   *bool   `json:"enable_primary_email_notifications,omitempty"`
	EnableSecondaryEmailNotifications *bool   `json:"enable_secondary_email_notifications,omitempty"`
	IsEnabled                         *bool   `json:"is_enabled,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (r *UpdateStudentRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.CarpoolNumber == nil && r.Grade == nil &&
		r.ParentOneFirstName == nil && r.ParentOneLastName == nil &&
		r.ParentTwoFirstName == nil && r.ParentTwoLastName == nil &&
		r.PrimaryEmail == nil && r.SecondaryEmail == nil &&
		r.EnablePrimaryEmailNotifications == nil && r.EnableSecondaryEmailNotifications == nil &&
		r.IsEnabled == nil
}

// UpdateStudentsRequest updates several students keyed by student ID
type UpdateStudentsRequest struct {
	Students map[string]UpdateStudentRequest `json:"students" binding:"required,min=1,dive"`
}

// StudentIDsRequest lists student IDs
type StudentIDsRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1" example:"jdoe12"`
}

// StudentContactResponse is the parents' contact information
type StudentContactResponse struct {
	ParentOneFirstName                string  `json:"parent_one_first_name"`
	ParentOneLastName                 string  `json:"parent_one_last_name"`
	ParentTwoFirstName                *string `json:"parent_two_first_name"`
	ParentTwoLastName                 *string `json:"parent_two_last_name"`
	PrimaryEmail                      string  `json:"primary_email"`
	SecondaryEmail                    *string `json:"secondary_email"`
	EnablePrimaryEmailNotifications   bool    `json:"enable_primary_email_notifications"`
	EnableSecondaryEmailNotifications bool    `json:"enable_secondary_email_notifications"`
}

// StudentResponse is a student record
type StudentResponse struct {
	StudentID     string                 `json:"student_id" example:"jdoe12"`
	FirstName     string                 `json:"first_name" example:"Jane"`
	LastName      string                 `json:"last_name" example:"Doe"`
	CarpoolNumber int                    `json:"carpool_number" example:"12"`
	Grade         string                 `json:"grade" example:"kindergarten"`
	IsEnabled     bool                   `json:"is_enabled"`
	ContactInfo   StudentContactResponse `json:"contact_info"`
	LastUpdated   time.Time              `json:"last_updated"`
	EntryCreated  time.Time              `json:"entry_created"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(s *models.Student) StudentResponse {
	c := s.Contact
	return StudentResponse{
		StudentID:     s.StudentID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		CarpoolNumber: s.CarpoolNumber,
		Grade:         s.GradeName,
		IsEnabled:     s.IsEnabled,
		ContactInfo: StudentContactResponse{
			ParentOneFirstName:                c.ParentOneFirstName,
			ParentOneLastName:                 c.ParentOneLastName,
			ParentTwoFirstName:                c.ParentTwoFirstName,
			ParentTwoLastName:                 c.ParentTwoLastName,
			PrimaryEmail:                      c.PrimaryEmail,
			SecondaryEmail:                    c.SecondaryEmail,
			EnablePrimaryEmailNotifications:   c.EnablePrimaryEmailNotifications,
			EnableSecondaryEmailNotifications: c.EnableSecondaryEmailNotifications,
		},
		LastUpdated:  s.LastUpdated,
		EntryCreated: s.EntryCreated,
	}
}

// FromStudents converts a slice of students
func FromStudents(students []models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, FromStudent(&students[i]))
	}
	return out
}

// GradeRequest creates a grade
type GradeRequest struct {
	Name string `json:"name" binding:"required" example:"kindergarten"`
}

// GradeResponse is a grade
type GradeResponse struct {
	Name         string    `json:"name" example:"kindergarten"`
	EntryCreated time.Time `json:"entry_created"`
}

// FromGrades converts a slice of grades
func FromGrades(grades []models.StudentGrade) []GradeResponse {
	out := make([]GradeResponse, 0, len(grades))
	for _, g := range grades {
		out = append(out, GradeResponse{Name: g.Name, EntryCreated: g.EntryCreated})
	}
	return out
}
