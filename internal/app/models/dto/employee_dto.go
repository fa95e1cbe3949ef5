package dto

import (
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
)

// RegisterEmployeeRequest represents a new employee account
type RegisterEmployeeRequest struct {
	FirstName                         string  `json:"first_name" binding:"required" example:"John"`
	LastName                          string  `json:"last_name" binding:"required" example:"Doe"`
	Password                          string  `json:"password" binding:"required,min=8"`
	Role                              string  `json:"role" binding:"required" example:"employee"`
	PrimaryEmail                      string  `json:"primary_email" binding:"required,email" example:"jdoe@pca.org"`
	SecondaryEmail                    *string `json:"secondary_email,omitempty" binding:"omitempty,email"`
	EnablePrimaryEmailNotifications   *bool   `json:"enable_primary_email_notifications,omitempty"`
	EnableSecondaryEmailNotifications *bool   `json:"enable_secondary_email_notifications,omitempty"`
	PTOHoursEnabled                   bool    `json:"pto_hours_enabled"`
	ExtraHoursEnabled                 bool    `json:"extra_hours_enabled"`
	IsEnabled                         *bool   `json:"is_enabled,omitempty"`
}

// UpdateEmployeeRequest is a partial employee update; nil fields are left unchanged
type UpdateEmployeeRequest struct {
	FirstName                         *string `json:"first_name,omitempty"`
	LastName                          *string `json:"last_name,omitempty"`
	Password                          *string `json:"password,omitempty" binding:"omitempty,min=8"`
	Role                              *string `json:"role,omitempty"`
	PrimaryEmail                      *string `json:"primary_email,omitempty" binding:"omitempty,email"`
	SecondaryEmail                    *string `json:"secondary_email,omitempty" binding:"omitempty,email"`
	EnablePrimaryEmailNotifications   *bool   `json:"enable_primary_email_notifications,omitempty"`
	EnableSecondaryEmailNotifications *bool   `json:"enable_secondary_email_notifications,omitempty"`
	PTOHoursEnabled                   *bool   `json:"pto_hours_enabled,omitempty"`
	ExtraHoursEnabled                 *bool   `json:"extra_hours_enabled,omitempty"`
	IsEnabled                         *bool   `json:"is_enabled,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Password == nil && r.Role == nil &&
		r.PrimaryEmail == nil && r.SecondaryEmail == nil &&
		r.EnablePrimaryEmailNotifications == nil && r.EnableSecondaryEmailNotifications == nil &&
		r.PTOHoursEnabled == nil && r.ExtraHoursEnabled == nil && r.IsEnabled == nil
}

// UpdateEmployeesRequest updates several employees keyed by employee ID
type UpdateEmployeesRequest struct {
	Employees map[string]UpdateEmployeeRequest `json:"employees" binding:"required,min=1,dive"`
}

// EmployeeIDsRequest lists employee IDs
type EmployeeIDsRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1" example:"jdoe1,asmith2"`
}

// EmployeeContactResponse is an employee's contact information
type EmployeeContactResponse struct {
	PrimaryEmail                      string  `json:"primary_email" example:"jdoe@pca.org"`
	SecondaryEmail                    *string `json:"secondary_email"`
	EnablePrimaryEmailNotifications   bool    `json:"enable_primary_email_notifications"`
	EnableSecondaryEmailNotifications bool    `json:"enable_secondary_email_notifications"`
}

// EmployeeResponse is an employee without credentials
type EmployeeResponse struct {
	EmployeeID        string                  `json:"employee_id" example:"jdoe1"`
	FirstName         string                  `json:"first_name" example:"John"`
	LastName          string                  `json:"last_name" example:"Doe"`
	Role              string                  `json:"role" example:"employee"`
	PTOHoursEnabled   bool                    `json:"pto_hours_enabled"`
	ExtraHoursEnabled bool                    `json:"extra_hours_enabled"`
	IsEnabled         bool                    `json:"is_enabled"`
	ContactInfo       EmployeeContactResponse `json:"contact_info"`
	LastUpdated       time.Time               `json:"last_updated"`
	EntryCreated      time.Time               `json:"entry_created"`
}

// FromEmployee converts a models.Employee to an EmployeeResponse
func FromEmployee(e *models.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:        e.EmployeeID,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		Role:              e.RoleName,
		PTOHoursEnabled:   e.PTOHoursEnabled,
		ExtraHoursEnabled: e.ExtraHoursEnabled,
		IsEnabled:         e.IsEnabled,
		ContactInfo: EmployeeContactResponse{
			PrimaryEmail:                      e.Contact.PrimaryEmail,
			SecondaryEmail:                    e.Contact.SecondaryEmail,
			EnablePrimaryEmailNotifications:   e.Contact.EnablePrimaryEmailNotifications,
			EnableSecondaryEmailNotifications: e.Contact.EnableSecondaryEmailNotifications,
		},
		LastUpdated:  e.LastUpdated,
		EntryCreated: e.EntryCreated,
	}
}

// FromEmployees converts a slice of employees
func FromEmployees(employees []models.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, FromEmployee(&employees[i]))
	}
	return out
}
