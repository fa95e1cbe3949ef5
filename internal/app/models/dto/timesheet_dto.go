package dto

import (
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/timesheet"
)

// TimesheetDay is one day of hours. Hours are rounded up to the next half hour on save
// and negative values are stored as 0.
type TimesheetDay struct {
	DateWorked string  `json:"date_worked" binding:"required,date" example:"2024-03-04"`
	WorkHours  float64 `json:"work_hours" example:"8"`
	PTOHours   float64 `json:"pto_hours" example:"0"`
	ExtraHours float64 `json:"extra_hours" example:"1.5"`
	Comment    *string `json:"comment,omitempty" binding:"omitempty,max=1024"`
}

// CreateTimesheetRequest records a single day for an employee
type CreateTimesheetRequest struct {
	EmployeeID string `json:"employee_id" binding:"required" example:"jdoe1"`
	TimesheetDay
}

// SubmitTimesheetRequest upserts several days at once
type SubmitTimesheetRequest struct {
	TimeSheets []TimesheetDay `json:"time_sheets" binding:"required,min=1,dive"`
}

// UpdateTimesheetRequest changes the entry of DateWorked; nil fields are left unchanged
type UpdateTimesheetRequest struct {
	DateWorked string   `json:"date_worked" binding:"required,date" example:"2024-03-04"`
	WorkHours  *float64 `json:"work_hours,omitempty"`
	PTOHours   *float64 `json:"pto_hours,omitempty"`
	ExtraHours *float64 `json:"extra_hours,omitempty"`
	Comment    *string  `json:"comment,omitempty" binding:"omitempty,max=1024"`
}

// DeleteTimesheetRequest lists the dates to remove
type DeleteTimesheetRequest struct {
	DatesWorked []string `json:"dates_worked" binding:"required,min=1,dive,date" example:"2024-03-04"`
}

// TimesheetQuery is the date range of timesheet lookups
type TimesheetQuery struct {
	DateStart string `form:"date_start" binding:"required,date" example:"2024-03-01"`
	DateEnd   string `form:"date_end" binding:"required,date" example:"2024-03-31"`
}

// TimesheetEntryResponse is a stored timesheet day
type TimesheetEntryResponse struct {
	EmployeeID   string    `json:"employee_id" example:"jdoe1"`
	DateWorked   string    `json:"date_worked" example:"2024-03-04"`
	WorkHours    float64   `json:"work_hours" example:"8"`
	PTOHours     float64   `json:"pto_hours" example:"0"`
	ExtraHours   float64   `json:"extra_hours" example:"1.5"`
	Comment      *string   `json:"comment"`
	LastUpdated  time.Time `json:"last_updated"`
	EntryCreated time.Time `json:"entry_created"`
}

// FromEmployeeHours converts a models.EmployeeHours
func FromEmployeeHours(h *models.EmployeeHours) TimesheetEntryResponse {
	return TimesheetEntryResponse{
		EmployeeID:   h.EmployeeID,
		DateWorked:   h.DateWorked.Format("2006-01-02"),
		WorkHours:    h.WorkHours,
		PTOHours:     h.PTOHours,
		ExtraHours:   h.ExtraHours,
		Comment:      h.Comment,
		LastUpdated:  h.LastUpdated,
		EntryCreated: h.EntryCreated,
	}
}

// TimesheetResponse is an employee's timesheet over a date range, keyed by YYYY-MM-DD
type TimesheetResponse struct {
	TotalHours timesheet.Totals                  `json:"total_hours"`
	TimeSheets map[string]TimesheetEntryResponse `json:"time_sheets"`
}

// TimesheetHoursResponse carries the totals only
type TimesheetHoursResponse struct {
	TotalHours timesheet.Totals `json:"total_hours"`
}
