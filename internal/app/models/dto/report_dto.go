package dto

import "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/filestorage"

// Report formats.
const (
	ReportFormatPDF = "pdf"
	ReportFormatCSV = "csv"
)

// TimesheetReportQuery selects the range and format of the timesheet report
type TimesheetReportQuery struct {
	StartDate string `form:"start_date" binding:"required,date" example:"2024-03-01"`
	EndDate   string `form:"end_date" binding:"required,date" example:"2024-03-31"`
	Format    string `form:"format" binding:"omitempty,oneof=pdf csv" example:"pdf"`
}

// CareReportQuery selects the grade, range and format of the care report
type CareReportQuery struct {
	StartDate string `form:"start_date" binding:"required,date" example:"2024-03-01"`
	EndDate   string `form:"end_date" binding:"required,date" example:"2024-03-31"`
	Grade     string `form:"grade" binding:"required" example:"kindergarten"`
	Format    string `form:"format" binding:"omitempty,oneof=pdf csv" example:"csv"`
}

// ReportListResponse lists stored reports per category
type ReportListResponse struct {
	Employees []filestorage.FileInfo `json:"employees"`
	Students  []filestorage.FileInfo `json:"students"`
}

// LeaveReasonsResponse lists the configured absence reasons
type LeaveReasonsResponse struct {
	Reasons []string `json:"reasons" example:"Sick Leave,Personal Leave"`
}

// LeaveRequest is an employee's request for leave, emailed to the office
type LeaveRequest struct {
	EmployeeID         string   `json:"employee_id" binding:"required" example:"jdoe1"`
	EmployeeName       string   `json:"employee_name" binding:"required" example:"John Doe"`
	CurrentDate        string   `json:"current_date" binding:"required,date" example:"2024-03-01"`
	DateOfAbsenceStart string   `json:"date_of_absence_start" binding:"required,date" example:"2024-03-11"`
	DateOfAbsenceEnd   string   `json:"date_of_absence_end" binding:"required,date" example:"2024-03-12"`
	NumFullDays        int      `json:"num_full_days" binding:"gte=0" example:"2"`
	NumHalfDays        int      `json:"num_half_days" binding:"gte=0" example:"0"`
	NumHours           float64  `json:"num_hours" binding:"gte=0" example:"16"`
	AbsenceReasonList  []string `json:"absence_reason_list" binding:"required,min=1" example:"Sick Leave"`
	AbsenceCoverText   string   `json:"absence_cover_text,omitempty" example:"Mrs. Smith covers homeroom"`
	AbsenceComments    string   `json:"absence_comments,omitempty"`
}
