package dto

import (
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
)

// CheckInRequest checks a student in. CareType false is before-care, true is after-care.
// CheckInTime defaults to the current time.
type CheckInRequest struct {
	StudentID        string `json:"student_id" binding:"required" example:"jdoe12"`
	CheckInDate      string `json:"check_in_date" binding:"required,date" example:"2024-03-04"`
	CareType         *bool  `json:"care_type" binding:"required" example:"false"`
	CheckInTime      string `json:"check_in_time,omitempty" binding:"omitempty,clock" example:"07:15"`
	CheckInSignature string `json:"check_in_signature" binding:"required" example:"jsmith"`
}

// CheckOutRequest checks a student out. CheckOutTime defaults to the end of the service.
type CheckOutRequest struct {
	StudentID         string `json:"student_id" binding:"required" example:"jdoe12"`
	CheckOutDate      string `json:"check_out_date" binding:"required,date" example:"2024-03-04"`
	CareType          *bool  `json:"care_type" binding:"required" example:"true"`
	CheckOutTime      string `json:"check_out_time,omitempty" binding:"omitempty,clock" example:"17:30"`
	CheckOutSignature string `json:"check_out_signature" binding:"required" example:"mdoe"`
}

// DeleteCareRequest removes care records of a day; a nil CareType removes both
type DeleteCareRequest struct {
	StudentID string `json:"student_id" binding:"required" example:"jdoe12"`
	CareDate  string `json:"care_date" binding:"required,date" example:"2024-03-04"`
	CareType  *bool  `json:"care_type,omitempty"`
}

// StudentCareQuery selects the day of a student's care records
type StudentCareQuery struct {
	CareDate string `form:"care_date" binding:"omitempty,date" example:"2024-03-04"`
}

// CareStudentsQuery selects the students of a grade for a care session
type CareStudentsQuery struct {
	Grade    string `form:"grade" binding:"required" example:"kindergarten"`
	CareDate string `form:"care_date" binding:"required,date" example:"2024-03-04"`
	CareType *bool  `form:"care_type" binding:"required" example:"false"`
}

// CareRecordsQuery selects a student's care records over a date range
type CareRecordsQuery struct {
	StudentID string `form:"student_id" binding:"required" example:"jdoe12"`
	StartDate string `form:"start_date" binding:"required,date" example:"2024-03-01"`
	EndDate   string `form:"end_date" binding:"required,date" example:"2024-03-31"`
}

// TimeslotsResponse lists the configured care service times
type TimeslotsResponse struct {
	BeforeCareCheckInTime  string `json:"before_care_check_in_time" example:"06:00"`
	BeforeCareCheckOutTime string `json:"before_care_check_out_time" example:"08:00"`
	AfterCareCheckInTime   string `json:"after_care_check_in_time" example:"15:00"`
	AfterCareCheckOutTime  string `json:"after_care_check_out_time" example:"18:00"`
}

// CareRecordResponse is a stored care session
type CareRecordResponse struct {
	StudentID          string    `json:"student_id" example:"jdoe12"`
	CareDate           string    `json:"care_date" example:"2024-03-04"`
	CareType           bool      `json:"care_type" example:"false"`
	CheckInTime        string    `json:"check_in_time" example:"07:15"`
	CheckOutTime       string    `json:"check_out_time" example:"08:00"`
	CheckInSignature   string    `json:"check_in_signature" example:"jsmith"`
	CheckOutSignature  *string   `json:"check_out_signature"`
	ManuallyCheckedOut bool      `json:"manually_checked_out"`
	LastUpdated        time.Time `json:"last_updated"`
	EntryCreated       time.Time `json:"entry_created"`
}

// FromCareHours converts a models.StudentCareHours; nil yields nil
func FromCareHours(c *models.StudentCareHours) *CareRecordResponse {
	if c == nil {
		return nil
	}
	return &CareRecordResponse{
		StudentID:          c.StudentID,
		CareDate:           c.CareDate.Format("2006-01-02"),
		CareType:           bool(c.CareType),
		CheckInTime:        c.CheckInTime.String(),
		CheckOutTime:       c.CheckOutTime.String(),
		CheckInSignature:   c.CheckInSignature,
		CheckOutSignature:  c.CheckOutSignature,
		ManuallyCheckedOut: c.ManuallyCheckedOut,
		LastUpdated:        c.LastUpdated,
		EntryCreated:       c.EntryCreated,
	}
}

// StudentCareResponse is a student's care day together with the service times
type StudentCareResponse struct {
	Timeslots  TimeslotsResponse   `json:"timeslots"`
	CareDate   string              `json:"care_date" example:"2024-03-04"`
	BeforeCare *CareRecordResponse `json:"before_care"`
	AfterCare  *CareRecordResponse `json:"after_care"`
}

// CareStudentStatus is one student of a grade; NotApplicable marks students already checked in
type CareStudentStatus struct {
	StudentID     string `json:"student_id" example:"jdoe12"`
	FirstName     string `json:"first_name" example:"Jane"`
	LastName      string `json:"last_name" example:"Doe"`
	Grade         string `json:"grade" example:"kindergarten"`
	NotApplicable bool   `json:"not_applicable"`
}

// StudentSummary names a student
type StudentSummary struct {
	StudentID string `json:"student_id" example:"jdoe12"`
	FirstName string `json:"first_name" example:"Jane"`
	LastName  string `json:"last_name" example:"Doe"`
}

// CareDayResponse is one day of a student's care records
type CareDayResponse struct {
	Date       string              `json:"date" example:"2024-03-04"`
	Student    StudentSummary      `json:"student"`
	BeforeCare *CareRecordResponse `json:"before_care"`
	AfterCare  *CareRecordResponse `json:"after_care"`
}

// CareRecordsResponse lists care days, newest first
type CareRecordsResponse struct {
	Records []CareDayResponse `json:"records"`
}
