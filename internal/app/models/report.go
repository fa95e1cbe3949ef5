package models

import "time"

// TimesheetReportRow is one employee_hours row joined with the employee's name.
type TimesheetReportRow struct {
	EmployeeID string
	FirstName  string
	LastName   string
	DateWorked time.Time
	WorkHours  float64
	PTOHours   float64
	ExtraHours float64
	Comment    *string
}

// CareReportRow is one student_care_hours row joined with the student's name.
type CareReportRow struct {
	Student StudentRef
	Care    StudentCareHours
}

// StudentRef identifies a student in report rows.
type StudentRef struct {
	StudentID string
	FirstName string
	LastName  string
}
