package models

import (
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
)

// StudentGrade defines the student_grades table
type StudentGrade struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	EntryCreated time.Time `json:"entry_created" db:"entry_created"`
}

// Student defines the students table joined with its grade and contact info
type Student struct {
	ID            int64              `db:"id"`
	StudentID     string             `db:"student_id"`
	FirstName     string             `db:"first_name"`
	LastName      string             `db:"last_name"`
	CarpoolNumber int                `db:"carpool_number"`
	GradeID       int64              `db:"grade_id"`
	GradeName     string             `db:"-"`
	IsEnabled     bool               `db:"is_enabled"`
	Contact       StudentContactInfo `db:"-"`
	LastUpdated   time.Time          `db:"last_updated"`
	EntryCreated  time.Time          `db:"entry_created"`
}

// FullName returns "First Last".
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentContactInfo defines the student_contact_info table
type StudentContactInfo struct {
	ParentOneFirstName                string  `db:"parent_one_first_name"`
	ParentOneLastName                 string  `db:"parent_one_last_name"`
	ParentTwoFirstName                *string `db:"parent_two_first_name"`
	ParentTwoLastName                 *string `db:"parent_two_last_name"`
	PrimaryEmail                      string  `db:"primary_email"`
	SecondaryEmail                    *string `db:"secondary_email"`
	EnablePrimaryEmailNotifications   bool    `db:"enable_primary_email_notifications"`
	EnableSecondaryEmailNotifications bool    `db:"enable_secondary_email_notifications"`
}

// NotificationAddresses returns the parent addresses that opted into notifications.
func (c StudentContactInfo) NotificationAddresses() []string {
	return notificationAddresses(c.PrimaryEmail, c.SecondaryEmail, c.EnablePrimaryEmailNotifications, c.EnableSecondaryEmailNotifications)
}

// StudentCareHours defines the student_care_hours table
type StudentCareHours struct {
	ID                 int64               `db:"id"`
	StudentID          string              `db:"student_id"`
	CareDate           time.Time           `db:"care_date"`
	CareType           carewindow.CareType `db:"care_type"`
	CheckInTime        carewindow.Clock    `db:"check_in_time"`
	CheckOutTime       carewindow.Clock    `db:"check_out_time"`
	CheckInSignature   string              `db:"check_in_signature"`
	CheckOutSignature  *string             `db:"check_out_signature"`
	ManuallyCheckedOut bool                `db:"manually_checked_out"`
	LastUpdated        time.Time           `db:"last_updated"`
	EntryCreated       time.Time           `db:"entry_created"`
}

// Duration is the time spent in care.
func (c *StudentCareHours) Duration() time.Duration {
	return c.CheckOutTime.Duration() - c.CheckInTime.Duration()
}
