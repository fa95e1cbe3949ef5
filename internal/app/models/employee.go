package models

import (
	"time"
)

// Role names stored in employee_roles.
const (
	RoleAdministrator = "administrator"
	RoleEmployee      = "employee"
)

// Token scopes.
const (
	ScopeAdministrator = "administrator"
	ScopeEmployee      = "employee"
)

// RoleScopes maps a role name to the scopes carried by its access tokens.
var RoleScopes = map[string][]string{
	RoleAdministrator: {ScopeAdministrator, ScopeEmployee},
	RoleEmployee:      {ScopeEmployee},
}

// EmployeeRole defines the employee_roles table
type EmployeeRole struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	EntryCreated time.Time `json:"entry_created" db:"entry_created"`
}

// Employee defines the employees table joined with its role and contact info
type Employee struct {
	ID                int64               `json:"-" db:"id"`
	EmployeeID        string              `json:"employee_id" db:"employee_id"`
	FirstName         string              `json:"first_name" db:"first_name"`
	LastName          string              `json:"last_name" db:"last_name"`
	PasswordHash      string              `json:"-" db:"password_hash"`
	RoleID            int64               `json:"-" db:"role_id"`
	RoleName          string              `json:"role" db:"-"`
	PTOHoursEnabled   bool                `json:"pto_hours_enabled" db:"pto_hours_enabled"`
	ExtraHoursEnabled bool                `json:"extra_hours_enabled" db:"extra_hours_enabled"`
	IsEnabled         bool                `json:"is_enabled" db:"is_enabled"`
	Contact           EmployeeContactInfo `json:"contact_info" db:"-"`
	LastUpdated       time.Time           `json:"last_updated" db:"last_updated"`
	EntryCreated      time.Time           `json:"entry_created" db:"entry_created"`
}

// FullName returns "First Last".
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeContactInfo defines the employee_contact_info table
type EmployeeContactInfo struct {
	PrimaryEmail                      string  `json:"primary_email" db:"primary_email"`
	SecondaryEmail                    *string `json:"secondary_email" db:"secondary_email"`
	EnablePrimaryEmailNotifications   bool    `json:"enable_primary_email_notifications" db:"enable_primary_email_notifications"`
	EnableSecondaryEmailNotifications bool    `json:"enable_secondary_email_notifications" db:"enable_secondary_email_notifications"`
}

// NotificationAddresses returns the addresses that opted into notifications.
func (c EmployeeContactInfo) NotificationAddresses() []string {
	return notificationAddresses(c.PrimaryEmail, c.SecondaryEmail, c.EnablePrimaryEmailNotifications, c.EnableSecondaryEmailNotifications)
}

func notificationAddresses(primary string, secondary *string, primaryOn, secondaryOn bool) []string {
	var to []string
	if primaryOn && primary != "" {
		to = append(to, primary)
	}
	if secondaryOn && secondary != nil && *secondary != "" {
		to = append(to, *secondary)
	}
	return to
}

// EmployeeHours defines the employee_hours table
type EmployeeHours struct {
	ID           int64     `db:"id"`
	EmployeeID   string    `db:"employee_id"`
	WorkHours    float64   `db:"work_hours"`
	PTOHours     float64   `db:"pto_hours"`
	ExtraHours   float64   `db:"extra_hours"`
	DateWorked   time.Time `db:"date_worked"`
	Comment      *string   `db:"comment"`
	LastUpdated  time.Time `db:"last_updated"`
	EntryCreated time.Time `db:"entry_created"`
}

// IsEmpty reports whether the entry records no hours and no comment.
func (h *EmployeeHours) IsEmpty() bool {
	return h.WorkHours == 0 && h.PTOHours == 0 && h.ExtraHours == 0
}
