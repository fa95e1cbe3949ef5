package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/timesheet"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/email"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// TimesheetService defines the interface for employee timesheet operations
type TimesheetService interface {
	Create(ctx context.Context, req *dto.CreateTimesheetRequest) (*dto.TimesheetEntryResponse, error)
	Submit(ctx context.Context, employeeID string, req *dto.SubmitTimesheetRequest) ([]dto.TimesheetEntryResponse, error)
	Update(ctx context.Context, employeeID string, req *dto.UpdateTimesheetRequest) (*dto.TimesheetEntryResponse, error)
	Delete(ctx context.Context, employeeID string, req *dto.DeleteTimesheetRequest) (int64, error)
	DeleteAll(ctx context.Context, employeeID string) (int64, error)
	Get(ctx context.Context, employeeID string, query *dto.TimesheetQuery) (*dto.TimesheetResponse, error)
	Hours(ctx context.Context, employeeID string, query *dto.TimesheetQuery) (*dto.TimesheetHoursResponse, error)
	Count(ctx context.Context) (int64, error)
}

// timesheetServiceImpl implements TimesheetService
type timesheetServiceImpl struct {
	hours     EmployeeHoursStore
	employees EmployeeStore
	notifier  email.Notifier
	increment float64
	logger    zerolog.Logger
}

// NewTimesheetService creates a new TimesheetService. Hours are rounded up to multiples of increment.
func NewTimesheetService(hours EmployeeHoursStore, employees EmployeeStore, notifier email.Notifier, increment float64, logger zerolog.Logger) TimesheetService {
	if increment <= 0 {
		increment = timesheet.DefaultIncrement
	}
	return &timesheetServiceImpl{
		hours:     hours,
		employees: employees,
		notifier:  notifier,
		increment: increment,
		logger:    logger,
	}
}

// normalize rounds the hours and zeroes the kinds of hours the employee may not record
func (s *timesheetServiceImpl) normalize(e *models.Employee, h *models.EmployeeHours) {
	h.WorkHours = timesheet.RoundHours(h.WorkHours, s.increment)
	h.PTOHours = timesheet.RoundHours(h.PTOHours, s.increment)
	h.ExtraHours = timesheet.RoundHours(h.ExtraHours, s.increment)
	if !e.PTOHoursEnabled {
		h.PTOHours = 0
	}
	if !e.ExtraHoursEnabled {
		h.ExtraHours = 0
	}
	h.Comment = helpers.OptionalString(h.Comment)
}

func (s *timesheetServiceImpl) entryFromDay(e *models.Employee, day dto.TimesheetDay) (*models.EmployeeHours, error) {
	date, err := parseDate(day.DateWorked)
	if err != nil {
		return nil, err
	}
	h := &models.EmployeeHours{
		EmployeeID: e.EmployeeID,
		DateWorked: date,
		WorkHours:  day.WorkHours,
		PTOHours:   day.PTOHours,
		ExtraHours: day.ExtraHours,
		Comment:    day.Comment,
	}
	s.normalize(e, h)
	return h, nil
}

// Create records a single new day
func (s *timesheetServiceImpl) Create(ctx context.Context, req *dto.CreateTimesheetRequest) (*dto.TimesheetEntryResponse, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(req.EmployeeID))
	if err != nil {
		return nil, err
	}
	entry, err := s.entryFromDay(employee, req.TimesheetDay)
	if err != nil {
		return nil, err
	}
	if err := s.hours.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().Str("employeeID", employee.EmployeeID).Str("date", helpers.FormatDate(entry.DateWorked)).Msg("Timesheet entry created")
	resp := dto.FromEmployeeHours(entry)
	return &resp, nil
}

// Submit upserts several days in one transaction. Existing days are overwritten; new days
// without any hours are skipped. The employee is notified when anything was saved.
func (s *timesheetServiceImpl) Submit(ctx context.Context, employeeID string, req *dto.SubmitTimesheetRequest) ([]dto.TimesheetEntryResponse, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(employeeID))
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]*models.EmployeeHours, len(req.TimeSheets))
	var from, to time.Time
	for _, day := range req.TimeSheets {
		entry, err := s.entryFromDay(employee, day)
		if err != nil {
			return nil, err
		}
		byDate[entry.DateWorked] = entry
		if from.IsZero() || entry.DateWorked.Before(from) {
			from = entry.DateWorked
		}
		if entry.DateWorked.After(to) {
			to = entry.DateWorked
		}
	}

	existing, err := s.hours.ListRange(ctx, employee.EmployeeID, from, to)
	if err != nil {
		return nil, err
	}
	stored := make(map[time.Time]bool, len(existing))
	for _, h := range existing {
		stored[helpers.DateOf(h.DateWorked)] = true
	}

	entries := make([]models.EmployeeHours, 0, len(byDate))
	for date, entry := range byDate {
		if entry.IsEmpty() && !stored[date] {
			continue
		}
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].DateWorked.Before(entries[j].DateWorked) })

	if len(entries) == 0 {
		return []dto.TimesheetEntryResponse{}, nil
	}
	if err := s.hours.Upsert(ctx, entries); err != nil {
		return nil, err
	}
	s.logger.Info().Str("employeeID", employee.EmployeeID).Int("entries", len(entries)).Msg("Timesheet submitted")

	s.notifySaved(ctx, employee, entries)

	out := make([]dto.TimesheetEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, dto.FromEmployeeHours(&entries[i]))
	}
	return out, nil
}

func (s *timesheetServiceImpl) notifySaved(ctx context.Context, e *models.Employee, entries []models.EmployeeHours) {
	to := e.Contact.NotificationAddresses()
	if len(to) == 0 {
		return
	}
	rows := make([]map[string]any, 0, len(entries))
	for _, h := range entries {
		rows = append(rows, map[string]any{
			"Date":       helpers.FormatDate(h.DateWorked),
			"WorkHours":  h.WorkHours,
			"PTOHours":   h.PTOHours,
			"ExtraHours": h.ExtraHours,
		})
	}
	err := s.notifier.Send(ctx, email.Message{
		To:       to,
		Subject:  "Employee Timesheet Saved",
		Template: email.TemplateTimesheetSaved,
		Data: map[string]any{
			"EmployeeName": helpers.TitleCase(e.FullName()),
			"Entries":      rows,
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("employeeID", e.EmployeeID).Msg("Failed to send timesheet notification")
	}
}

// Update changes the stored entry of a day
func (s *timesheetServiceImpl) Update(ctx context.Context, employeeID string, req *dto.UpdateTimesheetRequest) (*dto.TimesheetEntryResponse, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(employeeID))
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.DateWorked)
	if err != nil {
		return nil, err
	}
	entry, err := s.hours.Get(ctx, employee.EmployeeID, date)
	if err != nil {
		return nil, err
	}

	if req.WorkHours != nil {
		entry.WorkHours = *req.WorkHours
	}
	if req.PTOHours != nil {
		entry.PTOHours = *req.PTOHours
	}
	if req.ExtraHours != nil {
		entry.ExtraHours = *req.ExtraHours
	}
	if req.Comment != nil {
		entry.Comment = req.Comment
	}
	s.normalize(employee, entry)

	if err := s.hours.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info().Str("employeeID", employee.EmployeeID).Str("date", req.DateWorked).Msg("Timesheet entry updated")
	resp := dto.FromEmployeeHours(entry)
	return &resp, nil
}

// Delete removes the entries of the given days
func (s *timesheetServiceImpl) Delete(ctx context.Context, employeeID string, req *dto.DeleteTimesheetRequest) (int64, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(employeeID))
	if err != nil {
		return 0, err
	}
	dates := make([]time.Time, 0, len(req.DatesWorked))
	for _, d := range req.DatesWorked {
		date, err := parseDate(d)
		if err != nil {
			return 0, err
		}
		dates = append(dates, date)
	}

	removed, err := s.hours.Delete(ctx, employee.EmployeeID, dates)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: Cannot remove employee time sheets that do not exist", apperrors.ErrResourceNotFound)
	}
	s.logger.Info().Str("employeeID", employee.EmployeeID).Int64("removed", removed).Msg("Timesheet entries removed")
	return removed, nil
}

// DeleteAll removes every entry of the employee
func (s *timesheetServiceImpl) DeleteAll(ctx context.Context, employeeID string) (int64, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(employeeID))
	if err != nil {
		return 0, err
	}
	removed, err := s.hours.DeleteAll(ctx, employee.EmployeeID)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("employeeID", employee.EmployeeID).Int64("removed", removed).Msg("All timesheet entries removed")
	return removed, nil
}

// Get returns the entries and totals of a date range
func (s *timesheetServiceImpl) Get(ctx context.Context, employeeID string, query *dto.TimesheetQuery) (*dto.TimesheetResponse, error) {
	entries, err := s.listRange(ctx, employeeID, query)
	if err != nil {
		return nil, err
	}
	resp := &dto.TimesheetResponse{TimeSheets: make(map[string]dto.TimesheetEntryResponse, len(entries))}
	for i := range entries {
		h := &entries[i]
		resp.TotalHours.Add(h.WorkHours, h.PTOHours, h.ExtraHours)
		resp.TimeSheets[helpers.FormatDate(h.DateWorked)] = dto.FromEmployeeHours(h)
	}
	return resp, nil
}

// Hours returns the totals of a date range
func (s *timesheetServiceImpl) Hours(ctx context.Context, employeeID string, query *dto.TimesheetQuery) (*dto.TimesheetHoursResponse, error) {
	entries, err := s.listRange(ctx, employeeID, query)
	if err != nil {
		return nil, err
	}
	resp := &dto.TimesheetHoursResponse{}
	for _, h := range entries {
		resp.TotalHours.Add(h.WorkHours, h.PTOHours, h.ExtraHours)
	}
	return resp, nil
}

func (s *timesheetServiceImpl) listRange(ctx context.Context, employeeID string, query *dto.TimesheetQuery) ([]models.EmployeeHours, error) {
	from, to, err := parseDateRange(query.DateStart, query.DateEnd)
	if err != nil {
		return nil, err
	}
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(employeeID))
	if err != nil {
		return nil, err
	}
	return s.hours.ListRange(ctx, employee.EmployeeID, from, to)
}

// Count returns the number of stored timesheet entries
func (s *timesheetServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.hours.Count(ctx)
}
