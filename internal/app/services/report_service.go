package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/email"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/filestorage"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/reports"
	"github.com/rs/zerolog"
)

const automatedCheckOut = "Automated Check-Out"

var (
	timesheetCSVHeader = []string{
		"date", "employee_id", "first_name", "last_name",
		"work_hours", "pto_hours", "extra_hours", "comments",
	}
	careCSVHeader = []string{
		"date", "student_id", "first_name", "last_name",
		"before_care_hours", "before_care_check_in_signature", "before_care_check_out_signature",
		"after_care_hours", "after_care_check_in_signature", "after_care_check_out_signature",
	}
)

// Report is a generated report document
type Report struct {
	Name        string
	ContentType string
	Data        []byte
	Location    string
}

// ReportService defines the interface for report generation, storage and leave requests
type ReportService interface {
	TimesheetReport(ctx context.Context, query *dto.TimesheetReportQuery) (*Report, error)
	CareReport(ctx context.Context, query *dto.CareReportQuery) (*Report, error)
	List(ctx context.Context) (*dto.ReportListResponse, error)
	Delete(ctx context.Context, category, name string) error
	LeaveReasons() dto.LeaveReasonsResponse
	SendLeaveRequest(ctx context.Context, req *dto.LeaveRequest) error
}

// ReportDependencies groups what the report service needs
type ReportDependencies struct {
	Source    ReportSource
	Employees EmployeeStore
	Students  StudentStore
	Grades    GradeStore
	Store     filestorage.ReportStore
	PDF       reports.PDFRenderer
	Notifier  email.Notifier
	Logger    zerolog.Logger
	Now       func() time.Time

	// ExcludedEmployeeID is left out of timesheet reports, normally the default administrator
	ExcludedEmployeeID  string
	LeaveMailingAddress string
	LeaveReasons        []string
}

// reportServiceImpl implements ReportService
type reportServiceImpl struct {
	source       ReportSource
	employees    EmployeeStore
	students     StudentStore
	grades       GradeStore
	store        filestorage.ReportStore
	pdf          reports.PDFRenderer
	notifier     email.Notifier
	logger       zerolog.Logger
	now          func() time.Time
	excludedID   string
	leaveAddress string
	leaveReasons []string
}

// NewReportService creates a new ReportService
func NewReportService(deps ReportDependencies) ReportService {
	s := &reportServiceImpl{
		source:       deps.Source,
		employees:    deps.Employees,
		students:     deps.Students,
		grades:       deps.Grades,
		store:        deps.Store,
		pdf:          deps.PDF,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		now:          deps.Now,
		excludedID:   deps.ExcludedEmployeeID,
		leaveAddress: deps.LeaveMailingAddress,
		leaveReasons: deps.LeaveReasons,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// reportingPeriod formats the months covered by a range, e.g. "March 2024" or "March 2024 - April 2024"
func reportingPeriod(from, to time.Time) string {
	start := from.Format("January 2006")
	end := to.Format("January 2006")
	if start == end {
		return start
	}
	return start + " - " + end
}

func (s *reportServiceImpl) footer() string {
	return "Generated on " + s.now().Format("01/02/2006 at 15:04")
}

func reportFormat(format string) string {
	if format == dto.ReportFormatCSV {
		return dto.ReportFormatCSV
	}
	return dto.ReportFormatPDF
}

// TimesheetReport builds the timesheet report of every enabled employee with hours in the range
func (s *reportServiceImpl) TimesheetReport(ctx context.Context, query *dto.TimesheetReportQuery) (*Report, error) {
	from, to, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}
	rows, err := s.source.TimesheetRows(ctx, from, to, s.excludedID)
	if err != nil {
		return nil, err
	}

	format := reportFormat(query.Format)
	name := fmt.Sprintf("timesheet_%s_%s.%s", helpers.FormatDate(from), helpers.FormatDate(to), format)

	var data []byte
	if format == dto.ReportFormatCSV {
		data, err = reports.EncodeCSV(timesheetCSVHeader, timesheetCSVRows(rows))
	} else {
		data, err = s.pdf.RenderPDF(ctx, reports.TemplateTimesheet, reports.TimesheetData{
			Title: fmt.Sprintf("Employee Timesheet Report - [%s - %s]",
				helpers.FormatUSDate(from), helpers.FormatUSDate(to)),
			ReportingPeriod: reportingPeriod(from, to),
			Rows:            timesheetPDFRows(rows),
			Totals:          timesheetTotals(rows),
			Footer:          s.footer(),
		})
	}
	if err != nil {
		s.logger.Error().Err(err).Str("report", name).Msg("Failed to generate timesheet report")
		return nil, fmt.Errorf("%w: the timesheet report could not be generated", apperrors.ErrReportFailed)
	}
	return s.save(ctx, filestorage.CategoryEmployees, name, format, data)
}

func timesheetCSVRows(rows []models.TimesheetReportRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		comment := ""
		if r.Comment != nil {
			comment = *r.Comment
		}
		out = append(out, []string{
			helpers.FormatDate(r.DateWorked),
			r.EmployeeID,
			r.FirstName,
			r.LastName,
			reports.FormatHours(r.WorkHours),
			reports.FormatHours(r.PTOHours),
			reports.FormatHours(r.ExtraHours),
			comment,
		})
	}
	return out
}

// timesheetPDFRows folds the dated rows into one line per employee, in order of first appearance
func timesheetPDFRows(rows []models.TimesheetReportRow) []reports.TimesheetRow {
	var out []reports.TimesheetRow
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.EmployeeID]
		if !ok {
			i = len(out)
			index[r.EmployeeID] = i
			out = append(out, reports.TimesheetRow{
				EmployeeID: r.EmployeeID,
				FullName:   helpers.TitleCase(r.FirstName + " " + r.LastName),
			})
		}
		row := &out[i]
		row.Totals.WorkHours += r.WorkHours
		row.Totals.PTOHours += r.PTOHours
		row.Totals.ExtraHours += r.ExtraHours
		if r.Comment != nil && *r.Comment != "" {
			row.Comments = append(row.Comments, reports.DatedComment{Date: helpers.FormatUSDate(r.DateWorked), Comment: *r.Comment})
		}
	}
	return out
}

func timesheetTotals(rows []models.TimesheetReportRow) reports.HourTotals {
	var t reports.HourTotals
	for _, r := range rows {
		t.WorkHours += r.WorkHours
		t.PTOHours += r.PTOHours
		t.ExtraHours += r.ExtraHours
	}
	return t
}

// CareReport builds the care report of a grade over a date range
func (s *reportServiceImpl) CareReport(ctx context.Context, query *dto.CareReportQuery) (*Report, error) {
	from, to, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}
	grade, err := s.grades.GetByName(ctx, helpers.NormalizeID(query.Grade))
	if err != nil {
		return nil, err
	}
	rows, err := s.source.CareRows(ctx, grade.Name, from, to)
	if err != nil {
		return nil, err
	}

	format := reportFormat(query.Format)
	name := fmt.Sprintf("care_%s_%s_%s.%s", grade.Name, helpers.FormatDate(from), helpers.FormatDate(to), format)

	var data []byte
	if format == dto.ReportFormatCSV {
		data, err = reports.EncodeCSV(careCSVHeader, careCSVRows(rows))
	} else {
		var students []models.Student
		students, err = s.students.ListByGrade(ctx, grade.Name, true)
		if err != nil {
			return nil, err
		}
		data, err = s.pdf.RenderPDF(ctx, reports.TemplateCare, reports.CareData{
			Title: fmt.Sprintf("Student Care Report - [%s - %s]",
				helpers.FormatUSDate(from), helpers.FormatUSDate(to)),
			Grade:           helpers.TitleCase(grade.Name),
			ReportingPeriod: reportingPeriod(from, to),
			Rows:            carePDFRows(students, rows),
			Footer:          s.footer(),
		})
	}
	if err != nil {
		s.logger.Error().Err(err).Str("report", name).Msg("Failed to generate care report")
		return nil, fmt.Errorf("%w: the care report could not be generated", apperrors.ErrReportFailed)
	}
	return s.save(ctx, filestorage.CategoryStudents, name, format, data)
}

func checkOutSignature(c *models.StudentCareHours) string {
	if c.CheckOutSignature == nil || *c.CheckOutSignature == "" {
		return automatedCheckOut
	}
	return *c.CheckOutSignature
}

// careCSVRows merges the before-care and after-care sessions of a student into one line per day
func careCSVRows(rows []models.CareReportRow) [][]string {
	type day struct {
		student models.StudentRef
		date    time.Time
		before  *models.StudentCareHours
		after   *models.StudentCareHours
	}
	var days []*day
	index := make(map[string]*day)
	for i := range rows {
		r := &rows[i]
		key := helpers.FormatDate(r.Care.CareDate) + "/" + r.Student.StudentID
		d, ok := index[key]
		if !ok {
			d = &day{student: r.Student, date: r.Care.CareDate}
			index[key] = d
			days = append(days, d)
		}
		if r.Care.CareType == carewindow.AfterCare {
			d.after = &r.Care
		} else {
			d.before = &r.Care
		}
	}

	session := func(c *models.StudentCareHours) []string {
		if c == nil {
			return []string{reports.FormatDuration(0), "", ""}
		}
		return []string{reports.FormatDuration(c.Duration()), c.CheckInSignature, checkOutSignature(c)}
	}

	out := make([][]string, 0, len(days))
	for _, d := range days {
		line := []string{helpers.FormatDate(d.date), d.student.StudentID, d.student.FirstName, d.student.LastName}
		line = append(line, session(d.before)...)
		line = append(line, session(d.after)...)
		out = append(out, line)
	}
	return out
}

// carePDFRows totals each enabled student's before-care and after-care time
func carePDFRows(students []models.Student, rows []models.CareReportRow) []reports.CareRow {
	type totals struct{ before, after time.Duration }
	sums := make(map[string]*totals, len(students))
	for _, st := range students {
		sums[st.StudentID] = &totals{}
	}
	for i := range rows {
		t, ok := sums[rows[i].Student.StudentID]
		if !ok {
			continue
		}
		if rows[i].Care.CareType == carewindow.AfterCare {
			t.after += rows[i].Care.Duration()
		} else {
			t.before += rows[i].Care.Duration()
		}
	}

	out := make([]reports.CareRow, 0, len(students))
	for _, st := range students {
		t := sums[st.StudentID]
		out = append(out, reports.CareRow{
			StudentID:  st.StudentID,
			FullName:   helpers.TitleCase(st.FullName()),
			BeforeCare: reports.FormatDuration(t.before),
			AfterCare:  reports.FormatDuration(t.after),
			Total:      reports.FormatDuration(t.before + t.after),
		})
	}
	return out
}

func (s *reportServiceImpl) save(ctx context.Context, category, name, format string, data []byte) (*Report, error) {
	location, err := s.store.Save(ctx, category, name, data)
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Str("report", name).Msg("Failed to store report")
		return nil, fmt.Errorf("%w: the report could not be stored", apperrors.ErrReportFailed)
	}

	contentType := reports.ContentTypePDF
	if format == dto.ReportFormatCSV {
		contentType = reports.ContentTypeCSV
	}
	s.logger.Info().
		Str("category", category).
		Str("report", name).
		Int("bytes", len(data)).
		Str("location", location).
		Msg("Report generated")
	return &Report{Name: name, ContentType: contentType, Data: data, Location: location}, nil
}

// List returns the stored reports of both categories
func (s *reportServiceImpl) List(ctx context.Context) (*dto.ReportListResponse, error) {
	employees, err := s.store.List(ctx, filestorage.CategoryEmployees)
	if err != nil {
		return nil, err
	}
	students, err := s.store.List(ctx, filestorage.CategoryStudents)
	if err != nil {
		return nil, err
	}
	return &dto.ReportListResponse{Employees: employees, Students: students}, nil
}

// Delete removes a stored report
func (s *reportServiceImpl) Delete(ctx context.Context, category, name string) error {
	err := s.store.Delete(ctx, category, name)
	switch {
	case errors.Is(err, filestorage.ErrFileNotFound):
		return fmt.Errorf("%w: the report %s/%s does not exist", apperrors.ErrResourceNotFound, category, name)
	case errors.Is(err, filestorage.ErrInvalidName):
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	case err != nil:
		return err
	}
	s.logger.Info().Str("category", category).Str("report", name).Msg("Report removed")
	return nil
}

// LeaveReasons returns the configured absence reasons
func (s *reportServiceImpl) LeaveReasons() dto.LeaveReasonsResponse {
	reasons := make([]string, len(s.leaveReasons))
	copy(reasons, s.leaveReasons)
	return dto.LeaveReasonsResponse{Reasons: reasons}
}

// SendLeaveRequest emails a leave request to the office, copying the employee
func (s *reportServiceImpl) SendLeaveRequest(ctx context.Context, req *dto.LeaveRequest) error {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(req.EmployeeID))
	if err != nil {
		return err
	}
	if s.leaveAddress == "" {
		return fmt.Errorf("%w: no leave request mailing address is configured", apperrors.ErrEmailDelivery)
	}

	err = s.notifier.Send(ctx, email.Message{
		To:       []string{s.leaveAddress},
		CC:       []string{employee.Contact.PrimaryEmail},
		Subject:  "Employee Leave Request - " + helpers.TitleCase(employee.FullName()),
		Template: email.TemplateLeaveRequest,
		Data: map[string]any{
			"EmployeeID":   employee.EmployeeID,
			"EmployeeName": req.EmployeeName,
			"CurrentDate":  req.CurrentDate,
			"AbsenceStart": req.DateOfAbsenceStart,
			"AbsenceEnd":   req.DateOfAbsenceEnd,
			"FullDays":     req.NumFullDays,
			"HalfDays":     req.NumHalfDays,
			"Hours":        strconv.FormatFloat(req.NumHours, 'f', -1, 64),
			"Reasons":      req.AbsenceReasonList,
			"CoverText":    req.AbsenceCoverText,
			"Comments":     req.AbsenceComments,
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("employeeID", employee.EmployeeID).Msg("Failed to send leave request")
		return fmt.Errorf("%w: The email could not be sent", apperrors.ErrEmailDelivery)
	}
	s.logger.Info().Str("employeeID", employee.EmployeeID).Strs("reasons", req.AbsenceReasonList).Msg("Leave request sent")
	return nil
}
