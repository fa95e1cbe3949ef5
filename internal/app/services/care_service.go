package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/email"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// CareService defines the interface for before-care and after-care operations
type CareService interface {
	CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CareRecordResponse, error)
	CheckOut(ctx context.Context, req *dto.CheckOutRequest) (*dto.CareRecordResponse, error)
	Timeslots() dto.TimeslotsResponse
	StudentCare(ctx context.Context, studentID string, query *dto.StudentCareQuery) (*dto.StudentCareResponse, error)
	Students(ctx context.Context, query *dto.CareStudentsQuery) ([]dto.CareStudentStatus, error)
	Records(ctx context.Context, query *dto.CareRecordsQuery) (*dto.CareRecordsResponse, error)
	Delete(ctx context.Context, req *dto.DeleteCareRequest) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// CareDependencies groups what the care service needs
type CareDependencies struct {
	Care     CareStore
	Students StudentStore
	Grades   GradeStore
	Schedule carewindow.Schedule
	Notifier email.Notifier
	Logger   zerolog.Logger
	Now      func() time.Time
}

// careServiceImpl implements CareService
type careServiceImpl struct {
	care     CareStore
	students StudentStore
	grades   GradeStore
	schedule carewindow.Schedule
	notifier email.Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCareService creates a new CareService
func NewCareService(deps CareDependencies) CareService {
	s := &careServiceImpl{
		care:     deps.Care,
		students: deps.Students,
		grades:   deps.Grades,
		schedule: deps.Schedule,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		now:      deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func parseClock(value string) (carewindow.Clock, error) {
	c, err := carewindow.ParseClock(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	return c, nil
}

func normalizeSignature(value string) (string, error) {
	signature := strings.ToLower(strings.TrimSpace(value))
	if signature == "" {
		return "", fmt.Errorf("%w: a signature is required", apperrors.ErrValidationFailed)
	}
	return signature, nil
}

// CheckIn records the arrival of a student. The session is stored with its check-out
// preset to the end of the service so that students who are never checked out still
// have a complete record.
func (s *careServiceImpl) CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CareRecordResponse, error) {
	careType := carewindow.CareType(*req.CareType)
	date, err := parseDate(req.CheckInDate)
	if err != nil {
		return nil, err
	}
	signature, err := normalizeSignature(req.CheckInSignature)
	if err != nil {
		return nil, err
	}
	at := carewindow.ClockOf(s.now())
	if req.CheckInTime != "" {
		if at, err = parseClock(req.CheckInTime); err != nil {
			return nil, err
		}
	}

	student, err := s.students.GetByStudentID(ctx, helpers.NormalizeID(req.StudentID))
	if err != nil {
		return nil, err
	}

	existing, err := s.care.Get(ctx, student.StudentID, date, careType)
	switch {
	case err == nil && existing.ManuallyCheckedOut:
		return nil, fmt.Errorf("%w: The student has already checked out from %s-care for the day",
			apperrors.ErrCareState, careType.Label())
	case err == nil:
		return nil, fmt.Errorf("%w: This student has already checked-in for %s-care at %s for the provided date: %s",
			apperrors.ErrCareState, careType.Label(), existing.CheckInTime, req.CheckInDate)
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, err
	}

	window := s.schedule.For(careType)
	if err := window.CheckIn(at); err != nil {
		if errors.Is(err, carewindow.ErrBeforeStart) {
			return nil, fmt.Errorf("%w: The student cannot be checked in to %s-care at %s before the service starts at %s",
				apperrors.ErrCareWindow, careType.Label(), at, window.Start)
		}
		return nil, fmt.Errorf("%w: The student cannot be checked in after the end of the student care service",
			apperrors.ErrCareWindow)
	}

	record := &models.StudentCareHours{
		StudentID:        student.StudentID,
		CareDate:         date,
		CareType:         careType,
		CheckInTime:      at,
		CheckOutTime:     window.End,
		CheckInSignature: signature,
	}
	if err := s.care.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("studentID", student.StudentID).
		Str("careType", careType.Label()).
		Str("date", req.CheckInDate).
		Str("time", at.String()).
		Msg("Student checked in")
	s.notify(ctx, student, email.TemplateCareCheckIn, "Student Checked In To "+careType.Title()+" Services", record, at, signature)
	return dto.FromCareHours(record), nil
}

// CheckOut records the departure of a checked-in student. The time defaults to the end of
// the service and is clamped to it.
func (s *careServiceImpl) CheckOut(ctx context.Context, req *dto.CheckOutRequest) (*dto.CareRecordResponse, error) {
	careType := carewindow.CareType(*req.CareType)
	date, err := parseDate(req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	signature, err := normalizeSignature(req.CheckOutSignature)
	if err != nil {
		return nil, err
	}
	var requested *carewindow.Clock
	if req.CheckOutTime != "" {
		c, err := parseClock(req.CheckOutTime)
		if err != nil {
			return nil, err
		}
		requested = &c
	}

	student, err := s.students.GetByStudentID(ctx, helpers.NormalizeID(req.StudentID))
	if err != nil {
		return nil, err
	}

	record, err := s.care.Get(ctx, student.StudentID, date, careType)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: The student is not checked in to the current service, so the student cannot be checked out",
				apperrors.ErrCareState)
		}
		return nil, err
	}
	if record.ManuallyCheckedOut {
		return nil, fmt.Errorf("%w: The student has already checked out from %s-care for the day",
			apperrors.ErrCareState, careType.Label())
	}

	window := s.schedule.For(careType)
	at, err := window.CheckOut(requested, record.CheckInTime)
	if err != nil {
		attempted := window.End
		if requested != nil {
			attempted = *requested
		}
		return nil, fmt.Errorf("%w: The provided check-out time of %s is invalid, it must not be before the student's check-in time of %s",
			apperrors.ErrCareWindow, attempted, record.CheckInTime)
	}

	record.CheckOutTime = at
	record.CheckOutSignature = &signature
	if err := s.care.CheckOut(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("studentID", student.StudentID).
		Str("careType", careType.Label()).
		Str("date", req.CheckOutDate).
		Str("time", at.String()).
		Msg("Student checked out")
	s.notify(ctx, student, email.TemplateCareCheckOut, "Student Checked Out Of "+careType.Title()+" Services", record, at, signature)
	return dto.FromCareHours(record), nil
}

func (s *careServiceImpl) notify(ctx context.Context, student *models.Student, template, subject string, record *models.StudentCareHours, at carewindow.Clock, signature string) {
	to := student.Contact.NotificationAddresses()
	if len(to) == 0 {
		return
	}
	err := s.notifier.Send(ctx, email.Message{
		To:       to,
		Subject:  subject,
		Template: template,
		Data: map[string]any{
			"CareTitle":   record.CareType.Title(),
			"StudentName": helpers.TitleCase(student.FullName()),
			"Date":        helpers.FormatUSDate(record.CareDate),
			"Time":        at.String(),
			"Signature":   signature,
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("studentID", student.StudentID).Str("subject", subject).Msg("Failed to notify parents")
	}
}

// Timeslots returns the configured service times
func (s *careServiceImpl) Timeslots() dto.TimeslotsResponse {
	return dto.TimeslotsResponse{
		BeforeCareCheckInTime:  s.schedule.BeforeCare.Start.String(),
		BeforeCareCheckOutTime: s.schedule.BeforeCare.End.String(),
		AfterCareCheckInTime:   s.schedule.AfterCare.Start.String(),
		AfterCareCheckOutTime:  s.schedule.AfterCare.End.String(),
	}
}

// StudentCare returns both sessions of a student for a day, today by default
func (s *careServiceImpl) StudentCare(ctx context.Context, studentID string, query *dto.StudentCareQuery) (*dto.StudentCareResponse, error) {
	date := helpers.DateOf(s.now())
	if query.CareDate != "" {
		d, err := parseDate(query.CareDate)
		if err != nil {
			return nil, err
		}
		date = d
	}

	student, err := s.students.GetByStudentID(ctx, helpers.NormalizeID(studentID))
	if err != nil {
		return nil, err
	}
	records, err := s.care.ListForDate(ctx, student.StudentID, date)
	if err != nil {
		return nil, err
	}

	resp := &dto.StudentCareResponse{Timeslots: s.Timeslots(), CareDate: helpers.FormatDate(date)}
	for i := range records {
		if records[i].CareType == carewindow.AfterCare {
			resp.AfterCare = dto.FromCareHours(&records[i])
		} else {
			resp.BeforeCare = dto.FromCareHours(&records[i])
		}
	}
	return resp, nil
}

// Students lists the enabled students of a grade, flagging those already checked in to the session
func (s *careServiceImpl) Students(ctx context.Context, query *dto.CareStudentsQuery) ([]dto.CareStudentStatus, error) {
	date, err := parseDate(query.CareDate)
	if err != nil {
		return nil, err
	}
	grade, err := s.grades.GetByName(ctx, helpers.NormalizeID(query.Grade))
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByGrade(ctx, grade.Name, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CareStudentStatus, 0, len(students))
	if len(students) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.StudentID)
	}
	checkedIn, err := s.care.CheckedInStudentIDs(ctx, ids, date, carewindow.CareType(*query.CareType))
	if err != nil {
		return nil, err
	}

	for _, st := range students {
		out = append(out, dto.CareStudentStatus{
			StudentID:     st.StudentID,
			FirstName:     st.FirstName,
			LastName:      st.LastName,
			Grade:         st.GradeName,
			NotApplicable: checkedIn[st.StudentID],
		})
	}
	return out, nil
}

// Records returns a student's sessions over a date range grouped by day, newest first
func (s *careServiceImpl) Records(ctx context.Context, query *dto.CareRecordsQuery) (*dto.CareRecordsResponse, error) {
	from, to, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}
	student, err := s.students.GetByStudentID(ctx, helpers.NormalizeID(query.StudentID))
	if err != nil {
		return nil, err
	}
	records, err := s.care.ListRange(ctx, student.StudentID, from, to)
	if err != nil {
		return nil, err
	}

	summary := dto.StudentSummary{StudentID: student.StudentID, FirstName: student.FirstName, LastName: student.LastName}
	days := make(map[string]*dto.CareDayResponse)
	for i := range records {
		key := helpers.FormatDate(records[i].CareDate)
		day, ok := days[key]
		if !ok {
			day = &dto.CareDayResponse{Date: key, Student: summary}
			days[key] = day
		}
		if records[i].CareType == carewindow.AfterCare {
			day.AfterCare = dto.FromCareHours(&records[i])
		} else {
			day.BeforeCare = dto.FromCareHours(&records[i])
		}
	}

	resp := &dto.CareRecordsResponse{Records: make([]dto.CareDayResponse, 0, len(days))}
	for _, day := range days {
		resp.Records = append(resp.Records, *day)
	}
	sort.Slice(resp.Records, func(i, j int) bool { return resp.Records[i].Date > resp.Records[j].Date })
	return resp, nil
}

// Delete removes a student's sessions of a day; without a care type both are removed
func (s *careServiceImpl) Delete(ctx context.Context, req *dto.DeleteCareRequest) (int64, error) {
	date, err := parseDate(req.CareDate)
	if err != nil {
		return 0, err
	}
	student, err := s.students.GetByStudentID(ctx, helpers.NormalizeID(req.StudentID))
	if err != nil {
		return 0, err
	}
	var careType *carewindow.CareType
	if req.CareType != nil {
		ct := carewindow.CareType(*req.CareType)
		careType = &ct
	}

	removed, err := s.care.Delete(ctx, student.StudentID, date, careType)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("studentID", student.StudentID).Str("date", req.CareDate).Int64("removed", removed).Msg("Care records removed")
	return removed, nil
}

// Count returns the number of stored care sessions
func (s *careServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.care.Count(ctx)
}
