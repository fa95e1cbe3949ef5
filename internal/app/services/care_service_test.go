package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
)

type careFixture struct {
	service  CareService
	care     *fakeCare
	notifier *fakeNotifier
}

func newCareFixture(t *testing.T, records ...models.StudentCareHours) *careFixture {
	t.Helper()
	schedule, err := carewindow.NewSchedule("06:00", "08:00", "15:00", "18:00")
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	f := &careFixture{care: newFakeCare(records...), notifier: &fakeNotifier{}}
	f.service = NewCareService(CareDependencies{
		Care: f.care,
		Students: newFakeStudents(
			&models.Student{StudentID: "jdoe12", FirstName: "jane", LastName: "doe", GradeName: "kindergarten", IsEnabled: true,
				Contact: models.StudentContactInfo{PrimaryEmail: "parent@pca.org", EnablePrimaryEmailNotifications: true}},
			&models.Student{StudentID: "bdoe12", FirstName: "bob", LastName: "doe", GradeName: "kindergarten", IsEnabled: true},
			&models.Student{StudentID: "xold7", FirstName: "x", LastName: "old", GradeName: "kindergarten", IsEnabled: false},
			&models.Student{StudentID: "afirst3", FirstName: "amy", LastName: "first", GradeName: "first", IsEnabled: true},
		),
		Grades:   fakeGrades{"kindergarten": {ID: 1, Name: "kindergarten"}, "first": {ID: 2, Name: "first"}},
		Schedule: schedule,
		Notifier: f.notifier,
		Logger:   testLogger,
		Now:      func() time.Time { return time.Date(2024, 3, 4, 7, 10, 0, 0, time.UTC) },
	})
	return f
}

func checkedIn(studentID, date string, ct carewindow.CareType, in, out string, manual bool) models.StudentCareHours {
	r := models.StudentCareHours{
		StudentID:          studentID,
		CareDate:           day(date),
		CareType:           ct,
		CheckInTime:        carewindow.MustParseClock(in),
		CheckOutTime:       carewindow.MustParseClock(out),
		CheckInSignature:   "mr. smith",
		ManuallyCheckedOut: manual,
	}
	if manual {
		r.CheckOutSignature = ptr("mrs. doe")
	}
	return r
}

func TestCareService_CheckIn(t *testing.T) {
	type then struct {
		checkIn  string
		checkOut string
		err      error
		message  string
		emailed  bool
	}
	type testcase struct {
		existing []models.StudentCareHours
		req      dto.CheckInRequest
		then     then
	}

	for name, testcase := range map[string]testcase{
		"before-care at the requested time": {
			req:  dto.CheckInRequest{StudentID: "JDoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "07:15", CheckInSignature: " Mr. Smith "},
			then: then{checkIn: "07:15", checkOut: "08:00", emailed: true},
		},
		"defaults to the current time": {
			req:  dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInSignature: "mr. smith"},
			then: then{checkIn: "07:10", checkOut: "08:00", emailed: true},
		},
		"at the window start": {
			req:  dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(true), CheckInTime: "15:00", CheckInSignature: "mr. smith"},
			then: then{checkIn: "15:00", checkOut: "18:00", emailed: true},
		},
		"no notification address": {
			req:  dto.CheckInRequest{StudentID: "bdoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "07:00", CheckInSignature: "mr. smith"},
			then: then{checkIn: "07:00", checkOut: "08:00"},
		},
		"before the window": {
			req:  dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "05:59", CheckInSignature: "mr. smith"},
			then: then{err: apperrors.ErrCareWindow, message: "before the service starts at 06:00"},
		},
		"at the window end": {
			req:  dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(true), CheckInTime: "18:00", CheckInSignature: "mr. smith"},
			then: then{err: apperrors.ErrCareWindow, message: "after the end of the student care service"},
		},
		"already checked in": {
			existing: []models.StudentCareHours{checkedIn("jdoe12", "2024-03-04", carewindow.BeforeCare, "06:30", "08:00", false)},
			req:      dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "07:00", CheckInSignature: "mr. smith"},
			then:     then{err: apperrors.ErrCareState, message: "already checked-in for before-care at 06:30"},
		},
		"already checked out": {
			existing: []models.StudentCareHours{checkedIn("jdoe12", "2024-03-04", carewindow.BeforeCare, "06:30", "07:30", true)},
			req:      dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "07:45", CheckInSignature: "mr. smith"},
			then:     then{err: apperrors.ErrCareState, message: "already checked out from before-care"},
		},
		"other session of the day": {
			existing: []models.StudentCareHours{checkedIn("jdoe12", "2024-03-04", carewindow.BeforeCare, "06:30", "08:00", false)},
			req:      dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(true), CheckInTime: "16:00", CheckInSignature: "mr. smith"},
			then:     then{checkIn: "16:00", checkOut: "18:00", emailed: true},
		},
		"unknown student": {
			req:  dto.CheckInRequest{StudentID: "nobody", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "07:00", CheckInSignature: "mr. smith"},
			then: then{err: apperrors.ErrStudentNotFound},
		},
		"malformed time": {
			req:  dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "7am", CheckInSignature: "mr. smith"},
			then: then{err: apperrors.ErrValidationFailed},
		},
		"blank signature": {
			req:  dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "07:00", CheckInSignature: "   "},
			then: then{err: apperrors.ErrValidationFailed},
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newCareFixture(t, testcase.existing...)
			resp, err := f.service.CheckIn(context.Background(), &testcase.req)
			if !errors.Is(err, testcase.then.err) {
				t.Fatalf("error: got %v, want %v", err, testcase.then.err)
			}
			if err != nil {
				if !strings.Contains(err.Error(), testcase.then.message) {
					t.Errorf("message: got %q, want it to contain %q", err, testcase.then.message)
				}
				return
			}
			if resp.CheckInTime != testcase.then.checkIn || resp.CheckOutTime != testcase.then.checkOut {
				t.Errorf("times: got %s-%s, want %s-%s", resp.CheckInTime, resp.CheckOutTime, testcase.then.checkIn, testcase.then.checkOut)
			}
			if resp.ManuallyCheckedOut {
				t.Error("a new session must not be marked as checked out")
			}
			if resp.CheckInSignature != "mr. smith" {
				t.Errorf("signature: got %q", resp.CheckInSignature)
			}
			if emailed := len(f.notifier.sent) == 1; emailed != testcase.then.emailed {
				t.Errorf("emailed: got %v, want %v", emailed, testcase.then.emailed)
			}
		})
	}
}

func TestCareService_CheckInNotification(t *testing.T) {
	f := newCareFixture(t)
	_, err := f.service.CheckIn(context.Background(), &dto.CheckInRequest{
		StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(true), CheckInTime: "15:30", CheckInSignature: "Mr. Smith",
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	msg := f.notifier.sent[0]
	if msg.Subject != "Student Checked In To After-Care Services" {
		t.Errorf("subject: got %q", msg.Subject)
	}
	data := msg.Data.(map[string]any)
	if data["StudentName"] != "Jane Doe" || data["Date"] != "03/04/2024" || data["Time"] != "15:30" || data["Signature"] != "mr. smith" {
		t.Errorf("data: got %v", data)
	}
}

func TestCareService_CheckInEmailFailureIsIgnored(t *testing.T) {
	f := newCareFixture(t)
	f.notifier.err = errors.New("smtp down")
	_, err := f.service.CheckIn(context.Background(), &dto.CheckInRequest{
		StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: ptr(false), CheckInTime: "07:00", CheckInSignature: "mr. smith",
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if n, _ := f.care.Count(context.Background()); n != 1 {
		t.Errorf("stored sessions: got %d", n)
	}
}

func TestCareService_CheckOut(t *testing.T) {
	type then struct {
		checkOut string
		err      error
		message  string
	}
	type testcase struct {
		existing []models.StudentCareHours
		req      dto.CheckOutRequest
		then     then
	}

	open := checkedIn("jdoe12", "2024-03-04", carewindow.AfterCare, "15:30", "18:00", false)
	for name, testcase := range map[string]testcase{
		"at the requested time": {
			existing: []models.StudentCareHours{open},
			req:      dto.CheckOutRequest{StudentID: "jdoe12", CheckOutDate: "2024-03-04", CareType: ptr(true), CheckOutTime: "17:05", CheckOutSignature: "Mrs. Doe"},
			then:     then{checkOut: "17:05"},
		},
		"defaults to the window end": {
			existing: []models.StudentCareHours{open},
			req:      dto.CheckOutRequest{StudentID: "jdoe12", CheckOutDate: "2024-03-04", CareType: ptr(true), CheckOutSignature: "mrs. doe"},
			then:     then{checkOut: "18:00"},
		},
		"clamped to the window end": {
			existing: []models.StudentCareHours{open},
			req:      dto.CheckOutRequest{StudentID: "jdoe12", CheckOutDate: "2024-03-04", CareType: ptr(true), CheckOutTime: "19:30", CheckOutSignature: "mrs. doe"},
			then:     then{checkOut: "18:00"},
		},
		"at the check-in time": {
			existing: []models.StudentCareHours{open},
			req:      dto.CheckOutRequest{StudentID: "jdoe12", CheckOutDate: "2024-03-04", CareType: ptr(true), CheckOutTime: "15:30", CheckOutSignature: "mrs. doe"},
			then:     then{checkOut: "15:30"},
		},
		"before the check-in time": {
			existing: []models.StudentCareHours{open},
			req:      dto.CheckOutRequest{StudentID: "jdoe12", CheckOutDate: "2024-03-04", CareType: ptr(true), CheckOutTime: "15:00", CheckOutSignature: "mrs. doe"},
			then:     then{err: apperrors.ErrCareWindow, message: "check-in time of 15:30"},
		},
		"not checked in": {
			req:  dto.CheckOutRequest{StudentID: "jdoe12", CheckOutDate: "2024-03-04", CareType: ptr(true), CheckOutSignature: "mrs. doe"},
			then: then{err: apperrors.ErrCareState, message: "not checked in"},
		},
		"already checked out": {
			existing: []models.StudentCareHours{checkedIn("jdoe12", "2024-03-04", carewindow.AfterCare, "15:30", "17:00", true)},
			req:      dto.CheckOutRequest{StudentID: "jdoe12", CheckOutDate: "2024-03-04", CareType: ptr(true), CheckOutSignature: "mrs. doe"},
			then:     then{err: apperrors.ErrCareState, message: "already checked out"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newCareFixture(t, testcase.existing...)
			resp, err := f.service.CheckOut(context.Background(), &testcase.req)
			if !errors.Is(err, testcase.then.err) {
				t.Fatalf("error: got %v, want %v", err, testcase.then.err)
			}
			if err != nil {
				if !strings.Contains(err.Error(), testcase.then.message) {
					t.Errorf("message: got %q, want it to contain %q", err, testcase.then.message)
				}
				return
			}
			if resp.CheckOutTime != testcase.then.checkOut {
				t.Errorf("check-out: got %s, want %s", resp.CheckOutTime, testcase.then.checkOut)
			}
			if !resp.ManuallyCheckedOut || resp.CheckOutSignature == nil || *resp.CheckOutSignature != "mrs. doe" {
				t.Errorf("check-out state: got %+v", resp)
			}
			if len(f.notifier.sent) != 1 || f.notifier.sent[0].Subject != "Student Checked Out Of After-Care Services" {
				t.Errorf("notification: got %+v", f.notifier.sent)
			}
		})
	}
}

func TestCareService_StudentCareAndTimeslots(t *testing.T) {
	f := newCareFixture(t,
		checkedIn("jdoe12", "2024-03-04", carewindow.BeforeCare, "06:30", "08:00", false),
		checkedIn("jdoe12", "2024-03-05", carewindow.AfterCare, "15:30", "17:00", true),
	)
	ctx := context.Background()

	today, err := f.service.StudentCare(ctx, "jdoe12", &dto.StudentCareQuery{})
	if err != nil {
		t.Fatalf("StudentCare: %v", err)
	}
	if today.CareDate != "2024-03-04" || today.BeforeCare == nil || today.AfterCare != nil {
		t.Errorf("today: got %+v", today)
	}
	if today.Timeslots.AfterCareCheckOutTime != "18:00" || today.Timeslots.BeforeCareCheckInTime != "06:00" {
		t.Errorf("timeslots: got %+v", today.Timeslots)
	}

	other, err := f.service.StudentCare(ctx, "jdoe12", &dto.StudentCareQuery{CareDate: "2024-03-05"})
	if err != nil {
		t.Fatalf("StudentCare: %v", err)
	}
	if other.BeforeCare != nil || other.AfterCare == nil || other.AfterCare.CheckOutTime != "17:00" {
		t.Errorf("other day: got %+v", other)
	}
}

func TestCareService_Students(t *testing.T) {
	f := newCareFixture(t, checkedIn("jdoe12", "2024-03-04", carewindow.BeforeCare, "06:30", "08:00", false))
	ctx := context.Background()

	students, err := f.service.Students(ctx, &dto.CareStudentsQuery{Grade: "Kindergarten", CareDate: "2024-03-04", CareType: ptr(false)})
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if len(students) != 3 {
		t.Fatalf("students: got %+v", students)
	}
	if students[0].StudentID != "bdoe12" || students[0].NotApplicable {
		t.Errorf("first: got %+v", students[0])
	}
	if students[1].StudentID != "jdoe12" || !students[1].NotApplicable {
		t.Errorf("second: got %+v", students[1])
	}
	if students[2].StudentID != "xold7" || students[2].NotApplicable {
		t.Errorf("disabled students are listed too: got %+v", students[2])
	}

	after, err := f.service.Students(ctx, &dto.CareStudentsQuery{Grade: "kindergarten", CareDate: "2024-03-04", CareType: ptr(true)})
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	for _, s := range after {
		if s.NotApplicable {
			t.Errorf("%s is not checked in to after-care", s.StudentID)
		}
	}

	if _, err := f.service.Students(ctx, &dto.CareStudentsQuery{Grade: "tenth", CareDate: "2024-03-04", CareType: ptr(true)}); !errors.Is(err, apperrors.ErrGradeNotFound) {
		t.Errorf("unknown grade: got %v", err)
	}
}

func TestCareService_Records(t *testing.T) {
	f := newCareFixture(t,
		checkedIn("jdoe12", "2024-03-04", carewindow.BeforeCare, "06:30", "08:00", false),
		checkedIn("jdoe12", "2024-03-04", carewindow.AfterCare, "15:30", "17:00", true),
		checkedIn("jdoe12", "2024-03-06", carewindow.AfterCare, "15:10", "18:00", false),
		checkedIn("jdoe12", "2024-04-01", carewindow.AfterCare, "15:10", "18:00", false),
	)

	resp, err := f.service.Records(context.Background(), &dto.CareRecordsQuery{StudentID: "jdoe12", StartDate: "2024-03-01", EndDate: "2024-03-31"})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("days: got %d", len(resp.Records))
	}
	if resp.Records[0].Date != "2024-03-06" || resp.Records[1].Date != "2024-03-04" {
		t.Errorf("order: got %s, %s", resp.Records[0].Date, resp.Records[1].Date)
	}
	if resp.Records[1].BeforeCare == nil || resp.Records[1].AfterCare == nil {
		t.Errorf("both sessions expected on 2024-03-04: got %+v", resp.Records[1])
	}
	if resp.Records[0].Student.FirstName != "jane" {
		t.Errorf("student: got %+v", resp.Records[0].Student)
	}

	if _, err := f.service.Records(context.Background(), &dto.CareRecordsQuery{StudentID: "jdoe12", StartDate: "2024-03-31", EndDate: "2024-03-01"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("inverted range: got %v", err)
	}
}

func TestCareService_Delete(t *testing.T) {
	type testcase struct {
		careType *bool
		removed  int64
	}
	for name, testcase := range map[string]testcase{
		"both sessions":    {removed: 2},
		"after-care only":  {careType: ptr(true), removed: 1},
		"before-care only": {careType: ptr(false), removed: 1},
	} {
		t.Run(name, func(t *testing.T) {
			f := newCareFixture(t,
				checkedIn("jdoe12", "2024-03-04", carewindow.BeforeCare, "06:30", "08:00", false),
				checkedIn("jdoe12", "2024-03-04", carewindow.AfterCare, "15:30", "17:00", true),
			)
			removed, err := f.service.Delete(context.Background(), &dto.DeleteCareRequest{StudentID: "jdoe12", CareDate: "2024-03-04", CareType: testcase.careType})
			if err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if removed != testcase.removed {
				t.Errorf("removed: got %d, want %d", removed, testcase.removed)
			}
		})
	}

	f := newCareFixture(t)
	removed, err := f.service.Delete(context.Background(), &dto.DeleteCareRequest{StudentID: "jdoe12", CareDate: "2024-03-04"})
	if err != nil || removed != 0 {
		t.Errorf("nothing to delete: got %d, %v", removed, err)
	}
	if _, err := f.service.Delete(context.Background(), &dto.DeleteCareRequest{StudentID: "nobody1", CareDate: "2024-03-04"}); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("unknown student: got %v", err)
	}
}
