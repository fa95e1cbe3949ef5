package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
)

func newStudentRequest(mutate func(*dto.CreateStudentRequest)) *dto.CreateStudentRequest {
	req := &dto.CreateStudentRequest{
		FirstName:          "Jane",
		LastName:           "Doe",
		CarpoolNumber:      12,
		Grade:              "Kindergarten",
		ParentOneFirstName: "John",
		ParentOneLastName:  "Doe",
		PrimaryEmail:       "Parent@PCA.org",
	}
	if mutate != nil {
		mutate(req)
	}
	return req
}

func TestStudentService_Create(t *testing.T) {
	type then struct {
		studentID string
		err       error
	}
	type testcase struct {
		existing []string
		req      *dto.CreateStudentRequest
		then     then
	}

	for name, testcase := range map[string]testcase{
		"base id": {
			req:  newStudentRequest(nil),
			then: then{studentID: "jdoe12"},
		},
		"first collision": {
			existing: []string{"jdoe12"},
			req:      newStudentRequest(nil),
			then:     then{studentID: "jdoe121"},
		},
		"second collision": {
			existing: []string{"jdoe12", "jdoe121"},
			req:      newStudentRequest(nil),
			then:     then{studentID: "jdoe122"},
		},
		"unknown grade": {
			req:  newStudentRequest(func(r *dto.CreateStudentRequest) { r.Grade = "tenth" }),
			then: then{err: apperrors.ErrGradeNotFound},
		},
		"missing parent name": {
			req:  newStudentRequest(func(r *dto.CreateStudentRequest) { r.ParentOneLastName = " " }),
			then: then{err: apperrors.ErrValidationFailed},
		},
		"negative carpool number": {
			req:  newStudentRequest(func(r *dto.CreateStudentRequest) { r.CarpoolNumber = -1 }),
			then: then{err: apperrors.ErrValidationFailed},
		},
	} {
		t.Run(name, func(t *testing.T) {
			store := newFakeStudents()
			for _, id := range testcase.existing {
				store.byID[id] = &models.Student{StudentID: id}
			}
			svc := NewStudentService(store, fakeGrades{"kindergarten": {ID: 1, Name: "kindergarten"}}, testLogger)

			resp, err := svc.Create(context.Background(), testcase.req)
			if !errors.Is(err, testcase.then.err) {
				t.Fatalf("error: got %v, want %v", err, testcase.then.err)
			}
			if err != nil {
				return
			}
			if resp.StudentID != testcase.then.studentID {
				t.Errorf("student id: got %q, want %q", resp.StudentID, testcase.then.studentID)
			}
			stored := store.byID[resp.StudentID]
			if stored.GradeName != "kindergarten" || stored.Contact.PrimaryEmail != "parent@pca.org" || !stored.IsEnabled {
				t.Errorf("stored: got %+v", stored)
			}
		})
	}
}

func TestStudentService_DeleteUnknown(t *testing.T) {
	store := newFakeStudents(&models.Student{StudentID: "jdoe12"})
	svc := NewStudentService(store, fakeGrades{}, testLogger)

	if _, err := svc.Delete(context.Background(), []string{"jdoe12", "ghost1"}); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("got %v, want %v", err, apperrors.ErrStudentNotFound)
	}
	if len(store.byID) != 1 {
		t.Error("no student may be removed when an id is unknown")
	}
}

func TestGradeService(t *testing.T) {
	grades := fakeGrades{}
	svc := NewGradeService(grades, testLogger)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.GradeRequest{Name: " First "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "first" {
		t.Errorf("name: got %q", created.Name)
	}
	if _, err := svc.Create(ctx, &dto.GradeRequest{Name: "FIRST"}); !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		t.Errorf("duplicate: got %v", err)
	}
	if _, err := svc.Create(ctx, &dto.GradeRequest{Name: "  "}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("blank: got %v", err)
	}
	if n, _ := svc.Count(ctx); n != 1 {
		t.Errorf("count: got %d", n)
	}
	if err := svc.Delete(ctx, "First"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "first"); !errors.Is(err, apperrors.ErrGradeNotFound) {
		t.Errorf("deleted grade: got %v", err)
	}
}

func TestSystemService(t *testing.T) {
	ctx := context.Background()

	online := NewSystemService(pingerFunc(func(context.Context) error { return nil }), &fakeNotifier{}, "noreply@pca.org", testLogger)
	if got := online.Status(ctx).Status; got != StatusOnline {
		t.Errorf("status: got %q", got)
	}
	offline := NewSystemService(pingerFunc(func(context.Context) error { return errors.New("down") }), &fakeNotifier{}, "noreply@pca.org", testLogger)
	if got := offline.Status(ctx).Status; got != StatusOffline {
		t.Errorf("status: got %q", got)
	}

	notifier := &fakeNotifier{}
	resp, err := NewSystemService(pingerFunc(nil), notifier, "noreply@pca.org", testLogger).SendTestEmail(ctx)
	if err != nil || !resp.Sent || resp.Recipient != "noreply@pca.org" {
		t.Fatalf("SendTestEmail: %+v, %v", resp, err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("sent: got %d", len(notifier.sent))
	}

	failing := NewSystemService(pingerFunc(nil), &fakeNotifier{err: errors.New("smtp down")}, "noreply@pca.org", testLogger)
	if _, err := failing.SendTestEmail(ctx); !errors.Is(err, apperrors.ErrEmailDelivery) {
		t.Errorf("failing delivery: got %v", err)
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
