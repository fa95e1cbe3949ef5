package email

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestService(t *testing.T, cfg SMTPConfig) *Service {
	t.Helper()
	s, err := NewService(cfg, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func TestRender_AllTemplates(t *testing.T) {
	s := newTestService(t, SMTPConfig{FromName: "PCA", FromEmail: "noreply@pca.local"})

	for name, data := range map[string]any{
		TemplateCareCheckIn:    map[string]any{"CareTitle": "Before-Care", "StudentName": "Jane Doe", "Date": "03/04/2024", "Time": "07:15", "Signature": "mr. smith"},
		TemplateCareCheckOut:   map[string]any{"CareTitle": "After-Care", "StudentName": "Jane Doe", "Date": "03/04/2024", "Time": "17:00", "Signature": "mrs. doe"},
		TemplateTimesheetSaved: map[string]any{"EmployeeName": "John Doe", "Entries": []map[string]any{{"Date": "2024-03-04", "WorkHours": 8.0, "PTOHours": 0.0, "ExtraHours": 1.5}}},
		TemplateResetCode:      map[string]any{"EmployeeName": "John Doe", "Code": "ABCD1234", "ExpiresAt": "09:15"},
		TemplateLeaveRequest:   map[string]any{"EmployeeID": "jdoe1", "Reasons": []string{"Sick Leave", "Other"}},
		TemplateTest:           map[string]any{"SentAt": "now"},
	} {
		t.Run(name, func(t *testing.T) {
			raw, err := s.Render(Message{To: []string{"a@pca.local"}, Subject: "Subject", Template: name, Data: data})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !strings.Contains(string(raw), "automated message") {
				t.Error("rendered message is missing the layout footer")
			}
		})
	}
}

func TestRender_Headers(t *testing.T) {
	s := newTestService(t, SMTPConfig{FromName: "PCA", FromEmail: "noreply@pca.local"})

	raw, err := s.Render(Message{
		To:       []string{"office@pca.local"},
		CC:       []string{"jdoe@pca.local"},
		Subject:  "Leave Request",
		Template: TemplateLeaveRequest,
		Data:     map[string]any{"EmployeeName": "<b>John</b>", "Reasons": []string{"Sick Leave", "Other"}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(raw)

	for _, want := range []string{
		"From: PCA <noreply@pca.local>\r\n",
		"To: office@pca.local\r\n",
		"Cc: jdoe@pca.local\r\n",
		"Subject: Leave Request\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"Sick Leave, Other",
		"&lt;b&gt;John&lt;/b&gt;",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSend(t *testing.T) {
	type then struct {
		delivered  bool
		recipients []string
		err        error
	}
	type testcase struct {
		cfg        SMTPConfig
		msg        Message
		deliverErr error
		then       then
	}

	configured := SMTPConfig{Host: "smtp.pca.local", Port: 587, Username: "u", Password: "p", FromEmail: "noreply@pca.local"}
	deliveryFailure := errors.New("connection refused")

	for name, testcase := range map[string]testcase{
		"delivers to and cc": {
			cfg:  configured,
			msg:  Message{To: []string{"a@pca.local"}, CC: []string{"b@pca.local"}, Template: TemplateTest},
			then: then{delivered: true, recipients: []string{"a@pca.local", "b@pca.local"}},
		},
		"unconfigured logs only": {
			cfg:  SMTPConfig{},
			msg:  Message{To: []string{"a@pca.local"}, Template: TemplateTest},
			then: then{},
		},
		"no recipients": {
			cfg:  configured,
			msg:  Message{Template: TemplateTest},
			then: then{err: ErrNoRecipients},
		},
		"delivery failure": {
			cfg:        configured,
			msg:        Message{To: []string{"a@pca.local"}, Template: TemplateTest},
			deliverErr: deliveryFailure,
			then:       then{delivered: true, recipients: []string{"a@pca.local"}, err: deliveryFailure},
		},
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestService(t, testcase.cfg)
			var delivered bool
			var recipients []string
			s.deliver = func(from string, rcpts []string, raw []byte) error {
				delivered = true
				recipients = rcpts
				return testcase.deliverErr
			}

			err := s.Send(context.Background(), testcase.msg)
			if !errors.Is(err, testcase.then.err) {
				t.Fatalf("error: got %v, want %v", err, testcase.then.err)
			}
			if delivered != testcase.then.delivered {
				t.Fatalf("delivered: got %v, want %v", delivered, testcase.then.delivered)
			}
			if strings.Join(recipients, ",") != strings.Join(testcase.then.recipients, ",") {
				t.Errorf("recipients: got %v, want %v", recipients, testcase.then.recipients)
			}
		})
	}
}
