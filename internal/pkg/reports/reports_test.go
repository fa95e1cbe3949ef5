package reports

import (
	"strings"
	"testing"
	"time"
)

func TestRenderHTML_Timesheet(t *testing.T) {
	r, err := NewHTMLRenderer()
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}

	out, err := r.RenderHTML(TemplateTimesheet, TimesheetData{
		Title:           "Employee Timesheet Report - [03/01/2024 - 03/31/2024]",
		ReportingPeriod: "March 2024",
		Rows: []TimesheetRow{{
			EmployeeID: "jdoe1",
			FullName:   "John Doe",
			Totals:     HourTotals{WorkHours: 80, PTOHours: 8, ExtraHours: 2.5},
			Comments:   []DatedComment{{Date: "03/04/2024", Comment: "left <early>"}},
		}},
		Totals: HourTotals{WorkHours: 80, PTOHours: 8, ExtraHours: 2.5},
		Footer: "Generated 04/01/2024",
	})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	html := string(out)
	for _, want := range []string{
		"Employee Timesheet Report - [03/01/2024 - 03/31/2024]",
		"March 2024",
		"jdoe1",
		"80.0",
		"2.5",
		"03/04/2024: left &lt;early&gt;",
		"size: Letter; margin: 0.5in",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered html missing %q", want)
		}
	}
}

func TestRenderHTML_CareEmpty(t *testing.T) {
	r, err := NewHTMLRenderer()
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}
	out, err := r.RenderHTML(TemplateCare, CareData{Title: "Student Care Report", Grade: "kindergarten"})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(string(out), "No care records were found") {
		t.Error("expected the empty-state row")
	}
}

func TestRenderHTML_UnknownTemplate(t *testing.T) {
	r, err := NewHTMLRenderer()
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}
	if _, err := r.RenderHTML("missing.html", nil); err == nil {
		t.Error("expected an error")
	}
}

func TestEncodeCSV(t *testing.T) {
	out, err := EncodeCSV(
		[]string{"date", "employee_id", "comments"},
		[][]string{
			{"2024-03-04", "jdoe1", "plain"},
			{"2024-03-05", "jdoe1", "has, comma"},
		},
	)
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	want := "date,employee_id,comments\n2024-03-04,jdoe1,plain\n2024-03-05,jdoe1,\"has, comma\"\n"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestFormatDuration(t *testing.T) {
	type testcase struct {
		in   time.Duration
		want string
	}
	for name, testcase := range map[string]testcase{
		"zero":         {in: 0, want: "0:00:00"},
		"minutes":      {in: 45 * time.Minute, want: "0:45:00"},
		"hours":        {in: 2*time.Hour + 5*time.Minute, want: "2:05:00"},
		"over one day": {in: 26*time.Hour + 30*time.Second, want: "26:00:30"},
		"negative":     {in: -time.Minute, want: "0:00:00"},
	} {
		t.Run(name, func(t *testing.T) {
			if got := FormatDuration(testcase.in); got != testcase.want {
				t.Errorf("got %q, want %q", got, testcase.want)
			}
		})
	}
}
