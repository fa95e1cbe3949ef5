// Package reports renders timesheet and care reports as PDF (through headless
// Chrome) or CSV.
package reports

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"time"
)

// Template names.
const (
	TemplateTimesheet = "timesheet_report.html"
	TemplateCare      = "care_report.html"
)

// Content types of rendered reports.
const (
	ContentTypePDF = "application/pdf"
	ContentTypeCSV = "text/csv"
)

//go:embed templates/*.html
var templateFS embed.FS

// PDFRenderer turns a named report template into a PDF document.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, templateName string, data any) ([]byte, error)
}

// HourTotals is the work/PTO/extra hour triple shown in timesheet reports.
type HourTotals struct {
	WorkHours  float64
	PTOHours   float64
	ExtraHours float64
}

// DatedComment is a timesheet comment with the MM/DD/YYYY date it was written for.
type DatedComment struct {
	Date    string
	Comment string
}

// TimesheetRow is one employee's line in the timesheet report.
type TimesheetRow struct {
	EmployeeID string
	FullName   string
	Totals     HourTotals
	Comments   []DatedComment
}

// TimesheetData is the input of the timesheet report template.
type TimesheetData struct {
	Title           string
	ReportingPeriod string
	Rows            []TimesheetRow
	Totals          HourTotals
	Footer          string
}

// CareRow is one student's line in the care report.
type CareRow struct {
	StudentID  string
	FullName   string
	BeforeCare string
	AfterCare  string
	Total      string
}

// CareData is the input of the care report template.
type CareData struct {
	Title           string
	Grade           string
	ReportingPeriod string
	Rows            []CareRow
	Footer          string
}

// HTMLRenderer executes the embedded report templates.
type HTMLRenderer struct {
	templates *template.Template
}

// NewHTMLRenderer parses the embedded report templates.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	return &HTMLRenderer{templates: tmpl}, nil
}

// RenderHTML executes templateName with data.
func (r *HTMLRenderer) RenderHTML(templateName string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return nil, fmt.Errorf("failed to render report template %s: %w", templateName, err)
	}
	return buf.Bytes(), nil
}

// EncodeCSV writes header and rows as RFC 4180 CSV.
func EncodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatDuration formats d as H:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatHours formats an hour value with one decimal, as stored in timesheets.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1f", h)
}
