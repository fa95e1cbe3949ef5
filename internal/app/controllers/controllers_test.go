package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appauth "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/reports"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	adminToken    = "admin.token.sig"
	employeeToken = "jdoe1.token.sig"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterBindingValidators(); err != nil {
		panic(err)
	}
}

var testLogger = zerolog.New(io.Discard)

// fakeAuth authenticates the two fixed test tokens
type fakeAuth struct {
	services.AuthService
	loginErr  error
	changed   *dto.ChangePasswordRequest
	loggedOut string
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*appauth.Principal, error) {
	switch token {
	case adminToken:
		return &appauth.Principal{EmployeeID: "admin", Scopes: []string{models.ScopeAdministrator, models.ScopeEmployee}, Token: token}, nil
	case employeeToken:
		return &appauth.Principal{EmployeeID: "jdoe1", Scopes: []string{models.ScopeEmployee}, Token: token}, nil
	}
	return nil, fmt.Errorf("%w: unknown token", apperrors.ErrTokenInvalid)
}

func (f *fakeAuth) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.LoginResponse{EmployeeID: req.Username, FirstName: "John", Token: employeeToken, TokenType: "Bearer"}, nil
}

func (f *fakeAuth) Logout(_ context.Context, p *appauth.Principal) error {
	f.loggedOut = p.Token
	return nil
}

func (f *fakeAuth) ChangePassword(_ context.Context, req *dto.ChangePasswordRequest) error {
	f.changed = req
	return nil
}

func (f *fakeAuth) Me(_ context.Context, employeeID string) (*dto.MeResponse, error) {
	return &dto.MeResponse{User: "John Doe"}, nil
}

type fakeTimesheets struct {
	services.TimesheetService
	employeeID string
	submitted  []dto.TimesheetDay
}

func (f *fakeTimesheets) Submit(_ context.Context, employeeID string, req *dto.SubmitTimesheetRequest) ([]dto.TimesheetEntryResponse, error) {
	f.employeeID = employeeID
	f.submitted = req.TimeSheets
	return []dto.TimesheetEntryResponse{}, nil
}

func (f *fakeTimesheets) Get(_ context.Context, employeeID string, q *dto.TimesheetQuery) (*dto.TimesheetResponse, error) {
	f.employeeID = employeeID
	return &dto.TimesheetResponse{}, nil
}

func (f *fakeTimesheets) Count(context.Context) (int64, error) {
	return 7, nil
}

type fakeCare struct {
	services.CareService
	err error
}

func (f *fakeCare) CheckIn(_ context.Context, req *dto.CheckInRequest) (*dto.CareRecordResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CareRecordResponse{StudentID: req.StudentID}, nil
}

type fakeReports struct {
	services.ReportService
	deleted string
}

func (f *fakeReports) TimesheetReport(_ context.Context, q *dto.TimesheetReportQuery) (*services.Report, error) {
	return &services.Report{
		Name:        "timesheet_" + q.StartDate + "_" + q.EndDate + ".csv",
		ContentType: reports.ContentTypeCSV,
		Data:        []byte("date,employee_id\n"),
	}, nil
}

func (f *fakeReports) Delete(_ context.Context, category, name string) error {
	if name == "missing.pdf" {
		return fmt.Errorf("%w: the report %s does not exist", apperrors.ErrResourceNotFound, name)
	}
	f.deleted = category + "/" + name
	return nil
}

type fakeSystem struct {
	services.SystemService
}

func (fakeSystem) Status(context.Context) dto.StatusResponse {
	return dto.StatusResponse{Status: services.StatusOnline}
}

type fakeEmployees struct {
	services.EmployeeService
	page, size int
}

func (f *fakeEmployees) List(_ context.Context, page, size int) (*dto.PaginatedResponse, error) {
	f.page, f.size = page, size
	return &dto.PaginatedResponse{Items: []dto.EmployeeResponse{}}, nil
}

func (f *fakeEmployees) Get(_ context.Context, employeeID string) (*dto.EmployeeResponse, error) {
	return &dto.EmployeeResponse{EmployeeID: employeeID}, nil
}

type fixture struct {
	router     *gin.Engine
	auth       *fakeAuth
	timesheets *fakeTimesheets
	care       *fakeCare
	reports    *fakeReports
	employees  *fakeEmployees
}

// newFixture mounts the controllers the same way the application router does
func newFixture() *fixture {
	f := &fixture{
		auth:       &fakeAuth{},
		timesheets: &fakeTimesheets{},
		care:       &fakeCare{},
		reports:    &fakeReports{},
		employees:  &fakeEmployees{},
	}
	authorizer := appauth.NewAuthorizationService(testLogger)
	authMiddleware := middleware.NewAuthMiddleware(f.auth)

	auth := NewAuthController(f.auth, authorizer, testLogger)
	employees := NewEmployeeController(f.employees, authorizer)
	timesheets := NewTimesheetController(f.timesheets, authorizer)
	care := NewCareController(f.care)
	report := NewReportController(f.reports, authorizer)
	core := NewCoreController(fakeSystem{})

	r := gin.New()
	r.GET("/ping", core.Ping)
	v1 := r.Group("/api/v1")
	v1.GET("/status", core.Status)
	v1.POST("/login", auth.Login)

	employee := v1.Group("", authMiddleware.JWTAuth(), authMiddleware.ScopeRequired(models.ScopeEmployee))
	admin := employee.Group("", authMiddleware.ScopeRequired(models.ScopeAdministrator))
	admin.GET("/routes", core.Routes(r))
	employee.GET("/me", auth.Me)
	employee.POST("/logout", auth.Logout)
	employee.PUT("/employees/password/new", auth.ChangePassword)
	employee.GET("/employees/:employee_id", employees.Get)
	admin.GET("/employees", employees.List)
	employee.GET("/timesheet/:employee_id", timesheets.Get)
	employee.POST("/timesheet/:employee_id/submit", timesheets.Submit)
	admin.GET("/timesheet/count", timesheets.Count)
	employee.POST("/care/checkin", care.CheckIn)
	admin.GET("/reports/timesheet", report.TimesheetReport)
	admin.DELETE("/reports/employees/:name", report.DeleteEmployeeReport)

	f.router = r
	return f
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeAPI(t *testing.T, rec *httptest.ResponseRecorder, data any) dto.APIResponse {
	t.Helper()
	resp := dto.APIResponse{Data: data}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestLogin(t *testing.T) {
	type testcase struct {
		body     any
		loginErr error
		status   int
	}

	for name, testcase := range map[string]testcase{
		"success": {
			body:   dto.LoginRequest{Username: "jdoe1", Password: "password123"},
			status: http.StatusOK,
		},
		"missing password": {
			body:   map[string]string{"username": "jdoe1"},
			status: http.StatusBadRequest,
		},
		"wrong password": {
			body:     dto.LoginRequest{Username: "jdoe1", Password: "nope"},
			loginErr: fmt.Errorf("%w: Invalid username or password provided", apperrors.ErrInvalidCredentials),
			status:   http.StatusUnauthorized,
		},
		"disabled": {
			body:     dto.LoginRequest{Username: "jdoe1", Password: "password123"},
			loginErr: fmt.Errorf("%w: the account is disabled", apperrors.ErrAccountDisabled),
			status:   http.StatusForbidden,
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.auth.loginErr = testcase.loginErr

			rec := f.do(http.MethodPost, "/api/v1/login", "", testcase.body)
			if rec.Code != testcase.status {
				t.Fatalf("status: got %d, want %d (%s)", rec.Code, testcase.status, rec.Body.String())
			}
			if testcase.status != http.StatusOK {
				return
			}
			var login dto.LoginResponse
			resp := decodeAPI(t, rec, &login)
			if !resp.Success || login.TokenType != "Bearer" || login.EmployeeID != "jdoe1" {
				t.Errorf("unexpected login response: %+v %+v", resp, login)
			}
		})
	}
}

func TestLogoutAndMe(t *testing.T) {
	f := newFixture()

	if rec := f.do(http.MethodGet, "/api/v1/me", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: got %d", rec.Code)
	}

	var me dto.MeResponse
	rec := f.do(http.MethodGet, "/api/v1/me", employeeToken, nil)
	if decodeAPI(t, rec, &me); me.User != "John Doe" {
		t.Errorf("me: got %q", me.User)
	}

	if rec := f.do(http.MethodPost, "/api/v1/logout", employeeToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rec.Code)
	}
	if f.auth.loggedOut != employeeToken {
		t.Errorf("logged out token: got %q", f.auth.loggedOut)
	}
}

func TestSelfOrAdminAccess(t *testing.T) {
	type testcase struct {
		method string
		path   string
		token  string
		body   any
		status int
	}

	change := func(employeeID string) dto.ChangePasswordRequest {
		return dto.ChangePasswordRequest{EmployeeID: employeeID, CurrentPassword: "password123", NewPassword: "password456"}
	}

	for name, testcase := range map[string]testcase{
		"own timesheet": {
			method: http.MethodGet, path: "/api/v1/timesheet/jdoe1?date_start=2024-03-01&date_end=2024-03-31",
			token: employeeToken, status: http.StatusOK,
		},
		"own timesheet in upper case": {
			method: http.MethodGet, path: "/api/v1/timesheet/JDOE1?date_start=2024-03-01&date_end=2024-03-31",
			token: employeeToken, status: http.StatusOK,
		},
		"other timesheet": {
			method: http.MethodGet, path: "/api/v1/timesheet/asmith2?date_start=2024-03-01&date_end=2024-03-31",
			token: employeeToken, status: http.StatusForbidden,
		},
		"admin reads any timesheet": {
			method: http.MethodGet, path: "/api/v1/timesheet/asmith2?date_start=2024-03-01&date_end=2024-03-31",
			token: adminToken, status: http.StatusOK,
		},
		"timesheet without range": {
			method: http.MethodGet, path: "/api/v1/timesheet/jdoe1",
			token: employeeToken, status: http.StatusBadRequest,
		},
		"own employee record": {
			method: http.MethodGet, path: "/api/v1/employees/jdoe1", token: employeeToken, status: http.StatusOK,
		},
		"other employee record": {
			method: http.MethodGet, path: "/api/v1/employees/asmith2", token: employeeToken, status: http.StatusForbidden,
		},
		"own password": {
			method: http.MethodPut, path: "/api/v1/employees/password/new", token: employeeToken,
			body: change("jdoe1"), status: http.StatusOK,
		},
		"other password": {
			method: http.MethodPut, path: "/api/v1/employees/password/new", token: employeeToken,
			body: change("asmith2"), status: http.StatusForbidden,
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			rec := f.do(testcase.method, testcase.path, testcase.token, testcase.body)
			if rec.Code != testcase.status {
				t.Fatalf("status: got %d, want %d (%s)", rec.Code, testcase.status, rec.Body.String())
			}
		})
	}
}

func TestTimesheetSubmit_AcceptsOutOfRangeHours(t *testing.T) {
	f := newFixture()

	body := map[string]any{"time_sheets": []map[string]any{
		{"date_worked": "2024-03-04", "work_hours": -1},
		{"date_worked": "2024-03-05", "work_hours": 24.2},
	}}
	rec := f.do(http.MethodPost, "/api/v1/timesheet/jdoe1/submit", employeeToken, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(f.timesheets.submitted) != 2 || f.timesheets.submitted[0].WorkHours != -1 {
		t.Errorf("submitted: got %+v", f.timesheets.submitted)
	}

	missingDate := map[string]any{"time_sheets": []map[string]any{{"work_hours": 8}}}
	if rec := f.do(http.MethodPost, "/api/v1/timesheet/jdoe1/submit", employeeToken, missingDate); rec.Code != http.StatusBadRequest {
		t.Errorf("missing date: got %d, want 400", rec.Code)
	}
}

func TestAdministratorScope(t *testing.T) {
	f := newFixture()

	if rec := f.do(http.MethodGet, "/api/v1/timesheet/count", employeeToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("employee: got %d, want 403", rec.Code)
	}

	var count dto.CountResponse
	rec := f.do(http.MethodGet, "/api/v1/timesheet/count", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: got %d", rec.Code)
	}
	if decodeAPI(t, rec, &count); count.Count != 7 {
		t.Errorf("count: got %d", count.Count)
	}
}

func TestEmployeeList_Pagination(t *testing.T) {
	type testcase struct {
		query    string
		wantPage int
		wantSize int
	}
	for name, testcase := range map[string]testcase{
		"defaults":     {query: "", wantPage: 1, wantSize: 10},
		"explicit":     {query: "?page=3&size=25", wantPage: 3, wantSize: 25},
		"out of range": {query: "?page=0&size=1000", wantPage: 1, wantSize: 10},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			if rec := f.do(http.MethodGet, "/api/v1/employees"+testcase.query, adminToken, nil); rec.Code != http.StatusOK {
				t.Fatalf("status: got %d", rec.Code)
			}
			if f.employees.page != testcase.wantPage || f.employees.size != testcase.wantSize {
				t.Errorf("got page %d size %d", f.employees.page, f.employees.size)
			}
		})
	}
}

func TestCareCheckIn(t *testing.T) {
	before := false
	body := dto.CheckInRequest{StudentID: "jdoe12", CheckInDate: "2024-03-04", CareType: &before, CheckInSignature: "jsmith"}

	type testcase struct {
		err    error
		body   any
		status int
		code   dto.ErrorCode
	}
	for name, testcase := range map[string]testcase{
		"checked in": {body: body, status: http.StatusCreated},
		"missing care type": {
			body:   map[string]string{"student_id": "jdoe12", "check_in_date": "2024-03-04", "check_in_signature": "jsmith"},
			status: http.StatusBadRequest,
			code:   dto.ErrorCodeValidationFailed,
		},
		"outside window": {
			body:   body,
			err:    fmt.Errorf("%w: The student cannot be checked in after the end of the student care service", apperrors.ErrCareWindow),
			status: http.StatusBadRequest,
			code:   dto.ErrorCodeCareWindow,
		},
		"already checked in": {
			body:   body,
			err:    fmt.Errorf("%w: This student has already checked-in", apperrors.ErrCareState),
			status: http.StatusBadRequest,
			code:   dto.ErrorCodeCareState,
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.care.err = testcase.err

			rec := f.do(http.MethodPost, "/api/v1/care/checkin", employeeToken, testcase.body)
			if rec.Code != testcase.status {
				t.Fatalf("status: got %d, want %d (%s)", rec.Code, testcase.status, rec.Body.String())
			}
			if testcase.code == "" {
				return
			}
			var resp dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != testcase.code {
				t.Errorf("code: got %s, want %s", resp.Error.Code, testcase.code)
			}
		})
	}
}

func TestTimesheetReport_Attachment(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/reports/timesheet?start_date=2024-03-01&end_date=2024-03-31&format=csv", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="timesheet_2024-03-01_2024-03-31.csv"` {
		t.Errorf("content disposition: got %q", got)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, reports.ContentTypeCSV) {
		t.Errorf("content type: got %q", got)
	}
	if rec.Body.String() != "date,employee_id\n" {
		t.Errorf("body: got %q", rec.Body.String())
	}

	if rec := f.do(http.MethodGet, "/api/v1/reports/timesheet?start_date=2024-03-01&end_date=2024-03-31&format=xls", adminToken, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format: got %d", rec.Code)
	}
}

func TestDeleteReport(t *testing.T) {
	f := newFixture()

	if rec := f.do(http.MethodDelete, "/api/v1/reports/employees/timesheet.pdf", adminToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d", rec.Code)
	}
	if f.reports.deleted != "employees/timesheet.pdf" {
		t.Errorf("deleted: got %q", f.reports.deleted)
	}
	if rec := f.do(http.MethodDelete, "/api/v1/reports/employees/missing.pdf", adminToken, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing report: got %d, want 400", rec.Code)
	}
}

func TestCoreRoutes(t *testing.T) {
	f := newFixture()

	if rec := f.do(http.MethodGet, "/ping", "", nil); rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("ping: got %d %q", rec.Code, rec.Body.String())
	}

	var status dto.StatusResponse
	rec := f.do(http.MethodGet, "/api/v1/status", "", nil)
	if decodeAPI(t, rec, &status); status.Status != services.StatusOnline {
		t.Errorf("status: got %q", status.Status)
	}

	var routes []dto.RouteInfo
	rec = f.do(http.MethodGet, "/api/v1/routes", adminToken, nil)
	decodeAPI(t, rec, &routes)
	found := false
	for _, r := range routes {
		if r.Method == http.MethodPost && r.Path == "/api/v1/care/checkin" {
			found = true
		}
	}
	if !found {
		t.Errorf("routes missing POST /api/v1/care/checkin: %+v", routes)
	}
}
