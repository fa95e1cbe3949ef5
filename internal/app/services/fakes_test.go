package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/repositories"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/email"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/filestorage"
	"github.com/rs/zerolog"
)

var testLogger = zerolog.New(io.Discard)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

// employees

type fakeEmployees struct {
	byID    map[string]*models.Employee
	nextRow int64
}

func newFakeEmployees(employees ...*models.Employee) *fakeEmployees {
	f := &fakeEmployees{byID: map[string]*models.Employee{}, nextRow: int64(len(employees) + 1)}
	for _, e := range employees {
		f.byID[e.EmployeeID] = e
	}
	return f
}

func (f *fakeEmployees) GetByEmployeeID(_ context.Context, id string) (*models.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEmployeeNotFound, id)
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployees) GetByEmail(_ context.Context, address string) (*models.Employee, error) {
	for _, e := range f.byID {
		if e.Contact.PrimaryEmail == address {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrEmployeeNotFound, address)
}

func (f *fakeEmployees) GetByEmployeeIDs(_ context.Context, ids []string) ([]models.Employee, error) {
	var out []models.Employee
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEmployees) sorted() []models.Employee {
	out := make([]models.Employee, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

func (f *fakeEmployees) List(_ context.Context, offset uint64, limit int) ([]models.Employee, error) {
	all := f.sorted()
	if int(offset) >= len(all) {
		return nil, nil
	}
	end := int(offset) + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeEmployees) Count(context.Context) (int64, error) { return int64(len(f.byID)), nil }

func (f *fakeEmployees) NextRowID(context.Context) (int64, error) { return f.nextRow, nil }

func (f *fakeEmployees) Create(_ context.Context, e *models.Employee) error {
	if _, ok := f.byID[e.EmployeeID]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrResourceAlreadyExists, e.EmployeeID)
	}
	cp := *e
	f.byID[e.EmployeeID] = &cp
	f.nextRow++
	return nil
}

func (f *fakeEmployees) Update(_ context.Context, e *models.Employee) error {
	if _, ok := f.byID[e.EmployeeID]; !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrEmployeeNotFound, e.EmployeeID)
	}
	cp := *e
	f.byID[e.EmployeeID] = &cp
	return nil
}

func (f *fakeEmployees) UpdateMany(ctx context.Context, employees []*models.Employee) error {
	for _, e := range employees {
		if err := f.Update(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeEmployees) UpdatePassword(_ context.Context, id, hash string) error {
	e, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrEmployeeNotFound, id)
	}
	e.PasswordHash = hash
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeRoles map[string]*models.EmployeeRole

func (f fakeRoles) GetByName(_ context.Context, name string) (*models.EmployeeRole, error) {
	r, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRoleNotFound, name)
	}
	return r, nil
}

// timesheets

type fakeHours struct {
	entries map[string]models.EmployeeHours
}

func newFakeHours(entries ...models.EmployeeHours) *fakeHours {
	f := &fakeHours{entries: map[string]models.EmployeeHours{}}
	for _, h := range entries {
		f.entries[hoursKey(h.EmployeeID, h.DateWorked)] = h
	}
	return f
}

func hoursKey(employeeID string, date time.Time) string {
	return employeeID + "/" + date.Format("2006-01-02")
}

func (f *fakeHours) Create(_ context.Context, h *models.EmployeeHours) error {
	key := hoursKey(h.EmployeeID, h.DateWorked)
	if _, ok := f.entries[key]; ok {
		return fmt.Errorf("%w: timesheet entry", apperrors.ErrResourceAlreadyExists)
	}
	f.entries[key] = *h
	return nil
}

func (f *fakeHours) Get(_ context.Context, employeeID string, date time.Time) (*models.EmployeeHours, error) {
	h, ok := f.entries[hoursKey(employeeID, date)]
	if !ok {
		return nil, fmt.Errorf("%w: timesheet entry", apperrors.ErrResourceNotFound)
	}
	return &h, nil
}

func (f *fakeHours) Update(_ context.Context, h *models.EmployeeHours) error {
	key := hoursKey(h.EmployeeID, h.DateWorked)
	if _, ok := f.entries[key]; !ok {
		return fmt.Errorf("%w: timesheet entry", apperrors.ErrResourceNotFound)
	}
	f.entries[key] = *h
	return nil
}

func (f *fakeHours) Upsert(_ context.Context, entries []models.EmployeeHours) error {
	for _, h := range entries {
		f.entries[hoursKey(h.EmployeeID, h.DateWorked)] = h
	}
	return nil
}

func (f *fakeHours) Delete(_ context.Context, employeeID string, dates []time.Time) (int64, error) {
	var n int64
	for _, d := range dates {
		key := hoursKey(employeeID, d)
		if _, ok := f.entries[key]; ok {
			delete(f.entries, key)
			n++
		}
	}
	return n, nil
}

func (f *fakeHours) DeleteAll(_ context.Context, employeeID string) (int64, error) {
	var n int64
	for key, h := range f.entries {
		if h.EmployeeID == employeeID {
			delete(f.entries, key)
			n++
		}
	}
	return n, nil
}

func (f *fakeHours) ListRange(_ context.Context, employeeID string, from, to time.Time) ([]models.EmployeeHours, error) {
	var out []models.EmployeeHours
	for _, h := range f.entries {
		if h.EmployeeID == employeeID && !h.DateWorked.Before(from) && !h.DateWorked.After(to) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateWorked.Before(out[j].DateWorked) })
	return out, nil
}

func (f *fakeHours) Count(context.Context) (int64, error) { return int64(len(f.entries)), nil }

// students and grades

type fakeGrades map[string]*models.StudentGrade

func (f fakeGrades) Create(_ context.Context, g *models.StudentGrade) error {
	if _, ok := f[g.Name]; ok {
		return fmt.Errorf("%w: grade %s", apperrors.ErrResourceAlreadyExists, g.Name)
	}
	g.ID = int64(len(f) + 1)
	f[g.Name] = g
	return nil
}

func (f fakeGrades) GetByName(_ context.Context, name string) (*models.StudentGrade, error) {
	g, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrGradeNotFound, name)
	}
	return g, nil
}

func (f fakeGrades) List(context.Context) ([]models.StudentGrade, error) {
	out := make([]models.StudentGrade, 0, len(f))
	for _, g := range f {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeGrades) Count(context.Context) (int64, error) { return int64(len(f)), nil }

func (f fakeGrades) Delete(_ context.Context, name string) error {
	if _, ok := f[name]; !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrGradeNotFound, name)
	}
	delete(f, name)
	return nil
}

type fakeStudents struct {
	byID map[string]*models.Student
}

func newFakeStudents(students ...*models.Student) *fakeStudents {
	f := &fakeStudents{byID: map[string]*models.Student{}}
	for _, s := range students {
		f.byID[s.StudentID] = s
	}
	return f
}

func (f *fakeStudents) GetByStudentID(_ context.Context, id string) (*models.Student, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, id)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudents) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeStudents) GetByStudentIDs(_ context.Context, ids []string) ([]models.Student, error) {
	var out []models.Student
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStudents) filtered(filter repositories.StudentFilter) []models.Student {
	var out []models.Student
	for _, s := range f.byID {
		if filter.Grade != nil && s.GradeName != *filter.Grade {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out
}

func (f *fakeStudents) List(_ context.Context, filter repositories.StudentFilter, offset uint64, limit int) ([]models.Student, error) {
	all := f.filtered(filter)
	if int(offset) >= len(all) {
		return nil, nil
	}
	end := int(offset) + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeStudents) ListByGrade(_ context.Context, grade string, enabledOnly bool) ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.filtered(repositories.StudentFilter{Grade: &grade}) {
		if enabledOnly && !s.IsEnabled {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudents) Count(_ context.Context, filter repositories.StudentFilter) (int64, error) {
	return int64(len(f.filtered(filter))), nil
}

func (f *fakeStudents) Create(_ context.Context, s *models.Student) error {
	if _, ok := f.byID[s.StudentID]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrResourceAlreadyExists, s.StudentID)
	}
	cp := *s
	f.byID[s.StudentID] = &cp
	return nil
}

func (f *fakeStudents) Update(_ context.Context, s *models.Student) error {
	if _, ok := f.byID[s.StudentID]; !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrStudentNotFound, s.StudentID)
	}
	cp := *s
	f.byID[s.StudentID] = &cp
	return nil
}

func (f *fakeStudents) UpdateMany(ctx context.Context, students []*models.Student) error {
	for _, s := range students {
		if err := f.Update(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStudents) Delete(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

// care sessions

type fakeCare struct {
	records map[string]models.StudentCareHours
}

func newFakeCare(records ...models.StudentCareHours) *fakeCare {
	f := &fakeCare{records: map[string]models.StudentCareHours{}}
	for _, r := range records {
		f.records[careKey(r.StudentID, r.CareDate, r.CareType)] = r
	}
	return f
}

func careKey(studentID string, date time.Time, ct carewindow.CareType) string {
	return fmt.Sprintf("%s/%s/%s", studentID, date.Format("2006-01-02"), ct.Label())
}

func (f *fakeCare) Create(_ context.Context, c *models.StudentCareHours) error {
	key := careKey(c.StudentID, c.CareDate, c.CareType)
	if _, ok := f.records[key]; ok {
		return fmt.Errorf("%w: already checked in", apperrors.ErrCareState)
	}
	f.records[key] = *c
	return nil
}

func (f *fakeCare) Get(_ context.Context, studentID string, date time.Time, ct carewindow.CareType) (*models.StudentCareHours, error) {
	r, ok := f.records[careKey(studentID, date, ct)]
	if !ok {
		return nil, fmt.Errorf("%w: care record", apperrors.ErrResourceNotFound)
	}
	return &r, nil
}

func (f *fakeCare) ListForDate(_ context.Context, studentID string, date time.Time) ([]models.StudentCareHours, error) {
	return f.ListRange(context.Background(), studentID, date, date)
}

func (f *fakeCare) ListRange(_ context.Context, studentID string, from, to time.Time) ([]models.StudentCareHours, error) {
	var out []models.StudentCareHours
	for _, r := range f.records {
		if r.StudentID == studentID && !r.CareDate.Before(from) && !r.CareDate.After(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CareDate.After(out[j].CareDate) })
	return out, nil
}

func (f *fakeCare) CheckedInStudentIDs(_ context.Context, ids []string, date time.Time, ct carewindow.CareType) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range ids {
		if _, ok := f.records[careKey(id, date, ct)]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeCare) CheckOut(_ context.Context, c *models.StudentCareHours) error {
	key := careKey(c.StudentID, c.CareDate, c.CareType)
	if _, ok := f.records[key]; !ok {
		return fmt.Errorf("%w: care record", apperrors.ErrResourceNotFound)
	}
	c.ManuallyCheckedOut = true
	f.records[key] = *c
	return nil
}

func (f *fakeCare) Delete(_ context.Context, studentID string, date time.Time, ct *carewindow.CareType) (int64, error) {
	var n int64
	for _, t := range []carewindow.CareType{carewindow.BeforeCare, carewindow.AfterCare} {
		if ct != nil && *ct != t {
			continue
		}
		key := careKey(studentID, date, t)
		if _, ok := f.records[key]; ok {
			delete(f.records, key)
			n++
		}
	}
	return n, nil
}

func (f *fakeCare) Count(context.Context) (int64, error) { return int64(len(f.records)), nil }

// tokens

type fakeResetTokens struct {
	byEmployee map[string]models.ResetToken
	collisions int
}

func (f *fakeResetTokens) Upsert(_ context.Context, t *models.ResetToken) error {
	if f.collisions > 0 {
		f.collisions--
		return fmt.Errorf("%w: reset code", apperrors.ErrResourceAlreadyExists)
	}
	if f.byEmployee == nil {
		f.byEmployee = map[string]models.ResetToken{}
	}
	f.byEmployee[t.EmployeeID] = *t
	return nil
}

func (f *fakeResetTokens) GetByToken(_ context.Context, code string) (*models.ResetToken, error) {
	for _, t := range f.byEmployee {
		if t.Token == code {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: The provided reset code is invalid", apperrors.ErrResetCodeInvalid)
}

func (f *fakeResetTokens) DeleteByEmployeeID(_ context.Context, employeeID string) error {
	delete(f.byEmployee, employeeID)
	return nil
}

type fakeBlacklist map[string]models.BlacklistedToken

func (f fakeBlacklist) Add(_ context.Context, t *models.BlacklistedToken) error {
	if _, ok := f[t.AccessToken]; ok {
		return fmt.Errorf("%w: Token already invalidated", apperrors.ErrResourceAlreadyExists)
	}
	f[t.AccessToken] = *t
	return nil
}

func (f fakeBlacklist) IsBlacklisted(_ context.Context, token string) (bool, error) {
	_, ok := f[token]
	return ok, nil
}

// notifications and reports

type fakeNotifier struct {
	sent []email.Message
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, msg email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeReportSource struct {
	timesheets []models.TimesheetReportRow
	care       []models.CareReportRow
	excluded   string
}

func (f *fakeReportSource) TimesheetRows(_ context.Context, _, _ time.Time, exclude string) ([]models.TimesheetReportRow, error) {
	f.excluded = exclude
	return f.timesheets, nil
}

func (f *fakeReportSource) CareRows(context.Context, string, time.Time, time.Time) ([]models.CareReportRow, error) {
	return f.care, nil
}

type fakeReportStore struct {
	files map[string][]byte
}

func (f *fakeReportStore) Save(_ context.Context, category, name string, data []byte) (string, error) {
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[category+"/"+name] = data
	return "/reports/" + category + "/" + name, nil
}

func (f *fakeReportStore) List(_ context.Context, category string) ([]filestorage.FileInfo, error) {
	var out []filestorage.FileInfo
	for key, data := range f.files {
		if len(key) > len(category) && key[:len(category)+1] == category+"/" {
			out = append(out, filestorage.FileInfo{Category: category, Name: key[len(category)+1:], Size: int64(len(data))})
		}
	}
	return out, nil
}

func (f *fakeReportStore) Delete(_ context.Context, category, name string) error {
	key := category + "/" + name
	if _, ok := f.files[key]; !ok {
		return fmt.Errorf("%w: %s", filestorage.ErrFileNotFound, key)
	}
	delete(f.files, key)
	return nil
}

type fakePDF struct {
	template string
	data     any
}

func (f *fakePDF) RenderPDF(_ context.Context, templateName string, data any) ([]byte, error) {
	f.template = templateName
	f.data = data
	return []byte("%PDF-1.4"), nil
}
