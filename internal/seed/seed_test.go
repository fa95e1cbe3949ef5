package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/auth"
	"github.com/rs/zerolog"
)

type fakeRoles struct {
	ensured []string
}

func (f *fakeRoles) Ensure(_ context.Context, names ...string) (int64, error) {
	f.ensured = append(f.ensured, names...)
	return int64(len(names)), nil
}

func (f *fakeRoles) GetByName(_ context.Context, name string) (*models.EmployeeRole, error) {
	return &models.EmployeeRole{ID: 1, Name: name}, nil
}

type fakeEmployees struct {
	hasAdmin  bool
	createErr error
	created   []*models.Employee
}

func (f *fakeEmployees) HasEnabledRole(context.Context, string) (bool, error) {
	return f.hasAdmin, nil
}

func (f *fakeEmployees) Create(_ context.Context, e *models.Employee) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, e)
	return nil
}

func TestCreateDefaultData(t *testing.T) {
	admin := Admin{EmployeeID: "admin", FirstName: "pca", LastName: "administrator", Password: "admin123", Email: "admin@admin.com"}
	hasher := auth.NewPasswordHasher(4)

	type testcase struct {
		employees   *fakeEmployees
		wantCreated bool
		wantErr     bool
	}

	for name, testcase := range map[string]testcase{
		"creates administrator": {employees: &fakeEmployees{}, wantCreated: true},
		"administrator exists":  {employees: &fakeEmployees{hasAdmin: true}},
		"id taken":              {employees: &fakeEmployees{createErr: fmt.Errorf("%w: admin", apperrors.ErrResourceAlreadyExists)}},
		"create fails":          {employees: &fakeEmployees{createErr: errors.New("connection refused")}, wantErr: true},
	} {
		t.Run(name, func(t *testing.T) {
			roles := &fakeRoles{}
			err := CreateDefaultData(context.Background(), roles, testcase.employees, hasher, admin, zerolog.New(io.Discard))
			if (err != nil) != testcase.wantErr {
				t.Fatalf("error: got %v, want error %v", err, testcase.wantErr)
			}
			if len(roles.ensured) != 2 {
				t.Errorf("ensured roles: got %v", roles.ensured)
			}
			if got := len(testcase.employees.created) == 1; got != testcase.wantCreated {
				t.Fatalf("created: got %v, want %v", got, testcase.wantCreated)
			}
			if !testcase.wantCreated {
				return
			}
			e := testcase.employees.created[0]
			if e.EmployeeID != "admin" || !e.IsEnabled || e.RoleName != models.RoleAdministrator {
				t.Errorf("unexpected administrator: %+v", e)
			}
			if !hasher.Check(e.PasswordHash, "admin123") {
				t.Error("password hash does not match")
			}
		})
	}
}
