package auth

import (
	"errors"
	"io"
	"testing"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

func TestValidateEmployeeAccess(t *testing.T) {
	type testcase struct {
		principal *Principal
		target    string
		wantErr   error
	}

	s := NewAuthorizationService(zerolog.New(io.Discard))
	for name, testcase := range map[string]testcase{
		"self": {
			principal: &Principal{EmployeeID: "jdoe1", Scopes: []string{models.ScopeEmployee}},
			target:    "jdoe1",
		},
		"self with different case": {
			principal: &Principal{EmployeeID: "jdoe1", Scopes: []string{models.ScopeEmployee}},
			target:    "JDOE1",
		},
		"self with surrounding spaces": {
			principal: &Principal{EmployeeID: "jdoe1", Scopes: []string{models.ScopeEmployee}},
			target:    " jdoe1 ",
		},
		"administrator on another employee": {
			principal: &Principal{EmployeeID: "admin", Scopes: models.RoleScopes[models.RoleAdministrator]},
			target:    "jdoe1",
		},
		"employee on another employee": {
			principal: &Principal{EmployeeID: "asmith2", Scopes: []string{models.ScopeEmployee}},
			target:    "jdoe1",
			wantErr:   apperrors.ErrPermissionDenied,
		},
		"no principal": {
			target:  "jdoe1",
			wantErr: apperrors.ErrPermissionDenied,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := s.ValidateEmployeeAccess(testcase.principal, testcase.target)
			if testcase.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if testcase.wantErr != nil && !errors.Is(err, testcase.wantErr) {
				t.Fatalf("got %v, want %v", err, testcase.wantErr)
			}
		})
	}
}
