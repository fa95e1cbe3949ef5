package auth

import (
	"fmt"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// Principal is the authenticated caller of a request, taken from a validated access token
type Principal struct {
	EmployeeID string
	Scopes     []string
	Token      string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// HasScope reports whether the principal's token grants scope
func (p *Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// IsAdministrator reports whether the principal holds the administrator scope
func (p *Principal) IsAdministrator() bool {
	return p.HasScope(models.ScopeAdministrator)
}

// AuthorizationService handles authorization decisions that depend on the target of a request
type AuthorizationService struct {
	logger zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(logger zerolog.Logger) *AuthorizationService {
	return &AuthorizationService{logger: logger}
}

// ValidateEmployeeAccess allows administrators and the employee itself to act on employeeID's resources
func (s *AuthorizationService) ValidateEmployeeAccess(p *Principal, employeeID string) error {
	if p == nil {
		return fmt.Errorf("%w: no authenticated employee", apperrors.ErrPermissionDenied)
	}
	if p.IsAdministrator() || p.EmployeeID == helpers.NormalizeID(employeeID) {
		return nil
	}
	s.logger.Warn().
		Str("employeeID", p.EmployeeID).
		Str("targetEmployeeID", employeeID).
		Msg("Employee attempted to access another employee's resources")
	return fmt.Errorf("%w: employees may only access their own records", apperrors.ErrPermissionDenied)
}
