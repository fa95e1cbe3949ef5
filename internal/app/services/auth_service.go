package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appauth "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/email"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// resetCodeAttempts bounds retries when a freshly generated reset code collides with a stored one.
const resetCodeAttempts = 3

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*appauth.Principal, error)
	Logout(ctx context.Context, principal *appauth.Principal) error
	Me(ctx context.Context, employeeID string) (*dto.MeResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error
}

// AuthDependencies groups what the auth service needs
type AuthDependencies struct {
	Employees       EmployeeStore
	ResetTokens     ResetTokenStore
	Blacklist       TokenBlacklistStore
	JWT             *auth.JWTService
	Hasher          auth.PasswordHasher
	Notifier        email.Notifier
	ResetCodeExpiry time.Duration
	Logger          zerolog.Logger
	Now             func() time.Time
	NewResetCode    func() string
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	employees       EmployeeStore
	resetTokens     ResetTokenStore
	blacklist       TokenBlacklistStore
	jwt             *auth.JWTService
	hasher          auth.PasswordHasher
	notifier        email.Notifier
	resetCodeExpiry time.Duration
	logger          zerolog.Logger
	now             func() time.Time
	newResetCode    func() string
}

// NewAuthService creates a new AuthService
func NewAuthService(deps AuthDependencies) AuthService {
	s := &authServiceImpl{
		employees:       deps.Employees,
		resetTokens:     deps.ResetTokens,
		blacklist:       deps.Blacklist,
		jwt:             deps.JWT,
		hasher:          deps.Hasher,
		notifier:        deps.Notifier,
		resetCodeExpiry: deps.ResetCodeExpiry,
		logger:          deps.Logger,
		now:             deps.Now,
		newResetCode:    deps.NewResetCode,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newResetCode == nil {
		s.newResetCode = auth.NewResetCode
	}
	return s
}

// Login verifies the credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	employee, err := s.lookupUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			s.logger.Warn().Str("username", req.Username).Msg("Login attempt for unknown employee")
			return nil, fmt.Errorf("%w: Invalid username or password provided", apperrors.ErrInvalidCredentials)
		}
		return nil, err
	}

	if !s.hasher.Check(employee.PasswordHash, req.Password) {
		s.logger.Warn().Str("employeeID", employee.EmployeeID).Msg("Login attempt with wrong password")
		return nil, fmt.Errorf("%w: Invalid username or password provided", apperrors.ErrInvalidCredentials)
	}

	if !employee.IsEnabled {
		return nil, fmt.Errorf("%w: The employee account %s is disabled", apperrors.ErrAccountDisabled, employee.EmployeeID)
	}

	scopes, ok := models.RoleScopes[employee.RoleName]
	if !ok {
		return nil, fmt.Errorf("%w: role %q cannot sign in", apperrors.ErrPermissionDenied, employee.RoleName)
	}

	issued, err := s.jwt.GenerateAccessToken(employee.EmployeeID, scopes)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	s.logger.Info().Str("employeeID", employee.EmployeeID).Strs("scopes", scopes).Msg("Employee signed in")
	return &dto.LoginResponse{
		EmployeeID: employee.EmployeeID,
		FirstName:  employee.FirstName,
		Token:      issued.Token,
		TokenType:  "Bearer",
		Iat:        issued.IssuedAt.Unix(),
		Exp:        issued.ExpiresAt.Unix(),
	}, nil
}

func (s *authServiceImpl) lookupUsername(ctx context.Context, username string) (*models.Employee, error) {
	username = strings.TrimSpace(username)
	if strings.Contains(username, "@") {
		return s.employees.GetByEmail(ctx, strings.ToLower(username))
	}
	return s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(username))
}

// Authenticate validates an access token and checks it against the blacklist
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*appauth.Principal, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, fmt.Errorf("%w: The access token has expired", apperrors.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error checking token blacklist: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: The access token has been invalidated", apperrors.ErrTokenRevoked)
	}

	p := &appauth.Principal{
		EmployeeID: claims.Subject,
		Scopes:     claims.Scopes,
		Token:      token,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Logout blacklists the principal's token until it expires
func (s *authServiceImpl) Logout(ctx context.Context, principal *appauth.Principal) error {
	err := s.blacklist.Add(ctx, &models.BlacklistedToken{
		AccessToken: principal.Token,
		Iss:         principal.IssuedAt.Unix(),
		Exp:         principal.ExpiresAt.Unix(),
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("employeeID", principal.EmployeeID).Msg("Employee signed out and the access token was blacklisted")
	return nil
}

// Me returns the title-cased full name of the employee
func (s *authServiceImpl) Me(ctx context.Context, employeeID string) (*dto.MeResponse, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: helpers.TitleCase(employee.FullName())}, nil
}

// ForgotPassword stores a new reset code for the employee and emails it to the primary address
func (s *authServiceImpl) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(req.EmployeeID))
	if err != nil {
		return err
	}

	now := s.now()
	token := &models.ResetToken{
		EmployeeID: employee.EmployeeID,
		Iss:        now.Unix(),
		Exp:        now.Add(s.resetCodeExpiry).Unix(),
	}
	for attempt := 1; ; attempt++ {
		token.Token = s.newResetCode()
		err = s.resetTokens.Upsert(ctx, token)
		if err == nil || !apperrors.Is(err, apperrors.ErrResourceAlreadyExists) || attempt == resetCodeAttempts {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("error storing reset code: %w", err)
	}
	s.logger.Info().Str("employeeID", employee.EmployeeID).Msg("Password reset code created")

	err = s.notifier.Send(ctx, email.Message{
		To:       []string{employee.Contact.PrimaryEmail},
		Subject:  "Password Reset Code",
		Template: email.TemplateResetCode,
		Data: map[string]any{
			"EmployeeName": helpers.TitleCase(employee.FullName()),
			"Code":         token.Token,
			"ExpiresAt":    time.Unix(token.Exp, 0).In(now.Location()).Format("01/02/2006 15:04"),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: The reset code email could not be sent", apperrors.ErrEmailDelivery)
	}
	return nil
}

// ResetPassword sets a new password for the owner of a valid reset code and consumes the code
func (s *authServiceImpl) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	token, err := s.resetTokens.GetByToken(ctx, strings.ToUpper(strings.TrimSpace(req.ResetCode)))
	if err != nil {
		return err
	}

	if token.Expired(s.now()) {
		if err := s.resetTokens.DeleteByEmployeeID(ctx, token.EmployeeID); err != nil {
			s.logger.Warn().Err(err).Str("employeeID", token.EmployeeID).Msg("Failed to remove expired reset code")
		}
		return fmt.Errorf("%w: The provided reset code has expired", apperrors.ErrResetCodeExpired)
	}

	if err := s.setPassword(ctx, token.EmployeeID, req.NewPassword); err != nil {
		return err
	}
	if err := s.resetTokens.DeleteByEmployeeID(ctx, token.EmployeeID); err != nil {
		return fmt.Errorf("error removing used reset code: %w", err)
	}
	s.logger.Info().Str("employeeID", token.EmployeeID).Msg("Password reset with reset code")
	return nil
}

// ChangePassword replaces the password after verifying the current one
func (s *authServiceImpl) ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error {
	employee, err := s.employees.GetByEmployeeID(ctx, helpers.NormalizeID(req.EmployeeID))
	if err != nil {
		return err
	}
	if !s.hasher.Check(employee.PasswordHash, req.CurrentPassword) {
		return apperrors.NewBadRequestError("The current password is incorrect")
	}
	if err := s.setPassword(ctx, employee.EmployeeID, req.NewPassword); err != nil {
		return err
	}
	s.logger.Info().Str("employeeID", employee.EmployeeID).Msg("Password changed")
	return nil
}

func (s *authServiceImpl) setPassword(ctx context.Context, employeeID, password string) error {
	if !validation.ValidPassword(password) {
		return fmt.Errorf("%w: the password must be at least %d characters", apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return s.employees.UpdatePassword(ctx, employeeID, hash)
}
