package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/apperrors"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// errorMapping ties an application error to its HTTP status and error code
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},
	{apperrors.ErrEmployeeNotFound, http.StatusBadRequest, dto.ErrorCodeResourceNotFound, "Employee not found"},
	{apperrors.ErrStudentNotFound, http.StatusBadRequest, dto.ErrorCodeResourceNotFound, "Student not found"},
	{apperrors.ErrGradeNotFound, http.StatusBadRequest, dto.ErrorCodeResourceNotFound, "Grade not found"},
	{apperrors.ErrRoleNotFound, http.StatusBadRequest, dto.ErrorCodeResourceNotFound, "Role not found"},
	{apperrors.ErrResourceNotFound, http.StatusBadRequest, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrResourceAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrResourceInUse, http.StatusBadRequest, dto.ErrorCodeResourceInUse, "Resource is in use"},
	{apperrors.ErrCareWindow, http.StatusBadRequest, dto.ErrorCodeCareWindow, "Outside of the care service hours"},
	{apperrors.ErrCareState, http.StatusBadRequest, dto.ErrorCodeCareState, "Invalid care record state"},
	{apperrors.ErrResetCodeInvalid, http.StatusBadRequest, dto.ErrorCodeResetCodeInvalid, "Invalid reset code"},
	{apperrors.ErrResetCodeExpired, http.StatusBadRequest, dto.ErrorCodeResetCodeExpired, "Expired reset code"},
	{apperrors.ErrEmailDelivery, http.StatusBadRequest, dto.ErrorCodeExternalServiceError, "Email delivery failed"},
	{apperrors.ErrReportFailed, http.StatusBadRequest, dto.ErrorCodeExternalServiceError, "Report generation failed"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeRevokedToken, "Token revoked"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account disabled"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			errorDetail := dto.NewErrorDetail(m.code, m.message).WithDetails(clientMessage(err))
			c.JSON(m.status, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}

// clientMessage strips the sentinel prefix of a wrapped error, leaving the message written for the client
func clientMessage(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	msg := err.Error()
	for _, m := range errorMappings {
		if prefix := m.target.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}
