// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	appauth "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	authorizer  *appauth.AuthorizationService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, authorizer *appauth.AuthorizationService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// Login handles employee login
// @Summary Login
// @Description Authenticates an employee by employee ID or primary email and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid username or password provided"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid login request payload")
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, resp, "Login successful")
}

// Logout invalidates the presented token
// @Summary Logout
// @Description Adds the presented access token to the token blacklist
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logout successful"
// @Failure 400 {object} dto.ErrorResponse "Token already invalidated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	if err := c.authService.Logout(ctx.Request.Context(), principal); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, nil, "Logout successful")
}

// Me returns the name of the token holder
// @Summary Current employee
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	resp, err := c.authService.Me(ctx.Request.Context(), principal.EmployeeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, resp, "")
}

// ForgotPassword emails a password reset code
// @Summary Request a password reset code
// @Description Emails a reset code to the employee's primary address. The code is never returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Employee ID"
// @Success 200 {object} dto.APIResponse "Reset code sent"
// @Failure 400 {object} dto.ErrorResponse "Unknown employee or email failure"
// @Router /forgot_password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, nil, "A password reset code has been sent to the employee's email")
}

// ResetPassword sets a new password using an emailed reset code
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset code and new password"
// @Success 200 {object} dto.APIResponse "Password reset"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired reset code"
// @Router /reset [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, nil, "Password has been reset")
}

// ChangePassword changes a password given the current one
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse "Password changed"
// @Failure 400 {object} dto.ErrorResponse "Wrong current password"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - not the employee's own account"
// @Router /employees/password/new [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	principal, _ := middleware.GetPrincipal(ctx)
	if err := c.authorizer.ValidateEmployeeAccess(principal, req.EmployeeID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, nil, "Password changed")
}
