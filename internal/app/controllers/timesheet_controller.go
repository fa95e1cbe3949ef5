package controllers

import (
	"net/http"

	appauth "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// TimesheetController handles employee timesheet operations
type TimesheetController struct {
	timesheetService services.TimesheetService
	authorizer       *appauth.AuthorizationService
}

// NewTimesheetController creates a new TimesheetController
func NewTimesheetController(timesheetService services.TimesheetService, authorizer *appauth.AuthorizationService) *TimesheetController {
	return &TimesheetController{
		timesheetService: timesheetService,
		authorizer:       authorizer,
	}
}

// authorize checks that the caller may act on employeeID's timesheet. It writes the error response itself.
func (c *TimesheetController) authorize(ctx *gin.Context, employeeID string) bool {
	principal, _ := middleware.GetPrincipal(ctx)
	if err := c.authorizer.ValidateEmployeeAccess(principal, employeeID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}
	return true
}

// Create records one timesheet day
// @Summary Create timesheet entry
// @Description Hours are rounded up to the next half hour. PTO and extra hours are zeroed when disabled for the employee.
// @Tags timesheet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTimesheetRequest true "Timesheet day"
// @Success 201 {object} dto.APIResponse{data=dto.TimesheetEntryResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request, unknown employee or duplicate date"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /timesheet [post]
func (c *TimesheetController) Create(ctx *gin.Context) {
	var req dto.CreateTimesheetRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if !c.authorize(ctx, req.EmployeeID) {
		return
	}

	entry, err := c.timesheetService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, entry, "Timesheet entry created")
}

// Submit upserts several timesheet days
// @Summary Submit timesheet
// @Tags timesheet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Param request body dto.SubmitTimesheetRequest true "Timesheet days"
// @Success 200 {object} dto.APIResponse{data=[]dto.TimesheetEntryResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or unknown employee"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /timesheet/{employee_id}/submit [post]
func (c *TimesheetController) Submit(ctx *gin.Context) {
	employeeID := ctx.Param("employee_id")
	var req dto.SubmitTimesheetRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if !c.authorize(ctx, employeeID) {
		return
	}

	entries, err := c.timesheetService.Submit(ctx.Request.Context(), employeeID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, entries, "Timesheet saved")
}

// Update changes the entry of one date
// @Summary Update timesheet entry
// @Tags timesheet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Param request body dto.UpdateTimesheetRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.TimesheetEntryResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or entry not found"
// @Router /timesheet/{employee_id} [put]
func (c *TimesheetController) Update(ctx *gin.Context) {
	employeeID := ctx.Param("employee_id")
	var req dto.UpdateTimesheetRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if !c.authorize(ctx, employeeID) {
		return
	}

	entry, err := c.timesheetService.Update(ctx.Request.Context(), employeeID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, entry, "Timesheet entry updated")
}

// Delete removes the entries of the listed dates
// @Summary Delete timesheet entries
// @Tags timesheet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Param request body dto.DeleteTimesheetRequest true "Dates to remove"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Failure 400 {object} dto.ErrorResponse "No entries found"
// @Router /timesheet/{employee_id} [delete]
func (c *TimesheetController) Delete(ctx *gin.Context) {
	employeeID := ctx.Param("employee_id")
	var req dto.DeleteTimesheetRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if !c.authorize(ctx, employeeID) {
		return
	}

	removed, err := c.timesheetService.Delete(ctx.Request.Context(), employeeID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: removed}, "Timesheet entries removed")
}

// DeleteAll removes every entry of an employee
// @Summary Delete all timesheet entries
// @Tags timesheet
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /timesheet/{employee_id}/all [delete]
func (c *TimesheetController) DeleteAll(ctx *gin.Context) {
	removed, err := c.timesheetService.DeleteAll(ctx.Request.Context(), ctx.Param("employee_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: removed}, "Timesheet entries removed")
}

// Get returns the entries and totals of a date range
// @Summary Get timesheet
// @Tags timesheet
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Param date_start query string true "First date (YYYY-MM-DD)"
// @Param date_end query string true "Last date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.TimesheetResponse}
// @Router /timesheet/{employee_id} [get]
func (c *TimesheetController) Get(ctx *gin.Context) {
	employeeID := ctx.Param("employee_id")
	var query dto.TimesheetQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	if !c.authorize(ctx, employeeID) {
		return
	}

	timesheet, err := c.timesheetService.Get(ctx.Request.Context(), employeeID, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, timesheet, "")
}

// Hours returns the totals of a date range
// @Summary Get timesheet totals
// @Tags timesheet
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Param date_start query string true "First date (YYYY-MM-DD)"
// @Param date_end query string true "Last date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.TimesheetHoursResponse}
// @Router /timesheet/hours/{employee_id} [get]
func (c *TimesheetController) Hours(ctx *gin.Context) {
	employeeID := ctx.Param("employee_id")
	var query dto.TimesheetQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	if !c.authorize(ctx, employeeID) {
		return
	}

	hours, err := c.timesheetService.Hours(ctx.Request.Context(), employeeID, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, hours, "")
}

// Count returns the number of timesheet entries
// @Summary Count timesheet entries
// @Tags timesheet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /timesheet/count [get]
func (c *TimesheetController) Count(ctx *gin.Context) {
	count, err := c.timesheetService.Count(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: count}, "")
}
