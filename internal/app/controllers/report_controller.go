package controllers

import (
	"fmt"
	"net/http"

	appauth "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/filestorage"
	"github.com/gin-gonic/gin"
)

// ReportController handles report generation and leave requests
type ReportController struct {
	reportService services.ReportService
	authorizer    *appauth.AuthorizationService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService, authorizer *appauth.AuthorizationService) *ReportController {
	return &ReportController{
		reportService: reportService,
		authorizer:    authorizer,
	}
}

// sendAttachment writes a generated report as a file download
func sendAttachment(ctx *gin.Context, report *services.Report) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Name))
	ctx.Data(http.StatusOK, report.ContentType, report.Data)
}

// TimesheetReport generates the employee timesheet report
// @Summary Timesheet report
// @Description Generates, stores and returns the timesheet report of every enabled employee with hours in the range
// @Tags reports
// @Produce application/pdf,text/csv
// @Security BearerAuth
// @Param start_date query string true "First date (YYYY-MM-DD)"
// @Param end_date query string true "Last date (YYYY-MM-DD)"
// @Param format query string false "pdf or csv" Enums(pdf, csv) default(pdf)
// @Success 200 {file} file "Report"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or report generation failed"
// @Router /reports/timesheet [get]
func (c *ReportController) TimesheetReport(ctx *gin.Context) {
	var query dto.TimesheetReportQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	report, err := c.reportService.TimesheetReport(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendAttachment(ctx, report)
}

// CareReport generates the student care report of a grade
// @Summary Care report
// @Tags reports
// @Produce application/pdf,text/csv
// @Security BearerAuth
// @Param start_date query string true "First date (YYYY-MM-DD)"
// @Param end_date query string true "Last date (YYYY-MM-DD)"
// @Param grade query string true "Grade"
// @Param format query string false "pdf or csv" Enums(pdf, csv) default(pdf)
// @Success 200 {file} file "Report"
// @Failure 400 {object} dto.ErrorResponse "Invalid request, unknown grade or report generation failed"
// @Router /reports/care [get]
func (c *ReportController) CareReport(ctx *gin.Context) {
	var query dto.CareReportQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	report, err := c.reportService.CareReport(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendAttachment(ctx, report)
}

// List returns the stored reports
// @Summary List stored reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ReportListResponse}
// @Router /reports [get]
func (c *ReportController) List(ctx *gin.Context) {
	reports, err := c.reportService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, reports, "")
}

// DeleteEmployeeReport removes a stored timesheet report
// @Summary Delete timesheet report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param name path string true "File name"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Report not found"
// @Router /reports/employees/{name} [delete]
func (c *ReportController) DeleteEmployeeReport(ctx *gin.Context) {
	c.delete(ctx, filestorage.CategoryEmployees)
}

// DeleteStudentReport removes a stored care report
// @Summary Delete care report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param name path string true "File name"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Report not found"
// @Router /reports/students/{name} [delete]
func (c *ReportController) DeleteStudentReport(ctx *gin.Context) {
	c.delete(ctx, filestorage.CategoryStudents)
}

func (c *ReportController) delete(ctx *gin.Context, category string) {
	if err := c.reportService.Delete(ctx.Request.Context(), category, ctx.Param("name")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, nil, "Report removed")
}

// LeaveReasons returns the configured absence reasons
// @Summary Leave reasons
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.LeaveReasonsResponse}
// @Router /reports/leave/reasons [get]
func (c *ReportController) LeaveReasons(ctx *gin.Context) {
	respondOK(ctx, http.StatusOK, c.reportService.LeaveReasons(), "")
}

// SendLeaveRequest emails a leave request to the office
// @Summary Send leave request
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LeaveRequest true "Leave request"
// @Success 200 {object} dto.APIResponse "Leave request sent"
// @Failure 400 {object} dto.ErrorResponse "Unknown employee or the email could not be sent"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /reports/leave [post]
func (c *ReportController) SendLeaveRequest(ctx *gin.Context) {
	var req dto.LeaveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	principal, _ := middleware.GetPrincipal(ctx)
	if err := c.authorizer.ValidateEmployeeAccess(principal, req.EmployeeID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.reportService.SendLeaveRequest(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, nil, "Leave request sent")
}
