package controllers

import (
	"net/http"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CareController handles before-care and after-care attendance
type CareController struct {
	careService services.CareService
}

// NewCareController creates a new CareController
func NewCareController(careService services.CareService) *CareController {
	return &CareController{careService: careService}
}

// CheckIn checks a student in to a care service
// @Summary Check in
// @Description care_type false is before-care, true is after-care. The check-in time defaults to now.
// @Tags care
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CheckInRequest true "Check-in"
// @Success 201 {object} dto.APIResponse{data=dto.CareRecordResponse}
// @Failure 400 {object} dto.ErrorResponse "Outside of the service hours or already checked in"
// @Router /care/checkin [post]
func (c *CareController) CheckIn(ctx *gin.Context) {
	var req dto.CheckInRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.careService.CheckIn(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, record, "Student checked in")
}

// CheckOut checks a student out of a care service
// @Summary Check out
// @Description The check-out time defaults to the end of the service and is clamped to it.
// @Tags care
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CheckOutRequest true "Check-out"
// @Success 200 {object} dto.APIResponse{data=dto.CareRecordResponse}
// @Failure 400 {object} dto.ErrorResponse "Not checked in or invalid check-out time"
// @Router /care/checkout [post]
func (c *CareController) CheckOut(ctx *gin.Context) {
	var req dto.CheckOutRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.careService.CheckOut(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, record, "Student checked out")
}

// Timeslots returns the configured service times
// @Summary Care service times
// @Tags care
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TimeslotsResponse}
// @Router /care/timeslots [get]
func (c *CareController) Timeslots(ctx *gin.Context) {
	respondOK(ctx, http.StatusOK, c.careService.Timeslots(), "")
}

// StudentCare returns a student's care records of one day
// @Summary Student care of a day
// @Tags care
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Param care_date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.APIResponse{data=dto.StudentCareResponse}
// @Router /care/student/{student_id} [get]
func (c *CareController) StudentCare(ctx *gin.Context) {
	var query dto.StudentCareQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	care, err := c.careService.StudentCare(ctx.Request.Context(), ctx.Param("student_id"), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, care, "")
}

// Students lists the students of a grade with their check-in state
// @Summary Students of a grade for a care session
// @Tags care
// @Produce json
// @Security BearerAuth
// @Param grade query string true "Grade"
// @Param care_date query string true "Date (YYYY-MM-DD)"
// @Param care_type query bool true "false for before-care, true for after-care"
// @Success 200 {object} dto.APIResponse{data=[]dto.CareStudentStatus}
// @Router /care/students [get]
func (c *CareController) Students(ctx *gin.Context) {
	var query dto.CareStudentsQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	students, err := c.careService.Students(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, students, "")
}

// Records returns a student's care records over a date range
// @Summary Care records
// @Tags care
// @Produce json
// @Security BearerAuth
// @Param student_id query string true "Student ID"
// @Param start_date query string true "First date (YYYY-MM-DD)"
// @Param end_date query string true "Last date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.CareRecordsResponse}
// @Router /care/records [get]
func (c *CareController) Records(ctx *gin.Context) {
	var query dto.CareRecordsQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	records, err := c.careService.Records(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, records, "")
}

// Delete removes care records of a day
// @Summary Delete care records
// @Tags care
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DeleteCareRequest true "Records to remove"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown student"
// @Router /care/records [delete]
func (c *CareController) Delete(ctx *gin.Context) {
	var req dto.DeleteCareRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	removed, err := c.careService.Delete(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: removed}, "Care records removed")
}

// Count returns the number of care records
// @Summary Count care records
// @Tags care
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /care/count [get]
func (c *CareController) Count(ctx *gin.Context) {
	count, err := c.careService.Count(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: count}, "")
}
