package controllers

import (
	"net/http"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// StudentController handles student and grade operations
type StudentController struct {
	studentService services.StudentService
	gradeService   services.GradeService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, gradeService services.GradeService) *StudentController {
	return &StudentController{
		studentService: studentService,
		gradeService:   gradeService,
	}
}

// Create adds a student
// @Summary Create student
// @Description Creates a student. The student ID is generated from the name and the carpool number.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or unknown grade"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, student, "Student created")
}

// Count returns the number of students
// @Summary Count students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /students/count [get]
func (c *StudentController) Count(ctx *gin.Context) {
	count, err := c.studentService.Count(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: count}, "")
}

// List returns a page of students
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param grade query string false "Grade filter"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.StudentResponse}}
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	students, err := c.studentService.List(ctx.Request.Context(), ctx.Query("grade"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, students, "")
}

// Get returns one student
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Student not found"
// @Router /students/{student_id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	student, err := c.studentService.Get(ctx.Request.Context(), ctx.Param("student_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, student, "")
}

// Update changes one student
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or student not found"
// @Router /students/{student_id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), ctx.Param("student_id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, student, "Student updated")
}

// UpdateMany changes several students in one transaction
// @Summary Update students
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateStudentsRequest true "Updates keyed by student ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /students [put]
func (c *StudentController) UpdateMany(ctx *gin.Context) {
	var req dto.UpdateStudentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	students, err := c.studentService.UpdateMany(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, students, "Students updated")
}

// Delete removes one student
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Failure 400 {object} dto.ErrorResponse "Student not found or has care records"
// @Router /students/{student_id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	c.delete(ctx, []string{ctx.Param("student_id")})
}

// DeleteMany removes the listed students
// @Summary Delete students
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentIDsRequest true "Student IDs"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /students [delete]
func (c *StudentController) DeleteMany(ctx *gin.Context) {
	var req dto.StudentIDsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.delete(ctx, req.StudentIDs)
}

func (c *StudentController) delete(ctx *gin.Context, studentIDs []string) {
	removed, err := c.studentService.Delete(ctx.Request.Context(), studentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: removed}, "Students removed")
}

// CreateGrade adds a grade
// @Summary Create grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GradeRequest true "Grade name"
// @Success 201 {object} dto.APIResponse{data=dto.GradeResponse}
// @Failure 400 {object} dto.ErrorResponse "Grade already exists"
// @Router /grades [post]
func (c *StudentController) CreateGrade(ctx *gin.Context) {
	var req dto.GradeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	grade, err := c.gradeService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusCreated, grade, "Grade created")
}

// ListGrades returns every grade
// @Summary List grades
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GradeResponse}
// @Router /grades [get]
func (c *StudentController) ListGrades(ctx *gin.Context) {
	grades, err := c.gradeService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, grades, "")
}

// CountGrades returns the number of grades
// @Summary Count grades
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /grades/count [get]
func (c *StudentController) CountGrades(ctx *gin.Context) {
	count, err := c.gradeService.Count(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: count}, "")
}

// GetGrade returns one grade
// @Summary Get grade
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param name path string true "Grade name"
// @Success 200 {object} dto.APIResponse{data=dto.GradeResponse}
// @Failure 400 {object} dto.ErrorResponse "Grade not found"
// @Router /grades/{name} [get]
func (c *StudentController) GetGrade(ctx *gin.Context) {
	grade, err := c.gradeService.Get(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, grade, "")
}

// DeleteGrade removes a grade no student belongs to
// @Summary Delete grade
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param name path string true "Grade name"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Grade not found or in use"
// @Router /grades/{name} [delete]
func (c *StudentController) DeleteGrade(ctx *gin.Context) {
	if err := c.gradeService.Delete(ctx.Request.Context(), ctx.Param("name")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, nil, "Grade removed")
}
