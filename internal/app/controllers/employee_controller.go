package controllers

import (
	"net/http"

	appauth "github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/auth"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// EmployeeController handles employee account operations
type EmployeeController struct {
	employeeService services.EmployeeService
	authorizer      *appauth.AuthorizationService
}

// NewEmployeeController creates a new EmployeeController
func NewEmployeeController(employeeService services.EmployeeService, authorizer *appauth.AuthorizationService) *EmployeeController {
	return &EmployeeController{
		employeeService: employeeService,
		authorizer:      authorizer,
	}
}

// Register creates an employee account
// @Summary Register an employee
// @Description Creates an employee. The employee ID is generated from the name and the next row number.
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterEmployeeRequest true "Employee information"
// @Success 201 {object} dto.APIResponse{data=dto.EmployeeResponse} "Employee registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown role"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - administrator scope required"
// @Router /register [post]
func (c *EmployeeController) Register(ctx *gin.Context) {
	var req dto.RegisterEmployeeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	employee, err := c.employeeService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, employee, "Employee registered")
}

// Count returns the number of employees
// @Summary Count employees
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /employees/count [get]
func (c *EmployeeController) Count(ctx *gin.Context) {
	count, err := c.employeeService.Count(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: count}, "")
}

// List returns a page of employees
// @Summary List employees
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.EmployeeResponse}}
// @Router /employees [get]
func (c *EmployeeController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	employees, err := c.employeeService.List(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, employees, "")
}

// Retrieve returns the listed employees
// @Summary Retrieve employees by ID
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EmployeeIDsRequest true "Employee IDs"
// @Success 200 {object} dto.APIResponse{data=[]dto.EmployeeResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown employee ID"
// @Router /employees/retrieve [post]
func (c *EmployeeController) Retrieve(ctx *gin.Context) {
	var req dto.EmployeeIDsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	employees, err := c.employeeService.Retrieve(ctx.Request.Context(), req.EmployeeIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, employees, "")
}

// GetByToken returns the employee holding the access token
// @Summary Employee of the access token
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.EmployeeResponse}
// @Router /employees/token [get]
func (c *EmployeeController) GetByToken(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	employee, err := c.employeeService.Get(ctx.Request.Context(), principal.EmployeeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, employee, "")
}

// Get returns one employee
// @Summary Get employee
// @Description Employees may read their own record; administrators may read any record
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Success 200 {object} dto.APIResponse{data=dto.EmployeeResponse}
// @Failure 400 {object} dto.ErrorResponse "Employee not found"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /employees/{employee_id} [get]
func (c *EmployeeController) Get(ctx *gin.Context) {
	employeeID := ctx.Param("employee_id")
	principal, _ := middleware.GetPrincipal(ctx)
	if err := c.authorizer.ValidateEmployeeAccess(principal, employeeID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	employee, err := c.employeeService.Get(ctx.Request.Context(), employeeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, employee, "")
}

// Update changes one employee
// @Summary Update employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Param request body dto.UpdateEmployeeRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.EmployeeResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or employee not found"
// @Router /employees/{employee_id} [put]
func (c *EmployeeController) Update(ctx *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	employee, err := c.employeeService.Update(ctx.Request.Context(), ctx.Param("employee_id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, employee, "Employee updated")
}

// UpdateMany changes several employees in one transaction
// @Summary Update employees
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateEmployeesRequest true "Updates keyed by employee ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EmployeeResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or employee not found"
// @Router /employees [put]
func (c *EmployeeController) UpdateMany(ctx *gin.Context) {
	var req dto.UpdateEmployeesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	employees, err := c.employeeService.UpdateMany(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, employees, "Employees updated")
}

// Delete removes one employee
// @Summary Delete employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param employee_id path string true "Employee ID"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Failure 400 {object} dto.ErrorResponse "Employee not found or has timesheet records"
// @Router /employees/{employee_id} [delete]
func (c *EmployeeController) Delete(ctx *gin.Context) {
	c.delete(ctx, []string{ctx.Param("employee_id")})
}

// DeleteMany removes the listed employees
// @Summary Delete employees
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EmployeeIDsRequest true "Employee IDs"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Failure 400 {object} dto.ErrorResponse "Employee not found or has timesheet records"
// @Router /employees [delete]
func (c *EmployeeController) DeleteMany(ctx *gin.Context) {
	var req dto.EmployeeIDsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.delete(ctx, req.EmployeeIDs)
}

func (c *EmployeeController) delete(ctx *gin.Context, employeeIDs []string) {
	removed, err := c.employeeService.Delete(ctx.Request.Context(), employeeIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, dto.CountResponse{Count: removed}, "Employees removed")
}
