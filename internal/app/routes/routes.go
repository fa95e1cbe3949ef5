package routes

import (
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/controllers"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups every controller mounted by SetupRouter
type Controllers struct {
	Auth      *controllers.AuthController
	Employee  *controllers.EmployeeController
	Student   *controllers.StudentController
	Timesheet *controllers.TimesheetController
	Care      *controllers.CareController
	Report    *controllers.ReportController
	Core      *controllers.CoreController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", c.Core.Ping)

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/status", c.Core.Status)
	v1.POST("/login", c.Auth.Login)
	v1.POST("/forgot_password", c.Auth.ForgotPassword)
	v1.POST("/reset", c.Auth.ResetPassword)

	// --- Employee routes ---
	employee := v1.Group("")
	employee.Use(authMiddleware.JWTAuth(), authMiddleware.ScopeRequired(models.ScopeEmployee))

	// --- Administrator routes ---
	admin := employee.Group("")
	admin.Use(authMiddleware.ScopeRequired(models.ScopeAdministrator))

	admin.GET("/routes", c.Core.Routes(router))
	admin.POST("/email/test", c.Core.SendTestEmail)

	employee.GET("/me", c.Auth.Me)
	employee.POST("/logout", c.Auth.Logout)
	employee.PUT("/employees/password/new", c.Auth.ChangePassword)

	admin.POST("/register", c.Employee.Register)
	employee.GET("/employees/token", c.Employee.GetByToken)
	employee.GET("/employees/:employee_id", c.Employee.Get)
	admin.GET("/employees/count", c.Employee.Count)
	admin.GET("/employees", c.Employee.List)
	admin.POST("/employees/retrieve", c.Employee.Retrieve)
	admin.PUT("/employees/:employee_id", c.Employee.Update)
	admin.PUT("/employees", c.Employee.UpdateMany)
	admin.DELETE("/employees/:employee_id", c.Employee.Delete)
	admin.DELETE("/employees", c.Employee.DeleteMany)

	employee.GET("/students/:student_id", c.Student.Get)
	admin.POST("/students", c.Student.Create)
	admin.GET("/students/count", c.Student.Count)
	admin.GET("/students", c.Student.List)
	admin.PUT("/students/:student_id", c.Student.Update)
	admin.PUT("/students", c.Student.UpdateMany)
	admin.DELETE("/students/:student_id", c.Student.Delete)
	admin.DELETE("/students", c.Student.DeleteMany)

	employee.GET("/grades", c.Student.ListGrades)
	employee.GET("/grades/count", c.Student.CountGrades)
	employee.GET("/grades/:name", c.Student.GetGrade)
	admin.POST("/grades", c.Student.CreateGrade)
	admin.DELETE("/grades/:name", c.Student.DeleteGrade)

	employee.POST("/timesheet", c.Timesheet.Create)
	employee.POST("/timesheet/:employee_id/submit", c.Timesheet.Submit)
	employee.PUT("/timesheet/:employee_id", c.Timesheet.Update)
	employee.DELETE("/timesheet/:employee_id", c.Timesheet.Delete)
	employee.GET("/timesheet/:employee_id", c.Timesheet.Get)
	employee.GET("/timesheet/hours/:employee_id", c.Timesheet.Hours)
	admin.DELETE("/timesheet/:employee_id/all", c.Timesheet.DeleteAll)
	admin.GET("/timesheet/count", c.Timesheet.Count)

	employee.POST("/care/checkin", c.Care.CheckIn)
	employee.POST("/care/checkout", c.Care.CheckOut)
	employee.GET("/care/timeslots", c.Care.Timeslots)
	employee.GET("/care/student/:student_id", c.Care.StudentCare)
	employee.GET("/care/students", c.Care.Students)
	admin.GET("/care/records", c.Care.Records)
	admin.DELETE("/care/records", c.Care.Delete)
	admin.GET("/care/count", c.Care.Count)

	admin.GET("/reports", c.Report.List)
	admin.GET("/reports/timesheet", c.Report.TimesheetReport)
	admin.GET("/reports/care", c.Report.CareReport)
	admin.DELETE("/reports/employees/:name", c.Report.DeleteEmployeeReport)
	admin.DELETE("/reports/students/:name", c.Report.DeleteStudentReport)
	employee.GET("/reports/leave/reasons", c.Report.LeaveReasons)
	employee.POST("/reports/leave", c.Report.SendLeaveRequest)
}
