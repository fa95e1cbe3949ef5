package controllers

import (
	"net/http"
	"sort"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/services"
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CoreController serves server status and diagnostics
type CoreController struct {
	systemService services.SystemService
}

// NewCoreController creates a new CoreController
func NewCoreController(systemService services.SystemService) *CoreController {
	return &CoreController{systemService: systemService}
}

// Ping is the liveness probe
// @Summary Liveness
// @Tags core
// @Produce plain
// @Success 200 {string} string "pong"
// @Router /ping [get]
func (c *CoreController) Ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}

// Status reports whether the database is reachable
// @Summary Server status
// @Tags core
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StatusResponse}
// @Router /status [get]
func (c *CoreController) Status(ctx *gin.Context) {
	respondOK(ctx, http.StatusOK, c.systemService.Status(ctx.Request.Context()), "")
}

// Routes lists the routes registered on engine
// @Summary Registered routes
// @Tags core
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.RouteInfo}
// @Router /routes [get]
func (c *CoreController) Routes(engine *gin.Engine) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		registered := engine.Routes()
		routes := make([]dto.RouteInfo, 0, len(registered))
		for _, r := range registered {
			routes = append(routes, dto.RouteInfo{Method: r.Method, Path: r.Path})
		}
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})
		respondOK(ctx, http.StatusOK, routes, "")
	}
}

// SendTestEmail sends a test email to the configured sender address
// @Summary Send test email
// @Tags core
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.EmailTestResponse}
// @Failure 400 {object} dto.ErrorResponse "The email could not be sent"
// @Router /email/test [post]
func (c *CoreController) SendTestEmail(ctx *gin.Context) {
	result, err := c.systemService.SendTestEmail(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, http.StatusOK, result, "Test email sent")
}
