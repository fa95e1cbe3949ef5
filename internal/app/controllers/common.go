package controllers

import (
	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/models/dto"
	"github.com/gin-gonic/gin"
)

// respondOK writes data in the success envelope
func respondOK(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewAPIResponse(data, message))
}
