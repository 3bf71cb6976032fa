package shiftconfig

import (
	"shiftleave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	config := r.Group("/config")
	config.Use(middleware.AuthMiddleware())
	config.Use(middleware.ExtractUserID())
	{
		config.GET("/shift", handler.GetShiftConfig)
		config.POST("/shift", handler.SetShiftConfig)
	}
}
