package user

import (
	"shiftleave/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	users.Use(middleware.ExtractUserID())
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("", middleware.RateLimitByUser(3, 10), handler.GetAll)
		users.GET("/:id", middleware.RateLimitByUser(3, 10), handler.GetById)
		users.PATCH("/:id/status", middleware.RateLimitByUser(0.5, 2), handler.ToggleStatus)
		users.POST("/change-password", middleware.RateLimitByUser(0.5, 2), handler.ChangePassword)
		users.POST("/:id/force-reset-password", middleware.RateLimitByUser(0.5, 2), handler.ForceResetPassword)
	}
}
