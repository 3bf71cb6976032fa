package leave

import (
	"shiftleave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
) {
	leaves := r.Group("/leave")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ExtractUserID())
	{
		leaves.GET("", handler.GetAll)
		leaves.GET("/availability", handler.GetAvailability)
		leaves.GET("/calendar", handler.GetCalendar)
		leaves.GET("/:id", handler.GetById)
		leaves.POST("", middleware.Idempotency(rdb), handler.Create)
		leaves.PATCH("/:id", handler.UpdateStatus)
		leaves.DELETE("/:id", handler.Delete)
	}
}
