package reports

import (
	"shiftleave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	reports.Use(middleware.ExtractUserID())
	{
		reports.GET("/daily", handler.GetDailyReport)
		reports.GET("/weekly", handler.GetWeeklyReport)
		reports.GET("/monthly", handler.GetMonthlyReport)
	}
}
