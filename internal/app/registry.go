package app

import (
	"database/sql"

	"shiftleave/internal/auth"
	"shiftleave/internal/leave"
	"shiftleave/internal/messaging/kafka"
	"shiftleave/internal/middleware"
	"shiftleave/internal/reports"
	"shiftleave/internal/shiftconfig"
	"shiftleave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	router.Use(middleware.RequestID())

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	configRepo := shiftconfig.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(authRepo)
	userService := user.NewService(userRepo)
	configService := shiftconfig.NewService(db, configRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, configService, outboxRepo, rdb)
	reportsService := reports.NewService(leaveRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	leaveHandler := leave.NewHandler(leaveService)
	configHandler := shiftconfig.NewHandler(configService)
	reportsHandler := reports.NewHandler(reportsService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, logger)
		leave.RegisterRoutes(api, leaveHandler, rdb)
		shiftconfig.RegisterRoutes(api, configHandler)
		reports.RegisterRoutes(api, reportsHandler)
	}

	return nil
}
