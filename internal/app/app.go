package app

import (
	"os"

	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildApp connects the infrastructure and registers every module on the
// router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	return registerModules(router, sqlDB, gormDB, rdb)
}
