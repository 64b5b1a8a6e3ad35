package app

import (
	"database/sql"
	"os"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/notification"
	"go-hrms/internal/offerletter"
	"go-hrms/internal/onboarding"
	"go-hrms/internal/rbac"
	"go-hrms/internal/rbac/infra"
	"go-hrms/internal/rbac/rbac_http"
	"go-hrms/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	templateRepo := offerletter.NewTemplateRepository(gormDB)
	letterRepo := offerletter.NewLetterRepository(gormDB)
	onboardingRepo := onboarding.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	auditLogger := bootstrap.NewStdoutAuditLogger()

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, rdb)
	notificationService := notification.NewService(notificationRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, notificationRepo, outboxRepo, rdb)
	offerLetterService := offerletter.NewService(
		db,
		templateRepo,
		letterRepo,
		counterRepo,
		outboxRepo,
		auditLogger,
		os.Getenv("CURRENCY_SYMBOL"),
	)
	onboardingService := onboarding.NewService(db, onboardingRepo, employeeRepo, notificationRepo, rdb)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	notificationHandler := notification.NewHandler(notificationService)
	leaveHandler := leave.NewHandler(leaveService)
	offerLetterHandler := offerletter.NewHandler(offerLetterService)
	onboardingHandler := onboarding.NewHandler(onboardingService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		offerletter.RegisterRoutes(api, offerLetterHandler, rbacService, rdb)
		onboarding.RegisterRoutes(api, onboardingHandler, rbacService)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
