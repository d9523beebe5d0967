package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/utility-oms/backoffice-api/shared/utils"
	v1 "github.com/utility-oms/backoffice-api/v1"
	"github.com/utility-oms/backoffice-api/v1/auth"
	"github.com/utility-oms/backoffice-api/v1/handlers"
	"github.com/utility-oms/backoffice-api/v1/middleware"
	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/router"
	"github.com/utility-oms/backoffice-api/v1/services"
)

const serviceName = "backoffice-api"

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	utils.SetupLogging(
		utils.GetEnvOrDefault("LOG_FORMAT", "json"),
		utils.GetEnvOrDefault("LOG_LEVEL", "info"),
	)

	models.DefaultPageSize = utils.GetEnvIntOrDefault("PAGE_SIZE", models.DefaultPageSize)

	db, err := v1.ConnectGormDB(v1.NewDatabaseConfigFromEnv())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		slog.Error("SESSION_SECRET is required")
		os.Exit(1)
	}
	sessions, err := auth.NewSessionManager(auth.SessionManagerConfig{
		Secret: []byte(secret),
		Issuer: serviceName,
	})
	if err != nil {
		slog.Error("Failed to create session manager", "error", err)
		os.Exit(1)
	}

	authService := services.NewAuthService(db, sessions)
	portalAuthService := services.NewPortalAuthService(db, sessions)
	customerService := services.NewCustomerService(db)
	connectionService := services.NewConnectionService(db)
	faultService := services.NewFaultService(db)
	maintenanceService := services.NewMaintenanceService(db)
	requestService := services.NewRequestService(db)
	messageService := services.NewMessageService(db)
	notificationService := services.NewNotificationService(db)
	reportService := services.NewReportService(db)

	v1Router := router.NewV1Router(
		handlers.NewAuthHandler(authService),
		handlers.NewPortalHandler(portalAuthService, connectionService, faultService,
			requestService, messageService, notificationService, reportService),
		handlers.NewCustomerHandler(customerService, connectionService),
		handlers.NewConnectionHandler(connectionService),
		handlers.NewFaultHandler(faultService),
		handlers.NewMaintenanceHandler(maintenanceService),
		handlers.NewRequestHandler(requestService),
		handlers.NewMessageHandler(messageService),
		handlers.NewReportHandler(reportService, notificationService),
		middleware.NewSessionAuthMiddleware(sessions, db),
	)

	mux := http.NewServeMux()
	v1Router.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.CORSMiddleware()(middleware.MetricsMiddleware(mux))

	config := utils.DefaultServerConfig()
	config.Port = utils.GetEnvOrDefault("PORT", "8080")
	server := utils.CreateServer(config, handler)

	if err := utils.StartServerWithGracefulShutdown(server, serviceName); err != nil {
		os.Exit(1)
	}
}
