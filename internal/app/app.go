package app

import (
	"database/sql"
	"fmt"
	"log"

	"autoclient/internal/config"
	"autoclient/internal/handlers"
	"autoclient/internal/middleware"
	"autoclient/internal/pdf"
	"autoclient/internal/repositories"
	"autoclient/internal/routes"
	"autoclient/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"

	_ "autoclient/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.JWTKey = []byte(cfg.JWT.Key)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	workshopRepo := repositories.NewWorkshopRepository(db)
	deviceRepo := repositories.NewTrustedDeviceRepository(db)
	otpRepo := repositories.NewLoginOtpRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	vehicleRepo := repositories.NewVehicleRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	serviceTypeRepo := repositories.NewServiceTypeRepository(db)
	workerRepo := repositories.NewWorkerRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	emailLogRepo := repositories.NewEmailLogRepository(db)
	settingsRepo := repositories.NewNotificationSettingsRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.SenderName,
	)
	tokenService := services.NewTokenService([]byte(cfg.JWT.Key), cfg.JWT.Issuer)
	otpService := services.NewOtpService(otpRepo)
	authService := services.NewAuthService(workshopRepo, deviceRepo, otpRepo, otpService, tokenService, emailService)

	notificationService := services.NewNotificationService(
		settingsRepo,
		emailLogRepo,
		serviceRepo,
		clientRepo,
		workshopRepo,
		emailService,
	)

	clientService := services.NewClientService(clientRepo)
	vehicleService := services.NewVehicleService(vehicleRepo, clientRepo)
	serviceRecordService := services.NewServiceRecordService(serviceRepo, vehicleRepo, workerRepo, notificationService)
	serviceTypeService := services.NewServiceTypeService(serviceTypeRepo)
	workerService := services.NewWorkerService(workerRepo)

	// Бланк для preprinted-счетов кладём рядом с файлами
	pdfGen := pdf.NewInvoiceGenerator(cfg.Files.RootDir, "assets/templates/invoice_template.png", cfg.Email.SenderName)
	invoiceService := services.NewInvoiceService(invoiceRepo, serviceRepo, pdfGen, emailService, cfg.Files.RootDir)

	dashboardService := services.NewDashboardService(dashboardRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	clientHandler := handlers.NewClientHandler(clientService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	serviceHandler := handlers.NewServiceHandler(serviceRecordService)
	serviceTypeHandler := handlers.NewServiceTypeHandler(serviceTypeService)
	workerHandler := handlers.NewWorkerHandler(workerService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		clientHandler,
		vehicleHandler,
		serviceHandler,
		serviceTypeHandler,
		workerHandler,
		invoiceHandler,
		notificationHandler,
		dashboardHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
