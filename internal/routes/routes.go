package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoclient/internal/handlers"
	"autoclient/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	clientHandler *handlers.ClientHandler,
	vehicleHandler *handlers.VehicleHandler,
	serviceHandler *handlers.ServiceHandler,
	serviceTypeHandler *handlers.ServiceTypeHandler,
	workerHandler *handlers.WorkerHandler,
	invoiceHandler *handlers.InvoiceHandler,
	notificationHandler *handlers.NotificationHandler,
	dashboardHandler *handlers.DashboardHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/verify-otp", authHandler.VerifyOtp)

	// ---- protected (isPublicPath внутри middleware пропускает PDF счетов)
	r.Use(middleware.AuthMiddleware())

	auth := r.Group("/auth")
	{
		auth.GET("/me", authHandler.Me)
		auth.GET("/devices", authHandler.ListDevices)
		auth.POST("/devices/:id/revoke", authHandler.RevokeDevice)
	}

	// CLIENTS
	clients := r.Group("/clients")
	{
		clients.GET("/", clientHandler.List)
		clients.POST("/", clientHandler.Create)
		clients.GET("/:id", clientHandler.Get)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", clientHandler.Delete)
		clients.GET("/:id/vehicles", vehicleHandler.ListByClient)
	}

	// VEHICLES
	vehicles := r.Group("/vehicles")
	{
		vehicles.GET("/", vehicleHandler.List)
		vehicles.POST("/", vehicleHandler.Create)
		vehicles.GET("/by-plate", vehicleHandler.GetByPlate)
		vehicles.GET("/by-client/:clientId", vehicleHandler.ListByClient)
		vehicles.GET("/:id", vehicleHandler.Get)
		vehicles.PUT("/:id", vehicleHandler.Update)
		vehicles.DELETE("/:id", vehicleHandler.Delete)
	}

	// SERVICES
	svc := r.Group("/services")
	{
		svc.GET("/", serviceHandler.List)
		svc.POST("/", serviceHandler.Create)
		svc.GET("/by-vehicle/:vehicleId", serviceHandler.ListByVehicle)
		svc.GET("/:id", serviceHandler.Get)
		svc.PUT("/:id/admin-update", serviceHandler.Update)
		svc.PUT("/:id/complete", serviceHandler.Complete)
		svc.PATCH("/:id/notes", serviceHandler.UpdateNotes)
	}

	// SERVICE TYPES
	types := r.Group("/service-types")
	{
		types.GET("/", serviceTypeHandler.List)
		types.POST("/", serviceTypeHandler.Create)
		types.DELETE("/:id", serviceTypeHandler.Delete)
	}

	// WORKERS
	workers := r.Group("/workers")
	{
		workers.GET("/", workerHandler.List)
		workers.POST("/", workerHandler.Create)
		workers.GET("/:id", workerHandler.Get)
		workers.GET("/:id/overview", workerHandler.Overview)
		workers.PUT("/:id", workerHandler.Update)
		workers.DELETE("/:id", workerHandler.Delete)
	}

	// INVOICES
	invoices := r.Group("/invoices")
	{
		invoices.POST("/", invoiceHandler.Create)
		invoices.POST("/from-service/:serviceId", invoiceHandler.CreateFromService)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.GET("/:id/pdf", invoiceHandler.Pdf)
	}

	// NOTIFICATIONS
	notif := r.Group("/notifications")
	{
		notif.GET("/settings", notificationHandler.GetSettings)
		notif.PUT("/settings", notificationHandler.UpdateSettings)
		notif.POST("/send", notificationHandler.Send)
		notif.POST("/services/:serviceId/completed-email", notificationHandler.ResendCompleted)
		notif.POST("/services/:serviceId/upcoming-email", notificationHandler.SendUpcoming)
		notif.GET("/upcoming", notificationHandler.Upcoming)
		notif.POST("/upcoming/send", notificationHandler.SendUpcomingBulk)
		notif.POST("/upcoming/scan", notificationHandler.ScanUpcoming)
		notif.GET("/logs", notificationHandler.Logs)
	}

	// DASHBOARD
	dash := r.Group("/dashboard")
	{
		dash.GET("/summary", dashboardHandler.Summary)
		dash.GET("/today-summary", dashboardHandler.TodaySummary)
		dash.GET("/top-clients", dashboardHandler.TopClients)
		dash.GET("/top-services", dashboardHandler.TopServices)
		dash.GET("/services-per-day", dashboardHandler.ServicesPerDay)
		dash.GET("/average-delivery-time", dashboardHandler.AverageDeliveryTime)
		dash.GET("/monthly-income", dashboardHandler.MonthlyIncome)
		dash.GET("/pending-services", dashboardHandler.PendingServices)
	}

	return r
}
