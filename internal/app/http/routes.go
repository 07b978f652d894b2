package routes

import (
	adminapi "armonia-backend/internal/api/admin"
	assembliesapi "armonia-backend/internal/api/assemblies"
	authapi "armonia-backend/internal/api/auth"
	billingapi "armonia-backend/internal/api/billing"
	documentsapi "armonia-backend/internal/api/documents"
	inventoryapi "armonia-backend/internal/api/inventory"
	meteringapi "armonia-backend/internal/api/metering"
	notificationsapi "armonia-backend/internal/api/notifications"
	pqrapi "armonia-backend/internal/api/pqr"
	reservationsapi "armonia-backend/internal/api/reservations"
	securityapi "armonia-backend/internal/api/security"
	usersapi "armonia-backend/internal/api/users"
	"armonia-backend/internal/app/http/middleware"
	"armonia-backend/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries the handlers that need injected services; the rest are plain
// package functions over the tenant db.
type Deps struct {
	Billing       *billingapi.Handler
	Metering      *meteringapi.Handler
	Notifications *notificationsapi.Handler
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/")
	public.Use(middleware.SanitizeInput())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", authapi.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated, shared schema
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)

	// Authenticated, scoped to the caller's tenant schema
	tenant := auth.Group("/")
	tenant.Use(middleware.TenantScope())

	adminOnly := middleware.RequireRole(users.RoleComplexAdmin, users.RoleAdmin)
	staff := middleware.RequireRole(users.RoleComplexAdmin, users.RoleAdmin, users.RoleReception)

	tenant.POST("/payments", deps.Billing.CreatePayment)
	tenant.GET("/payments", deps.Billing.GetPaymentHistory)
	tenant.GET("/payments/:id", deps.Billing.GetTransactionStatus)
	tenant.POST("/payments/:id/confirm", deps.Billing.ConfirmPayment)
	tenant.POST("/payments/:id/refund", adminOnly, deps.Billing.ProcessRefund)

	tenant.GET("/common-areas", reservationsapi.ListCommonAreas)
	tenant.POST("/common-areas", adminOnly, reservationsapi.CreateCommonArea)
	tenant.GET("/reservations", reservationsapi.ListReservations)
	tenant.POST("/reservations", reservationsapi.CreateReservation)
	tenant.POST("/reservations/:id/pay", deps.Billing.CreateReservationPayment)
	tenant.POST("/reservations/:id/cancel", reservationsapi.CancelReservation)
	tenant.POST("/reservations/:id/decide", adminOnly, reservationsapi.DecideReservation)

	tenant.POST("/pqr", pqrapi.CreateTicket)
	tenant.GET("/pqr", pqrapi.ListTickets)
	tenant.PUT("/pqr/:id/status", staff, pqrapi.UpdateTicketStatus)
	tenant.GET("/pqr/report", adminOnly, pqrapi.GetReport)

	tenant.POST("/assemblies", adminOnly, assembliesapi.CreateAssembly)
	tenant.GET("/assemblies", assembliesapi.ListAssemblies)
	tenant.POST("/assemblies/:id/items", adminOnly, assembliesapi.AddAgendaItem)
	tenant.PUT("/agenda-items/:id/voting", adminOnly, assembliesapi.SetVotingOpen)
	tenant.POST("/agenda-items/:id/votes", assembliesapi.CastVote)
	tenant.GET("/agenda-items/:id/tally", assembliesapi.GetTally)

	tenant.GET("/properties", inventoryapi.ListProperties)
	tenant.POST("/properties", adminOnly, inventoryapi.CreateProperty)
	tenant.PUT("/properties/:id", adminOnly, inventoryapi.UpdateProperty)
	tenant.GET("/residents", staff, inventoryapi.ListResidents)
	tenant.POST("/residents", adminOnly, inventoryapi.CreateResident)
	tenant.GET("/vehicles", staff, inventoryapi.ListVehicles)
	tenant.POST("/vehicles", inventoryapi.CreateVehicle)
	tenant.GET("/pets", staff, inventoryapi.ListPets)
	tenant.POST("/pets", inventoryapi.CreatePet)

	tenant.POST("/security/incidents", staff, securityapi.CreateIncident)
	tenant.GET("/security/incidents", staff, securityapi.ListIncidents)

	tenant.GET("/documents", documentsapi.ListDocuments)
	tenant.POST("/documents", adminOnly, documentsapi.CreateDocument)
	tenant.DELETE("/documents/:id", adminOnly, documentsapi.DeleteDocument)

	tenant.POST("/metering/meters", adminOnly, deps.Metering.RegisterMeter)
	tenant.POST("/metering/readings", staff, deps.Metering.CreateReading)
	tenant.GET("/metering/readings", deps.Metering.ListReadings)
	tenant.POST("/metering/rates", adminOnly, deps.Metering.CreateRate)
	tenant.POST("/metering/billing", adminOnly, deps.Metering.GenerateBilling)
	tenant.POST("/metering/readings/process", adminOnly, deps.Metering.ProcessPending)

	tenant.POST("/notifications", adminOnly, deps.Notifications.Schedule)

	// Platform admin
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(users.RoleAdmin))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.GET("/complexes", adminapi.ListComplexes)
	admin.POST("/complexes", authapi.RegisterComplex)
}
