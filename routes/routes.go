package routes

import (
	"cargolink/internal/handlers"
	"cargolink/internal/middleware"
	"cargolink/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Package   *handlers.PackageHandler
	Offer     *handlers.OfferHandler
	Chat      *handlers.ChatHandler
	Invoice   *handlers.InvoiceHandler
	Tracking  *handlers.TrackingHandler
	Fleet     *handlers.FleetHandler
	Analytics *handlers.AnalyticsHandler
	WS        *websocket.Handler
}

func Setup(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	setupAuthRoutes(r, h.Auth, jwtSecret)
	setupPackageRoutes(r, h, jwtSecret)
	setupOfferRoutes(r, h.Offer, jwtSecret)
	setupChatRoutes(r, h.Chat, h.WS, jwtSecret)
	setupInvoiceRoutes(r, h.Invoice, jwtSecret)
	setupTrackingRoutes(r, h.Tracking, jwtSecret)
	setupFleetRoutes(r, h.Fleet, jwtSecret)
	setupAnalyticsRoutes(r, h.Analytics, jwtSecret)
}

func setupAuthRoutes(r *gin.RouterGroup, h *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}

	users := r.Group("/users")
	users.Use(middleware.AuthRequired(jwtSecret))
	{
		users.GET("/me", h.Me)
		users.PUT("/me", h.UpdateProfile)
		users.PUT("/me/password", h.ChangePassword)
	}
}

func setupPackageRoutes(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	// Public storefront, no auth.
	r.GET("/marketplace", h.Package.Marketplace)

	packages := r.Group("/packages")
	packages.Use(middleware.AuthRequired(jwtSecret))
	{
		packages.POST("", middleware.OwnerRequired(), h.Package.Create)
		packages.GET("", h.Package.List)
		packages.GET("/deliveries", middleware.TransporterRequired(), h.Package.CurrentDeliveries)
		packages.GET("/deliveries/loaded", middleware.TransporterRequired(), h.Package.LoadedPackages)

		packages.GET("/:id", h.Package.Get)
		packages.PUT("/:id", h.Package.Update)
		packages.DELETE("/:id", h.Package.Delete)

		packages.POST("/:id/book", middleware.TransporterRequired(), h.Package.Book)
		packages.POST("/:id/load", middleware.TransporterRequired(), h.Package.MarkLoaded)
		packages.POST("/:id/deliver", middleware.AdminRequired(), h.Package.Deliver)

		packages.POST("/:id/image", h.Package.UploadImage)
		packages.GET("/:id/image", h.Package.ImageURL)

		packages.GET("/:id/offers", h.Offer.ForPackage)
		packages.POST("/:id/invoice", h.Invoice.Generate)
		packages.GET("/:id/tracking", h.Tracking.GetForPackage)
	}
}

func setupOfferRoutes(r *gin.RouterGroup, h *handlers.OfferHandler, jwtSecret string) {
	offers := r.Group("/offers")
	offers.Use(middleware.AuthRequired(jwtSecret))
	{
		offers.POST("", middleware.TransporterRequired(), h.Create)
		offers.GET("", h.MyOffers)
		offers.GET("/:id", h.Get)
		offers.PUT("/:id/counter", h.Counter)
		offers.POST("/:id/accept", h.Accept)
		offers.POST("/:id/reject", h.Reject)
		offers.POST("/:id/book", middleware.TransporterRequired(), h.Book)
	}
}

func setupChatRoutes(r *gin.RouterGroup, h *handlers.ChatHandler, ws *websocket.Handler, jwtSecret string) {
	chat := r.Group("/chat")
	chat.Use(middleware.AuthRequired(jwtSecret))
	{
		chat.GET("/rooms", h.Rooms)
		chat.GET("/rooms/:room_id/messages", h.Messages)
		chat.GET("/messages/ongoing", h.Ongoing)
	}

	// Live connection: one room per (package, partner) pair.
	r.GET("/ws/chat/:package_id/:partner_id", middleware.AuthRequired(jwtSecret), ws.HandleChat)
}

func setupInvoiceRoutes(r *gin.RouterGroup, h *handlers.InvoiceHandler, jwtSecret string) {
	invoices := r.Group("/invoices")
	invoices.Use(middleware.AuthRequired(jwtSecret))
	{
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
		invoices.POST("/:id/paid", h.MarkPaid)
		invoices.GET("/:id/pdf", h.DownloadPDF)
	}
}

func setupTrackingRoutes(r *gin.RouterGroup, h *handlers.TrackingHandler, jwtSecret string) {
	tracking := r.Group("/tracking")
	tracking.Use(middleware.AuthRequired(jwtSecret))
	{
		tracking.POST("", h.Report)
		tracking.GET("", h.List)
		tracking.DELETE("/:id", h.Delete)
	}
}

func setupFleetRoutes(r *gin.RouterGroup, h *handlers.FleetHandler, jwtSecret string) {
	fleet := r.Group("/fleet")
	fleet.Use(middleware.AuthRequired(jwtSecret), middleware.TransporterRequired())
	{
		fleet.POST("/vehicles", h.CreateVehicle)
		fleet.GET("/vehicles", h.ListVehicles)
		fleet.GET("/vehicles/:id", h.GetVehicle)
		fleet.PUT("/vehicles/:id", h.UpdateVehicle)
		fleet.DELETE("/vehicles/:id", h.DeleteVehicle)

		fleet.POST("/staff", h.CreateStaff)
		fleet.GET("/staff", h.ListStaff)
		fleet.GET("/staff/:id", h.GetStaff)
		fleet.PUT("/staff/:id", h.UpdateStaff)
		fleet.DELETE("/staff/:id", h.DeleteStaff)

		fleet.GET("/crews", h.Crews)
	}
}

func setupAnalyticsRoutes(r *gin.RouterGroup, h *handlers.AnalyticsHandler, jwtSecret string) {
	analytics := r.Group("/analytics")
	analytics.Use(middleware.AuthRequired(jwtSecret))
	{
		analytics.GET("/dashboard", h.Dashboard)
	}
}
