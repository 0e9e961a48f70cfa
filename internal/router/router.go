package router

import (
	"github.com/gin-gonic/gin"
	"github.com/crownpawn/titlepawn-backend/config"
	"github.com/crownpawn/titlepawn-backend/internal/app/controller"
	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	customerController  *controller.CustomerController
	vehicleController   *controller.VehicleController
	storeController     *controller.StoreController
	titlePawnController *controller.TitlePawnController
	feeController       *controller.FeeController
	vendorController    *controller.VendorController
	policyController    *controller.ApprovalPolicyController
	reportController    *controller.ReportController
	documentController  *controller.DocumentController
	eventController     *controller.EventController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	customerController *controller.CustomerController,
	vehicleController *controller.VehicleController,
	storeController *controller.StoreController,
	titlePawnController *controller.TitlePawnController,
	feeController *controller.FeeController,
	vendorController *controller.VendorController,
	policyController *controller.ApprovalPolicyController,
	reportController *controller.ReportController,
	documentController *controller.DocumentController,
	eventController *controller.EventController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		customerController:  customerController,
		vehicleController:   vehicleController,
		storeController:     storeController,
		titlePawnController: titlePawnController,
		feeController:       feeController,
		vendorController:    vendorController,
		policyController:    policyController,
		reportController:    reportController,
		documentController:  documentController,
		eventController:     eventController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Title pawn API is running",
		})
	})

	manager := []model.UserRole{model.RoleManager, model.RoleAdmin}
	admin := []model.UserRole{model.RoleAdmin}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/register-company", r.authController.RegisterCompany)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		users := v1.Group("/users")
		users.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(admin...))
		{
			users.GET("/:id/approval-policy", r.policyController.GetPolicy)
			users.PUT("/:id/approval-policy", r.policyController.SetPolicy)
		}

		customers := v1.Group("/customers")
		customers.Use(r.authMiddleware.Authenticate())
		{
			customers.GET("", r.customerController.ListCustomers)
			customers.POST("", r.customerController.CreateCustomer)
			customers.GET("/:id", r.customerController.GetCustomer)
			customers.PUT("/:id", r.customerController.UpdateCustomer)
			customers.POST("/:id/references", r.customerController.AddReference)
			customers.GET("/:id/vehicles", r.vehicleController.ListByCustomer)
		}

		vehicles := v1.Group("/vehicles")
		vehicles.Use(r.authMiddleware.Authenticate())
		{
			vehicles.POST("", r.vehicleController.CreateVehicle)
			vehicles.GET("/:id", r.vehicleController.GetVehicle)
			vehicles.PUT("/:id", r.vehicleController.UpdateVehicle)
			vehicles.POST("/:id/documents/presign", r.documentController.PresignUpload)
			vehicles.POST("/:id/documents", r.documentController.AttachDocument)
		}

		stores := v1.Group("/stores")
		stores.Use(r.authMiddleware.Authenticate())
		{
			stores.GET("", r.storeController.ListStores)
			stores.GET("/:id", r.storeController.GetStore)
			stores.GET("/:id/tiers", r.storeController.ListRateTiers)
			stores.GET("/:id/state-rules", r.storeController.ListStateRules)
			stores.GET("/:id/recommended-rate", r.storeController.RecommendedRate)

			stores.POST("",
				r.authMiddleware.RequireRole(admin...),
				r.storeController.CreateStore,
			)
			stores.PUT("/:id",
				r.authMiddleware.RequireRole(admin...),
				r.storeController.UpdateStore,
			)
		}

		tiers := v1.Group("/rate-tiers")
		tiers.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(admin...))
		{
			tiers.POST("", r.storeController.CreateRateTier)
			tiers.PUT("/:id", r.storeController.UpdateRateTier)
			tiers.DELETE("/:id", r.storeController.DeactivateRateTier)
		}

		stateRules := v1.Group("/state-rules")
		stateRules.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(admin...))
		{
			stateRules.POST("", r.storeController.CreateStateRule)
			stateRules.PUT("/:id", r.storeController.UpdateStateRule)
		}

		pawns := v1.Group("/title-pawns")
		pawns.Use(r.authMiddleware.Authenticate())
		{
			pawns.GET("", r.titlePawnController.ListTitlePawns)
			pawns.POST("", r.titlePawnController.CreateTitlePawn)
			pawns.GET("/:id", r.titlePawnController.GetTitlePawn)
			pawns.POST("/:id/sign", r.titlePawnController.SignContract)
			pawns.POST("/:id/payments", r.titlePawnController.ProcessPayment)
			pawns.POST("/:id/renew", r.titlePawnController.RenewLoan)
			pawns.GET("/:id/minimum-payment", r.titlePawnController.MinimumPayment)
			pawns.GET("/:id/payoff-quote", r.titlePawnController.PayoffQuote)
			pawns.GET("/:id/schedule", r.titlePawnController.Schedule)
			pawns.GET("/:id/compliance", r.titlePawnController.Compliance)
			pawns.GET("/:id/fees", r.feeController.ListFees)

			pawns.POST("/:id/approve",
				r.authMiddleware.RequireRole(manager...),
				r.titlePawnController.ApproveTitlePawn,
			)
			pawns.POST("/:id/fees",
				r.authMiddleware.RequireRole(manager...),
				r.feeController.AddFee,
			)
			pawns.POST("/:id/apply-late-fee",
				r.authMiddleware.RequireRole(manager...),
				r.feeController.ApplyLateFee,
			)
		}

		fees := v1.Group("/fees")
		fees.Use(r.authMiddleware.Authenticate())
		{
			fees.POST("/:id/waive",
				r.authMiddleware.RequireRole(manager...),
				r.feeController.WaiveFee,
			)
		}

		vendors := v1.Group("/vendors")
		vendors.Use(r.authMiddleware.Authenticate())
		{
			vendors.GET("", r.vendorController.ListVendors)
			vendors.GET("/:id", r.vendorController.GetVendor)

			vendors.POST("",
				r.authMiddleware.RequireRole(manager...),
				r.vendorController.CreateVendor,
			)
			vendors.PUT("/:id",
				r.authMiddleware.RequireRole(manager...),
				r.vendorController.UpdateVendor,
			)
			vendors.DELETE("/:id",
				r.authMiddleware.RequireRole(manager...),
				r.vendorController.DeactivateVendor,
			)
		}

		reports := v1.Group("/reports")
		reports.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(manager...))
		{
			reports.GET("/active-portfolio", r.reportController.ActivePortfolio)
			reports.GET("/payment-history", r.reportController.PaymentHistory)
		}

		events := v1.Group("/events")
		events.Use(r.authMiddleware.Authenticate())
		{
			events.GET("/ws", r.eventController.Subscribe)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
