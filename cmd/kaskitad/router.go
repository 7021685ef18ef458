package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kaskita/internal/handlers"
	"kaskita/internal/middleware"
	"kaskita/internal/services"
)

// deps is everything the router needs to mount the API.
type deps struct {
	APIKey   string
	Sessions middleware.SessionChecker

	Auth         services.AuthServicer
	Settings     services.SettingsServicer
	Periods      services.PeriodServicer
	Assets       services.AssetServicer
	Savings      services.SavingServicer
	Loans        services.LoanServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Statistics   services.StatisticServicer
	Overview     services.OverviewServicer
}

func newRouter(d deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(d.Auth)
	settingsHandler := handlers.NewSettingsHandler(d.Settings, d.Periods)
	assetHandler := handlers.NewAssetHandler(d.Assets)
	savingHandler := handlers.NewSavingHandler(d.Savings)
	loanHandler := handlers.NewLoanHandler(d.Loans)
	categoryHandler := handlers.NewCategoryHandler(d.Categories)
	budgetHandler := handlers.NewBudgetHandler(d.Categories, d.Periods)
	transactionHandler := handlers.NewTransactionHandler(d.Transactions)
	statisticHandler := handlers.NewStatisticHandler(d.Statistics, d.Overview, d.Periods)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "authenticated": d.Sessions.Authenticated()})
	})

	v1 := router.Group("/api/v1", middleware.APIKeyAuth(d.APIKey))

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.GetSession)

	// Routes that need a backend session
	protected := v1.Group("/")
	protected.Use(middleware.RequireSession(d.Sessions))

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)

	period := protected.Group("/period")
	period.GET("", settingsHandler.GetPeriod)
	period.PUT("", settingsHandler.SelectPeriod)
	period.POST("/shift", settingsHandler.ShiftPeriod)
	period.POST("/reset", settingsHandler.ResetPeriod)

	protected.GET("/asset-categories", assetHandler.ListAssetCategories)
	assets := protected.Group("/assets")
	assets.GET("", assetHandler.ListAssets)
	assets.POST("", assetHandler.CreateAsset)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)

	savings := protected.Group("/savings")
	savings.GET("", savingHandler.ListSavings)
	savings.POST("", savingHandler.CreateSaving)
	savings.PUT("/:id", savingHandler.UpdateSaving)
	savings.DELETE("/:id", savingHandler.DeleteSaving)

	loans := protected.Group("/loans")
	loans.GET("", loanHandler.ListLoans)
	loans.POST("", loanHandler.CreateLoan)
	loans.PUT("/:id", loanHandler.UpdateLoan)
	loans.DELETE("/:id", loanHandler.DeleteLoan)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.GET("/:id/budget", budgetHandler.ResolveBudget)
	categories.GET("/:id/budgets/:year", budgetHandler.YearGrid)
	protected.POST("/budgets", budgetHandler.SaveBudget)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/daily", transactionHandler.Daily)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/voice", transactionHandler.CreateByVoice)
	transactions.POST("/images/retry", transactionHandler.RetryPendingImages)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.GET("/:id/draft", transactionHandler.GetEditDraft)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	statistics := protected.Group("/statistics")
	statistics.GET("/monthly", statisticHandler.Monthly)
	statistics.GET("/breakdown", statisticHandler.Breakdown)
	statistics.GET("/budgeting", statisticHandler.Budgeting)
	protected.GET("/overview", statisticHandler.Overview)

	return router
}
