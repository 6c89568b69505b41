package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/fingestao/fingestao-api/handlers"
	"github.com/fingestao/fingestao-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{
		DB:      db,
		Tokens:  services.NewTokenService(db),
		Limiter: services.NewLoginLimiter(),
	}

	rg.POST("/auth/register", authHandler.Register)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
	rg.POST("/auth/logout", authHandler.Logout)
}

// SetupUserRoutes sets up protected account routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{
		DB:     db,
		Tokens: services.NewTokenService(db),
	}

	rg.GET("/auth/me", authHandler.Me)
	rg.PATCH("/auth/settings", authHandler.UpdateSettings)
	rg.POST("/auth/2fa/setup", authHandler.SetupTOTP)
	rg.POST("/auth/2fa/verify", authHandler.VerifyTOTP)
	rg.POST("/auth/2fa/disable", authHandler.DisableTOTP)
}

// SetupCategoryRoutes sets up protected category routes.
func SetupCategoryRoutes(rg *gin.RouterGroup, db *sql.DB) {
	categoryHandler := &handlers.CategoryHandler{DB: db}

	rg.GET("/categories", categoryHandler.List)
	rg.POST("/categories", categoryHandler.Create)
	rg.GET("/categories/:id", categoryHandler.Get)
	rg.PATCH("/categories/:id", categoryHandler.Update)
	rg.DELETE("/categories/:id", categoryHandler.Delete)
}

// SetupTransactionRoutes sets up protected transaction routes.
func SetupTransactionRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	transactionHandler := &handlers.TransactionHandler{
		DB:  db,
		WS:  ws,
		Loc: services.ReferenceLocation(),
	}

	rg.GET("/transactions", transactionHandler.List)
	rg.POST("/transactions", transactionHandler.Create)
	rg.GET("/transactions/:id", transactionHandler.Get)
	rg.PATCH("/transactions/:id", transactionHandler.Update)
	rg.DELETE("/transactions/:id", transactionHandler.Delete)
}

// SetupGoalRoutes sets up protected goal routes.
func SetupGoalRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	goalHandler := &handlers.GoalHandler{DB: db, WS: ws}

	rg.GET("/goals", goalHandler.List)
	rg.POST("/goals", goalHandler.Create)
	rg.GET("/goals/:id", goalHandler.Get)
	rg.PATCH("/goals/:id", goalHandler.Update)
	rg.DELETE("/goals/:id", goalHandler.Delete)
}

// SetupReportRoutes sets up protected reporting routes.
func SetupReportRoutes(rg *gin.RouterGroup, db *sql.DB) {
	reportHandler := &handlers.ReportHandler{Reports: services.NewReportService(db)}

	rg.GET("/reports/monthly", reportHandler.Monthly)
	rg.GET("/reports/dashboard", reportHandler.Dashboard)
	rg.GET("/reports/export", reportHandler.Export)
}
