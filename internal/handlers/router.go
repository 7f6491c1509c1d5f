package handlers

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sjperalta/sitetrack-api/internal/config"
	"github.com/sjperalta/sitetrack-api/internal/middleware"
)

// SetupRouter registers every route. metricsHandler serves /metrics when set.
func SetupRouter(h *Handlers, cfg *config.Config, metricsHandler http.Handler) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	// CORS runs first so rejected tokens still reach browsers readable
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Identity(cfg.SessionSecret))
	router.Use(middleware.RequestLogger())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Index)
		v1.POST("/auth/login", h.Auth.Login)

		// Reads are open to anyone who can reach the API
		v1.GET("/companies", h.Directory.Companies)
		v1.GET("/engineers", h.Directory.Engineers)
		v1.GET("/sites", h.Directory.Sites)
		v1.GET("/assignments", h.Directory.Assignments)
		v1.GET("/allocations", h.Allocation.Index)
		v1.GET("/expenses", h.Expense.Index)
		v1.GET("/expenses/pending", h.Expense.Pending)
		v1.GET("/expenses/:expense_id/receipt", h.Expense.Receipt)
		v1.GET("/audits", h.Audit.Index)

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/sites", h.Dashboard.Sites)
			dashboard.GET("/engineers", h.Dashboard.Engineers)
		}

		// Static routes first so they are not matched as :table
		export := v1.Group("/export")
		{
			export.GET("/workbook", h.Export.Workbook)
			export.GET("/dashboard", h.Export.Dashboard)
			export.GET("/:table", h.Export.Table)
		}

		// Writes are audited under the caller's name
		writes := v1.Group("")
		writes.Use(middleware.RequireActor())
		{
			writes.POST("/companies", h.Directory.CreateCompany)
			writes.POST("/engineers", h.Directory.CreateEngineer)
			writes.POST("/sites", h.Directory.CreateSite)
			writes.POST("/assignments", h.Directory.AssignEngineer)
			writes.POST("/allocations", h.Allocation.Create)
			writes.POST("/expenses", h.Expense.Create)
			writes.POST("/expenses/:expense_id/approve", h.Expense.Approve)
			writes.POST("/expenses/:expense_id/reject", h.Expense.Reject)
		}
	}

	return router
}
