package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/config"
	"github.com/cppla/excelanalytics/controllers"
	"github.com/cppla/excelanalytics/metrics"
	"github.com/cppla/excelanalytics/middleware"
	"github.com/cppla/excelanalytics/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	controllers.RegisterValidators()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.MaxMultipartMemory = int64(cfg.MaxUploadSizeMB) << 20
	r.Use(middleware.RequestID())
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		utils.Sugar.Warnf("access log disabled: %v", err)
		gl = utils.Logger
	}
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(metrics.Middleware())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authController := controllers.NewAuthController(db)
	adminController := controllers.NewAdminController(db)
	statsController := controllers.NewStatsController(db)
	uploadController := controllers.NewUploadController(db)
	chartController := controllers.NewChartController(db)
	analyzeController := controllers.NewAnalyzeController(db)
	configController := controllers.NewConfigController()

	api := r.Group("/api/v1")
	api.GET("/ping", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"message": "pong"})
	})
	api.GET("/config/charts", configController.GetCharts)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware("auth"))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), middleware.WithClaims(authController.Logout))
	authGroup.GET("/me", middleware.AuthRequired(), middleware.WithClaims(authController.Me))

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware("api"))

	protected.POST("/upload", middleware.WithClaims(uploadController.Upload))
	protected.GET("/upload/history", middleware.WithClaims(uploadController.History))
	protected.GET("/upload/:id", middleware.WithClaims(uploadController.Get))
	protected.DELETE("/upload/:id", middleware.WithClaims(uploadController.Delete))

	protected.POST("/charts/create", middleware.WithClaims(chartController.Create))
	protected.GET("/charts/user", middleware.WithClaims(chartController.ListMine))
	protected.GET("/charts/types-summary", middleware.WithClaims(chartController.TypesSummary))
	protected.GET("/charts/count", middleware.WithClaims(chartController.Count))
	protected.GET("/charts/types", middleware.WithClaims(chartController.Types))
	protected.DELETE("/charts/:id", middleware.WithClaims(chartController.Delete))

	protected.POST("/analyze/:uploadId", middleware.WithClaims(analyzeController.Analyze))

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.GET("/users", adminController.ListUsers)
	admin.DELETE("/user/:id", middleware.WithClaims(adminController.DeleteUser))
	admin.GET("/uploads", adminController.ListUploads)
	admin.GET("/charts", adminController.ListCharts)
	admin.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, utils.NotFound(40400, "route not found"))
	})
	r.NoMethod(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	return r
}
