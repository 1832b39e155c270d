// Package router wires services, handlers and middleware into the Gin engine.
package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expensetracker/internal/handlers"
	"expensetracker/internal/middleware"
	"expensetracker/internal/services"
	"expensetracker/web"
)

// Options configures the router.
type Options struct {
	Sessions       *middleware.SessionManager
	AllowedOrigins []string
}

// New builds the application router backed by db.
func New(db *gorm.DB, opts Options) (*gin.Engine, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("router: session manager is required")
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}

	// Initialize services
	clientService := services.NewClientService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db, categoryService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	expenseHandler := handlers.NewExpenseHandler(expenseService, categoryService, auditService)
	clientHandler := handlers.NewClientHandler(clientService, opts.Sessions, auditService)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(opts.Sessions.Load(clientService.FindClientByID))
	router.Use(middleware.ErrorHandler())

	router.StaticFS("/static", http.FS(static))

	// Health check endpoint
	router.GET("/health", healthHandler(db))

	// Public routes
	router.GET("/login", clientHandler.ShowLogin)
	router.POST("/login", clientHandler.ProcessLogin)
	router.GET("/register", clientHandler.ShowRegister)
	router.POST("/register", clientHandler.ProcessRegister)
	router.GET("/logout", clientHandler.Logout)

	// Session-gated routes
	protected := router.Group("/")
	protected.Use(opts.Sessions.Require())
	protected.GET("/", expenseHandler.Landing)
	protected.GET("/showAdd", expenseHandler.ShowAdd)
	protected.POST("/submitAdd", expenseHandler.SubmitAdd)
	protected.GET("/list", expenseHandler.List)
	protected.GET("/showUpdate", expenseHandler.ShowUpdate)
	protected.POST("/submitUpdate", expenseHandler.SubmitUpdate)
	protected.GET("/delete", expenseHandler.Delete)
	protected.POST("/delete", expenseHandler.Delete)
	protected.POST("/processFilter", expenseHandler.ProcessFilter)

	return router, nil
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
